package entities

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"
)

// Measurement ranges used when fabricating a pokemon's body size
const (
	HeightMin  = 1.0
	HeightMax  = 10.0
	HeightUnit = "m"
	WeightMin  = 10.0
	WeightMax  = 50.0
	WeightUnit = "kg"
)

// Measurement is a numeric magnitude with an optional unit. On the wire it is
// either "<value> <unit>" or a bare number when the unit is empty.
type Measurement struct {
	Value float64
	Unit  string
}

// RandomMeasurement returns a value in [min, max] rounded to two decimals
func RandomMeasurement(min, max float64, unit string) Measurement {
	v := min + rand.Float64()*(max-min)
	return Measurement{Value: math.Round(v*100) / 100, Unit: unit}
}

// RandomHeight fabricates a height in meters
func RandomHeight() Measurement {
	return RandomMeasurement(HeightMin, HeightMax, HeightUnit)
}

// RandomWeight fabricates a weight in kilograms
func RandomWeight() Measurement {
	return RandomMeasurement(WeightMin, WeightMax, WeightUnit)
}

func (m Measurement) String() string {
	v := strconv.FormatFloat(m.Value, 'f', -1, 64)
	if m.Unit == "" {
		return v
	}
	return v + " " + m.Unit
}

// MarshalJSON implements json.Marshaler
func (m Measurement) MarshalJSON() ([]byte, error) {
	if m.Unit == "" {
		return []byte(strconv.FormatFloat(m.Value, 'f', -1, 64)), nil
	}
	return json.Marshal(m.String())
}

// UnmarshalJSON implements json.Unmarshaler
func (m *Measurement) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*m = Measurement{}
		return nil
	}

	if data[0] != '"' {
		v, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return fmt.Errorf("measurement: %w", err)
		}
		*m = Measurement{Value: v}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("measurement: %w", err)
	}
	parsed, err := ParseMeasurement(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ParseMeasurement parses "<value>[ <unit>]"
func ParseMeasurement(s string) (Measurement, error) {
	s = strings.TrimSpace(s)
	value, unit, _ := strings.Cut(s, " ")
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return Measurement{}, fmt.Errorf("measurement %q: %w", s, err)
	}
	return Measurement{Value: v, Unit: strings.TrimSpace(unit)}, nil
}
