package server

import (
	"net/http"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/labstack/echo/v4"
)

// jsonSerializer plugs the json v2 codec into echo. Nil slices are written
// as [] so list responses are never null.
type jsonSerializer struct{}

// Serialize implements echo.JSONSerializer
func (jsonSerializer) Serialize(c echo.Context, i interface{}, indent string) error {
	if indent != "" {
		return json.MarshalWrite(c.Response(), i, jsontext.WithIndent(indent))
	}
	return json.MarshalWrite(c.Response(), i)
}

// Deserialize implements echo.JSONSerializer
func (jsonSerializer) Deserialize(c echo.Context, i interface{}) error {
	if err := json.UnmarshalRead(c.Request().Body, i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON body").SetInternal(err)
	}
	return nil
}
