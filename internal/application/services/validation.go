package services

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/pokedex/core/internal/domain/entities"
)

// TagPokemonType is the validator tag accepting a known pokemon type
const TagPokemonType = "pokemontype"

// NewValidator returns a validator that understands the pokemontype tag
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation(TagPokemonType, func(fl validator.FieldLevel) bool {
		return entities.IsValidType(fl.Field().String())
	})
	return v
}

// validateRequest checks req and converts the first failure into a domain
// error. Missing fields win over the type count, which wins over unknown types.
func validateRequest(v *validator.Validate, req interface{}) error {
	err := v.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return entities.WrapError(entities.KindValidation, err, entities.MsgMissingData)
	}

	var missing, tooMany, invalidType, other bool
	for _, fe := range fieldErrors {
		switch fe.Tag() {
		case "required":
			missing = true
		case "max":
			tooMany = true
		case TagPokemonType:
			invalidType = true
		default:
			other = true
		}
	}

	switch {
	case missing:
		return entities.NewError(entities.KindValidation, entities.MsgMissingData)
	case tooMany:
		return entities.NewError(entities.KindValidation, entities.MsgTooManyTypes)
	case invalidType:
		return entities.NewError(entities.KindInvalidType, entities.MsgInvalidType)
	case other:
		return entities.NewError(entities.KindValidation, "Pokemon id must be a positive integer.")
	}

	return nil
}
