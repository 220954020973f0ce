// Package helpers holds the small cross-cutting pieces every entry point
// in this module needs: struct validation and config/payload error
// formatting, styled on the teacher's own helpers package.
package helpers

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// NewValidator builds a *validator.Validate that reports field names
// from `json` tags instead of Go field names, so validation errors match
// the wire shape callers actually see.
func NewValidator() (*validator.Validate, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return validate, nil
}

// Check validates s against its `validate` struct tags, wrapping any
// failure in this module's error taxonomy.
func Check(s any) error {
	validate, err := NewValidator()
	if err != nil {
		return err
	}
	if err := validate.Struct(s); err != nil {
		return NewErrorFromError(err)
	}
	return nil
}
