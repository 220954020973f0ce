package helpers

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Error is the shape every config- or payload-validation failure is
// reported in: a short machine-readable Title plus structured Err detail.
type Error struct {
	Title string `json:"title"`
	Err   any    `json:"details"`
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %+v", e.Title, e.Err)
	}
	return e.Title
}

// NewError builds an Error with no detail.
func NewError(title string) *Error {
	return &Error{Title: title}
}

// NewErrorDetails builds an Error carrying arbitrary structured detail.
func NewErrorDetails(title string, detail any) *Error {
	return &Error{Title: title, Err: detail}
}

// NewErrorFromError classifies err into an Error, recognizing the
// validator and encoding/json failure shapes this module's config and
// payload parsing produce.
func NewErrorFromError(err error) *Error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok {
		return e
	}
	if typeErr, ok := err.(*json.UnmarshalTypeError); ok {
		return NewErrorDetails("json_type_error", map[string]any{
			"field": typeErr.Field, "expected": typeErr.Type.Kind().String(), "actual": typeErr.Value,
		})
	}
	if syntaxErr, ok := err.(*json.SyntaxError); ok {
		return NewErrorDetails("json_syntax_error", map[string]any{"offset": syntaxErr.Offset})
	}
	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		return NewErrorDetails("validation_error", formatValidationErrors(validationErrs))
	}
	return NewErrorDetails("internal_error", err.Error())
}

func formatValidationErrors(errs validator.ValidationErrors) []map[string]any {
	out := make([]map[string]any, 0, len(errs))
	for _, e := range errs {
		namespace := e.Namespace()
		if idx := strings.IndexByte(namespace, '.'); idx >= 0 {
			namespace = namespace[idx+1:]
		}
		out = append(out, map[string]any{
			"field":     e.Field(),
			"namespace": namespace,
			"tag":       e.Tag(),
			"param":     e.Param(),
		})
	}
	return out
}
