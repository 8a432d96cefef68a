package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = func() *validator.Validate {
	v := validator.New()
	// Report fields by their wire names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}()

// InvalidError is a payload rejected before it was sent.
type InvalidError struct {
	Problems []string
	Err      error
}

func (e *InvalidError) Error() string {
	return "invalid payload: " + e.Detail()
}

// Detail returns the problems worded for the user.
func (e *InvalidError) Detail() string {
	return strings.Join(e.Problems, "; ")
}

func (e *InvalidError) Unwrap() error { return e.Err }

// Validate checks a payload's validate tags before it is sent. Field
// failures are returned as an *InvalidError.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		return err
	}
	problems := make([]string, len(fields))
	for i, fe := range fields {
		problems[i] = describe(fe)
	}
	return &InvalidError{Problems: problems, Err: err}
}

func describe(fe validator.FieldError) string {
	field := strings.ReplaceAll(fe.Field(), "_", " ")
	unit := ""
	if fe.Kind() == reflect.String {
		unit = " characters"
	}
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return "invalid email address"
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s%s", field, fe.Param(), unit)
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s%s", field, fe.Param(), unit)
	}
	return "invalid " + field
}
