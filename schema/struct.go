package schema

import (
	"context"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
)

var (
	validate *validator.Validate
	once     sync.Once
)

// getValidator returns the shared validator instance.
func getValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Report json names in issue paths.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// Struct returns a Schema that decodes the input into T and then checks
// `validate` struct tags.
//
// Decoding is weakly typed: "42" becomes 42 for numeric fields, "true"
// becomes true, and so on. Field names follow `json` tags.
func Struct[T any]() Schema[T] {
	return structSchema[T]{}
}

type structSchema[T any] struct{}

func (structSchema[T]) Validate(_ context.Context, input any) (Result[T], error) {
	var out T
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &out,
		TagName:          "json",
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToTimeHookFunc("2006-01-02T15:04:05Z07:00"),
		),
	})
	if err != nil {
		return Result[T]{}, err
	}
	if err := dec.Decode(input); err != nil {
		return Fail[T](Issue{Message: err.Error()}), nil
	}

	if !isStruct(out) {
		return Ok(out), nil
	}

	err = getValidator().Struct(out)
	if err == nil {
		return Ok(out), nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return Fail[T](Issue{Message: err.Error()}), nil
	}

	issues := make([]Issue, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		issues = append(issues, Issue{
			Message: formatFieldError(fe),
			Path:    splitNamespace(fe.Namespace()),
		})
	}
	return Fail[T](issues...), nil
}

func isStruct(v any) bool {
	t := reflect.TypeOf(v)
	if t == nil {
		return false
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct
}

// splitNamespace turns "User.address.city" into ["address", "city"].
func splitNamespace(ns string) []any {
	parts := strings.Split(ns, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	path := make([]any, len(parts))
	for i, p := range parts {
		path[i] = p
	}
	return path
}

// formatFieldError creates a human-readable message for a failed tag.
func formatFieldError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + e.Param()
	case "max":
		return "must be at most " + e.Param()
	case "gt":
		return "must be greater than " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lt":
		return "must be less than " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	case "url":
		return "must be a valid URL"
	case "uuid":
		return "must be a valid UUID"
	case "oneof":
		return "must be one of: " + e.Param()
	default:
		return "failed on the '" + e.Tag() + "' rule"
	}
}
