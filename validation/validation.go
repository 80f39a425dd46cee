package validation

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/kbukum/apiclient/errors"
)

var (
	validate *validator.Validate
	once     sync.Once
)

// FieldError describes one failed field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is returned by Struct. It wraps the Setup ClientError so callers
// can use the errors package helpers and still reach the field list.
type Error struct {
	Fields []FieldError
	err    *errors.ClientError
}

func (e *Error) Error() string { return e.err.Error() }

// Unwrap exposes the Setup ClientError.
func (e *Error) Unwrap() error { return e.err }

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"json", "mapstructure"} {
				name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
				if name != "" && name != "-" {
					return name
				}
			}
			return toSnakeCase(fld.Name)
		})
		_ = validate.RegisterValidation("endpoint", isEndpoint)
	})
	return validate
}

// Struct validates s using its `validate` tags.
func Struct(s any) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.Setup("validation failed").WithCause(err)
	}

	fields := make([]FieldError, 0, len(verrs))
	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		name := fieldPath(fe)
		msg := describe(fe)
		fields = append(fields, FieldError{Field: name, Message: msg})
		messages = append(messages, name+" "+msg)
	}
	return &Error{
		Fields: fields,
		err:    errors.Setup("invalid " + strings.Join(messages, "; ")),
	}
}

// isEndpoint accepts a path starting with "/" or an absolute http(s) URL.
func isEndpoint(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return strings.HasPrefix(s, "/") ||
		strings.HasPrefix(s, "http://") ||
		strings.HasPrefix(s, "https://")
}

// fieldPath drops the top-level struct name from the namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "url":
		return "must be a valid URL"
	case "endpoint":
		return "must start with / or be an absolute http(s) URL"
	case "required_if":
		return "is required when " + fe.Param()
	default:
		return "is invalid"
	}
}

func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
