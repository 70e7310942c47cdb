package prefs

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Schema validates a decoded value
type Schema[T any] interface {
	Validate(T) error
}

// SchemaFunc adapts a plain function to Schema
type SchemaFunc[T any] func(T) error

func (f SchemaFunc[T]) Validate(v T) error {
	return f(v)
}

// TagSchema validates values against a validator tag such as
// "oneof=dark light system"
func TagSchema[T any](tag string) Schema[T] {
	return SchemaFunc[T](func(v T) error {
		return validate.Var(v, tag)
	})
}

// StructSchema validates struct values using their `validate` field tags
func StructSchema[T any]() Schema[T] {
	return SchemaFunc[T](func(v T) error {
		return validate.Struct(v)
	})
}
