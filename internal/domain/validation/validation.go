// Package validation содержит чистые проверки полей доменных сущностей.
// Каждая функция возвращает nil или *e.EntityValidationError с готовым сообщением.
package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/DRSN-tech/catalog-admin/pkg/e"
)

// Option настраивает отдельный вызов проверки.
type Option func(*options)

type options struct {
	message string
}

// WithMessage подменяет стандартное сообщение об ошибке.
func WithMessage(message string) Option {
	return func(o *options) {
		o.message = message
	}
}

// NotNull проверяет, что значение задано.
func NotNull[T any](value *T, field string, opts ...Option) error {
	if value == nil {
		return fail(fmt.Sprintf("%s should not be null", field), opts)
	}

	return nil
}

// NotNullOrEmpty проверяет, что строка задана и не состоит из одних пробелов.
func NotNullOrEmpty(value *string, field string, opts ...Option) error {
	if value == nil || strings.TrimSpace(*value) == "" {
		return fail(fmt.Sprintf("%s should not be null or empty", field), opts)
	}

	return nil
}

// MinLength проверяет минимальную длину строки без учёта крайних пробелов.
// Присутствие значения должно быть проверено заранее.
func MinLength(value string, min int, field string, opts ...Option) error {
	if utf8.RuneCountInString(strings.TrimSpace(value)) < min {
		return fail(fmt.Sprintf("%s should be at least %d characters long", field, min), opts)
	}

	return nil
}

// MaxLength проверяет максимальную длину строки.
func MaxLength(value string, max int, field string, opts ...Option) error {
	if utf8.RuneCountInString(value) > max {
		return fail(fmt.Sprintf("%s should be less or equal %d characters long", field, max), opts)
	}

	return nil
}

func fail(defaultMessage string, opts []Option) error {
	o := options{message: defaultMessage}
	for _, opt := range opts {
		opt(&o)
	}

	return e.NewEntityValidationError(o.message)
}
