package e

import (
	"errors"
	"fmt"
)

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = fmt.Errorf("transaction not found")

	// Ошибки конфигурации
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect environment variable")

	// Доменные ошибки
	ErrEntityValidation = fmt.Errorf("entity validation failed")
	ErrCategoryNotFound = fmt.Errorf("category not found")

	// 400 Bad Request
	ErrStatusBadRequest  = fmt.Errorf("bad request")
	ErrInvalidCategoryID = fmt.Errorf("invalid category id")
	ErrInvalidPagination = fmt.Errorf("invalid pagination parameters")
	ErrInvalidSort       = fmt.Errorf("invalid sort parameters")
	ErrInvalidJSON       = fmt.Errorf("invalid json body")

	// 500 Internal Server Error
	ErrInternalServerError = fmt.Errorf("internal server error")
)

// EntityValidationError — нарушение инварианта сущности.
// Сообщение сравнивается вызывающей стороной дословно, поэтому Error() возвращает его без префиксов.
type EntityValidationError struct {
	Message string
}

func NewEntityValidationError(message string) *EntityValidationError {
	return &EntityValidationError{Message: message}
}

func (err *EntityValidationError) Error() string {
	return err.Message
}

// Is позволяет проверять ошибку через errors.Is(err, ErrEntityValidation).
func (err *EntityValidationError) Is(target error) bool {
	return target == ErrEntityValidation
}

// AsEntityValidation достаёт EntityValidationError из цепочки обёрток.
func AsEntityValidation(err error) (*EntityValidationError, bool) {
	var validationErr *EntityValidationError
	if errors.As(err, &validationErr) {
		return validationErr, true
	}

	return nil, false
}

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
