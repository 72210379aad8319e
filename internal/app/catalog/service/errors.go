package service

import (
	"errors"
	"fmt"

	"catalogo/internal/app/catalog/command"
)

// Ошибки бизнес-логики для обработки в handlers
var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrProductNotFound  = errors.New("product not found")
)

// ValidationError несет нотификации отклоненной команды
// Всегда восстановимо вызывающей стороной (client error), не ретраится
type ValidationError struct {
	Notifications []command.Notification
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d notification(s)", len(e.Notifications))
}

// ConflictError - нарушение уникальности имени категории
// Та же форма что и ValidationError, но с одной нотификацией
type ConflictError struct {
	Notification command.Notification
}

func (e *ConflictError) Error() string {
	return e.Notification.Message
}

func duplicateNameConflict() *ConflictError {
	return &ConflictError{Notification: command.Notification{
		Key:     "category",
		Message: "a category with this name already exists",
	}}
}
