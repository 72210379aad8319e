package util

import (
	"context"
	"time"

	"catalogo/internal/app/catalog/entity"
)

// CategoryCache интерфейс для работы с кешем категорий
// Используется для dependency injection и упрощения тестирования
type CategoryCache interface {
	SetCategories(ctx context.Context, categories []entity.CategoryView, ttl time.Duration) error
	GetCategories(ctx context.Context) ([]entity.CategoryView, error)
	DeleteCategories(ctx context.Context) error
	Close() error
}

// MessagePublisher интерфейс для отправки событий в очередь (Kafka)
type MessagePublisher interface {
	PublishMessage(ctx context.Context, key string, value []byte) error
	Close() error
}
