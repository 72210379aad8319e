package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category представляет категорию товаров каталога
// Имя хранится в нормализованном виде (каждое слово с заглавной буквы)
// и защищено уникальным индексом на уровне БД
type Category struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:100;not null;uniqueIndex"`
	Products  []Product `json:"-" gorm:"foreignKey:CategoryID"`
	CreatedAt time.Time `json:"created_at"`
}

// Product представляет товар в каталоге
// CategoryID - слабая ссылка на категорию, разрешается JOIN-ом при чтении
type Product struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Name        string          `json:"name" gorm:"size:100;not null"`
	Description string          `json:"description" gorm:"size:500"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	CategoryID  uint            `json:"category_id" gorm:"not null;index"`
	Category    *Category       `json:"-" gorm:"foreignKey:CategoryID"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Типы событий каталога для Kafka
const (
	EventCategoryCreated = "CATEGORY_CREATED"
	EventCategoryUpdated = "CATEGORY_UPDATED"
	EventCategoryDeleted = "CATEGORY_DELETED"
	EventProductCreated  = "PRODUCT_CREATED"
	EventProductUpdated  = "PRODUCT_UPDATED"
	EventProductDeleted  = "PRODUCT_DELETED"
)

// CatalogEvent представляет событие изменения каталога для Kafka
type CatalogEvent struct {
	EventType  string          `json:"event_type"`
	EntityID   uint            `json:"entity_id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price,omitempty"`
	CategoryID uint            `json:"category_id,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
}
