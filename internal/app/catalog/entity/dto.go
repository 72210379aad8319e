package entity

import "github.com/shopspring/decimal"

// Read-модели каталога: проекции для API, никогда не сохраняются в БД

// ProductSummary - упрощенная форма товара внутри CategoryView
type ProductSummary struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

// CategoryView - категория вместе с вложенными товарами
type CategoryView struct {
	ID       uint             `json:"id"`
	Name     string           `json:"name"`
	Products []ProductSummary `json:"products"`
}

// ProductView - товар с денормализованным именем категории
// Имя категории подтягивается JOIN-ом при каждом чтении, не кешируется
type ProductView struct {
	ID           uint            `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	CategoryID   uint            `json:"category_id"`
	CategoryName string          `json:"category_name"`
}

// PagedResult - страница выборки с общим количеством после фильтрации
type PagedResult[T any] struct {
	Items      []T   `json:"items"`
	TotalItems int64 `json:"total_items"`
	PageNumber int   `json:"page_number"`
	PageSize   int   `json:"page_size"`
}

// CategorySummary - количество товаров в одной категории
type CategorySummary struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// CatalogSummary - агрегированная статистика каталога
// Пять независимых запросов без общего снапшота (см. ReportRepository)
type CatalogSummary struct {
	TotalProducts       int64             `json:"total_products"`
	AveragePrice        decimal.Decimal   `json:"average_price"`
	TotalValue          decimal.Decimal   `json:"total_value"`
	TotalCategories     int64             `json:"total_categories"`
	ProductsPerCategory []CategorySummary `json:"products_per_category"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
