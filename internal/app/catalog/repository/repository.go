package repository

import (
	"context"
	"errors"

	"catalogo/internal/app/catalog/entity"

	"github.com/shopspring/decimal"
)

// Стандартные ошибки репозиториев для обработки в service layer
var (
	ErrCategoryNotFound      = errors.New("category not found")
	ErrCategoryAlreadyExists = errors.New("category with this name already exists")
	ErrProductNotFound       = errors.New("product not found")
)

// CategoryRepository - CRUD категорий плюс поиск по имени
// Проверка уникальности имени остается на вызывающей стороне (GetByName перед
// Insert); уникальный индекс в БД - вторая линия защиты от гонки
type CategoryRepository interface {
	GetAll(ctx context.Context) ([]entity.CategoryView, error)
	GetViewByID(ctx context.Context, id uint) (*entity.CategoryView, error)
	GetByID(ctx context.Context, id uint) (*entity.Category, error)
	GetByName(ctx context.Context, name string) (*entity.Category, error)
	Insert(ctx context.Context, category *entity.Category) error
	Update(ctx context.Context, category *entity.Category) error
	Delete(ctx context.Context, id uint) error
}

// ProductRepository - CRUD товаров плюс постраничная выборка
// Read-модели денормализуют имя категории JOIN-ом при каждом чтении
type ProductRepository interface {
	GetAllViews(ctx context.Context) ([]entity.ProductView, error)
	GetPaged(ctx context.Context, pageNumber, pageSize int, categoryID *uint) (*entity.PagedResult[entity.ProductView], error)
	GetViewByID(ctx context.Context, id uint) (*entity.ProductView, error)
	GetByID(ctx context.Context, id uint) (*entity.Product, error)
	Insert(ctx context.Context, product *entity.Product) error
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id uint) error
}

// ReportRepository - пять независимых агрегатов по текущему состоянию БД
// Без общего снапшота: при конкурентных записях числа могут расходиться
// на одну запись между собой
type ReportRepository interface {
	TotalProducts(ctx context.Context) (int64, error)
	AveragePrice(ctx context.Context) (decimal.Decimal, error)
	TotalValue(ctx context.Context) (decimal.Decimal, error)
	TotalCategories(ctx context.Context) (int64, error)
	ProductsPerCategory(ctx context.Context) ([]entity.CategorySummary, error)
}
