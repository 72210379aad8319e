package service

import (
	"context"

	"catalogo/internal/app/catalog/command"
	"catalogo/internal/app/catalog/entity"
)

// CatalogServiceInterface - контракт сервиса каталога для transport layer
type CatalogServiceInterface interface {
	GetAllCategories(ctx context.Context) ([]entity.CategoryView, error)
	GetCategory(ctx context.Context, id uint) (*entity.CategoryView, error)
	CreateCategory(ctx context.Context, cmd *command.InsertCategory) (*entity.Category, error)
	UpdateCategory(ctx context.Context, cmd *command.UpdateCategory) (*entity.Category, error)
	DeleteCategory(ctx context.Context, id uint) error

	GetAllProducts(ctx context.Context) ([]entity.ProductView, error)
	GetPagedProducts(ctx context.Context, pageNumber, pageSize int, categoryID *uint) (*entity.PagedResult[entity.ProductView], error)
	GetProduct(ctx context.Context, id uint) (*entity.ProductView, error)
	CreateProduct(ctx context.Context, cmd *command.InsertProduct) (*entity.Product, error)
	UpdateProduct(ctx context.Context, cmd *command.UpdateProduct) (*entity.Product, error)
	DeleteProduct(ctx context.Context, id uint) error

	GetSummary(ctx context.Context) (*entity.CatalogSummary, error)
}
