package repository

import (
	"context"
	"errors"
	"fmt"

	"catalogo/internal/app/catalog/entity"
	"catalogo/pkg/metrics"

	"gorm.io/gorm"
)

// Колонки read-модели: имя категории подтягивается JOIN-ом при каждом
// чтении, денормализованное значение нигде не хранится
const productViewColumns = "products.id, products.name, products.description, products.price, products.category_id, categories.name AS category_name"

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository создает новый репозиторий товаров
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

// GetAllViews возвращает все товары с именами категорий
func (r *productRepository) GetAllViews(ctx context.Context) ([]entity.ProductView, error) {
	views := make([]entity.ProductView, 0)
	result := r.db.WithContext(ctx).Model(&entity.Product{}).
		Select(productViewColumns).
		Joins("JOIN categories ON categories.id = products.category_id").
		Order("products.id ASC").
		Scan(&views)
	if result.Error != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to get products: %w", result.Error)
	}

	return views, nil
}

// GetPaged возвращает страницу товаров, опционально отфильтрованную по категории
// Порядок строго фиксирован: фильтр -> подсчет отфильтрованного total ->
// сортировка по имени -> skip/take. Страница за пределами выборки дает
// пустой items с корректным total
func (r *productRepository) GetPaged(ctx context.Context, pageNumber, pageSize int, categoryID *uint) (*entity.PagedResult[entity.ProductView], error) {
	query := r.db.WithContext(ctx).Model(&entity.Product{}).
		Joins("JOIN categories ON categories.id = products.category_id")

	if categoryID != nil {
		query = query.Where("products.category_id = ?", *categoryID)
	}

	// Total считается по отфильтрованному предикату, не по всей таблице
	var totalItems int64
	if err := query.Count(&totalItems).Error; err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	items := make([]entity.ProductView, 0)
	result := query.
		Select(productViewColumns).
		Order("products.name ASC").
		Offset((pageNumber - 1) * pageSize).
		Limit(pageSize).
		Scan(&items)
	if result.Error != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to get products page: %w", result.Error)
	}

	return &entity.PagedResult[entity.ProductView]{
		Items:      items,
		TotalItems: totalItems,
		PageNumber: pageNumber,
		PageSize:   pageSize,
	}, nil
}

// GetViewByID возвращает товар с именем категории
func (r *productRepository) GetViewByID(ctx context.Context, id uint) (*entity.ProductView, error) {
	var view entity.ProductView
	result := r.db.WithContext(ctx).Model(&entity.Product{}).
		Select(productViewColumns).
		Joins("JOIN categories ON categories.id = products.category_id").
		Where("products.id = ?", id).
		Scan(&view)
	if result.Error != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to get product by id: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrProductNotFound
	}

	return &view, nil
}

// GetByID возвращает товар как он хранится, без JOIN-а
func (r *productRepository) GetByID(ctx context.Context, id uint) (*entity.Product, error) {
	var product entity.Product
	result := r.db.WithContext(ctx).First(&product, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to get product by id: %w", result.Error)
	}

	return &product, nil
}

// Insert создает товар, БД присваивает id
// Существование категории уже подтверждено вызывающей стороной
func (r *productRepository) Insert(ctx context.Context, product *entity.Product) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, "products")
	defer timer.ObserveDuration()

	result := r.db.WithContext(ctx).Create(product)
	if result.Error != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpInsert)
		return fmt.Errorf("failed to create product: %w", result.Error)
	}

	return nil
}

// Update полностью заменяет изменяемые поля товара по id, без partial patch
func (r *productRepository) Update(ctx context.Context, product *entity.Product) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpUpdate, "products")
	defer timer.ObserveDuration()

	result := r.db.WithContext(ctx).Model(&entity.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]interface{}{
			"name":        product.Name,
			"description": product.Description,
			"price":       product.Price,
			"category_id": product.CategoryID,
		})
	if result.Error != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpUpdate)
		return fmt.Errorf("failed to update product: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// Delete удаляет товар
func (r *productRepository) Delete(ctx context.Context, id uint) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpDelete, "products")
	defer timer.ObserveDuration()

	result := r.db.WithContext(ctx).Delete(&entity.Product{}, "id = ?", id)
	if result.Error != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpDelete)
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}
