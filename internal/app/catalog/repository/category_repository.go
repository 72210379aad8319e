package repository

import (
	"context"
	"errors"
	"fmt"

	"catalogo/internal/app/catalog/entity"
	"catalogo/pkg/metrics"

	"gorm.io/gorm"
)

const serviceName = "catalogo"

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository создает новый репозиторий категорий
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

// GetAll возвращает все категории с вложенными товарами, сортировка по имени
// Пустой каталог - это пустой срез, не ошибка: решение "пусто или 404"
// принимает вызывающая сторона
func (r *categoryRepository) GetAll(ctx context.Context) ([]entity.CategoryView, error) {
	var categories []entity.Category
	result := r.db.WithContext(ctx).Preload("Products").Order("name ASC").Find(&categories)
	if result.Error != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to get categories: %w", result.Error)
	}

	views := make([]entity.CategoryView, 0, len(categories))
	for _, c := range categories {
		views = append(views, toCategoryView(c))
	}

	return views, nil
}

// GetViewByID возвращает категорию с вложенными товарами
func (r *categoryRepository) GetViewByID(ctx context.Context, id uint) (*entity.CategoryView, error) {
	var category entity.Category
	result := r.db.WithContext(ctx).Preload("Products").First(&category, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to get category by id: %w", result.Error)
	}

	view := toCategoryView(category)
	return &view, nil
}

// GetByID возвращает категорию без товаров
func (r *categoryRepository) GetByID(ctx context.Context, id uint) (*entity.Category, error) {
	var category entity.Category
	result := r.db.WithContext(ctx).First(&category, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to get category by id: %w", result.Error)
	}

	return &category, nil
}

// GetByName ищет категорию по точному совпадению хранимого имени
// Имя уже нормализовано вызывающей стороной, сравнение чувствительно к регистру
func (r *categoryRepository) GetByName(ctx context.Context, name string) (*entity.Category, error) {
	var category entity.Category
	result := r.db.WithContext(ctx).First(&category, "name = ?", name)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to get category by name: %w", result.Error)
	}

	return &category, nil
}

// Insert создает категорию, БД присваивает id
// Дубликат имени ловится уникальным индексом на случай гонки
// check-then-act на уровне сервиса
func (r *categoryRepository) Insert(ctx context.Context, category *entity.Category) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, "categories")
	defer timer.ObserveDuration()

	result := r.db.WithContext(ctx).Create(category)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrCategoryAlreadyExists
		}
		metrics.RecordDbError(serviceName, metrics.DbOpInsert)
		return fmt.Errorf("failed to create category: %w", result.Error)
	}

	return nil
}

// Update полностью заменяет изменяемые поля категории по id
func (r *categoryRepository) Update(ctx context.Context, category *entity.Category) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpUpdate, "categories")
	defer timer.ObserveDuration()

	result := r.db.WithContext(ctx).Model(&entity.Category{}).
		Where("id = ?", category.ID).
		Update("name", category.Name)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrCategoryAlreadyExists
		}
		metrics.RecordDbError(serviceName, metrics.DbOpUpdate)
		return fmt.Errorf("failed to update category: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrCategoryNotFound
	}

	return nil
}

// Delete удаляет категорию вместе с ее товарами
// Каскад выполняется явно двумя шагами в одной транзакции,
// чтобы не зависеть от поддержки ON DELETE CASCADE конкретным движком
func (r *categoryRepository) Delete(ctx context.Context, id uint) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpDelete, "categories")
	defer timer.ObserveDuration()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&entity.Product{}, "category_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete products of category: %w", err)
		}

		result := tx.Delete(&entity.Category{}, "id = ?", id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete category: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrCategoryNotFound
		}

		return nil
	})
	if err != nil && !errors.Is(err, ErrCategoryNotFound) {
		metrics.RecordDbError(serviceName, metrics.DbOpDelete)
	}

	return err
}

func toCategoryView(c entity.Category) entity.CategoryView {
	products := make([]entity.ProductSummary, 0, len(c.Products))
	for _, p := range c.Products {
		products = append(products, entity.ProductSummary{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price,
		})
	}

	return entity.CategoryView{
		ID:       c.ID,
		Name:     c.Name,
		Products: products,
	}
}
