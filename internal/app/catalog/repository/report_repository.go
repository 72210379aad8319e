package repository

import (
	"context"
	"fmt"

	"catalogo/internal/app/catalog/entity"
	"catalogo/pkg/metrics"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository создает репозиторий отчетов
// Репозиторий stateless и только читает; каждый метод - отдельный запрос
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

// TotalProducts возвращает общее количество товаров
func (r *reportRepository) TotalProducts(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&entity.Product{}).Count(&total).Error; err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return 0, fmt.Errorf("failed to count products: %w", err)
	}

	return total, nil
}

// AveragePrice возвращает среднюю цену, округленную до 2 знаков
// Пустой каталог дает 0, а не ошибку деления
func (r *reportRepository) AveragePrice(ctx context.Context) (decimal.Decimal, error) {
	var avg decimal.Decimal
	row := r.db.WithContext(ctx).Model(&entity.Product{}).
		Select("COALESCE(AVG(price), 0)").
		Row()
	if err := row.Scan(&avg); err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return decimal.Zero, fmt.Errorf("failed to compute average price: %w", err)
	}

	return avg.Round(2), nil
}

// TotalValue возвращает сумму цен всех товаров, 0 для пустого каталога
func (r *reportRepository) TotalValue(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	row := r.db.WithContext(ctx).Model(&entity.Product{}).
		Select("COALESCE(SUM(price), 0)").
		Row()
	if err := row.Scan(&total); err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return decimal.Zero, fmt.Errorf("failed to compute total value: %w", err)
	}

	return total, nil
}

// TotalCategories возвращает общее количество категорий
func (r *reportRepository) TotalCategories(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&entity.Category{}).Count(&total).Error; err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return 0, fmt.Errorf("failed to count categories: %w", err)
	}

	return total, nil
}

// ProductsPerCategory возвращает количество товаров для каждой категории,
// включая категории без товаров (LEFT JOIN)
func (r *reportRepository) ProductsPerCategory(ctx context.Context) ([]entity.CategorySummary, error) {
	summaries := make([]entity.CategorySummary, 0)
	result := r.db.WithContext(ctx).Model(&entity.Category{}).
		Select("categories.name AS category, COUNT(products.id) AS count").
		Joins("LEFT JOIN products ON products.category_id = categories.id").
		Group("categories.id, categories.name").
		Scan(&summaries)
	if result.Error != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to count products per category: %w", result.Error)
	}

	return summaries, nil
}
