package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"catalogo/internal/app/catalog/command"
	"catalogo/internal/app/catalog/entity"
	"catalogo/internal/app/catalog/repository"
	"catalogo/internal/app/catalog/util"
	"catalogo/pkg/logger"
	"catalogo/pkg/metrics"
)

const categoriesCacheTTL = time.Hour

// CatalogService обрабатывает бизнес-логику каталога
// Координирует валидацию команд, репозитории, Redis кеш и Kafka producer
// Каждая операция - отдельный unit-of-work, состояние между вызовами не живет
type CatalogService struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
	reportRepo   repository.ReportRepository
	cache        util.CategoryCache
	publisher    util.MessagePublisher
}

// NewCatalogService создает новый сервис каталога с внедрением зависимостей
func NewCatalogService(
	categoryRepo repository.CategoryRepository,
	productRepo repository.ProductRepository,
	reportRepo repository.ReportRepository,
	cache util.CategoryCache,
	publisher util.MessagePublisher,
) *CatalogService {
	return &CatalogService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		reportRepo:   reportRepo,
		cache:        cache,
		publisher:    publisher,
	}
}

// === CATEGORIES ===

// GetAllCategories возвращает все категории с кешированием в Redis
// Cache miss - загружаем из БД и кешируем; проблемы с кешем не критичны
func (s *CatalogService) GetAllCategories(ctx context.Context) ([]entity.CategoryView, error) {
	cached, err := s.cache.GetCategories(ctx)
	if err == nil && cached != nil {
		return cached, nil
	}
	if err != nil {
		logger.Warn().Err(err).Msg("failed to read categories cache")
	}

	categories, err := s.categoryRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}

	if err := s.cache.SetCategories(ctx, categories, categoriesCacheTTL); err != nil {
		logger.Warn().Err(err).Msg("failed to cache categories")
	}

	return categories, nil
}

// GetCategory возвращает категорию с вложенными товарами, без кеша
func (s *CatalogService) GetCategory(ctx context.Context, id uint) (*entity.CategoryView, error) {
	view, err := s.categoryRepo.GetViewByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return view, nil
}

// CreateCategory валидирует команду, нормализует имя и создает категорию
// Уникальность имени проверяется через GetByName до вставки (check-then-act);
// гонку конкурентных вставок добивает уникальный индекс в БД
func (s *CatalogService) CreateCategory(ctx context.Context, cmd *command.InsertCategory) (*entity.Category, error) {
	cmd.Clear()
	cmd.Validate()
	if !cmd.IsValid() {
		metrics.RecordValidationFailure("category")
		return nil, &ValidationError{Notifications: cmd.Notifications()}
	}

	name := util.Capitalize(cmd.Name)

	existing, err := s.categoryRepo.GetByName(ctx, name)
	if err != nil && !errors.Is(err, repository.ErrCategoryNotFound) {
		return nil, fmt.Errorf("failed to check category name: %w", err)
	}
	if existing != nil {
		return nil, duplicateNameConflict()
	}

	category := &entity.Category{Name: name}
	if err := s.categoryRepo.Insert(ctx, category); err != nil {
		if errors.Is(err, repository.ErrCategoryAlreadyExists) {
			// Конкурентная вставка того же имени проскочила мимо GetByName
			return nil, duplicateNameConflict()
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.invalidateCategoriesCache(ctx)
	s.publishEvent(ctx, entity.CatalogEvent{
		EventType: entity.EventCategoryCreated,
		EntityID:  category.ID,
		Name:      category.Name,
		Timestamp: time.Now(),
	})
	metrics.RecordCatalogWrite("category", "insert")

	return category, nil
}

// UpdateCategory валидирует команду и полностью заменяет имя категории
// Переименование в занятое имя другой категории - конфликт
func (s *CatalogService) UpdateCategory(ctx context.Context, cmd *command.UpdateCategory) (*entity.Category, error) {
	cmd.Clear()
	cmd.Validate()
	if !cmd.IsValid() {
		metrics.RecordValidationFailure("category")
		return nil, &ValidationError{Notifications: cmd.Notifications()}
	}

	name := util.Capitalize(cmd.Name)
	id := uint(cmd.ID)

	existing, err := s.categoryRepo.GetByName(ctx, name)
	if err != nil && !errors.Is(err, repository.ErrCategoryNotFound) {
		return nil, fmt.Errorf("failed to check category name: %w", err)
	}
	if existing != nil && existing.ID != id {
		return nil, duplicateNameConflict()
	}

	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	category.Name = name
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		switch {
		case errors.Is(err, repository.ErrCategoryAlreadyExists):
			return nil, duplicateNameConflict()
		case errors.Is(err, repository.ErrCategoryNotFound):
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	s.invalidateCategoriesCache(ctx)
	s.publishEvent(ctx, entity.CatalogEvent{
		EventType: entity.EventCategoryUpdated,
		EntityID:  category.ID,
		Name:      category.Name,
		Timestamp: time.Now(),
	})
	metrics.RecordCatalogWrite("category", "update")

	return category, nil
}

// DeleteCategory удаляет категорию вместе с ее товарами (каскад в репозитории)
func (s *CatalogService) DeleteCategory(ctx context.Context, id uint) error {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to get category: %w", err)
	}

	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to delete category: %w", err)
	}

	s.invalidateCategoriesCache(ctx)
	s.publishEvent(ctx, entity.CatalogEvent{
		EventType: entity.EventCategoryDeleted,
		EntityID:  category.ID,
		Name:      category.Name,
		Timestamp: time.Now(),
	})
	metrics.RecordCatalogWrite("category", "delete")

	return nil
}

// === PRODUCTS ===

// GetAllProducts возвращает все товары с именами категорий
func (s *CatalogService) GetAllProducts(ctx context.Context) ([]entity.ProductView, error) {
	products, err := s.productRepo.GetAllViews(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	return products, nil
}

// GetPagedProducts возвращает страницу товаров
// Номер страницы и размер 1-based; некорректные значения приводятся к дефолтам
func (s *CatalogService) GetPagedProducts(ctx context.Context, pageNumber, pageSize int, categoryID *uint) (*entity.PagedResult[entity.ProductView], error) {
	if pageNumber < 1 {
		pageNumber = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	result, err := s.productRepo.GetPaged(ctx, pageNumber, pageSize, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get products page: %w", err)
	}

	return result, nil
}

// GetProduct возвращает товар с именем категории
func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*entity.ProductView, error) {
	view, err := s.productRepo.GetViewByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return view, nil
}

// CreateProduct валидирует команду, подтверждает категорию и создает товар
// Репозиторий foreign key повторно не проверяет - это обязанность сервиса
func (s *CatalogService) CreateProduct(ctx context.Context, cmd *command.InsertProduct) (*entity.Product, error) {
	cmd.Clear()
	cmd.Validate()
	if !cmd.IsValid() {
		metrics.RecordValidationFailure("product")
		return nil, &ValidationError{Notifications: cmd.Notifications()}
	}

	if _, err := s.categoryRepo.GetByID(ctx, uint(cmd.CategoryID)); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to verify category: %w", err)
	}

	product := &entity.Product{
		Name:        util.Capitalize(cmd.Name),
		Description: cmd.Description,
		Price:       cmd.Price,
		CategoryID:  uint(cmd.CategoryID),
	}
	if err := s.productRepo.Insert(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	// Вложенные товары в CategoryView устарели
	s.invalidateCategoriesCache(ctx)
	s.publishEvent(ctx, entity.CatalogEvent{
		EventType:  entity.EventProductCreated,
		EntityID:   product.ID,
		Name:       product.Name,
		Price:      product.Price,
		CategoryID: product.CategoryID,
		Timestamp:  time.Now(),
	})
	metrics.RecordCatalogWrite("product", "insert")

	return product, nil
}

// UpdateProduct полностью заменяет изменяемые поля товара
// Событие PRODUCT_UPDATED публикуется только при смене цены
func (s *CatalogService) UpdateProduct(ctx context.Context, cmd *command.UpdateProduct) (*entity.Product, error) {
	cmd.Clear()
	cmd.Validate()
	if !cmd.IsValid() {
		metrics.RecordValidationFailure("product")
		return nil, &ValidationError{Notifications: cmd.Notifications()}
	}

	if _, err := s.categoryRepo.GetByID(ctx, uint(cmd.CategoryID)); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to verify category: %w", err)
	}

	product, err := s.productRepo.GetByID(ctx, uint(cmd.ID))
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	oldPrice := product.Price

	product.Name = util.Capitalize(cmd.Name)
	product.Description = cmd.Description
	product.Price = cmd.Price
	product.CategoryID = uint(cmd.CategoryID)

	if err := s.productRepo.Update(ctx, product); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	s.invalidateCategoriesCache(ctx)
	if !product.Price.Equal(oldPrice) {
		s.publishEvent(ctx, entity.CatalogEvent{
			EventType:  entity.EventProductUpdated,
			EntityID:   product.ID,
			Name:       product.Name,
			Price:      product.Price,
			CategoryID: product.CategoryID,
			Timestamp:  time.Now(),
		})
	}
	metrics.RecordCatalogWrite("product", "update")

	return product, nil
}

// DeleteProduct удаляет товар
func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to get product: %w", err)
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}

	s.invalidateCategoriesCache(ctx)
	s.publishEvent(ctx, entity.CatalogEvent{
		EventType:  entity.EventProductDeleted,
		EntityID:   product.ID,
		Name:       product.Name,
		Price:      product.Price,
		CategoryID: product.CategoryID,
		Timestamp:  time.Now(),
	})
	metrics.RecordCatalogWrite("product", "delete")

	return nil
}

// === REPORT ===

// GetSummary собирает статистику каталога из пяти независимых запросов
// Без общего снапшота: при конкурентных записях числа могут расходиться
// между собой на одну запись
func (s *CatalogService) GetSummary(ctx context.Context) (*entity.CatalogSummary, error) {
	totalProducts, err := s.reportRepo.TotalProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get total products: %w", err)
	}

	averagePrice, err := s.reportRepo.AveragePrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get average price: %w", err)
	}

	totalValue, err := s.reportRepo.TotalValue(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get total value: %w", err)
	}

	totalCategories, err := s.reportRepo.TotalCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get total categories: %w", err)
	}

	perCategory, err := s.reportRepo.ProductsPerCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get products per category: %w", err)
	}

	return &entity.CatalogSummary{
		TotalProducts:       totalProducts,
		AveragePrice:        averagePrice,
		TotalValue:          totalValue,
		TotalCategories:     totalCategories,
		ProductsPerCategory: perCategory,
	}, nil
}

// invalidateCategoriesCache сбрасывает кеш категорий после записи
// Ошибки кеша не прерывают операцию - данные уже в БД
func (s *CatalogService) invalidateCategoriesCache(ctx context.Context) {
	if err := s.cache.DeleteCategories(ctx); err != nil {
		logger.Warn().Err(err).Msg("failed to invalidate categories cache")
	}
}

// publishEvent отправляет событие каталога в Kafka
// Key - id сущности для партиционирования; ошибки отправки не критичны
func (s *CatalogService) publishEvent(ctx context.Context, event entity.CatalogEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		logger.Error().Err(err).Str("event_type", event.EventType).Msg("failed to marshal catalog event")
		return
	}

	key := strconv.FormatUint(uint64(event.EntityID), 10)
	if err := s.publisher.PublishMessage(ctx, key, data); err != nil {
		logger.Warn().Err(err).Str("event_type", event.EventType).Msg("failed to publish catalog event")
	}
}
