package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"catalogo/internal/app/catalog/command"
	"catalogo/internal/app/catalog/entity"
	"catalogo/internal/app/catalog/repository"
	"catalogo/internal/app/catalog/repository/mocks"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type serviceMocks struct {
	categoryRepo *mocks.MockCategoryRepository
	productRepo  *mocks.MockProductRepository
	reportRepo   *mocks.MockReportRepository
	cache        *mocks.MockCategoryCache
	publisher    *mocks.MockMessagePublisher
}

func newTestService() (*CatalogService, *serviceMocks) {
	m := &serviceMocks{
		categoryRepo: new(mocks.MockCategoryRepository),
		productRepo:  new(mocks.MockProductRepository),
		reportRepo:   new(mocks.MockReportRepository),
		cache:        new(mocks.MockCategoryCache),
		publisher:    new(mocks.MockMessagePublisher),
	}
	svc := NewCatalogService(m.categoryRepo, m.productRepo, m.reportRepo, m.cache, m.publisher)
	return svc, m
}

func decodedEvent(t *testing.T, value []byte) entity.CatalogEvent {
	t.Helper()
	var event entity.CatalogEvent
	require.NoError(t, json.Unmarshal(value, &event))
	return event
}

func TestGetAllCategories_CacheHit(t *testing.T) {
	// Arrange
	svc, m := newTestService()
	cached := []entity.CategoryView{{ID: 1, Name: "Books", Products: []entity.ProductSummary{}}}
	m.cache.On("GetCategories", mock.Anything).Return(cached, nil)

	// Act
	result, err := svc.GetAllCategories(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, cached, result)
	m.categoryRepo.AssertNotCalled(t, "GetAll", mock.Anything)
}

func TestGetAllCategories_CacheMissLoadsAndCaches(t *testing.T) {
	// Arrange
	svc, m := newTestService()
	fromDB := []entity.CategoryView{{ID: 1, Name: "Books", Products: []entity.ProductSummary{}}}
	m.cache.On("GetCategories", mock.Anything).Return(nil, nil)
	m.categoryRepo.On("GetAll", mock.Anything).Return(fromDB, nil)
	m.cache.On("SetCategories", mock.Anything, fromDB, time.Hour).Return(nil)

	// Act
	result, err := svc.GetAllCategories(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, fromDB, result)
	m.cache.AssertExpectations(t)
}

func TestGetAllCategories_CacheErrorFallsBackToStore(t *testing.T) {
	// Arrange
	svc, m := newTestService()
	fromDB := []entity.CategoryView{{ID: 2, Name: "Games", Products: []entity.ProductSummary{}}}
	m.cache.On("GetCategories", mock.Anything).Return(nil, errors.New("redis down"))
	m.categoryRepo.On("GetAll", mock.Anything).Return(fromDB, nil)
	m.cache.On("SetCategories", mock.Anything, fromDB, time.Hour).Return(errors.New("redis down"))

	// Act
	result, err := svc.GetAllCategories(context.Background())

	// Assert: проблемы кеша не ломают чтение
	require.NoError(t, err)
	assert.Equal(t, fromDB, result)
}

func TestCreateCategory_Success(t *testing.T) {
	// Arrange
	svc, m := newTestService()
	m.categoryRepo.On("GetByName", mock.Anything, "Electronics").Return(nil, repository.ErrCategoryNotFound)
	m.categoryRepo.On("Insert", mock.Anything, mock.MatchedBy(func(c *entity.Category) bool {
		return c.Name == "Electronics"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*entity.Category).ID = 7
	}).Return(nil)
	m.cache.On("DeleteCategories", mock.Anything).Return(nil)
	m.publisher.On("PublishMessage", mock.Anything, "7", mock.Anything).Return(nil)

	cmd := &command.InsertCategory{Name: "electronics"}

	// Act
	category, err := svc.CreateCategory(context.Background(), cmd)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, uint(7), category.ID)
	assert.Equal(t, "Electronics", category.Name)

	event := decodedEvent(t, m.publisher.Calls[0].Arguments.Get(2).([]byte))
	assert.Equal(t, entity.EventCategoryCreated, event.EventType)
	assert.Equal(t, uint(7), event.EntityID)
	m.categoryRepo.AssertExpectations(t)
}

func TestCreateCategory_CapitalizesMultiWordName(t *testing.T) {
	// Arrange
	svc, m := newTestService()
	m.categoryRepo.On("GetByName", mock.Anything, "Home Appliances").Return(nil, repository.ErrCategoryNotFound)
	m.categoryRepo.On("Insert", mock.Anything, mock.MatchedBy(func(c *entity.Category) bool {
		return c.Name == "Home Appliances"
	})).Return(nil)
	m.cache.On("DeleteCategories", mock.Anything).Return(nil)
	m.publisher.On("PublishMessage", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	// Act
	category, err := svc.CreateCategory(context.Background(), &command.InsertCategory{Name: "hOME aPPLIANCES"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Home Appliances", category.Name)
}

func TestCreateCategory_ValidationError(t *testing.T) {
	// Arrange
	svc, m := newTestService()

	// Act
	category, err := svc.CreateCategory(context.Background(), &command.InsertCategory{Name: "ab"})

	// Assert
	require.Error(t, err)
	assert.Nil(t, category)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Len(t, validationErr.Notifications, 1)
	assert.Equal(t, "name", validationErr.Notifications[0].Key)
	m.categoryRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestCreateCategory_DuplicateName(t *testing.T) {
	// Arrange
	svc, m := newTestService()
	existing := &entity.Category{ID: 3, Name: "Books"}
	m.categoryRepo.On("GetByName", mock.Anything, "Books").Return(existing, nil)

	// Act
	category, err := svc.CreateCategory(context.Background(), &command.InsertCategory{Name: "books"})

	// Assert
	assert.Nil(t, category)
	var conflictErr *ConflictError
	require.ErrorAs(t, err, &conflictErr)
	assert.Equal(t, "category", conflictErr.Notification.Key)
	m.categoryRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestCreateCategory_ConcurrentDuplicateBecomesConflict(t *testing.T) {
	// Arrange: имя свободно при проверке, но вставка бьется об уникальный индекс
	svc, m := newTestService()
	m.categoryRepo.On("GetByName", mock.Anything, "Books").Return(nil, repository.ErrCategoryNotFound)
	m.categoryRepo.On("Insert", mock.Anything, mock.Anything).Return(repository.ErrCategoryAlreadyExists)

	// Act
	_, err := svc.CreateCategory(context.Background(), &command.InsertCategory{Name: "books"})

	// Assert
	var conflictErr *ConflictError
	require.ErrorAs(t, err, &conflictErr)
	m.publisher.AssertNotCalled(t, "PublishMessage", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateCategory_CacheInvalidationErrorIgnored(t *testing.T) {
	// Arrange
	svc, m := newTestService()
	m.categoryRepo.On("GetByName", mock.Anything, "Books").Return(nil, repository.ErrCategoryNotFound)
	m.categoryRepo.On("Insert", mock.Anything, mock.Anything).Return(nil)
	m.cache.On("DeleteCategories", mock.Anything).Return(errors.New("redis down"))
	m.publisher.On("PublishMessage", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	// Act
	category, err := svc.CreateCategory(context.Background(), &command.InsertCategory{Name: "books"})

	// Assert: запись уже в БД, ошибка кеша не откатывает операцию
	require.NoError(t, err)
	assert.Equal(t, "Books", category.Name)
}

func TestUpdateCategory_Success(t *testing.T) {
	// Arrange
	svc, m := newTestService()
	stored := &entity.Category{ID: 5, Name: "Old Name"}
	m.categoryRepo.On("GetByName", mock.Anything, "New Name").Return(nil, repository.ErrCategoryNotFound)
	m.categoryRepo.On("GetByID", mock.Anything, uint(5)).Return(stored, nil)
	m.categoryRepo.On("Update", mock.Anything, mock.MatchedBy(func(c *entity.Category) bool {
		return c.ID == 5 && c.Name == "New Name"
	})).Return(nil)
	m.cache.On("DeleteCategories", mock.Anything).Return(nil)
	m.publisher.On("PublishMessage", mock.Anything, "5", mock.Anything).Return(nil)

	// Act
	category, err := svc.UpdateCategory(context.Background(), &command.UpdateCategory{ID: 5, Name: "new name"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "New Name", category.Name)

	event := decodedEvent(t, m.publisher.Calls[0].Arguments.Get(2).([]byte))
	assert.Equal(t, entity.EventCategoryUpdated, event.EventType)
}

func TestUpdateCategory_SameNameSameCategoryAllowed(t *testing.T) {
	// Arrange: переименование в собственное имя конфликтом не считается
	svc, m := newTestService()
	stored := &entity.Category{ID: 5, Name: "Books"}
	m.categoryRepo.On("GetByName", mock.Anything, "Books").Return(stored, nil)
	m.categoryRepo.On("GetByID", mock.Anything, uint(5)).Return(stored, nil)
	m.categoryRepo.On("Update", mock.Anything, mock.Anything).Return(nil)
	m.cache.On("DeleteCategories", mock.Anything).Return(nil)
	m.publisher.On("PublishMessage", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	// Act
	_, err := svc.UpdateCategory(context.Background(), &command.UpdateCategory{ID: 5, Name: "books"})

	// Assert
	require.NoError(t, err)
}

func TestUpdateCategory_NameTakenByOtherCategory(t *testing.T) {
	// Arrange
	svc, m := newTestService()
	other := &entity.Category{ID: 9, Name: "Books"}
	m.categoryRepo.On("GetByName", mock.Anything, "Books").Return(other, nil)

	// Act
	_, err := svc.UpdateCategory(context.Background(), &command.UpdateCategory{ID: 5, Name: "books"})

	// Assert
	var conflictErr *ConflictError
	require.ErrorAs(t, err, &conflictErr)
	m.categoryRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateCategory_NotFound(t *testing.T) {
	// Arrange
	svc, m := newTestService()
	m.categoryRepo.On("GetByName", mock.Anything, "Books").Return(nil, repository.ErrCategoryNotFound)
	m.categoryRepo.On("GetByID", mock.Anything, uint(404)).Return(nil, repository.ErrCategoryNotFound)

	// Act
	_, err := svc.UpdateCategory(context.Background(), &command.UpdateCategory{ID: 404, Name: "books"})

	// Assert
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestDeleteCategory_PublishesEventWithName(t *testing.T) {
	// Arrange
	svc, m := newTestService()
	stored := &entity.Category{ID: 5, Name: "Books"}
	m.categoryRepo.On("GetByID", mock.Anything, uint(5)).Return(stored, nil)
	m.categoryRepo.On("Delete", mock.Anything, uint(5)).Return(nil)
	m.cache.On("DeleteCategories", mock.Anything).Return(nil)
	m.publisher.On("PublishMessage", mock.Anything, "5", mock.Anything).Return(nil)

	// Act
	err := svc.DeleteCategory(context.Background(), 5)

	// Assert
	require.NoError(t, err)
	event := decodedEvent(t, m.publisher.Calls[0].Arguments.Get(2).([]byte))
	assert.Equal(t, entity.EventCategoryDeleted, event.EventType)
	assert.Equal(t, "Books", event.Name)
}

func TestDeleteCategory_NotFound(t *testing.T) {
	// Arrange
	svc, m := newTestService()
	m.categoryRepo.On("GetByID", mock.Anything, uint(404)).Return(nil, repository.ErrCategoryNotFound)

	// Act
	err := svc.DeleteCategory(context.Background(), 404)

	// Assert
	assert.ErrorIs(t, err, ErrCategoryNotFound)
	m.categoryRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCreateProduct_Success(t *testing.T) {
	// Arrange
	svc, m := newTestService()
	m.categoryRepo.On("GetByID", mock.Anything, uint(2)).Return(&entity.Category{ID: 2, Name: "Books"}, nil)
	m.productRepo.On("Insert", mock.Anything, mock.MatchedBy(func(p *entity.Product) bool {
		return p.Name == "Clean Architecture" && p.CategoryID == 2
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*entity.Product).ID = 11
	}).Return(nil)
	m.cache.On("DeleteCategories", mock.Anything).Return(nil)
	m.publisher.On("PublishMessage", mock.Anything, "11", mock.Anything).Return(nil)

	cmd := &command.InsertProduct{
		Name:        "clean architecture",
		Description: "Robert Martin",
		Price:       decimal.NewFromFloat(49.90),
		CategoryID:  2,
	}

	// Act
	product, err := svc.CreateProduct(context.Background(), cmd)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, uint(11), product.ID)
	assert.Equal(t, "Clean Architecture", product.Name)

	event := decodedEvent(t, m.publisher.Calls[0].Arguments.Get(2).([]byte))
	assert.Equal(t, entity.EventProductCreated, event.EventType)
	assert.Equal(t, uint(2), event.CategoryID)
}

func TestCreateProduct_MissingCategory(t *testing.T) {
	// Arrange
	svc, m := newTestService()
	m.categoryRepo.On("GetByID", mock.Anything, uint(404)).Return(nil, repository.ErrCategoryNotFound)

	cmd := &command.InsertProduct{
		Name:       "clean architecture",
		Price:      decimal.NewFromFloat(49.90),
		CategoryID: 404,
	}

	// Act
	product, err := svc.CreateProduct(context.Background(), cmd)

	// Assert
	assert.Nil(t, product)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
	m.productRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestCreateProduct_CollectsAllValidationFailures(t *testing.T) {
	// Arrange
	svc, _ := newTestService()
	cmd := &command.InsertProduct{Name: "ab", Price: decimal.Zero, CategoryID: 0}

	// Act
	_, err := svc.CreateProduct(context.Background(), cmd)

	// Assert
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Len(t, validationErr.Notifications, 3)
	assert.Equal(t, "name", validationErr.Notifications[0].Key)
	assert.Equal(t, "price", validationErr.Notifications[1].Key)
	assert.Equal(t, "category_id", validationErr.Notifications[2].Key)
}

func TestUpdateProduct_PriceChangePublishesEvent(t *testing.T) {
	// Arrange
	svc, m := newTestService()
	stored := &entity.Product{ID: 11, Name: "Book", Price: decimal.NewFromFloat(49.90), CategoryID: 2}
	m.categoryRepo.On("GetByID", mock.Anything, uint(2)).Return(&entity.Category{ID: 2}, nil)
	m.productRepo.On("GetByID", mock.Anything, uint(11)).Return(stored, nil)
	m.productRepo.On("Update", mock.Anything, mock.Anything).Return(nil)
	m.cache.On("DeleteCategories", mock.Anything).Return(nil)
	m.publisher.On("PublishMessage", mock.Anything, "11", mock.Anything).Return(nil)

	cmd := &command.UpdateProduct{
		ID:         11,
		Name:       "book",
		Price:      decimal.NewFromFloat(39.90),
		CategoryID: 2,
	}

	// Act
	product, err := svc.UpdateProduct(context.Background(), cmd)

	// Assert
	require.NoError(t, err)
	assert.True(t, product.Price.Equal(decimal.NewFromFloat(39.90)))

	event := decodedEvent(t, m.publisher.Calls[0].Arguments.Get(2).([]byte))
	assert.Equal(t, entity.EventProductUpdated, event.EventType)
}

func TestUpdateProduct_SamePriceSkipsEvent(t *testing.T) {
	// Arrange
	svc, m := newTestService()
	stored := &entity.Product{ID: 11, Name: "Book", Price: decimal.NewFromFloat(49.90), CategoryID: 2}
	m.categoryRepo.On("GetByID", mock.Anything, uint(2)).Return(&entity.Category{ID: 2}, nil)
	m.productRepo.On("GetByID", mock.Anything, uint(11)).Return(stored, nil)
	m.productRepo.On("Update", mock.Anything, mock.Anything).Return(nil)
	m.cache.On("DeleteCategories", mock.Anything).Return(nil)

	cmd := &command.UpdateProduct{
		ID:         11,
		Name:       "renamed book",
		Price:      decimal.NewFromFloat(49.90),
		CategoryID: 2,
	}

	// Act
	_, err := svc.UpdateProduct(context.Background(), cmd)

	// Assert: переименование без смены цены событие не порождает
	require.NoError(t, err)
	m.publisher.AssertNotCalled(t, "PublishMessage", mock.Anything, mock.Anything, mock.Anything)
	m.cache.AssertExpectations(t)
}

func TestDeleteProduct_Success(t *testing.T) {
	// Arrange
	svc, m := newTestService()
	stored := &entity.Product{ID: 11, Name: "Book", Price: decimal.NewFromFloat(49.90), CategoryID: 2}
	m.productRepo.On("GetByID", mock.Anything, uint(11)).Return(stored, nil)
	m.productRepo.On("Delete", mock.Anything, uint(11)).Return(nil)
	m.cache.On("DeleteCategories", mock.Anything).Return(nil)
	m.publisher.On("PublishMessage", mock.Anything, "11", mock.Anything).Return(nil)

	// Act
	err := svc.DeleteProduct(context.Background(), 11)

	// Assert
	require.NoError(t, err)
	event := decodedEvent(t, m.publisher.Calls[0].Arguments.Get(2).([]byte))
	assert.Equal(t, entity.EventProductDeleted, event.EventType)
}

func TestGetPagedProducts_NormalizesPageArguments(t *testing.T) {
	// Arrange
	svc, m := newTestService()
	empty := &entity.PagedResult[entity.ProductView]{
		Items:      []entity.ProductView{},
		TotalItems: 0,
		PageNumber: 1,
		PageSize:   10,
	}
	m.productRepo.On("GetPaged", mock.Anything, 1, 10, (*uint)(nil)).Return(empty, nil)

	// Act
	result, err := svc.GetPagedProducts(context.Background(), 0, -5, nil)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, empty, result)
	m.productRepo.AssertExpectations(t)
}

func TestGetSummary_Success(t *testing.T) {
	// Arrange
	svc, m := newTestService()
	m.reportRepo.On("TotalProducts", mock.Anything).Return(int64(3), nil)
	m.reportRepo.On("AveragePrice", mock.Anything).Return(decimal.NewFromFloat(15.50), nil)
	m.reportRepo.On("TotalValue", mock.Anything).Return(decimal.NewFromFloat(46.50), nil)
	m.reportRepo.On("TotalCategories", mock.Anything).Return(int64(2), nil)
	m.reportRepo.On("ProductsPerCategory", mock.Anything).Return([]entity.CategorySummary{
		{Category: "Books", Count: 3},
		{Category: "Games", Count: 0},
	}, nil)

	// Act
	summary, err := svc.GetSummary(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(3), summary.TotalProducts)
	assert.True(t, summary.AveragePrice.Equal(decimal.NewFromFloat(15.50)))
	assert.True(t, summary.TotalValue.Equal(decimal.NewFromFloat(46.50)))
	assert.Equal(t, int64(2), summary.TotalCategories)
	require.Len(t, summary.ProductsPerCategory, 2)
	assert.Equal(t, int64(0), summary.ProductsPerCategory[1].Count)
}

func TestGetSummary_StoreError(t *testing.T) {
	// Arrange
	svc, m := newTestService()
	m.reportRepo.On("TotalProducts", mock.Anything).Return(int64(0), errors.New("connection refused"))

	// Act
	summary, err := svc.GetSummary(context.Background())

	// Assert
	assert.Nil(t, summary)
	assert.ErrorContains(t, err, "failed to get total products")
}
