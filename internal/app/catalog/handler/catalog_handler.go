package handler

import (
	"errors"
	"net/http"
	"strconv"

	"catalogo/internal/app/catalog/command"
	"catalogo/internal/app/catalog/entity"
	"catalogo/internal/app/catalog/service"

	"github.com/gin-gonic/gin"
)

// CatalogHandler обрабатывает HTTP запросы каталога
// Ошибки бизнес-слоя транслируются в нотификации:
// 400 со списком нотификаций при отклоненной команде или конфликте,
// 404 с одной нотификацией при промахе поиска или пустом списке
type CatalogHandler struct {
	catalogService service.CatalogServiceInterface
}

// NewCatalogHandler создает новый обработчик каталога
func NewCatalogHandler(catalogService service.CatalogServiceInterface) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

// === CATEGORIES HANDLERS ===

// GetAllCategories обрабатывает GET /api/category (кеш Redis)
func (h *CatalogHandler) GetAllCategories(c *gin.Context) {
	categories, err := h.catalogService.GetAllCategories(c.Request.Context())
	if err != nil {
		respondInternalError(c, "Failed to get categories")
		return
	}

	if len(categories) == 0 {
		respondNotFound(c, "category", "no categories registered")
		return
	}

	c.JSON(http.StatusOK, categories)
}

// GetCategory обрабатывает GET /api/category/:id
func (h *CatalogHandler) GetCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	category, err := h.catalogService.GetCategory(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			respondNotFound(c, "category", "category not found")
			return
		}
		respondInternalError(c, "Failed to get category")
		return
	}

	c.JSON(http.StatusOK, category)
}

// CreateCategory обрабатывает POST /api/category
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var cmd command.InsertCategory
	if err := c.ShouldBindJSON(&cmd); err != nil {
		respondInvalidBody(c)
		return
	}

	category, err := h.catalogService.CreateCategory(c.Request.Context(), &cmd)
	if err != nil {
		if notifications, ok := clientNotifications(err); ok {
			c.JSON(http.StatusBadRequest, notifications)
			return
		}
		respondInternalError(c, "Failed to create category")
		return
	}

	c.JSON(http.StatusCreated, category)
}

// UpdateCategory обрабатывает PUT /api/category/:id
func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var cmd command.UpdateCategory
	if err := c.ShouldBindJSON(&cmd); err != nil {
		respondInvalidBody(c)
		return
	}
	cmd.ID = int(id)

	category, err := h.catalogService.UpdateCategory(c.Request.Context(), &cmd)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			respondNotFound(c, "category", "category not found")
			return
		}
		if notifications, ok := clientNotifications(err); ok {
			c.JSON(http.StatusBadRequest, notifications)
			return
		}
		respondInternalError(c, "Failed to update category")
		return
	}

	c.JSON(http.StatusOK, category)
}

// DeleteCategory обрабатывает DELETE /api/category/:id (каскадом удаляет товары)
func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.catalogService.DeleteCategory(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			respondNotFound(c, "category", "category not found")
			return
		}
		respondInternalError(c, "Failed to delete category")
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{
		Message: "Category deleted successfully",
	})
}

// === PRODUCTS HANDLERS ===

// GetAllProducts обрабатывает GET /api/product
func (h *CatalogHandler) GetAllProducts(c *gin.Context) {
	products, err := h.catalogService.GetAllProducts(c.Request.Context())
	if err != nil {
		respondInternalError(c, "Failed to get products")
		return
	}

	if len(products) == 0 {
		respondNotFound(c, "product", "no products registered")
		return
	}

	c.JSON(http.StatusOK, products)
}

// GetPagedProducts обрабатывает GET /api/product/paged
// Query параметры: pageNumber, pageSize, categoryId (опционально)
func (h *CatalogHandler) GetPagedProducts(c *gin.Context) {
	pageNumber, err := strconv.Atoi(c.DefaultQuery("pageNumber", "1"))
	if err != nil {
		respondQueryNotification(c, "pageNumber", "pageNumber must be an integer")
		return
	}

	pageSize, err := strconv.Atoi(c.DefaultQuery("pageSize", "10"))
	if err != nil {
		respondQueryNotification(c, "pageSize", "pageSize must be an integer")
		return
	}

	var categoryID *uint
	if raw := c.Query("categoryId"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			respondQueryNotification(c, "categoryId", "categoryId must be a positive integer")
			return
		}
		id := uint(parsed)
		categoryID = &id
	}

	result, err := h.catalogService.GetPagedProducts(c.Request.Context(), pageNumber, pageSize, categoryID)
	if err != nil {
		respondInternalError(c, "Failed to get products page")
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetProduct обрабатывает GET /api/product/:id
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	product, err := h.catalogService.GetProduct(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondNotFound(c, "product", "product not found")
			return
		}
		respondInternalError(c, "Failed to get product")
		return
	}

	c.JSON(http.StatusOK, product)
}

// CreateProduct обрабатывает POST /api/product
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var cmd command.InsertProduct
	if err := c.ShouldBindJSON(&cmd); err != nil {
		respondInvalidBody(c)
		return
	}

	product, err := h.catalogService.CreateProduct(c.Request.Context(), &cmd)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			respondNotFound(c, "category", "category not found")
			return
		}
		if notifications, ok := clientNotifications(err); ok {
			c.JSON(http.StatusBadRequest, notifications)
			return
		}
		respondInternalError(c, "Failed to create product")
		return
	}

	c.JSON(http.StatusCreated, product)
}

// UpdateProduct обрабатывает PUT /api/product/:id (Kafka событие при смене цены)
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var cmd command.UpdateProduct
	if err := c.ShouldBindJSON(&cmd); err != nil {
		respondInvalidBody(c)
		return
	}
	cmd.ID = int(id)

	product, err := h.catalogService.UpdateProduct(c.Request.Context(), &cmd)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondNotFound(c, "product", "product not found")
			return
		}
		if errors.Is(err, service.ErrCategoryNotFound) {
			respondNotFound(c, "category", "category not found")
			return
		}
		if notifications, ok := clientNotifications(err); ok {
			c.JSON(http.StatusBadRequest, notifications)
			return
		}
		respondInternalError(c, "Failed to update product")
		return
	}

	c.JSON(http.StatusOK, product)
}

// DeleteProduct обрабатывает DELETE /api/product/:id
func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.catalogService.DeleteProduct(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondNotFound(c, "product", "product not found")
			return
		}
		respondInternalError(c, "Failed to delete product")
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{
		Message: "Product deleted successfully",
	})
}

// === REPORT HANDLER ===

// GetSummary обрабатывает GET /api/summary
func (h *CatalogHandler) GetSummary(c *gin.Context) {
	summary, err := h.catalogService.GetSummary(c.Request.Context())
	if err != nil {
		respondInternalError(c, "Failed to get summary")
		return
	}

	c.JSON(http.StatusOK, summary)
}

// === HELPER FUNCTIONS ===

// parseID извлекает числовой id из пути; при мусоре отвечает 400 сам
func parseID(c *gin.Context) (uint, bool) {
	parsed, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || parsed == 0 {
		c.JSON(http.StatusBadRequest, []command.Notification{
			{Key: "id", Message: "id must be a positive integer"},
		})
		return 0, false
	}
	return uint(parsed), true
}

// clientNotifications достает нотификации из ошибок, виноват в которых клиент
func clientNotifications(err error) ([]command.Notification, bool) {
	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Notifications, true
	}

	var conflictErr *service.ConflictError
	if errors.As(err, &conflictErr) {
		return []command.Notification{conflictErr.Notification}, true
	}

	return nil, false
}

func respondNotFound(c *gin.Context, key, message string) {
	c.JSON(http.StatusNotFound, command.Notification{Key: key, Message: message})
}

func respondInvalidBody(c *gin.Context) {
	c.JSON(http.StatusBadRequest, []command.Notification{
		{Key: "body", Message: "invalid request body"},
	})
}

func respondQueryNotification(c *gin.Context, key, message string) {
	c.JSON(http.StatusBadRequest, []command.Notification{
		{Key: key, Message: message},
	})
}

func respondInternalError(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, gin.H{"error": message})
}
