package command

import "github.com/shopspring/decimal"

// InsertProduct - команда создания товара
type InsertProduct struct {
	Notifiable
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  int             `json:"category_id"`
}

// Validate проверяет все правила и накапливает нарушения
// Порядок нотификаций следует порядку объявления правил
func (c *InsertProduct) Validate() {
	c.AddNotifications(Requires().
		IsMinLen(c.Name, 3, "name", "name must be at least 3 characters").
		IsMaxLen(c.Name, 100, "name", "name must be at most 100 characters").
		IsMaxLen(c.Description, 500, "description", "description must be at most 500 characters").
		IsGreaterThanDecimal(c.Price, decimal.Zero, "price", "product must have a price").
		IsGreaterThan(c.CategoryID, 0, "category_id", "select a category").
		Notifications()...)
}

// UpdateProduct - команда полного обновления товара
type UpdateProduct struct {
	Notifiable
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  int             `json:"category_id"`
}

func (c *UpdateProduct) Validate() {
	c.AddNotifications(Requires().
		IsGreaterThan(c.ID, 0, "id", "select a product").
		IsMinLen(c.Name, 3, "name", "name must be at least 3 characters").
		IsMaxLen(c.Name, 100, "name", "name must be at most 100 characters").
		IsMaxLen(c.Description, 500, "description", "description must be at most 500 characters").
		IsGreaterThanDecimal(c.Price, decimal.Zero, "price", "product must have a price").
		IsGreaterThan(c.CategoryID, 0, "category_id", "select a category").
		Notifications()...)
}
