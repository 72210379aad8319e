package command

// InsertCategory - команда создания категории
type InsertCategory struct {
	Notifiable
	Name string `json:"name"`
}

// Validate проверяет все правила и накапливает нарушения
func (c *InsertCategory) Validate() {
	c.AddNotifications(Requires().
		IsMinLen(c.Name, 3, "name", "name must be at least 3 characters").
		IsMaxLen(c.Name, 100, "name", "name must be at most 100 characters").
		Notifications()...)
}

// UpdateCategory - команда полного обновления категории
type UpdateCategory struct {
	Notifiable
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func (c *UpdateCategory) Validate() {
	c.AddNotifications(Requires().
		IsGreaterThan(c.ID, 0, "id", "select a category").
		IsMinLen(c.Name, 3, "name", "name must be at least 3 characters").
		IsMaxLen(c.Name, 100, "name", "name must be at most 100 characters").
		Notifications()...)
}
