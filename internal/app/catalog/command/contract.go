package command

import (
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Contract - builder правил валидации
// Каждое правило проверяется независимо, без short-circuit:
// нарушения накапливаются в порядке вызова методов
type Contract struct {
	notifications []Notification
}

// Requires начинает цепочку правил
func Requires() *Contract {
	return &Contract{}
}

// IsMinLen проверяет минимальную длину строки в рунах
func (c *Contract) IsMinLen(value string, min int, key, message string) *Contract {
	if utf8.RuneCountInString(value) < min {
		c.notifications = append(c.notifications, Notification{Key: key, Message: message})
	}
	return c
}

// IsMaxLen проверяет максимальную длину строки в рунах
func (c *Contract) IsMaxLen(value string, max int, key, message string) *Contract {
	if utf8.RuneCountInString(value) > max {
		c.notifications = append(c.notifications, Notification{Key: key, Message: message})
	}
	return c
}

// IsGreaterThan проверяет что целое значение строго больше порога
func (c *Contract) IsGreaterThan(value, min int, key, message string) *Contract {
	if value <= min {
		c.notifications = append(c.notifications, Notification{Key: key, Message: message})
	}
	return c
}

// IsGreaterThanDecimal проверяет что decimal строго больше порога
func (c *Contract) IsGreaterThanDecimal(value, min decimal.Decimal, key, message string) *Contract {
	if value.LessThanOrEqual(min) {
		c.notifications = append(c.notifications, Notification{Key: key, Message: message})
	}
	return c
}

// Notifications возвращает накопленные нарушения в порядке объявления
func (c *Contract) Notifications() []Notification {
	return c.notifications
}
