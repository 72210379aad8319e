package command

// Notification - одна ошибка валидации: ключ поля + причина
// Неизменяемое значение, создается только целиком
type Notification struct {
	Key     string `json:"key"`
	Message string `json:"message"`
}

// Notifiable накапливает нотификации команды во время валидации
// Встраивается в команды записи; Clear() обязателен перед повторной валидацией
type Notifiable struct {
	notifications []Notification
}

func (n *Notifiable) AddNotification(key, message string) {
	n.notifications = append(n.notifications, Notification{Key: key, Message: message})
}

func (n *Notifiable) AddNotifications(items ...Notification) {
	n.notifications = append(n.notifications, items...)
}

// Notifications возвращает нотификации в порядке объявления правил
func (n *Notifiable) Notifications() []Notification {
	if n.notifications == nil {
		return []Notification{}
	}
	return n.notifications
}

func (n *Notifiable) IsValid() bool {
	return len(n.notifications) == 0
}

func (n *Notifiable) Clear() {
	n.notifications = nil
}
