package domain

import "github.com/google/uuid"

// User — пользователь витрины. Таблица read-only: наличие записи
// пропускает запрос дальше, отсутствие — 404 на входе.
type User struct {
	ID      int64
	UserUID uuid.UUID
	Name    string
}
