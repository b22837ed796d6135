package health

import "context"

// Pinger проверяет доступность хранилища сервиса.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Статусы компонентов документа здоровья.
const (
	StatusUp   = "UP"
	StatusDown = "DOWN"
)

// Document — тело ответа /manage/health.
type Document struct {
	Status     string     `json:"status"`
	Components Components `json:"components"`
	Ping       Ping       `json:"ping"`
}

// Components перечисляет проверяемые компоненты сервиса.
type Components struct {
	DB DB `json:"db"`
}

// DB — состояние подключения к базе.
type DB struct {
	Status  string  `json:"status"`
	Details Details `json:"details"`
}

// Details описывает проверку базы.
type Details struct {
	Database        string `json:"database"`
	ValidationQuery string `json:"validationQuery"`
}

// Ping — безусловный признак живости процесса.
type Ping struct {
	Status string `json:"status"`
}

// Describe собирает документ здоровья. Статус компонента db отражает
// живой пинг пула; статус сервиса и ping остаются UP, раз процесс отвечает.
func Describe(ctx context.Context, db Pinger) Document {
	dbStatus := StatusUp
	validationQuery := "IsValid()"
	if db == nil || db.Ping(ctx) != nil {
		dbStatus = StatusDown
		validationQuery = "!IsValid()"
	}

	return Document{
		Status: StatusUp,
		Components: Components{
			DB: DB{
				Status: dbStatus,
				Details: Details{
					Database:        "PostgreSQL",
					ValidationQuery: validationQuery,
				},
			},
		},
		Ping: Ping{Status: StatusUp},
	}
}
