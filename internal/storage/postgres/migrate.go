package postgres

import (
	"context"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*/*.sql
var migrationsFS embed.FS

// Сервисные директории встроенных миграций.
const (
	MigrationsOrders    = "orders"
	MigrationsWarehouse = "warehouse"
	MigrationsWarranty  = "warranty"
	MigrationsUsers     = "users"
)

// Migrate применяет up-миграции сервиса из встроенной директории
// migrations/<service>. Повторный запуск — no-op: goose ведёт собственную
// таблицу версий, по одной на сервис, так что сервисы могут делить базу
// при локальной разработке.
func (s *Store) Migrate(ctx context.Context, service string) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("postgres store is not initialized")
	}

	goose.SetBaseFS(migrationsFS)
	goose.SetTableName(service + "_goose_db_version")
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, s.db, "migrations/"+service); err != nil {
		return fmt.Errorf("apply %s migrations: %w", service, err)
	}
	return nil
}
