package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"github.com/wh75er/store-microservices/internal/storage/postgres"
)

const defaultTimeout = 30 * time.Second

// Сервисные наборы миграций в порядке применения при -service all.
var services = []string{
	postgres.MigrationsUsers,
	postgres.MigrationsOrders,
	postgres.MigrationsWarehouse,
	postgres.MigrationsWarranty,
}

func main() {
	var (
		service string
		dsn     string
	)

	flag.StringVar(&service, "service", "all", "migration set: users|orders|warehouse|warranty|all")
	flag.StringVar(&dsn, "dsn", "", "PostgreSQL DSN (fallback: DATABASE_URL)")
	flag.Parse()

	_ = godotenv.Load()

	if strings.TrimSpace(dsn) == "" {
		dsn = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}
	if dsn == "" {
		fail("DATABASE_URL (or -dsn) is required")
	}

	targets, err := resolveTargets(service)
	if err != nil {
		fail("%v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	store, err := postgres.Open(ctx, dsn)
	if err != nil {
		fail("open postgres store: %v", err)
	}
	defer store.Close()

	// наборы независимы: прогоняем все и собираем ошибки разом
	var failed error
	for _, target := range targets {
		if err := store.Migrate(ctx, target); err != nil {
			failed = multierr.Append(failed, fmt.Errorf("migrate %s: %w", target, err))
			continue
		}
		fmt.Printf("migrate %s ok\n", target)
	}
	if failed != nil {
		fail("%v", failed)
	}
}

// resolveTargets разворачивает псевдоним all в полный список сервисов.
func resolveTargets(service string) ([]string, error) {
	service = strings.ToLower(strings.TrimSpace(service))
	if service == "all" {
		return services, nil
	}
	for _, known := range services {
		if service == known {
			return []string{service}, nil
		}
	}
	return nil, fmt.Errorf("unsupported service: %s (use users|orders|warehouse|warranty|all)", service)
}

func fail(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
