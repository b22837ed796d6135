package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/wh75er/store-microservices/internal/app"
	"github.com/wh75er/store-microservices/internal/config"
	"github.com/wh75er/store-microservices/internal/version"
)

// setupLogger настраивает формат и уровень логирования сервиса.
func setupLogger(level string) {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
}

func main() {
	_ = godotenv.Load()

	cfg := config.LoadOrder()
	setupLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithFields(log.Fields{
		"addr":    cfg.Addr,
		"version": version.String(),
	}).Info("запускаем order service")

	if err := app.RunOrder(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Fatal("сервис завершился с ошибкой")
	}

	log.Info("order service остановлен")
}
