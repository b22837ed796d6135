package app

import (
	log "github.com/sirupsen/logrus"

	"github.com/wh75er/store-microservices/internal/config"
	"github.com/wh75er/store-microservices/internal/domain"
	"github.com/wh75er/store-microservices/internal/storage/redis"
)

// initUserCache оборачивает репозиторий пользователей read-through кэшем,
// если задан REDIS_ADDR. При пустом адресе или недоступном Redis витрина
// работает напрямую с базой.
func initUserCache(cfg config.Store, next domain.UserRepository, logger *log.Entry) (domain.UserRepository, func()) {
	noop := func() {}
	if cfg.RedisAddr == "" {
		return next, noop
	}

	rdb, err := redis.Open(cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		logger.WithError(err).Warn("redis is not available, user cache disabled")
		return next, noop
	}

	logger.WithField("addr", cfg.RedisAddr).Info("user cache connected")
	closeFn := func() {
		if err := rdb.Close(); err != nil {
			logger.WithError(err).Warn("failed to close redis client")
		}
	}
	return redis.NewUserCache(rdb, next, cfg.UserCacheTTL, nil), closeFn
}
