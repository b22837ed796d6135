package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/wh75er/store-microservices/internal/domain"
)

const (
	opTimeout     = 2 * time.Second
	userKeyPrefix = "user:"
)

// Open подключается к Redis и проверяет соединение.
func Open(addr, password string) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return rdb, nil
}

// UserCache — read-through кэш поверх UserRepository. Ошибки Redis не
// фатальны: промах или сбой кэша приводит к чтению из базового хранилища.
type UserCache struct {
	rdb    *goredis.Client
	next   domain.UserRepository
	ttl    time.Duration
	logger *log.Entry
}

// NewUserCache оборачивает next кэшем с заданным TTL.
func NewUserCache(rdb *goredis.Client, next domain.UserRepository, ttl time.Duration, logger *log.Entry) *UserCache {
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}
	return &UserCache{
		rdb:    rdb,
		next:   next,
		ttl:    ttl,
		logger: logger.WithField("component", "user_cache"),
	}
}

var _ domain.UserRepository = (*UserCache)(nil)

// GetByUID возвращает пользователя из кэша либо из базового хранилища,
// дозаписывая кэш после промаха.
func (c *UserCache) GetByUID(userUID uuid.UUID) (domain.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	key := userKeyPrefix + userUID.String()

	data, err := c.rdb.Get(ctx, key).Bytes()
	if err == nil {
		var u domain.User
		if unmarshalErr := json.Unmarshal(data, &u); unmarshalErr == nil {
			return u, nil
		}
		c.logger.WithField("key", key).Warn("corrupted cache entry, falling back to repository")
	} else if !errors.Is(err, goredis.Nil) {
		c.logger.WithError(err).Warn("cache read failed, falling back to repository")
	}

	u, err := c.next.GetByUID(userUID)
	if err != nil {
		return domain.User{}, err
	}

	if payload, marshalErr := json.Marshal(u); marshalErr == nil {
		if setErr := c.rdb.Set(ctx, key, payload, c.ttl).Err(); setErr != nil {
			c.logger.WithError(setErr).Warn("cache write failed")
		}
	}

	return u, nil
}
