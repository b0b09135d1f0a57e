package persistence

import (
	"fmt"
	"strings"

	"github.com/khoahotran/portfolio-cms/internal/application/service"
	"github.com/khoahotran/portfolio-cms/internal/config"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

// NewKeyValueStore opens the storage driver named by storage.driver. The returned close
// function releases the underlying connection.
func NewKeyValueStore(cfg config.Config, log logger.Logger) (service.KeyValueStore, func(), error) {
	switch strings.ToLower(cfg.Storage.Driver) {
	case "", "redis":
		rdb, err := NewRedisClient(cfg, log)
		if err != nil {
			return nil, nil, err
		}
		return NewRedisKeyValueStore(rdb), func() { _ = rdb.Close() }, nil
	case "postgres":
		pool, err := NewPostgresPool(cfg, log)
		if err != nil {
			return nil, nil, err
		}
		return NewPostgresKeyValueStore(pool, log), pool.Close, nil
	case "memory":
		log.Warn("Using in-memory storage, local changes will not survive a restart")
		return NewMemoryKeyValueStore(), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}
