package store

import (
	"fmt"
	"strings"

	"github.com/studyforge/studyforge-backend/internal/db"
	"github.com/studyforge/studyforge-backend/internal/logger"
	"github.com/studyforge/studyforge-backend/internal/utils"
)

// New selects the backing store from PLAN_STORE_BACKEND:
// memory (default), redis, postgres, sqlite.
func New(log *logger.Logger) (PlanStore, error) {
	backend := strings.ToLower(strings.TrimSpace(utils.GetEnv("PLAN_STORE_BACKEND", "memory", log)))
	switch backend {
	case "", "memory":
		log.Info("plan store backend: memory")
		return NewMemoryStore(), nil
	case "redis":
		log.Info("plan store backend: redis")
		return NewRedisStore(log)
	case "postgres":
		log.Info("plan store backend: postgres")
		gdb, err := db.OpenPostgres(log)
		if err != nil {
			return nil, err
		}
		if err := db.AutoMigrate(gdb, log); err != nil {
			return nil, err
		}
		return NewGormStore(gdb, log)
	case "sqlite":
		log.Info("plan store backend: sqlite")
		gdb, err := db.OpenSQLite(log)
		if err != nil {
			return nil, err
		}
		if err := db.AutoMigrate(gdb, log); err != nil {
			return nil, err
		}
		return NewGormStore(gdb, log)
	default:
		return nil, fmt.Errorf("unknown PLAN_STORE_BACKEND: %s", backend)
	}
}
