package db

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/studyforge/studyforge-backend/internal/logger"
	"github.com/studyforge/studyforge-backend/internal/types"
	"github.com/studyforge/studyforge-backend/internal/utils"
)

// OpenPostgres connects using DATABASE_URL when set, otherwise the
// POSTGRES_* parts.
func OpenPostgres(log *logger.Logger) (*gorm.DB, error) {
	dsn := strings.TrimSpace(utils.GetEnv("DATABASE_URL", "", log))
	if dsn == "" {
		host := utils.GetEnv("POSTGRES_HOST", "localhost", log)
		port := utils.GetEnv("POSTGRES_PORT", "5432", log)
		user := utils.GetEnv("POSTGRES_USER", "postgres", log)
		password := utils.GetEnv("POSTGRES_PASSWORD", "", log)
		name := utils.GetEnv("POSTGRES_NAME", "studyforge", log)
		dsn = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, name)
	}

	log.Info("Connecting to Postgres...")
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	return gdb, nil
}

// OpenSQLite opens (or creates) the file at SQLITE_PATH.
func OpenSQLite(log *logger.Logger) (*gorm.DB, error) {
	path := utils.GetEnv("SQLITE_PATH", "studyforge.db", log)

	log.Info("Opening SQLite database...", "path", path)
	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	return gdb, nil
}

func AutoMigrate(gdb *gorm.DB, log *logger.Logger) error {
	log.Info("Auto migrating plan tables...")
	if err := gdb.AutoMigrate(&types.PlanRow{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
