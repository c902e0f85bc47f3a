package db

import (
	"fmt"
	"os"
	"path/filepath"

	"inventory/internal/config"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect はDBに接続して *gorm.DB を返す。
// STORE_DRIVER が postgres / sqlite のときだけ使う。
func Connect(cfg config.Config) (*gorm.DB, error) {
	gcfg := &gorm.Config{Logger: logger.Default.LogMode(gormLogLevel(cfg))}

	switch cfg.StoreDriver {
	case config.DriverPostgres:
		return gorm.Open(postgres.Open(cfg.PostgresDSN()), gcfg)

	case config.DriverSQLite:
		if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create sqlite dir: %w", err)
			}
		}
		return gorm.Open(sqlite.Open(cfg.SQLitePath), gcfg)

	default:
		return nil, fmt.Errorf("driver %q is not a gorm driver", cfg.StoreDriver)
	}
}

// 本番ではSQLログを出さない
func gormLogLevel(cfg config.Config) logger.LogLevel {
	if cfg.IsProd() {
		return logger.Error
	}
	if cfg.LogLevel == "debug" {
		return logger.Info
	}
	return logger.Warn
}
