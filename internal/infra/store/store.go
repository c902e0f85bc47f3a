// Package store は設定に応じて ProductRepository の実装を選ぶ。
package store

import (
	"context"
	"fmt"

	"inventory/internal/config"
	"inventory/internal/infra/db"
	"inventory/internal/infra/jsonfile"
	infraRepo "inventory/internal/infra/repository"
	repo "inventory/internal/repository"
)

// Open はリポジトリと後始末用の関数を返す。
func Open(ctx context.Context, cfg config.Config) (repo.ProductRepository, func() error, error) {
	switch cfg.StoreDriver {
	case config.DriverJSON:
		s := jsonfile.NewProductStore(cfg.StorePath, jsonfile.WithStrict(cfg.StoreStrict))
		return s, func() error { return nil }, nil

	case config.DriverPostgres, config.DriverSQLite:
		gormDB, err := db.Connect(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("connect %s: %w", cfg.StoreDriver, err)
		}

		r := infraRepo.NewProductGormRepository(gormDB)
		if err := r.AutoMigrate(ctx); err != nil {
			return nil, nil, err
		}

		closeFn := func() error {
			sqlDB, err := gormDB.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		}
		return r, closeFn, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
