package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"inventory/internal/config"
	"inventory/internal/infra/store"
	"inventory/internal/logger"
	"inventory/internal/metrics"
	"inventory/internal/usecase"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "inventory",
		Short:         "Product inventory API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// .env は任意。無くてもエラーにしない
			if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("load .env: %w", err)
			}
			return nil
		},
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newSeedCmd())
	root.AddCommand(newImportCmd())
	return root
}

// コマンド共通の部品
type app struct {
	cfg     config.Config
	log     *slog.Logger
	metrics *metrics.Metrics
	product *usecase.ProductUsecase
	close   func() error
}

// 設定 → logger → store → usecase の順に組み立てる。
// override はフラグで設定を上書きするときに使う。
func bootstrap(ctx context.Context, override func(*config.Config)) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if override != nil {
		override(&cfg)
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	log := logger.New(os.Stderr, cfg.IsProd(), cfg.LogLevel)
	slog.SetDefault(log)

	//Repository生成
	productRepo, closeFn, err := store.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	m := metrics.New()

	//Usecase生成
	productUC := usecase.NewProductUsecase(m.InstrumentRepository(productRepo), log)

	log.Debug("store opened", "driver", cfg.StoreDriver)
	return &app{
		cfg:     cfg,
		log:     log,
		metrics: m,
		product: productUC,
		close:   closeFn,
	}, nil
}
