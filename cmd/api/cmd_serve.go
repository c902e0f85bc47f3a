package main

import (
	"os/signal"
	"strings"
	"syscall"

	"inventory/internal/config"
	"inventory/internal/handler"
	"inventory/internal/server"

	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var port, driver string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := bootstrap(ctx, func(cfg *config.Config) {
				if port != "" {
					cfg.Port = config.NormalizePort(port)
				}
				if driver != "" {
					cfg.StoreDriver = strings.ToLower(driver)
				}
			})
			if err != nil {
				return err
			}
			defer a.close()

			//Handler生成
			productH := handler.NewProductHandler(a.product)

			//Server起動
			e := server.New(a.cfg, a.log, productH, a.metrics)
			return server.Start(ctx, e, a.cfg.Port, a.log)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "listen port (overrides PORT)")
	cmd.Flags().StringVar(&driver, "store", "", "store driver: json, postgres or sqlite (overrides STORE_DRIVER)")
	return cmd
}
