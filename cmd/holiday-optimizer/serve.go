package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/username/holiday-optimizer/internal/daemon"
	"github.com/username/holiday-optimizer/internal/server"
)

func serveCmd() *cobra.Command {
	var address string
	var noWarm bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := initializeApp(cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			if address == "" {
				address = cfg.Server.Address
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var warmer *daemon.Daemon
			if !noWarm && len(cfg.Daemon.Countries) > 0 {
				warmer = daemon.NewDaemon(a.source, cfg.Daemon.Countries, cfg.Daemon.GetRefreshInterval(), logger)
				go func() {
					if err := warmer.Run(ctx); err != nil {
						logger.Error("Cache warmer exited", zap.Error(err))
					}
				}()
			}

			srv := server.New(server.Options{
				Address:        address,
				AllowedOrigins: cfg.Server.AllowedOrigins,
				ReadTimeout:    cfg.Server.GetReadTimeout(),
				WriteTimeout:   cfg.Server.GetWriteTimeout(),
			}, a.planner, warmer, logger)

			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "Listen address (default from config)")
	cmd.Flags().BoolVar(&noWarm, "no-warm", false, "Disable the background holiday cache warmer")
	return cmd
}

func warmCmd() *cobra.Command {
	var once bool

	cmd := &cobra.Command{
		Use:   "warm",
		Short: "Prefetch holidays for the configured countries into the cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := initializeApp(cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			d := daemon.NewDaemon(a.source, cfg.Daemon.Countries, cfg.Daemon.GetRefreshInterval(), logger)
			if !once {
				return d.Start()
			}

			warmed, err := d.WarmNow(context.Background())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Warmed %d country/year entries\n", warmed)
			return nil
		},
	}

	cmd.Flags().BoolVar(&once, "once", false, "Warm once and exit instead of running as a daemon")
	return cmd
}
