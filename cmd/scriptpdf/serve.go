package main

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/r3d91ll/scriptpdf/pkg/api"
	"github.com/r3d91ll/scriptpdf/pkg/export"
	"github.com/r3d91ll/scriptpdf/pkg/shell"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		host string
		port int
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			srvCfg := a.cfg.Server
			if host != "" {
				srvCfg.Host = host
			}
			if port != 0 {
				srvCfg.Port = port
			}

			hub := api.NewHub()
			go hub.Run()
			defer hub.Stop()

			exp, cleanup, err := a.exporter(ctx, export.WithObserver(hub.Publish))
			if err != nil {
				return err
			}
			defer cleanup()

			server := api.NewServer(srvCfg)
			api.NewReportHandler(exp, server.Config().MaxBodyBytes, version).RegisterRoutes(server.Router())
			api.NewWebSocketHandler(hub).RegisterRoutes(server.Router())

			if err := server.Start(); err != nil {
				return err
			}
			logrus.WithField("addr", server.Address()).Info("scriptpdf API ready")

			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&host, "host", "", "bind address (default from config)")
	cmd.Flags().IntVar(&port, "port", 0, "port (default from config)")
	return cmd
}

func newShellCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shell [lesson]",
		Short: "Start the interactive shell",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exp, cleanup, err := a.exporter(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			cfg := shell.Config{}
			if home, err := os.UserHomeDir(); err == nil {
				cfg.HistoryFile = filepath.Join(home, ".scriptpdf_history")
			}
			if len(args) == 1 {
				cfg.Lesson = args[0]
			}

			sh, err := shell.New(exp, cfg)
			if err != nil {
				return err
			}
			return sh.Run(cmd.Context())
		},
	}
}
