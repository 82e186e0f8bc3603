// scriptpdf renders educational lesson scripts into paginated reports.
//
// A lesson is a project (title, speakers) plus an ordered list of slides.
// The report has a title page, one page per slide and a summary page, and
// can be rendered as PDF or as a plain-text layout listing.
//
// Commands:
//   - export, batch: render lessons to files or the configured sink
//   - stats, preview: inspect a lesson without writing anything
//   - serve: HTTP API with WebSocket export events
//   - shell: interactive REPL
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/r3d91ll/scriptpdf/pkg/config"
	rerrors "github.com/r3d91ll/scriptpdf/pkg/errors"
	"github.com/r3d91ll/scriptpdf/pkg/export"
	"github.com/r3d91ll/scriptpdf/pkg/storage"
)

const version = "1.0.0"

// app carries state shared by every command.
type app struct {
	configPath string
	logLevel   string
	cfg        *config.Config
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		rerrors.Display(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "scriptpdf",
		Short:         "Render lesson scripts into paginated reports",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default: ./scriptpdf.yaml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	root.AddCommand(
		newExportCmd(a),
		newBatchCmd(a),
		newStatsCmd(a),
		newPreviewCmd(a),
		newServeCmd(a),
		newShellCmd(a),
		newInitCmd(a),
		newVersionCmd(),
	)
	return root
}

// setup loads configuration and configures logging.
func (a *app) setup() error {
	if a.configPath == "" {
		a.configPath = config.DefaultConfigPath()
	}
	cfg, err := config.LoadOrDefault(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if err := config.SetupLogging(cfg.Log); err != nil {
		return rerrors.WrapConfig(err, rerrors.ErrConfigInvalid, "invalid log level").
			WithContext("level", cfg.Log.Level)
	}
	a.cfg = cfg
	logrus.WithField("config", a.configPath).Debug("configuration loaded")
	return nil
}

// exporter builds an Exporter wired to the configured source and sink. The
// returned cleanup closes any cloud clients.
func (a *app) exporter(ctx context.Context, opts ...export.Option) (*export.Exporter, func(), error) {
	source, err := storage.NewSource(ctx, a.cfg.Storage)
	if err != nil {
		return nil, nil, err
	}
	sink, err := storage.NewSink(ctx, a.cfg.Storage, a.cfg.Export.OutputDir)
	if err != nil {
		closeQuietly(source)
		return nil, nil, err
	}

	opts = append([]export.Option{export.WithSource(source), export.WithSink(sink)}, opts...)
	cleanup := func() {
		closeQuietly(source)
		closeQuietly(sink)
	}
	return export.New(a.cfg, nil, opts...), cleanup, nil
}

func closeQuietly(v interface{}) {
	if c, ok := v.(io.Closer); ok {
		if err := c.Close(); err != nil {
			logrus.WithError(err).Warn("close failed")
		}
	}
}

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			created, err := config.InitConfig(a.configPath)
			if err != nil {
				return err
			}
			if !created {
				fmt.Fprintf(cmd.OutOrStdout(), "Config already exists at: %s\n", a.configPath)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Config initialized at: %s\n", a.configPath)
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "scriptpdf %s\n", version)
			return nil
		},
	}
}
