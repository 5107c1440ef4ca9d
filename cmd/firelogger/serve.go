package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Philipp01105/firelogger/config"
	"github.com/Philipp01105/firelogger/handler"
	"github.com/Philipp01105/firelogger/handler/echohandler"
	"github.com/Philipp01105/firelogger/handler/httphandler"
)

var (
	serveAddr       string
	serveConfig     string
	serveArchive    string
	serveEcho       bool
	serveConsole    bool
	shutdownTimeout = 10 * time.Second
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
	serveCmd.Flags().StringVarP(&serveConfig, "config", "c", "", "YAML config file")
	serveCmd.Flags().StringVar(&serveArchive, "archive", "", "append captured sessions to this file")
	serveCmd.Flags().BoolVar(&serveEcho, "echo", false, "serve through Echo instead of net/http")
	serveCmd.Flags().BoolVar(&serveConsole, "console", false, "print captured records on stderr")
}

// serveCmd runs the demo server
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the FireLogger demo server",
	Long: `Run a demo HTTP server wrapped by the FireLogger middleware.

Routes:
  /        info records with structured arguments
  /warn    a runtime warning on the error logger
  /error   an error with its stack
  /panic   a recovered panic
  /slog    records written through log/slog
  /metrics Prometheus metrics (not captured)

Configuration is read from --config and FIRELOGGER_* variables.

Examples:
  # Serve on :8080
  firelogger serve

  # Require a password and keep an archive
  FIRELOGGER_PASSWORD=secret firelogger serve --archive /tmp/fl.jsonl`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(serveConfig)
	if err != nil {
		return err
	}

	log, err := newLogger()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = log.Sync()
	}()

	stats := handler.NewStats()
	handlers := []handler.Handler{handler.NewZapHandler(log.Named("records"))}
	if serveConsole {
		handlers = append(handlers, handler.NewConsoleHandler(handler.ConsoleConfig{Async: true, Stats: stats}))
	}
	if serveArchive != "" {
		archive, err := handler.NewArchiveHandler(handler.ArchiveConfig{
			Filename:   serveArchive,
			Encoding:   cfg.Encoding,
			MaxSize:    64 << 20,
			MaxBackups: 5,
			Stats:      stats,
		})
		if err != nil {
			return err
		}
		handlers = append(handlers, archive)
	}

	capture, err := handler.NewCapture(cfg,
		handler.WithLogger(log.Named("firelogger")),
		handler.WithStats(stats),
		handler.WithHandler(handlers...),
	)
	if err != nil {
		return err
	}
	defer func() {
		_ = capture.Close()
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		handler.NewCollector(stats, ""),
		collectors.NewGoCollector(),
	)
	metrics := promhttp.HandlerFor(reg, promhttp.HandlerOpts{})

	var srvHandler http.Handler
	if serveEcho {
		srvHandler = newEchoServer(capture, metrics)
	} else {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics)
		mux.Handle("/", httphandler.New(capture).Wrap(newDemoMux()))
		srvHandler = mux
	}

	srv := &http.Server{
		Addr:              serveAddr,
		Handler:           srvHandler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting FireLogger demo server",
			zap.String("addr", serveAddr),
			zap.Bool("echo", serveEcho),
			zap.Bool("password", cfg.PasswordRequired()))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down", zap.Duration("shutdown_timeout", shutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newEchoServer(capture *handler.Capture, metrics http.Handler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.GET("/metrics", echo.WrapHandler(metrics))

	demo := e.Group("", echohandler.Middleware(capture))
	demo.Any("/*", echo.WrapHandler(newDemoMux()))
	return e
}

func newLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}
