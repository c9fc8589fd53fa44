package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wealth-signals/internal/signals/config"
	delivery "wealth-signals/internal/signals/delivery/http"
	"wealth-signals/internal/signals/service"
	"wealth-signals/pkg/logger"
	"wealth-signals/pkg/trace"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the signal HTTP service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Signal Service", logger.Field("name", cfg.App.Name), logger.Field("version", cfg.App.Version))

	shutdownTracer, err := trace.Init(cfg.Tracing.Enabled, cfg.App.Name, cfg.App.Version)
	if err != nil {
		appLogger.Fatal("Failed to initialize tracing", logger.ErrorField(err))
	}
	defer func() { _ = shutdownTracer(context.Background()) }()

	a, err := newApp(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize signal pipeline", logger.ErrorField(err))
	}
	defer a.Close()

	if cfg.Warmup.Enabled {
		warmup := service.NewWarmupService(cfg, appLogger, a.signals)
		go func() {
			if err := warmup.Start(ctx); err != nil {
				appLogger.Error("Warmup service stopped", logger.ErrorField(err))
			}
		}()
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger(appLogger))

	signalHandler := delivery.NewSignalHandler(a.signals, cfg.Signals.DefaultLimit, appLogger)
	signalHandler.RegisterRoutes(e)

	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop() // trigger shutdown
		}
	}()

	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

// requestLogger carries the request id into the request context and logs each request.
func requestLogger(appLogger *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			started := time.Now()
			id := c.Response().Header().Get(echo.HeaderXRequestID)
			ctx := logger.WithRequestID(c.Request().Context(), id)
			c.SetRequest(c.Request().WithContext(ctx))

			err := next(c)

			appLogger.InfoContext(ctx, "HTTP request",
				logger.StringField("method", c.Request().Method),
				logger.StringField("path", c.Path()),
				logger.IntField("status", c.Response().Status),
				logger.StringField("latency", time.Since(started).String()),
			)
			return err
		}
	}
}

// @title Wealth Signals API
// @version 1.0
// @description BUY/SELL/WATCH signals for NSE large caps.
// @BasePath /
func main() {
	rootCmd := &cobra.Command{
		Use:   "signal-service",
		Short: "Trading signal service for NSE large caps",
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd, digestCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing signal-service CLI: %s\n", err)
		os.Exit(1)
	}
}
