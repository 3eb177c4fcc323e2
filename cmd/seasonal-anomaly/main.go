package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"seasonal-anomaly/config"
	v1 "seasonal-anomaly/internal/controllers/http/v1"
	"seasonal-anomaly/internal/repositories"
	"seasonal-anomaly/internal/services/analysis"
	"seasonal-anomaly/pkg/httpserver"
	"seasonal-anomaly/pkg/logger"
	"seasonal-anomaly/pkg/observe"
)

// @title Seasonal Anomaly API
// @version 1.0.0
// @description Flags temperature readings that deviate from a city's seasonal norm.
// @description Upload historical temperatures as CSV, get every record labeled against its (city, season) baseline and compare the current temperature with the monthly baseline.

// @contact.name Seasonal Anomaly API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @tag.name Datasets
// @tag.description Historical dataset operations
// @tag.name Analysis
// @tag.description Anomaly detection operations
func main() {
	ctx, cancel := context.WithCancel(context.Background())

	cnf, err := config.NewConfig()
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}

	writers := []io.Writer{os.Stdout}
	var hook *observe.SentryHook
	if cnf.Sentry.DSN != "" {
		hook = observe.NewSentryHook(cnf.App.Env, cnf.App.Name, cnf.Sentry.Debug, cnf.Sentry.DSN)
		writers = append(writers, hook)
	}

	l := logger.New(logger.Options{
		AppName: cnf.App.Name,
		AppEnv:  cnf.App.Env,
		Level:   cnf.Log.Level,
	}, writers...)

	app := httpserver.InitFiberServer(cnf)

	repos := repositories.InitTemperatureRepositories(cnf, l)

	service := analysis.NewAnalysisService(repos, cnf.Thresholds.Anomaly(), l)

	v1.NewRouter(
		app,
		service,
		l,
	)

	go func() {
		if err := app.Listen(":" + cnf.Server.Port); err != nil {
			l.Fatal("cannot run the server", map[string]any{"err": err.Error()})
		}
	}()

	l.Info("application started successfully", map[string]any{
		"port":         cnf.Server.Port,
		"env":          cnf.App.Env,
		"repositories": len(repos),
		"historical":   cnf.Thresholds.Historical,
		"live":         cnf.Thresholds.Live,
	})

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer func() {
		l.Warning("stopping application services")
		signal.Stop(sigCh)
		close(sigCh)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		_ = app.ShutdownWithContext(shutdownCtx)
		_ = l.Stop()
		if hook != nil {
			hook.Flush()
		}
		cancel()
	}()

	select {
	case <-sigCh:
		fmt.Println("received shutdown signal")
	case <-ctx.Done():
		fmt.Println("context cancelled")
	}
}
