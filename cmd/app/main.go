package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"yatube/internal/adapters/httpapi"
	"yatube/internal/bootstrap"
	"yatube/internal/config"
	"yatube/internal/metrics"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	config.InitLogger()

	settings, err := config.Load()
	if err != nil {
		config.Logger.Fatal("Invalid configuration", zap.Error(err))
	}
	if settings.Env == "production" {
		config.InitLoggerFor(settings.Env)
		gin.SetMode(gin.ReleaseMode)
	}
	defer config.Logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.Open(ctx, settings)
	if err != nil {
		config.Logger.Fatal("Startup failed", zap.Error(err))
	}
	defer app.Close()

	if err := app.Migrate(); err != nil {
		config.Logger.Fatal("Error during migrations", zap.Error(err))
	}

	r, err := httpapi.SetupRoutes(httpapi.Dependencies{
		Users:         app.Users,
		Posts:         app.Posts,
		Comments:      app.Comments,
		Followers:     app.Followers,
		Groups:        app.Groups,
		PageCache:     app.PageCache,
		Metrics:       metrics.New(),
		MediaRoot:     settings.MediaRoot,
		SecureCookies: settings.Env == "production",
	})
	if err != nil {
		config.Logger.Fatal("Router setup failed", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              ":" + settings.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		config.Logger.Info("App is running", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			config.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	<-ctx.Done()
	config.Logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		config.Logger.Error("Graceful shutdown failed", zap.Error(err))
	}
}
