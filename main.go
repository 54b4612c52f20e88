package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/joho/godotenv"

	"github.com/learnhub/elearning-api/internal/config"
	"github.com/learnhub/elearning-api/internal/logging"
	"github.com/learnhub/elearning-api/internal/media"
	"github.com/learnhub/elearning-api/internal/notify"
	"github.com/learnhub/elearning-api/internal/server"
	"github.com/learnhub/elearning-api/internal/storage"
)

func main() {
	_ = godotenv.Load(".env.local")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.NewJSON(os.Stdout, slog.LevelInfo)

	ctx := context.Background()
	store, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}

	var notifier notify.Notifier = notify.NewLogNotifier(logger)
	if cfg.Email.Enabled() {
		smtp, err := notify.NewSMTPNotifier(cfg.Email)
		if err != nil {
			log.Fatalf("smtp: %v", err)
		}
		notifier = smtp
	}
	dispatcher := notify.NewDispatcher(notify.DispatcherConfig{
		Workers:     cfg.Notify.Workers,
		QueueSize:   cfg.Notify.QueueSize,
		SendTimeout: cfg.Notify.SendTimeout,
	}, notifier, logger)
	if err := dispatcher.Start(ctx); err != nil {
		log.Fatalf("notify: %v", err)
	}

	// A nil *S3Store must not reach the interface.
	var mediaStore media.Store
	if cfg.S3.Enabled() {
		s3Store, err := media.NewS3Store(ctx, cfg.S3)
		if err != nil {
			log.Fatalf("s3: %v", err)
		}
		mediaStore = s3Store
	}

	router := server.NewRouter(server.Deps{
		Config:   cfg,
		Logger:   logger,
		Users:    store.Users,
		Courses:  store.Courses,
		Health:   store,
		Notifier: dispatcher,
		Media:    mediaStore,
		Now:      time.Now,
	})

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info(ctx, "server listening", "port", cfg.Port, "driver", store.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"elearning-api": func(ctx context.Context) error {
				logger.Info(ctx, "shutting down")
				return errors.Join(
					srv.Shutdown(ctx),
					dispatcher.Stop(ctx),
					store.Close(ctx),
				)
			},
		},
	)
	os.Exit(<-wait)
}
