package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/learnhub/elearning-api/internal/auth"
	"github.com/learnhub/elearning-api/internal/config"
	"github.com/learnhub/elearning-api/internal/courses"
	"github.com/learnhub/elearning-api/internal/logging"
	"github.com/learnhub/elearning-api/internal/seeds"
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
	defer func() { _ = store.Close(ctx) }()

	data, err := seeds.Demo()
	if err != nil {
		log.Fatalf("seed data: %v", err)
	}

	s := &seeds.Seeder{
		Users:   store.Users,
		Courses: courses.NewService(store.Courses, store.Users, nil, nil, logger),
		Hasher:  auth.NewPasswordHasher(auth.DefaultBcryptCost),
		Logger:  logger,
	}
	if err := s.SeedAll(ctx, data); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}
