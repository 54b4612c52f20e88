// Package storage opens the configured backend and exposes its repositories.
package storage

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"gorm.io/gorm"

	"github.com/learnhub/elearning-api/internal/config"
	"github.com/learnhub/elearning-api/internal/courses"
	"github.com/learnhub/elearning-api/internal/db"
	"github.com/learnhub/elearning-api/internal/mongostore"
	"github.com/learnhub/elearning-api/internal/users"
)

type Storage struct {
	Driver  string
	Users   users.Repository
	Courses courses.Repository

	gorm  *gorm.DB
	mongo *mongo.Client
}

// Open connects to the backend named by cfg.DatabaseDriver and migrates it.
func Open(ctx context.Context, cfg *config.Config) (*Storage, error) {
	switch cfg.DatabaseDriver {
	case config.DriverMongo:
		client, err := mongostore.Connect(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		database := client.Database(cfg.MongoDatabase)
		if err := mongostore.EnsureIndexes(ctx, database); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return &Storage{
			Driver:  cfg.DatabaseDriver,
			Users:   mongostore.NewUserRepository(database),
			Courses: mongostore.NewCourseRepository(database),
			mongo:   client,
		}, nil

	case config.DriverPostgres, config.DriverSQLite:
		gdb, err := db.Connect(cfg.DatabaseDriver, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return FromGorm(cfg.DatabaseDriver, gdb)

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}
}

// FromGorm migrates an open gorm handle and wraps it.
func FromGorm(driver string, gdb *gorm.DB) (*Storage, error) {
	if err := users.Migrate(gdb); err != nil {
		return nil, fmt.Errorf("migrate users: %w", err)
	}
	if err := courses.Migrate(gdb); err != nil {
		return nil, fmt.Errorf("migrate courses: %w", err)
	}
	return &Storage{
		Driver:  driver,
		Users:   users.NewGormRepository(gdb),
		Courses: courses.NewGormRepository(gdb),
		gorm:    gdb,
	}, nil
}

func (s *Storage) Ping(ctx context.Context) error {
	if s.mongo != nil {
		return s.mongo.Ping(ctx, nil)
	}
	sqlDB, err := s.gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Storage) Close(ctx context.Context) error {
	if s.mongo != nil {
		return s.mongo.Disconnect(ctx)
	}
	return db.Close(s.gorm)
}
