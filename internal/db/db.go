package db

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// Schema is the Postgres schema holding every table of the service.
const Schema = "elearning"

// Connect opens a gorm handle for the "postgres" or "sqlite" driver. Postgres
// goes through pgx's database/sql adapter and keeps its tables under Schema.
func Connect(driver, dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database url is empty")
	}

	lg := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             100 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)
	gcfg := &gorm.Config{
		Logger:         lg,
		TranslateError: true,
	}

	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		pgxCfg, err := pgx.ParseConfig(dsn)
		if err != nil {
			return nil, fmt.Errorf("parse database url: %w", err)
		}
		pgxCfg.RuntimeParams["application_name"] = "elearning-api"
		dialector = postgres.New(postgres.Config{Conn: stdlib.OpenDB(*pgxCfg)})
		gcfg.NamingStrategy = schema.NamingStrategy{TablePrefix: Schema + "."}
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}

	d, err := gorm.Open(dialector, gcfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := d.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	if driver == "sqlite" {
		// One connection keeps a shared in-memory database alive and
		// serialises writers.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(20)
		sqlDB.SetMaxIdleConns(20)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
		if err := EnsureSchema(d, Schema); err != nil {
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
	}

	log.Println("Connected to database")
	return d, nil
}

// Close releases the pool behind d.
func Close(d *gorm.DB) error {
	sqlDB, err := d.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
