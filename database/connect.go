package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/rpupo63/blog-service/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

// DSN builds the postgres connection string from DB_* settings
func DSN(c map[string]string) string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		config.GetString(c, "DB_HOST", "localhost"),
		config.GetString(c, "DB_USER", "postgres"),
		config.GetString(c, "DB_PASSWORD", ""),
		config.GetString(c, "DB_NAME", "blog"),
		config.GetString(c, "DB_PORT", "5432"),
		config.GetString(c, "DB_SSLMODE", "disable"),
	)
}

// Open connects to postgres and, when DB_REPLICA_DSNS is set, routes reads to the replicas
func Open(c map[string]string) (*gorm.DB, error) {
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             config.GetMillis(c, "DB_SLOW_THRESHOLD_MS", 10*time.Second),
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  DSN(c),
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		PrepareStmt:    false,
		Logger:         newLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if replicas := config.GetStrings(c, "DB_REPLICA_DSNS"); len(replicas) > 0 {
		dialectors := make([]gorm.Dialector, 0, len(replicas))
		for _, dsn := range replicas {
			dialectors = append(dialectors, postgres.New(postgres.Config{DSN: dsn, PreferSimpleProtocol: true}))
		}
		if err := db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: dialectors,
			Policy:   dbresolver.RandomPolicy{},
		})); err != nil {
			return nil, fmt.Errorf("register read replicas: %w", err)
		}
	}

	// Test database connection
	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		return nil, fmt.Errorf("test database connection: %w", err)
	}
	return db, nil
}
