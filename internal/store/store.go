package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	_ "modernc.org/sqlite" // pure Go SQLite driver, no CGO required

	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/logger"
)

// Store owns the database handle shared by the content collections and the
// visitor analytics.
type Store struct {
	DB     *gorm.DB
	sql    *sql.DB
	driver string
}

// Open connects to sqlite or postgres according to cfg and migrates the content schema.
func Open(cfg config.DatabaseConfig) (*Store, error) {
	gormCfg := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		// created_at is compared as text by sqlite, so every row must share one zone
		NowFunc: func() time.Time { return time.Now().UTC() },
	}

	var (
		sqlDB     *sql.DB
		dialector gorm.Dialector
		err       error
	)
	switch cfg.Driver {
	case "postgres":
		sqlDB, err = sql.Open("pgx", cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres database: %w", err)
		}
		dialector = postgres.New(postgres.Config{Conn: sqlDB})
	default:
		// _time_format keeps datetimes readable by both gorm and the analytics queries
		dsn := cfg.Path + "?_pragma=busy_timeout(5000)&_time_format=sqlite"
		sqlDB, err = sql.Open("sqlite", dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		dialector = sqlite.Dialector{Conn: sqlDB}
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.Driver != "postgres" {
		if err := db.Exec("PRAGMA journal_mode = WAL;").Error; err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
		if err := db.Exec("PRAGMA synchronous = NORMAL;").Error; err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("failed to set synchronous mode: %w", err)
		}
		// SQLite only supports one writer at a time
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&content.Project{}, &content.BlogPost{}, &content.Education{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	logger.Info("database initialized", "driver", cfg.Driver)
	return &Store{DB: db, sql: sqlDB, driver: cfg.Driver}, nil
}

func (s *Store) Projects() *Collection[content.Project, *content.Project] {
	return NewCollection[content.Project](s.DB)
}

func (s *Store) Blogs() *Collection[content.BlogPost, *content.BlogPost] {
	return NewCollection[content.BlogPost](s.DB)
}

func (s *Store) Education() *Collection[content.Education, *content.Education] {
	return NewCollection[content.Education](s.DB)
}

// Driver reports the configured backend ("sqlite" or "postgres").
func (s *Store) Driver() string {
	return s.driver
}

func (s *Store) PingContext(ctx context.Context) error {
	return s.sql.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.sql.Close()
}
