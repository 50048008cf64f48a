// Package sqlitedb opens gorm connections backed by SQLite.
package sqlitedb

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jrazmi/tasktracker/sdk/environment"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Options represents the exportable database configuration
type Options struct {
	Path        string        `env:"SQLITE_PATH" default:"tasktracker.db"`
	BusyTimeout time.Duration `env:"SQLITE_BUSY_TIMEOUT" default:"5s"`
	LogQueries  bool          `env:"SQLITE_LOG_QUERIES" default:"false"`
}

type options struct {
	path        string
	busyTimeout time.Duration
	logQueries  bool
	logger      *slog.Logger
}

// Option is a function that configures the database options
type Option func(*options)

// WithLogger routes gorm's query log through logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogQueries enables or disables query logging
func WithLogQueries(enable bool) Option {
	return func(o *options) {
		o.logQueries = enable
	}
}

// NewFromEnv opens the database file named by SQLITE_PATH.
func NewFromEnv(prefix string, opts ...Option) (*gorm.DB, error) {
	var cfg Options
	if err := environment.ParseEnvTags(prefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing sqlite config: %w", err)
	}
	return open(cfg, opts...)
}

// NewInMemory opens a private in-memory database. Connections opened with the
// same name share one database, so tests should pass a unique name.
func NewInMemory(name string, opts ...Option) (*gorm.DB, error) {
	return open(Options{Path: fmt.Sprintf("file:%s?mode=memory&cache=shared", name), BusyTimeout: time.Second}, opts...)
}

func open(cfg Options, opts ...Option) (*gorm.DB, error) {
	o := &options{
		path:        cfg.Path,
		busyTimeout: cfg.BusyTimeout,
		logQueries:  cfg.LogQueries,
	}
	for _, opt := range opts {
		opt(o)
	}

	gcfg := &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
	}
	if o.logQueries && o.logger != nil {
		gcfg.Logger = gormlogger.New(
			slog.NewLogLogger(o.logger.Handler(), slog.LevelDebug),
			gormlogger.Config{
				SlowThreshold:             200 * time.Millisecond,
				LogLevel:                  gormlogger.Info,
				IgnoreRecordNotFoundError: true,
			},
		)
	}

	db, err := gorm.Open(sqlite.New(sqlite.Config{
		DriverName: DriverName,
		DSN:        dsn(o.path, o.busyTimeout),
	}), gcfg)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql.DB: %w", err)
	}
	// SQLite allows one writer; a single connection serializes statements so a
	// conditional update and its version bump never interleave.
	sqlDB.SetMaxOpenConns(1)

	return db, nil
}

func dsn(path string, busy time.Duration) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%s_busy_timeout=%d&_foreign_keys=on", path, sep, busy.Milliseconds())
}

// StatusCheck returns nil if it can successfully talk to the database
func StatusCheck(ctx context.Context, db *gorm.DB) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Second)
		defer cancel()
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the underlying connection.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
