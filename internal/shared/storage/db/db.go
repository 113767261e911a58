package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as database/sql driver

	"interview-backend/internal/shared/metrics"
	"interview-backend/internal/shared/telemetry"
)

// Options controls pool sizing and the connect-time ping.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

// ErrNoDatabaseURL is returned by Connect when no DATABASE_URL is configured.
var ErrNoDatabaseURL = errors.New("DATABASE_URL is empty")

var openDB = sql.Open

const defaultPingTimeout = 5 * time.Second

// DefaultServerOptions returns pool settings for the API process.
func DefaultServerOptions() Options {
	return Options{
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxIdleTime: 2 * time.Minute,
		ConnMaxLifetime: time.Hour,
		PingTimeout:     defaultPingTimeout,
	}
}

// DefaultMigrateOptions returns pool settings for one-shot commands: migrate and seed.
func DefaultMigrateOptions() Options {
	opts := DefaultServerOptions()
	opts.MaxOpenConns = 1
	opts.MaxIdleConns = 1
	return opts
}

type envInt struct {
	key string
	dst func(*Options) *int
}

type envDuration struct {
	key string
	dst func(*Options) *time.Duration
}

var (
	intOverrides = []envInt{
		{"DB_MAX_OPEN_CONNS", func(o *Options) *int { return &o.MaxOpenConns }},
		{"DB_MAX_IDLE_CONNS", func(o *Options) *int { return &o.MaxIdleConns }},
	}
	durationOverrides = []envDuration{
		{"DB_CONN_MAX_LIFETIME", func(o *Options) *time.Duration { return &o.ConnMaxLifetime }},
		{"DB_CONN_MAX_IDLE_TIME", func(o *Options) *time.Duration { return &o.ConnMaxIdleTime }},
		{"DB_PING_TIMEOUT", func(o *Options) *time.Duration { return &o.PingTimeout }},
	}
)

// OptionsFromEnv overrides defaults with DB_* env vars. Unparseable values are logged and ignored.
func OptionsFromEnv(defaults Options) Options {
	opts := defaults
	for _, o := range intOverrides {
		raw := strings.TrimSpace(os.Getenv(o.key))
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			telemetry.Warn("db.env_invalid", map[string]any{"key": o.key, "value": raw, "error": err.Error()})
			continue
		}
		*o.dst(&opts) = v
	}
	for _, o := range durationOverrides {
		raw := strings.TrimSpace(os.Getenv(o.key))
		if raw == "" {
			continue
		}
		v, err := time.ParseDuration(raw)
		if err != nil {
			telemetry.Warn("db.env_invalid", map[string]any{"key": o.key, "value": raw, "error": err.Error()})
			continue
		}
		*o.dst(&opts) = v
	}
	return opts
}

// Connect opens a pgx-backed *sql.DB and pings it. Callers share the returned handle.
func Connect(ctx context.Context, databaseURL string, opts Options) (*sql.DB, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, ErrNoDatabaseURL
	}

	db, err := openDB("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	applyOptions(db, opts)

	pingTimeout := opts.PingTimeout
	if pingTimeout <= 0 {
		pingTimeout = defaultPingTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	stats := db.Stats()
	telemetry.Info("db.connected", map[string]any{
		"max_open": stats.MaxOpenConnections,
		"open":     stats.OpenConnections,
		"idle":     stats.Idle,
	})
	return db, nil
}

// RegisterPoolMetrics exposes the pool counters of db on /metrics.
func RegisterPoolMetrics(db *sql.DB) {
	if db == nil {
		return
	}
	metrics.RegisterGauge("db_open_connections", "Open database connections", func() float64 {
		return float64(db.Stats().OpenConnections)
	})
	metrics.RegisterGauge("db_in_use_connections", "Database connections in use", func() float64 {
		return float64(db.Stats().InUse)
	})
	metrics.RegisterGauge("db_wait_count", "Total waits for a free database connection", func() float64 {
		return float64(db.Stats().WaitCount)
	})
}

func applyOptions(db *sql.DB, opts Options) {
	defaults := DefaultServerOptions()
	if opts.MaxOpenConns <= 0 {
		opts.MaxOpenConns = defaults.MaxOpenConns
	}
	if opts.MaxIdleConns <= 0 {
		opts.MaxIdleConns = defaults.MaxIdleConns
	}
	if opts.ConnMaxLifetime <= 0 {
		opts.ConnMaxLifetime = defaults.ConnMaxLifetime
	}
	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxIdleConns)
	db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	if opts.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(opts.ConnMaxIdleTime)
	}
}
