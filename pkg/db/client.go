package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/havenfurnitures/storefront-api/pkg/config"
	"github.com/havenfurnitures/storefront-api/pkg/logger"
)

const slowQueryThreshold = 500 * time.Millisecond

// Client is the relational catalog connection (postgres in production,
// sqlite for local runs and tests).
type Client struct {
	conn    *gorm.DB
	dialect string
}

// New opens and pings the store selected by driver. Slow queries and GORM
// errors go to logg.
func New(ctx context.Context, driver string, cfg config.DBConfig, logg *logger.Logger) (*Client, error) {
	dialector, err := dialectorFor(driver, cfg)
	if err != nil {
		return nil, err
	}
	conn, err := open(dialector, queryLogger(logg))
	if err != nil {
		return nil, err
	}
	pool, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("db: sql handle: %w", err)
	}
	tunePool(pool, driver, cfg)

	if err := pool.PingContext(ctx); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("db: ping %s: %w", driver, err)
	}
	if logg != nil {
		logg.Info(logg.WithField(ctx, "driver", driver), "relational store connected")
	}
	return &Client{conn: conn, dialect: driver}, nil
}

func dialectorFor(driver string, cfg config.DBConfig) (gorm.Dialector, error) {
	switch driver {
	case config.StoreDriverPostgres:
		if cfg.DSN == "" {
			return nil, fmt.Errorf("db: postgres needs a DSN")
		}
		// Simple protocol keeps pgbouncer in transaction mode happy.
		return postgres.New(postgres.Config{DSN: cfg.DSN, PreferSimpleProtocol: true}), nil
	case config.StoreDriverSQLite:
		if cfg.SQLitePath == "" {
			return nil, fmt.Errorf("db: sqlite needs a path")
		}
		return sqlite.Open(cfg.SQLitePath), nil
	}
	return nil, fmt.Errorf("db: %q is not a relational driver", driver)
}

// Open returns a silent GORM handle for dialector. Tests and tooling use it
// directly with an in-memory sqlite dialector.
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	return open(dialector, gormlogger.Discard)
}

func open(dialector gorm.Dialector, lg gormlogger.Interface) (*gorm.DB, error) {
	conn, err := gorm.Open(dialector, &gorm.Config{Logger: lg, SkipDefaultTransaction: true})
	if err != nil {
		return nil, fmt.Errorf("db: open: %w", err)
	}
	return conn, nil
}

// queryLogger routes GORM warnings (slow queries) and errors through the
// service logger. Record-not-found is expected traffic and stays quiet.
func queryLogger(logg *logger.Logger) gormlogger.Interface {
	if logg == nil {
		return gormlogger.Discard
	}
	return gormlogger.New(gormWriter{logg: logg}, gormlogger.Config{
		SlowThreshold:             slowQueryThreshold,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

type gormWriter struct {
	logg *logger.Logger
}

func (w gormWriter) Printf(format string, args ...any) {
	ctx := w.logg.WithField(context.Background(), "component", "gorm")
	w.logg.Warn(ctx, fmt.Sprintf(format, args...))
}

// NewFromGorm wraps a handle opened elsewhere.
func NewFromGorm(conn *gorm.DB) *Client {
	c := &Client{conn: conn}
	if conn != nil && conn.Dialector != nil {
		c.dialect = conn.Dialector.Name()
	}
	return c
}

func tunePool(pool *sql.DB, driver string, cfg config.DBConfig) {
	if driver == config.StoreDriverSQLite {
		// One connection serialises writers and avoids SQLITE_BUSY.
		pool.SetMaxOpenConns(1)
		return
	}
	for _, set := range []struct {
		ok    bool
		apply func()
	}{
		{cfg.MaxOpenConns > 0, func() { pool.SetMaxOpenConns(cfg.MaxOpenConns) }},
		{cfg.MaxIdleConns > 0, func() { pool.SetMaxIdleConns(cfg.MaxIdleConns) }},
		{cfg.ConnMaxLifetime > 0, func() { pool.SetConnMaxLifetime(cfg.ConnMaxLifetime) }},
		{cfg.ConnMaxIdleTime > 0, func() { pool.SetConnMaxIdleTime(cfg.ConnMaxIdleTime) }},
	} {
		if set.ok {
			set.apply()
		}
	}
}

func (c *Client) DB() *gorm.DB { return c.conn }

// Dialect is "postgres" or "sqlite".
func (c *Client) Dialect() string { return c.dialect }

func (c *Client) sqlDB() (*sql.DB, error) {
	if c == nil || c.conn == nil {
		return nil, fmt.Errorf("db: client not initialized")
	}
	return c.conn.DB()
}

func (c *Client) Ping(ctx context.Context) error {
	pool, err := c.sqlDB()
	if err != nil {
		return err
	}
	return pool.PingContext(ctx)
}

func (c *Client) Close() error {
	pool, err := c.sqlDB()
	if err != nil {
		return err
	}
	return pool.Close()
}
