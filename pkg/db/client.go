package db

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"

	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/angelmondragon/pokeshop-api/pkg/config"
	"github.com/angelmondragon/pokeshop-api/pkg/logger"
)

// Gateway executes parameterized statements against the shared pool. Statements use
// positional $n placeholders; args are always bound, never interpolated.
type Gateway interface {
	// Query runs a row-returning statement, scans the rows into dest and reports how many
	// rows were read.
	Query(ctx context.Context, dest any, query string, args ...any) (int64, error)
	// Exec runs a statement and reports the affected-row count.
	Exec(ctx context.Context, query string, args ...any) (int64, error)
}

// Client wraps the shared GORM connection.
type Client struct {
	conn *gorm.DB
}

var _ Gateway = (*Client)(nil)

// Pinger exposes the health check surface.
type Pinger interface {
	Ping(ctx context.Context) error
}

// New boots a GORM client using the provided configuration.
func New(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*Client, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	gormLogger := gormlogger.New(
		log.New(io.Discard, "", log.LstdFlags),
		gormlogger.Config{LogLevel: gormlogger.Silent},
	)

	gormCfg := &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
	}

	conn, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("opening db connection: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql db handle: %w", err)
	}

	applyPoolSettings(sqlDB, cfg.DB)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if logg != nil {
		ctx = logg.WithFields(ctx, map[string]any{
			"driver": driverName(cfg),
		})
		logg.Info(ctx, "database connection established")
	}

	return &Client{conn: conn}, nil
}

// Wrap adapts an already-open GORM connection, mainly for tests and tooling.
func Wrap(conn *gorm.DB) *Client {
	return &Client{conn: conn}
}

func dialectorFor(cfg *config.Config) (gorm.Dialector, error) {
	if cfg.FeatureFlags.UseSQLite {
		if cfg.DB.SQLitePath == "" {
			return nil, fmt.Errorf("sqlite path is required")
		}
		return sqlite.Open(cfg.DB.SQLitePath), nil
	}
	if cfg.DB.DSN == "" {
		return nil, fmt.Errorf("database DSN is required")
	}
	if cfg.DB.Driver == config.DriverPQ {
		sqlDB, err := sql.Open("postgres", cfg.DB.DSN)
		if err != nil {
			return nil, fmt.Errorf("opening lib/pq connection: %w", err)
		}
		return postgres.New(postgres.Config{Conn: sqlDB}), nil
	}
	return postgres.New(postgres.Config{
		DSN:                  cfg.DB.DSN,
		PreferSimpleProtocol: true,
	}), nil
}

func driverName(cfg *config.Config) string {
	if cfg.FeatureFlags.UseSQLite {
		return "sqlite"
	}
	return cfg.DB.Driver
}

func applyPoolSettings(sqlDB *sql.DB, cfg config.DBConfig) {
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if cfg.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}
}

// DB returns the underlying GORM connection.
func (c *Client) DB() *gorm.DB {
	return c.conn
}

// Ping verifies the datasource is reachable.
func (c *Client) Ping(ctx context.Context) error {
	sqlDB, err := c.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close shuts down the pooled connections.
func (c *Client) Close() error {
	sqlDB, err := c.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (c *Client) Query(ctx context.Context, dest any, query string, args ...any) (int64, error) {
	res := c.conn.WithContext(ctx).Raw(query, args...).Scan(dest)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (c *Client) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	res := c.conn.WithContext(ctx).Exec(query, args...)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// WithTx executes fn against a transaction-bound gateway, rolling back on error/panic.
func (c *Client) WithTx(ctx context.Context, fn func(tx Gateway) error) error {
	tx := c.conn.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(&Client{conn: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit().Error
}
