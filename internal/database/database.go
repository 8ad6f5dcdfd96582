// Package database owns the Bun connection pools. Order writes always go
// through the writer; menu browsing and report aggregation are read-heavy and
// may be pointed at a replica via DB_READER_DSN.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/schema"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/comanda-app/comanda/internal/config"
)

const pingTimeout = 5 * time.Second

// Connections bundles the writer and reader bun handles. When no separate
// reader DSN is configured both fields point at the same pool.
type Connections struct {
	Writer *bun.DB
	Reader *bun.DB
}

// Split reports whether reads run on a dedicated replica.
func (c *Connections) Split() bool {
	return c.Reader != c.Writer
}

// Module registers the database connections with Fx.
var Module = fx.Provide(New)

// New opens the configured pools and ties their lifetime to the Fx lifecycle.
func New(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) (*Connections, error) {
	dial, err := dialectFor(cfg.Database.Driver)
	if err != nil {
		return nil, err
	}

	writer, err := open(cfg.Database.Driver, cfg.Database.WriterDSN, cfg.Database, dial)
	if err != nil {
		return nil, fmt.Errorf("open writer: %w", err)
	}

	reader := writer
	if cfg.Database.ReaderDSN != cfg.Database.WriterDSN {
		reader, err = open(cfg.Database.Driver, cfg.Database.ReaderDSN, cfg.Database, dial)
		if err != nil {
			return nil, fmt.Errorf("open reader: %w", err)
		}
	}

	conns := &Connections{Writer: writer, Reader: reader}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := ping(ctx, writer); err != nil {
				return fmt.Errorf("ping writer: %w", err)
			}
			if conns.Split() {
				if err := ping(ctx, reader); err != nil {
					return fmt.Errorf("ping reader: %w", err)
				}
			}
			logger.Info("database connected",
				zap.String("driver", cfg.Database.Driver),
				zap.Bool("read_replica", conns.Split()),
			)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			var firstErr error
			if err := writer.Close(); err != nil {
				firstErr = fmt.Errorf("close writer: %w", err)
			}
			if conns.Split() {
				if err := reader.Close(); err != nil && firstErr == nil {
					firstErr = fmt.Errorf("close reader: %w", err)
				}
			}
			return firstErr
		},
	})

	return conns, nil
}

func open(driver, dsn string, cfg config.Database, dial schema.Dialect) (*bun.DB, error) {
	if dsn == "" {
		return nil, errors.New("empty DSN")
	}

	var sqlDB *sql.DB
	switch driver {
	case "postgres":
		sqlDB = sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	case "mysql":
		db, err := sql.Open("mysql", dsn)
		if err != nil {
			return nil, err
		}
		sqlDB = db
	case "sqlite":
		db, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, err
		}
		sqlDB = db
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}

	tunePool(sqlDB, cfg)
	return bun.NewDB(sqlDB, dial), nil
}

func dialectFor(driver string) (schema.Dialect, error) {
	switch driver {
	case "postgres":
		return pgdialect.New(), nil
	case "mysql":
		return mysqldialect.New(), nil
	case "sqlite":
		return sqlitedialect.New(), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
}

func tunePool(db *sql.DB, cfg config.Database) {
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxConnLifetime > 0 {
		db.SetConnMaxLifetime(cfg.MaxConnLifetime)
	}
}

func ping(ctx context.Context, db *bun.DB) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return db.DB.PingContext(pingCtx)
}
