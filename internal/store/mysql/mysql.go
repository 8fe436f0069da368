package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.nhat.io/otelsql"
	semconv "go.opentelemetry.io/otel/semconv/v1.20.0"
)

const (
	driverName   = "mysql"
	instanceName = "fulltext"

	DefaultMaxResultSize = 100
)

// Client is a wrapper over sqlx for a MySQL or MariaDB database
type Client struct {
	db *sqlx.DB
}

func (c *Client) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return c.db.ExecContext(ctx, query, args...)
}

func (c *Client) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return c.db.GetContext(ctx, dest, query, args...)
}

func (c *Client) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return c.db.SelectContext(ctx, dest, query, args...)
}

// QueryFn runs f on a dedicated connection which is released afterwards
func (c *Client) QueryFn(ctx context.Context, f func(*sqlx.Conn) error) error {
	conn, err := c.db.Connx(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	return f(conn)
}

// ExecQueries is used for executing list of db query
func (c *Client) ExecQueries(ctx context.Context, queries []string) error {
	for _, query := range queries {
		if _, err := c.db.ExecContext(ctx, query); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

// NewClient initializes database connection through an instrumented driver
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	name, err := otelsql.Register(
		driverName,
		otelsql.TraceQueryWithoutArgs(),
		otelsql.TraceRowsClose(),
		otelsql.TraceRowsAffected(),
		otelsql.WithSystem(semconv.DBSystemMySQL),
		otelsql.WithInstanceName(instanceName),
	)
	if err != nil {
		return nil, fmt.Errorf("new mysql client: %w", err)
	}

	db, err := sql.Open(name, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("new mysql client: %w", err)
	}
	if db == nil {
		return nil, errNilDBClient
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("error creating and connecting DB: %w", err)
	}

	if err := otelsql.RecordStats(
		db,
		otelsql.WithSystem(semconv.DBSystemMySQL),
		otelsql.WithInstanceName(instanceName),
	); err != nil {
		db.Close()
		return nil, err
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	if cfg.MaxIdleConns != 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return &Client{db: sqlx.NewDb(db, driverName)}, nil
}
