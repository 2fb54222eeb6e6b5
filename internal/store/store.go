package store

import (
	"context"
	"errors"
	"fmt"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	pgxvec "github.com/pgvector/pgvector-go/pgx"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Conn is the subset of pgx used by the store. Satisfied by *pgxpool.Pool
// and by pgx transactions, so methods compose inside transactions.
type Conn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, optionsAndArgs ...any) (pgxv5.Rows, error)
	QueryRow(ctx context.Context, sql string, optionsAndArgs ...any) pgxv5.Row
	Begin(ctx context.Context) (pgxv5.Tx, error)
}

// Store provides persistence for notebooks, documents, graphs, and
// layout snapshots on PostgreSQL with pgvector.
type Store struct {
	conn Conn
}

// New creates a Store on an existing connection or pool.
func New(conn Conn) *Store {
	return &Store{conn: conn}
}

// NewPool connects a pgx pool with pgvector types registered on every
// connection.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}
	cfg.AfterConnect = func(ctx context.Context, conn *pgxv5.Conn) error {
		return pgxvec.RegisterTypes(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return pool, nil
}

func notFoundOr(err error) error {
	if errors.Is(err, pgxv5.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
