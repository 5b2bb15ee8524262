package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"github.com/lib/pq"

	"acadswap/internal/domain"
)

//go:embed migrations/*.sql
var migrations embed.FS

// DBTX is satisfied by both *sql.DB and *sql.Tx, so repositories run inside or outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store implements domain.UnitOfWork over a database handle.
type Store struct {
	DB *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{DB: db}
}

type txRepositories struct {
	tx *sql.Tx
}

func (t txRepositories) Meetups() domain.MeetupRepository    { return NewMeetupRepository(t.tx) }
func (t txRepositories) Reputation() domain.ReputationLedger { return NewReputationLedger(t.tx) }

// WithinTx runs fn in a transaction, committing when fn returns nil and rolling back otherwise.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx domain.TxRepositories) error) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(ctx, txRepositories{tx: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Migrate applies the embedded schema files in name order. Each file is idempotent.
func Migrate(ctx context.Context, db DBTX) error {
	names, err := fs.Glob(migrations, "migrations/*.sql")
	if err != nil {
		return err
	}
	sort.Strings(names)
	for _, name := range names {
		body, err := migrations.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		if _, err := db.ExecContext(ctx, string(body)); err != nil {
			return fmt.Errorf("apply %s: %w", name, err)
		}
	}
	return nil
}

// notFound reports whether a lookup by id matched nothing. An id that is not a
// valid uuid (invalid_text_representation) cannot match a row either.
func notFound(err error) bool {
	if errors.Is(err, sql.ErrNoRows) {
		return true
	}
	var perr *pq.Error
	return errors.As(err, &perr) && perr.Code == "22P02"
}
