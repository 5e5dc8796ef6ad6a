// Package postgres implements the stores on top of pgx.
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/gauravsharma29/Dev-Camper-API/internal/utils"
)

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DBTX is satisfied by *pgxpool.Pool and by pgxmock pools in tests.
type DBTX interface {
	querier
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Observer times logical DB operations.
type Observer interface {
	ObserveDB(op string, fn func() error) error
}

type store struct {
	db  DBTX
	obs Observer
}

type txKey struct{}

// conn returns the transaction started by TxRunner.WithinTx if ctx carries one.
func (s store) conn(ctx context.Context) querier {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return s.db
}

func (s store) observe(op string, fn func() error) error {
	if s.obs == nil {
		return fn()
	}
	return s.obs.ObserveDB(op, fn)
}

// TxRunner runs a function inside one transaction. Stores called with the
// context passed to fn join that transaction.
type TxRunner struct {
	db DBTX
}

func NewTxRunner(db DBTX) *TxRunner {
	return &TxRunner{db: db}
}

func (t *TxRunner) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return fn(ctx)
	}

	tx, err := t.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// ownerArg is bound to guarded writes; NULL disables the owner check for admins.
func ownerArg(ownerID string) any {
	if ownerID == "" {
		return nil
	}
	return ownerID
}

type whereBuilder struct {
	conds []string
	args  []any
}

// add appends a condition; each "?" in cond is replaced by the next placeholder.
func (w *whereBuilder) add(cond string, arg any) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, strings.Replace(cond, "?", fmt.Sprintf("$%d", len(w.args)), 1))
}

func (w *whereBuilder) sql() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// page appends LIMIT/OFFSET placeholders and returns the clause.
func (w *whereBuilder) page(limit, offset int) string {
	w.args = append(w.args, limit, offset)
	n := len(w.args)
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", n-1, n)
}

// orderBy resolves raw sort keys against the allowed columns. id is always
// appended as a tiebreaker so pages stay stable.
func orderBy(sort []string, allowed map[string]string, fallback []utils.SortField) string {
	fields := utils.ParseSort(strings.Join(sort, ","), allowed, fallback)
	return " ORDER BY " + utils.OrderBy(fields) + ", id ASC"
}
