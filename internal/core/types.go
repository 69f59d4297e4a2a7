package core

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JonMunkholm/reportcheck/internal/workbook"
)

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Run is one validation held by the service until it expires.
type Run struct {
	ID          string        `json:"runId"`
	FileName    string        `json:"fileName"`
	Result      Result        `json:"result"`
	Checks      []Check       `json:"checks"`
	EmptyFields []EmptyField  `json:"emptyFields"`
	Duration    time.Duration `json:"-"`
	CreatedAt   time.Time     `json:"createdAt"`
	ExpiresAt   time.Time     `json:"expiresAt"`

	// workbook is kept so a corrected copy can be produced on request.
	workbook *workbook.Workbook
}

// HasCorrection reports whether a corrected workbook can be produced.
func (r *Run) HasCorrection() bool {
	return !r.Result.Valid() && r.workbook != nil
}
