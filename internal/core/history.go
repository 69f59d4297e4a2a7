package core

import (
	"context"
	"encoding/json"
	"fmt"
	"net/netip"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// DefaultHistoryLimit caps history listings when no limit is given.
const DefaultHistoryLimit = 50

// MaxHistoryLimit is the largest listing a caller may request.
const MaxHistoryLimit = 500

// HistoryEntry records one completed validation run.
type HistoryEntry struct {
	RunID       string            `json:"runId"`
	FileName    string            `json:"fileName"`
	Mode        Mode              `json:"mode"`
	TotalErrors int               `json:"totalErrors"`
	Valid       bool              `json:"valid"`
	Summary     ValidationResults `json:"results"`
	IPAddress   string            `json:"ipAddress,omitempty"`
	UserAgent   string            `json:"userAgent,omitempty"`
	Duration    time.Duration     `json:"durationMs"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// MarshalJSON renders Duration in milliseconds.
func (e HistoryEntry) MarshalJSON() ([]byte, error) {
	type alias HistoryEntry
	return json.Marshal(struct {
		alias
		Duration int64 `json:"durationMs"`
	}{alias(e), e.Duration.Milliseconds()})
}

// HistoryStore persists completed runs. Implementations must be safe for
// concurrent use.
type HistoryStore interface {
	Record(ctx context.Context, entry HistoryEntry) error
	List(ctx context.Context, limit int) ([]HistoryEntry, error)
	// Prune deletes entries created before cutoff and reports how many.
	Prune(ctx context.Context, cutoff time.Time) (int64, error)
}

// clampLimit applies the default and maximum listing sizes.
func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		return MaxHistoryLimit
	}
	return limit
}

// ----------------------------------------------------------------------------
// In-memory history
// ----------------------------------------------------------------------------

// MemoryHistory keeps the most recent runs in process memory.
type MemoryHistory struct {
	mu      sync.RWMutex
	entries []HistoryEntry
	max     int
}

// NewMemoryHistory keeps at most max entries, dropping the oldest first.
func NewMemoryHistory(max int) *MemoryHistory {
	if max <= 0 {
		max = MaxHistoryLimit
	}
	return &MemoryHistory{max: max}
}

// Record appends an entry.
func (h *MemoryHistory) Record(_ context.Context, entry HistoryEntry) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = append(h.entries, entry)
	if over := len(h.entries) - h.max; over > 0 {
		h.entries = append([]HistoryEntry(nil), h.entries[over:]...)
	}
	return nil
}

// List returns up to limit entries, newest first.
func (h *MemoryHistory) List(_ context.Context, limit int) ([]HistoryEntry, error) {
	limit = clampLimit(limit)

	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]HistoryEntry, 0, min(limit, len(h.entries)))
	for i := len(h.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, h.entries[i])
	}
	return out, nil
}

// Prune drops entries created before cutoff.
func (h *MemoryHistory) Prune(_ context.Context, cutoff time.Time) (int64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	kept := h.entries[:0]
	for _, e := range h.entries {
		if !e.CreatedAt.Before(cutoff) {
			kept = append(kept, e)
		}
	}
	pruned := int64(len(h.entries) - len(kept))
	h.entries = kept
	return pruned, nil
}

// ----------------------------------------------------------------------------
// PostgreSQL history
// ----------------------------------------------------------------------------

const createHistoryTable = `
CREATE TABLE IF NOT EXISTS validation_history (
	run_id       UUID PRIMARY KEY,
	file_name    TEXT NOT NULL,
	mode         TEXT NOT NULL,
	total_errors INTEGER NOT NULL,
	valid        BOOLEAN NOT NULL,
	summary      JSONB NOT NULL,
	ip_address   INET,
	user_agent   TEXT,
	duration_ms  BIGINT NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const createHistoryIndex = `
CREATE INDEX IF NOT EXISTS validation_history_created_at_idx
	ON validation_history (created_at DESC)`

const insertHistory = `
INSERT INTO validation_history
	(run_id, file_name, mode, total_errors, valid, summary, ip_address, user_agent, duration_ms, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, COALESCE($10, now()))`

const deleteHistoryBefore = `DELETE FROM validation_history WHERE created_at < $1`

const selectHistory = `
SELECT run_id, file_name, mode, total_errors, valid, summary, ip_address, user_agent, duration_ms, created_at
FROM validation_history
ORDER BY created_at DESC
LIMIT $1`

// PgHistory stores runs in the validation_history table.
type PgHistory struct {
	db DBTX
}

// NewPgHistory returns a store over db, creating its table if needed.
func NewPgHistory(ctx context.Context, db DBTX) (*PgHistory, error) {
	for _, stmt := range []string{createHistoryTable, createHistoryIndex} {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return nil, fmt.Errorf("history store: create schema: %w", err)
		}
	}
	return &PgHistory{db: db}, nil
}

// Record inserts an entry.
func (h *PgHistory) Record(ctx context.Context, entry HistoryEntry) error {
	summary, err := json.Marshal(entry.Summary)
	if err != nil {
		return fmt.Errorf("history store: encode summary: %w", err)
	}

	_, err = h.db.Exec(ctx, insertHistory,
		ToPgUUID(entry.RunID),
		entry.FileName,
		string(entry.Mode),
		ToPgInt4(entry.TotalErrors),
		entry.Valid,
		summary,
		ParseClientIP(entry.IPAddress),
		ToPgText(entry.UserAgent),
		entry.Duration.Milliseconds(),
		ToPgTimestamptz(entry.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("history store: insert run %s: %w", entry.RunID, err)
	}
	return nil
}

// List returns up to limit entries, newest first.
func (h *PgHistory) List(ctx context.Context, limit int) ([]HistoryEntry, error) {
	rows, err := h.db.Query(ctx, selectHistory, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("history store: query: %w", err)
	}
	defer rows.Close()

	var out []HistoryEntry
	for rows.Next() {
		entry, err := scanHistoryRow(rows)
		if err != nil {
			return nil, fmt.Errorf("history store: scan: %w", err)
		}
		out = append(out, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history store: rows: %w", err)
	}
	return out, nil
}

// Prune deletes entries created before cutoff.
func (h *PgHistory) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := h.db.Exec(ctx, deleteHistoryBefore, ToPgTimestamptz(cutoff))
	if err != nil {
		return 0, fmt.Errorf("history store: prune: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanHistoryRow(rows pgx.Rows) (*HistoryEntry, error) {
	var (
		runID       pgtype.UUID
		fileName    string
		mode        string
		totalErrors pgtype.Int4
		valid       bool
		summary     []byte
		ipAddress   *netip.Addr
		userAgent   pgtype.Text
		durationMs  int64
		createdAt   pgtype.Timestamptz
	)

	err := rows.Scan(
		&runID, &fileName, &mode, &totalErrors, &valid,
		&summary, &ipAddress, &userAgent, &durationMs, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	entry := &HistoryEntry{
		RunID:       PgUUIDToString(runID),
		FileName:    fileName,
		Mode:        Mode(mode),
		TotalErrors: int(totalErrors.Int32),
		Valid:       valid,
		UserAgent:   PgTextToString(userAgent),
		Duration:    time.Duration(durationMs) * time.Millisecond,
		CreatedAt:   createdAt.Time,
	}
	if ipAddress != nil {
		entry.IPAddress = ipAddress.String()
	}
	if len(summary) > 0 {
		_ = json.Unmarshal(summary, &entry.Summary)
	}
	return entry, nil
}
