package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/banksort/internal/analytics"
	"github.com/abhisek/banksort/internal/pipeline"
)

// RunRecord is the listing view of a cached run.
type RunRecord struct {
	Seq         int64
	ID          string
	Fingerprint string
	ExportName  string
	BankName    string
	CreatedAt   time.Time
	Questions   int
	KBTB        float64
}

// RunRepo persists pipeline results. It satisfies pipeline.Cache.
type RunRepo interface {
	pipeline.Cache

	// Latest returns the most recent run, or nil if none exist.
	Latest(ctx context.Context) (*pipeline.Result, error)

	// List returns up to limit runs, newest first (0 = unlimited).
	List(ctx context.Context, limit int) ([]RunRecord, error)

	// Prune deletes all but the N most recent runs.
	Prune(ctx context.Context, keep int) error

	// Clear deletes every run and reports how many were removed.
	Clear(ctx context.Context) (int64, error)
}

// runRepo implements RunRepo with raw SQL.
type runRepo struct {
	db *sql.DB
}

// Get returns the newest run stored under fingerprint.
func (r *runRepo) Get(ctx context.Context, fingerprint string) (*pipeline.Result, error) {
	var data string
	err := r.db.QueryRowContext(ctx,
		`SELECT data FROM runs WHERE fingerprint = ? ORDER BY seq DESC LIMIT 1`, fingerprint,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query run: %w", err)
	}
	return decodeResult(data)
}

// Put stores res, replacing any earlier run with the same fingerprint.
func (r *runRepo) Put(ctx context.Context, res *pipeline.Result) error {
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshal run: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE fingerprint = ?`, res.Fingerprint); err != nil {
		return fmt.Errorf("replace run: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, fingerprint, export_name, bank_name, created_at, questions, kbtb, data)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		res.RunID, res.Fingerprint, res.ExportName, res.BankName,
		res.CreatedAt.UTC().Format(time.RFC3339Nano),
		len(analytics.SubItems(res.Questions)), res.Balance.KBTB, string(data),
	)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	return tx.Commit()
}

func (r *runRepo) Latest(ctx context.Context) (*pipeline.Result, error) {
	var data string
	err := r.db.QueryRowContext(ctx, `SELECT data FROM runs ORDER BY seq DESC LIMIT 1`).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query latest run: %w", err)
	}
	return decodeResult(data)
}

func (r *runRepo) List(ctx context.Context, limit int) ([]RunRecord, error) {
	q := `SELECT seq, id, fingerprint, export_name, bank_name, created_at, questions, kbtb
		FROM runs ORDER BY seq DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var (
			rec     RunRecord
			created string
		)
		if err := rows.Scan(&rec.Seq, &rec.ID, &rec.Fingerprint, &rec.ExportName, &rec.BankName,
			&created, &rec.Questions, &rec.KBTB); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		rec.CreatedAt, err = time.Parse(time.RFC3339Nano, created)
		if err != nil {
			return nil, fmt.Errorf("parse created_at %q: %w", created, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *runRepo) Prune(ctx context.Context, keep int) error {
	// Find the seq threshold: the Nth most recent run.
	var threshold int64
	err := r.db.QueryRowContext(ctx,
		`SELECT seq FROM runs ORDER BY seq DESC LIMIT 1 OFFSET ?`, keep,
	).Scan(&threshold)
	if errors.Is(err, sql.ErrNoRows) {
		return nil // fewer than keep runs exist
	}
	if err != nil {
		return fmt.Errorf("query runs for prune: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM runs WHERE seq <= ?`, threshold); err != nil {
		return fmt.Errorf("prune runs: %w", err)
	}
	return nil
}

func (r *runRepo) Clear(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM runs`)
	if err != nil {
		return 0, fmt.Errorf("clear runs: %w", err)
	}
	return res.RowsAffected()
}

func decodeResult(data string) (*pipeline.Result, error) {
	var res pipeline.Result
	if err := json.Unmarshal([]byte(data), &res); err != nil {
		return nil, fmt.Errorf("unmarshal run: %w", err)
	}
	return &res, nil
}
