package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// EditRepo stores the audit trail of flushed seen flags in `seen_edits`.
type EditRepo struct {
	db *sql.DB
}

// NewEditRepo constructs an EditRepo with the provided DB handle.
func NewEditRepo(db *sql.DB) *EditRepo {
	return &EditRepo{db: db}
}

// Record inserts one row per change with a single multi-row INSERT.
func (r *EditRepo) Record(ctx context.Context, userID uint64, changes []model.SeenChange, at time.Time) error {
	if len(changes) == 0 {
		return nil
	}
	placeholders := make([]string, 0, len(changes))
	args := make([]any, 0, len(changes)*6)
	for _, ch := range changes {
		placeholders = append(placeholders, "(?,?,?,?,?,?)")
		args = append(args, userID, ch.RowID, ch.Column, ch.Old, ch.New, at)
	}
	q := "INSERT INTO seen_edits (user_id, row_id, column_name, old_value, new_value, created_at) VALUES " +
		strings.Join(placeholders, ",")
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("insert seen_edits: %w", err)
	}
	return nil
}

// ListRecent returns the newest edits first.
func (r *EditRepo) ListRecent(ctx context.Context, limit int) ([]model.SeenEdit, error) {
	const q = `SELECT id, user_id, row_id, column_name, old_value, new_value, created_at
	           FROM seen_edits ORDER BY id DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.SeenEdit, 0, limit)
	for rows.Next() {
		var e model.SeenEdit
		if err := rows.Scan(&e.ID, &e.UserID, &e.RowID, &e.Column, &e.OldValue, &e.NewValue, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
