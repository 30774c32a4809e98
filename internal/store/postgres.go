package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// PostgresStore persists memos in the hosted Postgres instance.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) DB() *sql.DB {
	return s.db
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// ListMemos returns at most limit memos, newest first.
func (s *PostgresStore) ListMemos(ctx context.Context, limit int) ([]Memo, error) {
	const query = `
		SELECT id, content, created_at, updated_at
		FROM memos
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list memos: %w", err)
	}
	defer rows.Close()

	var memos []Memo
	for rows.Next() {
		var memo Memo
		if err := rows.Scan(&memo.ID, &memo.Content, &memo.CreatedAt, &memo.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan memo: %w", err)
		}
		memos = append(memos, memo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate memos: %w", err)
	}
	return memos, nil
}

// InsertMemoCapped inserts the memo only while fewer than cap live memos
// exist and reports whether the insert happened. The count and insert run
// in one statement, so concurrent creates cannot push the board past the
// cap.
func (s *PostgresStore) InsertMemoCapped(ctx context.Context, memo Memo, cap int) (bool, error) {
	const query = `
		INSERT INTO memos (id, content, created_at, updated_at)
		SELECT $1, $2, $3, $4
		WHERE (SELECT COUNT(*) FROM memos) < $5
	`
	result, err := s.db.ExecContext(ctx, query, memo.ID, memo.Content, memo.CreatedAt, memo.UpdatedAt, cap)
	if err != nil {
		return false, fmt.Errorf("insert memo: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert memo rows affected: %w", err)
	}
	return affected > 0, nil
}

// UpdateMemo rewrites the content and updated_at of the given row and
// returns the stored memo. sql.ErrNoRows when the row does not exist.
func (s *PostgresStore) UpdateMemo(ctx context.Context, id, content string, updatedAt time.Time) (Memo, error) {
	const query = `
		UPDATE memos
		SET content = $2, updated_at = $3
		WHERE id = $1
		RETURNING id, content, created_at, updated_at
	`
	var memo Memo
	err := s.db.QueryRowContext(ctx, query, id, content, updatedAt).Scan(&memo.ID, &memo.Content, &memo.CreatedAt, &memo.UpdatedAt)
	if err != nil {
		return Memo{}, err
	}
	return memo, nil
}

// DeleteMemo removes the row and reports whether it existed.
func (s *PostgresStore) DeleteMemo(ctx context.Context, id string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM memos WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete memo: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete memo rows affected: %w", err)
	}
	return affected > 0, nil
}
