package browsertoken

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"lms/internal/adapters/storage"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new browser token store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Get returns the persisted token for a browser.
// PRE: browserID is non-empty
// POST: Returns "" with a nil error when no token is stored
// INVARIANT: Store state is not mutated
func (s *SQLiteStore) Get(ctx context.Context, browserID string) (string, error) {
	var token string
	err := s.db.QueryRowContext(ctx, `
		SELECT token FROM browser_token WHERE browser_id = ?
	`, browserID).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get browser_token: %w", err)
	}
	return token, nil
}

// Save upserts the token for a browser.
// PRE: browserID and token are non-empty
// POST: Exactly one token is stored for browserID
func (s *SQLiteStore) Save(ctx context.Context, browserID, token string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO browser_token (browser_id, token, saved_at) VALUES (?, ?, ?)
		ON CONFLICT(browser_id) DO UPDATE SET
			token=excluded.token,
			saved_at=excluded.saved_at
	`, browserID, token, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save browser_token: %w", err)
	}
	return nil
}

// Delete removes the token for a browser. Deleting a missing token is not an error.
// PRE: browserID is non-empty
// POST: No token is stored for browserID
func (s *SQLiteStore) Delete(ctx context.Context, browserID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM browser_token WHERE browser_id = ?`, browserID); err != nil {
		return fmt.Errorf("delete browser_token: %w", err)
	}
	return nil
}
