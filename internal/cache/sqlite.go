package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/profilegen/internal/model"
)

// SQLite is the persistent cache backend, for deployments where cached
// profiles should survive restarts.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL
// mode.
func NewSQLite(dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "cache: open sqlite")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "cache: exec %s", pragma)
		}
	}
	s := &SQLite{db: db}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

const migration = `
CREATE TABLE IF NOT EXISTS profile_cache (
	id          TEXT PRIMARY KEY,
	fingerprint TEXT NOT NULL UNIQUE,
	result      TEXT NOT NULL,
	created_at  DATETIME NOT NULL,
	expires_at  DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_profile_cache_expires_at ON profile_cache(expires_at);
`

func (s *SQLite) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, migration)
	return eris.Wrap(err, "cache: migrate")
}

func (s *SQLite) Get(ctx context.Context, fingerprint string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT result, created_at, expires_at FROM profile_cache WHERE fingerprint = ?`,
		fingerprint,
	)

	var resultJSON string
	entry := Entry{Fingerprint: fingerprint}
	if err := row.Scan(&resultJSON, &entry.CreatedAt, &entry.ExpiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMiss
		}
		return nil, eris.Wrap(err, "cache: get")
	}
	if entry.Expired(time.Now()) {
		return nil, ErrMiss
	}

	if err := json.Unmarshal([]byte(resultJSON), &entry.Result); err != nil {
		return nil, eris.Wrap(err, "cache: unmarshal result")
	}
	return &entry, nil
}

func (s *SQLite) Put(ctx context.Context, fingerprint string, result model.GenerationResult, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return eris.Wrap(err, "cache: marshal result")
	}
	now := time.Now().UTC()

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO profile_cache (id, fingerprint, result, created_at, expires_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(fingerprint) DO UPDATE SET
			result = excluded.result,
			created_at = excluded.created_at,
			expires_at = excluded.expires_at`,
		uuid.New().String(), fingerprint, string(resultJSON), now, now.Add(ttl),
	)
	return eris.Wrap(err, "cache: put")
}

func (s *SQLite) Invalidate(ctx context.Context, fingerprint string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM profile_cache WHERE fingerprint = ?`, fingerprint)
	return eris.Wrap(err, "cache: invalidate")
}

// Cleanup removes expired rows. Called periodically by the owner.
func (s *SQLite) Cleanup(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM profile_cache WHERE expires_at < ?`, time.Now().UTC())
	if err != nil {
		return 0, eris.Wrap(err, "cache: cleanup")
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
