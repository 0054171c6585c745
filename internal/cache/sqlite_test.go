package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) *SQLite {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLitePutGet(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "fp1", sampleResult(), time.Minute))

	entry, err := s.Get(ctx, "fp1")
	require.NoError(t, err)
	assert.Equal(t, "Acme", entry.Result.Profile.BasicInfo.Name)
	assert.Equal(t, 0.8, entry.Result.Metadata.QualityScore)
}

func TestSQLiteMiss(t *testing.T) {
	s := newTestSQLite(t)

	_, err := s.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestSQLiteUpsert(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	first := sampleResult()
	require.NoError(t, s.Put(ctx, "fp1", first, time.Minute))

	second := sampleResult()
	second.Profile.BasicInfo.Name = "Acme v2"
	require.NoError(t, s.Put(ctx, "fp1", second, time.Minute))

	entry, err := s.Get(ctx, "fp1")
	require.NoError(t, err)
	assert.Equal(t, "Acme v2", entry.Result.Profile.BasicInfo.Name)
}

func TestSQLiteExpiry(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "fp1", sampleResult(), time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	_, err := s.Get(ctx, "fp1")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestSQLiteCleanup(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "stale", sampleResult(), time.Millisecond))
	require.NoError(t, s.Put(ctx, "fresh", sampleResult(), time.Minute))
	time.Sleep(5 * time.Millisecond)

	removed, err := s.Cleanup(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, err = s.Get(ctx, "fresh")
	assert.NoError(t, err)
}

func TestSQLiteInvalidate(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "fp1", sampleResult(), time.Minute))
	require.NoError(t, s.Invalidate(ctx, "fp1"))

	_, err := s.Get(ctx, "fp1")
	assert.ErrorIs(t, err, ErrMiss)
}
