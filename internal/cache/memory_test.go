package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/profilegen/internal/model"
)

func sampleResult() model.GenerationResult {
	return model.GenerationResult{
		Profile: model.CompanyProfile{
			BasicInfo: model.BasicInfo{Name: "Acme", Overview: "Makes everything"},
		},
		Metadata: model.GenerationMetadata{
			GenerationID:     "gen_1",
			ProcessingMethod: model.ProcessingFull,
			QualityScore:     0.8,
		},
	}
}

func TestMemoryPutGet(t *testing.T) {
	m := NewMemory()
	defer m.Close()
	ctx := context.Background()

	require.NoError(t, m.Put(ctx, "fp1", sampleResult(), time.Minute))

	entry, err := m.Get(ctx, "fp1")
	require.NoError(t, err)
	assert.Equal(t, "Acme", entry.Result.Profile.BasicInfo.Name)
	assert.Equal(t, "fp1", entry.Fingerprint)
}

func TestMemoryMiss(t *testing.T) {
	m := NewMemory()
	defer m.Close()

	_, err := m.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemoryExpiry(t *testing.T) {
	m := NewMemory()
	defer m.Close()
	ctx := context.Background()

	require.NoError(t, m.Put(ctx, "fp1", sampleResult(), time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	_, err := m.Get(ctx, "fp1")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemoryInvalidate(t *testing.T) {
	m := NewMemory()
	defer m.Close()
	ctx := context.Background()

	require.NoError(t, m.Put(ctx, "fp1", sampleResult(), time.Minute))
	require.NoError(t, m.Invalidate(ctx, "fp1"))

	_, err := m.Get(ctx, "fp1")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemoryGetReturnsCopy(t *testing.T) {
	m := NewMemory()
	defer m.Close()
	ctx := context.Background()

	require.NoError(t, m.Put(ctx, "fp1", sampleResult(), time.Minute))

	entry, err := m.Get(ctx, "fp1")
	require.NoError(t, err)
	entry.Result.Metadata.CacheHit = true

	again, err := m.Get(ctx, "fp1")
	require.NoError(t, err)
	assert.False(t, again.Result.Metadata.CacheHit)
}
