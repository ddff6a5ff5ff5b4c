package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexlabs/lexagent/internal/models"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	st, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := newTestSQLite(t)

	cfg := models.NewDefaultConfig("u1")
	cfg.Specialization = models.SpecializationCivil
	cfg.Tone = models.ToneTecnico
	cfg.CustomInstructions = "cita artículos del código civil"

	created, err := st.Create(ctx, "u1", cfg)
	require.NoError(t, err)

	got, err := st.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, created.UserID, got.UserID)
	assert.Equal(t, models.SpecializationCivil, got.Specialization)
	assert.Equal(t, models.ToneTecnico, got.Tone)
	assert.Equal(t, created.CustomInstructions, got.CustomInstructions)
	assert.True(t, created.CreatedAt.Equal(got.CreatedAt))
}

func TestSQLiteDuplicateCreate(t *testing.T) {
	ctx := context.Background()
	st := newTestSQLite(t)

	_, err := st.Create(ctx, "u1", models.NewDefaultConfig("u1"))
	require.NoError(t, err)
	_, err = st.Create(ctx, "u1", models.NewDefaultConfig("u1"))
	require.ErrorIs(t, err, ErrAlreadyExists)
}

func TestSQLiteUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	st := newTestSQLite(t)

	created, err := st.Create(ctx, "u1", models.NewDefaultConfig("u1"))
	require.NoError(t, err)

	newTone := models.ToneColoquial
	updated, err := st.Update(ctx, "u1", models.AgentConfigUpdate{Tone: &newTone})
	require.NoError(t, err)
	assert.Equal(t, models.ToneColoquial, updated.Tone)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

	deleted, err := st.Delete(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = st.Get(ctx, "u1")
	require.ErrorIs(t, err, ErrNotFound)

	deleted, err = st.Delete(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestSQLiteGetOrCreateAfterDelete(t *testing.T) {
	ctx := context.Background()
	st := newTestSQLite(t)

	cfg := models.NewDefaultConfig("u1")
	cfg.Temperature = 0.9
	_, err := st.Create(ctx, "u1", cfg)
	require.NoError(t, err)

	_, err = st.Delete(ctx, "u1")
	require.NoError(t, err)

	fresh, err := st.GetOrCreate(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultTemperature, fresh.Temperature)
}

func TestSQLiteListAndCount(t *testing.T) {
	ctx := context.Background()
	st := newTestSQLite(t)

	for _, id := range []string{"b", "a", "c"} {
		_, err := st.GetOrCreate(ctx, id)
		require.NoError(t, err)
	}

	list, err := st.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "a", list[0].UserID)
	assert.Equal(t, "c", list[2].UserID)

	count, err := st.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestSQLiteCorruptTimestampSurfaces(t *testing.T) {
	ctx := context.Background()
	st := newTestSQLite(t)

	_, err := st.Create(ctx, "u1", models.NewDefaultConfig("u1"))
	require.NoError(t, err)

	_, err = st.conn.ExecContext(ctx, `UPDATE agent_configs SET updated_at = 'garbage' WHERE user_id = ?`, "u1")
	require.NoError(t, err)

	_, err = st.Get(ctx, "u1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "updated_at", "a corrupted timestamp must not decay to the zero time")
}

func TestSQLiteUsageLog(t *testing.T) {
	ctx := context.Background()
	st := newTestSQLite(t)

	err := st.LogUsage(ctx, models.UsageLog{UserID: "u1", Model: models.DefaultModel, TokensUsed: 42, DurationMs: 1200})
	require.NoError(t, err)
	err = st.LogUsage(ctx, models.UsageLog{UserID: "u1", Model: models.DefaultModel, ErrorMessage: "gateway: status 503: overloaded"})
	require.NoError(t, err)

	entries, err := st.RecentUsage(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "gateway: status 503: overloaded", entries[0].ErrorMessage)
	assert.Equal(t, 42, entries[1].TokensUsed)
}
