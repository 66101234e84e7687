package allowlist

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunegate/tunegate/internal/relayerr"
)

const adminID int64 = 100

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "allowed_users.txt")
	s := NewStore(path, adminID)
	require.NoError(t, s.Load())
	return s, path
}

func TestLoadBootstrapsAdmin(t *testing.T) {
	s, path := newTestStore(t)

	assert.True(t, s.IsAllowed(adminID))
	assert.Equal(t, 1, s.Count())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "100 ")
}

func TestLoadSkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "allowed_users.txt")
	content := "42 2024-03-01\nnot-a-line\n77 yesterday\n55 2024-04-15\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s := NewStore(path, adminID)
	require.NoError(t, s.Load())

	assert.True(t, s.IsAllowed(42))
	assert.True(t, s.IsAllowed(55))
	assert.False(t, s.IsAllowed(77))
	// admin is appended even when absent from the file
	assert.True(t, s.IsAllowed(adminID))
	assert.Equal(t, 3, s.Count())
}

func TestLoadUnreadableFallsBackToAdminOnly(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "allowed_users.txt")
	// a directory at the store path makes the read fail without being absent
	require.NoError(t, os.Mkdir(path, 0o755))

	s := NewStore(path, adminID)
	err := s.Load()
	require.Error(t, err)

	var derr *relayerr.Error
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, relayerr.CodePersistence, derr.Code())
	assert.True(t, s.Degraded())
	assert.True(t, s.IsAllowed(adminID))
}

func TestAddRequiresAdmin(t *testing.T) {
	s, _ := newTestStore(t)

	err := s.Add(42, 7)
	assert.ErrorIs(t, err, relayerr.ErrUnauthorized)
	assert.False(t, s.IsAllowed(42))
}

func TestAddIsIdempotent(t *testing.T) {
	s, _ := newTestStore(t)

	require.NoError(t, s.Add(42, adminID))
	require.NoError(t, s.Add(42, adminID))
	assert.Equal(t, 2, s.Count())
}

func TestAddRejectsInvalidID(t *testing.T) {
	s, _ := newTestStore(t)

	err := s.Add(-5, adminID)
	var derr *relayerr.Error
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, relayerr.CodeValidation, derr.Code())
}

func TestRemove(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.Add(42, adminID))

	assert.ErrorIs(t, s.Remove(42, 7), relayerr.ErrUnauthorized)
	assert.ErrorIs(t, s.Remove(99, adminID), relayerr.ErrNotFound)
	assert.ErrorIs(t, s.Remove(adminID, adminID), relayerr.ErrProtectedIdentity)

	require.NoError(t, s.Remove(42, adminID))
	assert.False(t, s.IsAllowed(42))
	assert.True(t, s.IsAllowed(adminID))
}

func TestRemoveDropsInteractionCount(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.Add(42, adminID))
	s.RecordInteraction(42)

	require.NoError(t, s.Remove(42, adminID))
	require.NoError(t, s.Add(42, adminID))

	for _, m := range s.Snapshot() {
		if m.ID == 42 {
			assert.Equal(t, 0, m.Interactions)
		}
	}
}

func TestRecordInteraction(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.Add(42, adminID))

	s.RecordInteraction(42)
	s.RecordInteraction(42)
	s.RecordInteraction(9999) // absent: must be a silent no-op

	for _, m := range s.Snapshot() {
		if m.ID == 42 {
			assert.Equal(t, 2, m.Interactions)
		}
	}
}

func TestSnapshotInsertionOrderAndIsolation(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.Add(42, adminID))
	require.NoError(t, s.Add(7, adminID))

	snap := s.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, adminID, snap[0].ID)
	assert.Equal(t, int64(42), snap[1].ID)
	assert.Equal(t, int64(7), snap[2].ID)

	// mutations after the snapshot must not be visible in the copy
	s.RecordInteraction(42)
	assert.Equal(t, 0, snap[1].Interactions)
}

func TestPersistSurvivesReload(t *testing.T) {
	s, path := newTestStore(t)
	s.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	require.NoError(t, s.Add(42, adminID))

	reloaded := NewStore(path, adminID)
	require.NoError(t, reloaded.Load())
	assert.True(t, reloaded.IsAllowed(42))

	snap := reloaded.Snapshot()
	for _, m := range snap {
		if m.ID == 42 {
			assert.Equal(t, "2024-06-01", m.AddedOn.Format("2006-01-02"))
		}
	}
}
