package broadcast

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunegate/tunegate/internal/identity"
	"github.com/tunegate/tunegate/internal/relayerr"
)

type staticMembers []identity.Identity

func (m staticMembers) Snapshot() []identity.Identity { return m }

func members(ids ...int64) staticMembers {
	out := make(staticMembers, 0, len(ids))
	for _, id := range ids {
		out = append(out, identity.Identity{ID: id})
	}
	return out
}

func TestBroadcastDeliversToAll(t *testing.T) {
	var delivered []int64
	d := NewDispatcher(members(1, 2, 3), func(userID int64, text string) error {
		delivered = append(delivered, userID)
		assert.Equal(t, "hello", text)
		return nil
	})

	rec, err := d.Broadcast("hello")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, delivered)
	assert.Equal(t, 3, rec.Attempted)
	assert.Equal(t, 0, rec.Failed)
	assert.NotEmpty(t, rec.ID)
}

func TestBroadcastContinuesPastFailures(t *testing.T) {
	var delivered []int64
	boom := errors.New("blocked by user")
	d := NewDispatcher(members(1, 2, 3), func(userID int64, _ string) error {
		delivered = append(delivered, userID)
		if userID == 2 {
			return boom
		}
		return nil
	})

	rec, err := d.Broadcast("hello")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	// failure for one recipient must not abort the rest
	assert.Equal(t, []int64{1, 2, 3}, delivered)
	assert.Equal(t, 3, rec.Attempted)
	assert.Equal(t, 1, rec.Failed)
}

func TestBroadcastRejectsEmptyText(t *testing.T) {
	d := NewDispatcher(members(1), func(int64, string) error { return nil })

	_, err := d.Broadcast("   ")
	assert.ErrorIs(t, err, relayerr.ErrEmptyMessage)
	assert.Empty(t, d.History())
}

func TestHistoryOneRecordPerCall(t *testing.T) {
	d := NewDispatcher(members(1, 2), func(userID int64, _ string) error {
		if userID == 1 {
			return errors.New("fail")
		}
		return nil
	})

	_, _ = d.Broadcast("first")
	_, _ = d.Broadcast("second")

	hist := d.History()
	require.Len(t, hist, 2)
	assert.Equal(t, "first", hist[0].Text)
	assert.Equal(t, "second", hist[1].Text)
	assert.NotEqual(t, hist[0].ID, hist[1].ID)

	// history is a copy
	hist[0].Text = "mutated"
	assert.Equal(t, "first", d.History()[0].Text)
}
