package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tunegate/tunegate/internal/broadcast"
	"github.com/tunegate/tunegate/internal/identity"
)

func TestBuild(t *testing.T) {
	added := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	members := []identity.Identity{
		{ID: 100, Role: identity.RoleAdmin, AddedOn: added, Interactions: 5},
		{ID: 42, Role: identity.RoleMember, AddedOn: added, Interactions: 2},
	}
	history := []broadcast.Record{
		{At: time.Date(2024, 6, 2, 10, 30, 0, 0, time.UTC), Text: "hello everyone", Attempted: 2, Failed: 1},
	}

	out := Build(members, history)
	assert.Contains(t, out, "Allowed users: 2")
	assert.Contains(t, out, "100 (admin): added 2024-06-01, 5 interaction(s)")
	assert.Contains(t, out, "42: added 2024-06-01, 2 interaction(s)")
	assert.Contains(t, out, "2024-06-02 10:30: 1 sent, 1 failed: hello everyone")
}

func TestBuildEmptyHistory(t *testing.T) {
	out := Build(nil, nil)
	assert.Contains(t, out, "Allowed users: 0")
	assert.Contains(t, out, "Broadcasts since last restart:\n  none")
}

func TestBuildTruncatesLongBroadcastText(t *testing.T) {
	long := "line one\nthis is a rather long broadcast body that should be cut"
	history := []broadcast.Record{{At: time.Now(), Text: long, Attempted: 1}}

	out := Build(nil, history)
	assert.NotContains(t, out, "\n  none")
	assert.Contains(t, out, "...")
	assert.NotContains(t, out, "line one\nthis")
}
