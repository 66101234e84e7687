// Package allowlist implements the persisted membership table that gates
// every interaction with the bot.
package allowlist

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/tunegate/tunegate/core/logger"
	"github.com/tunegate/tunegate/internal/identity"
	"github.com/tunegate/tunegate/internal/relayerr"
)

const dateLayout = "2006-01-02"

// Store is the process-wide allow list. One lock guards the whole table;
// contention is low and correctness matters more than throughput here.
type Store struct {
	mu       sync.Mutex
	path     string
	adminID  int64
	members  map[int64]*identity.Identity
	order    []int64
	degraded bool

	now func() time.Time
}

// NewStore builds an unloaded store. Call Load before serving traffic.
func NewStore(path string, adminID int64) *Store {
	return &Store{
		path:    path,
		adminID: adminID,
		members: make(map[int64]*identity.Identity),
		now:     time.Now,
	}
}

// Load reads the backing file, creating it with the admin entry when absent.
// Malformed lines are skipped with a warning. If the file exists but cannot
// be read, the store falls back to an admin-only in-memory table and marks
// itself degraded so later mutations can surface the condition.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.members = make(map[int64]*identity.Identity)
	s.order = s.order[:0]
	s.degraded = false

	data, err := os.ReadFile(s.path)
	switch {
	case os.IsNotExist(err):
		s.ensureAdminLocked()
		if perr := s.persistLocked(); perr != nil {
			s.degraded = true
			logger.Store.Warn("allowlist.bootstrap",
				slog.String("status", "degraded"),
				slog.String("path", s.path),
				slog.String("err", perr.Error()),
			)
			return relayerr.Persistence("bootstrap allow list file", perr)
		}
		logger.Store.Info("allowlist.bootstrap",
			slog.String("status", "ok"),
			slog.String("path", s.path),
		)
		return nil
	case err != nil:
		s.ensureAdminLocked()
		s.degraded = true
		logger.Store.Error("allowlist.load",
			slog.String("status", "degraded"),
			slog.String("path", s.path),
			slog.String("err", err.Error()),
		)
		return relayerr.Persistence("read allow list file", err)
	}

	skipped := 0
	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		id, addedOn, perr := parseLine(line)
		if perr != nil {
			skipped++
			logger.Store.Warn("allowlist.load.skip_line",
				slog.String("line", logger.SanitizeLimit(line, 64)),
				slog.String("err", perr.Error()),
			)
			continue
		}
		s.insertLocked(id, addedOn)
	}
	s.ensureAdminLocked()

	logger.Store.Info("allowlist.load",
		slog.String("status", "ok"),
		slog.Int("members", len(s.order)),
		slog.Int("skipped", skipped),
	)
	return nil
}

// Add puts an identity on the allow list. Only the admin may act. Adding a
// member that is already present is an idempotent success.
func (s *Store) Add(id, actingID int64) error {
	if actingID != s.adminID {
		return relayerr.ErrUnauthorized
	}
	if id <= 0 {
		return relayerr.Validation("invalid user id %d", id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.members[id]; ok {
		return nil
	}
	s.insertLocked(id, s.now())
	if err := s.persistLocked(); err != nil {
		return relayerr.Persistence("persist allow list", err)
	}
	logger.Store.Info("allowlist.add", slog.Int64("user_id", id))
	return nil
}

// Remove drops an identity from both the allow table and its interaction
// counter. The admin identity is protected.
func (s *Store) Remove(id, actingID int64) error {
	if actingID != s.adminID {
		return relayerr.ErrUnauthorized
	}
	if id == s.adminID {
		return relayerr.ErrProtectedIdentity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.members[id]; !ok {
		return relayerr.ErrNotFound
	}
	delete(s.members, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	if err := s.persistLocked(); err != nil {
		return relayerr.Persistence("persist allow list", err)
	}
	logger.Store.Info("allowlist.remove", slog.Int64("user_id", id))
	return nil
}

// IsAllowed is a pure membership check.
func (s *Store) IsAllowed(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.members[id]
	return ok
}

// RecordInteraction bumps the identity's interaction counter. A missing
// identity is a no-op; a removal racing an in-flight request must not fail.
func (s *Store) RecordInteraction(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.members[id]; ok {
		m.Interactions++
	}
}

// Snapshot returns a point-in-time copy of all members in insertion order.
func (s *Store) Snapshot() []identity.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]identity.Identity, 0, len(s.order))
	for _, id := range s.order {
		if m, ok := s.members[id]; ok {
			out = append(out, *m)
		}
	}
	return out
}

// Count returns the number of allow-listed identities.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.members)
}

// Degraded reports whether the store is running on the in-memory fallback.
func (s *Store) Degraded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.degraded
}

func (s *Store) insertLocked(id int64, addedOn time.Time) {
	role := identity.RoleMember
	if id == s.adminID {
		role = identity.RoleAdmin
	}
	if _, ok := s.members[id]; ok {
		return
	}
	s.members[id] = &identity.Identity{ID: id, Role: role, AddedOn: addedOn}
	s.order = append(s.order, id)
}

// ensureAdminLocked guarantees the admin identity is always present.
func (s *Store) ensureAdminLocked() {
	if _, ok := s.members[s.adminID]; !ok {
		s.insertLocked(s.adminID, s.now())
	}
}

// persistLocked writes the whole table through a temp file plus rename so a
// crash mid-write never truncates the live file.
func (s *Store) persistLocked() error {
	var b strings.Builder
	for _, id := range s.order {
		m, ok := s.members[id]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "%d %s\n", m.ID, m.AddedOn.Format(dateLayout))
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".allowlist-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err = tmp.WriteString(b.String()); err == nil {
		err = tmp.Sync()
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}

func parseLine(line string) (int64, time.Time, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return 0, time.Time{}, fmt.Errorf("expected '<id> <date>', got %d fields", len(fields))
	}
	id, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("parse id: %w", err)
	}
	addedOn, err := time.Parse(dateLayout, fields[1])
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("parse date: %w", err)
	}
	return id, addedOn, nil
}
