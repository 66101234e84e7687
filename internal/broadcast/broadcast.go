// Package broadcast fans operator messages out to every allow-listed member.
package broadcast

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"

	"github.com/tunegate/tunegate/core/logger"
	"github.com/tunegate/tunegate/internal/identity"
	"github.com/tunegate/tunegate/internal/relayerr"
)

// Record is one entry in the broadcast history log.
type Record struct {
	ID        string
	At        time.Time
	Text      string
	Attempted int
	Failed    int
}

// Members provides a point-in-time copy of the allow list, so identities
// added or removed mid-broadcast do not affect the current run.
type Members interface {
	Snapshot() []identity.Identity
}

// DeliverFunc sends one message to one recipient.
type DeliverFunc func(userID int64, text string) error

// Dispatcher delivers operator messages and keeps an in-memory history.
type Dispatcher struct {
	mu      sync.Mutex
	members Members
	deliver DeliverFunc
	history []Record

	now func() time.Time
}

// NewDispatcher builds a dispatcher over the given member source and delivery function.
func NewDispatcher(members Members, deliver DeliverFunc) *Dispatcher {
	return &Dispatcher{
		members: members,
		deliver: deliver,
		now:     time.Now,
	}
}

// Broadcast attempts delivery to every member of the current snapshot. A
// per-recipient failure is logged and does not abort the remaining
// deliveries. Exactly one Record is appended per call regardless of
// per-recipient outcomes; the aggregated delivery errors are returned
// alongside it.
func (d *Dispatcher) Broadcast(text string) (Record, error) {
	if strings.TrimSpace(text) == "" {
		return Record{}, relayerr.ErrEmptyMessage
	}

	snapshot := d.members.Snapshot()

	rec := Record{
		ID:        uuid.NewString(),
		At:        d.now(),
		Text:      text,
		Attempted: len(snapshot),
	}

	var errs *multierror.Error
	for _, m := range snapshot {
		if err := d.deliver(m.ID, text); err != nil {
			rec.Failed++
			errs = multierror.Append(errs, err)
			logger.Bcast.Warn("broadcast.deliver",
				slog.String("status", "fail"),
				slog.String("broadcast_id", rec.ID),
				slog.Int64("user_id", m.ID),
				slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			)
		}
	}

	d.mu.Lock()
	d.history = append(d.history, rec)
	d.mu.Unlock()

	logger.Bcast.Info("broadcast.done",
		slog.String("broadcast_id", rec.ID),
		slog.Int("attempted", rec.Attempted),
		slog.Int("failed", rec.Failed),
	)
	return rec, errs.ErrorOrNil()
}

// History returns a copy of all broadcast records since process start.
func (d *Dispatcher) History() []Record {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Record, len(d.history))
	copy(out, d.history)
	return out
}
