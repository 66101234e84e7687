// Package submission tracks each member's in-flight audio item through genre
// selection and confirmation.
package submission

import (
	"errors"
	"sync"
)

// State names one step of the tagging conversation.
type State string

const (
	// StateIdle means no submission is in flight for the identity.
	StateIdle State = "idle"
	// StateAwaitingGenre means an item was received and a genre pick is pending.
	StateAwaitingGenre State = "awaiting_genre"
	// StateAwaitingConfirmation means a genre was picked and awaits confirm or redo.
	StateAwaitingConfirmation State = "awaiting_confirmation"
)

var (
	// ErrNoSubmission signals an event for an identity with nothing in flight.
	ErrNoSubmission = errors.New("no submission in progress")
	// ErrUnexpectedEvent signals an event that is invalid in the current state.
	ErrUnexpectedEvent = errors.New("unexpected event for current submission state")
)

// ItemRef locates the original audio message so it can be re-forwarded later.
type ItemRef struct {
	ChatID    int64
	MessageID int
}

// PromptRef locates the last interactive prompt so it can be retracted.
type PromptRef struct {
	ChatID    int64
	MessageID int
}

// Submission is one audio item moving through the workflow.
type Submission struct {
	Item   ItemRef
	Genre  string
	State  State
	Prompt *PromptRef
}

type entry struct {
	mu  sync.Mutex
	sub *Submission
}

// Machine serializes submission events per identity. Events for different
// identities proceed in parallel; events for the same identity are mutually
// exclusive, so a double-tapped confirm can never forward twice.
type Machine struct {
	mu      sync.Mutex
	entries map[int64]*entry
}

// NewMachine builds an empty machine.
func NewMachine() *Machine {
	return &Machine{entries: make(map[int64]*entry)}
}

func (m *Machine) entryFor(userID int64) *entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[userID]
	if !ok {
		e = &entry{}
		m.entries[userID] = e
	}
	return e
}

// Begin starts a new submission for the identity, replacing any in-flight
// one. It returns the stale prompt of the replaced submission, if any, so
// the caller can retract it.
func (m *Machine) Begin(userID int64, item ItemRef) *PromptRef {
	e := m.entryFor(userID)
	e.mu.Lock()
	defer e.mu.Unlock()

	var stale *PromptRef
	if e.sub != nil {
		stale = e.sub.Prompt
	}
	e.sub = &Submission{Item: item, State: StateAwaitingGenre}
	return stale
}

// SetPrompt records the locator of the currently displayed prompt.
func (m *Machine) SetPrompt(userID int64, ref PromptRef) error {
	e := m.entryFor(userID)
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.sub == nil {
		return ErrNoSubmission
	}
	e.sub.Prompt = &ref
	return nil
}

// ChooseGenre records the picked genre and moves to confirmation. It returns
// the genre prompt to retract. Validation of the label against the catalog is
// the caller's job; the machine only tracks workflow state.
func (m *Machine) ChooseGenre(userID int64, label string) (*PromptRef, error) {
	e := m.entryFor(userID)
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.sub == nil {
		return nil, ErrNoSubmission
	}
	if e.sub.State != StateAwaitingGenre {
		return nil, ErrUnexpectedEvent
	}
	stale := e.sub.Prompt
	e.sub.Genre = label
	e.sub.State = StateAwaitingConfirmation
	e.sub.Prompt = nil
	return stale, nil
}

// ChooseAgain drops the picked genre and returns to genre selection without
// losing the original item. It returns the confirmation prompt to retract.
func (m *Machine) ChooseAgain(userID int64) (*PromptRef, error) {
	e := m.entryFor(userID)
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.sub == nil {
		return nil, ErrNoSubmission
	}
	if e.sub.State != StateAwaitingConfirmation {
		return nil, ErrUnexpectedEvent
	}
	stale := e.sub.Prompt
	e.sub.Genre = ""
	e.sub.State = StateAwaitingGenre
	e.sub.Prompt = nil
	return stale, nil
}

// Confirm runs the forward action under the identity's lock. On success the
// submission is destroyed and the confirmation prompt is returned for
// retraction. On forward failure the submission stays in
// StateAwaitingConfirmation so the member can retry without re-uploading.
func (m *Machine) Confirm(userID int64, forward func(item ItemRef, genre string) error) (*PromptRef, error) {
	e := m.entryFor(userID)
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.sub == nil {
		return nil, ErrNoSubmission
	}
	if e.sub.State != StateAwaitingConfirmation || e.sub.Genre == "" {
		return nil, ErrUnexpectedEvent
	}

	if err := forward(e.sub.Item, e.sub.Genre); err != nil {
		return nil, err
	}

	stale := e.sub.Prompt
	e.sub = nil
	return stale, nil
}

// Cancel destroys the in-flight submission and returns its prompt for
// retraction.
func (m *Machine) Cancel(userID int64) (*PromptRef, error) {
	e := m.entryFor(userID)
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.sub == nil {
		return nil, ErrNoSubmission
	}
	stale := e.sub.Prompt
	e.sub = nil
	return stale, nil
}

// StateOf reports the identity's current workflow state.
func (m *Machine) StateOf(userID int64) State {
	e := m.entryFor(userID)
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.sub == nil {
		return StateIdle
	}
	return e.sub.State
}
