package submission

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const userID int64 = 42

func TestHappyPath(t *testing.T) {
	m := NewMachine()
	item := ItemRef{ChatID: userID, MessageID: 10}

	stale := m.Begin(userID, item)
	assert.Nil(t, stale)
	assert.Equal(t, StateAwaitingGenre, m.StateOf(userID))

	require.NoError(t, m.SetPrompt(userID, PromptRef{ChatID: userID, MessageID: 11}))

	prompt, err := m.ChooseGenre(userID, "Latin")
	require.NoError(t, err)
	require.NotNil(t, prompt)
	assert.Equal(t, 11, prompt.MessageID)
	assert.Equal(t, StateAwaitingConfirmation, m.StateOf(userID))

	var forwarded ItemRef
	var genre string
	_, err = m.Confirm(userID, func(i ItemRef, g string) error {
		forwarded = i
		genre = g
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, item, forwarded)
	assert.Equal(t, "Latin", genre)
	assert.Equal(t, StateIdle, m.StateOf(userID))
}

func TestEventsWithoutSubmission(t *testing.T) {
	m := NewMachine()

	_, err := m.ChooseGenre(userID, "Latin")
	assert.ErrorIs(t, err, ErrNoSubmission)
	_, err = m.Confirm(userID, func(ItemRef, string) error { return nil })
	assert.ErrorIs(t, err, ErrNoSubmission)
	_, err = m.Cancel(userID)
	assert.ErrorIs(t, err, ErrNoSubmission)
	assert.Error(t, m.SetPrompt(userID, PromptRef{}))
}

func TestOutOfOrderEvents(t *testing.T) {
	m := NewMachine()
	m.Begin(userID, ItemRef{ChatID: userID, MessageID: 10})

	// confirm before a genre was picked
	_, err := m.Confirm(userID, func(ItemRef, string) error { return nil })
	assert.ErrorIs(t, err, ErrUnexpectedEvent)

	// choose-again before a genre was picked
	_, err = m.ChooseAgain(userID)
	assert.ErrorIs(t, err, ErrUnexpectedEvent)

	_, err = m.ChooseGenre(userID, "Dance")
	require.NoError(t, err)

	// second genre pick while awaiting confirmation
	_, err = m.ChooseGenre(userID, "Chill")
	assert.ErrorIs(t, err, ErrUnexpectedEvent)
}

func TestBeginReplacesStaleSubmission(t *testing.T) {
	m := NewMachine()
	m.Begin(userID, ItemRef{ChatID: userID, MessageID: 10})
	require.NoError(t, m.SetPrompt(userID, PromptRef{ChatID: userID, MessageID: 11}))
	_, err := m.ChooseGenre(userID, "Chill")
	require.NoError(t, err)

	stale := m.Begin(userID, ItemRef{ChatID: userID, MessageID: 20})
	assert.Nil(t, stale) // genre pick already consumed the prompt
	assert.Equal(t, StateAwaitingGenre, m.StateOf(userID))

	_, err = m.ChooseGenre(userID, "Latin")
	require.NoError(t, err)

	var forwarded ItemRef
	var genre string
	_, err = m.Confirm(userID, func(i ItemRef, g string) error {
		forwarded = i
		genre = g
		return nil
	})
	require.NoError(t, err)
	// never the first item's pairing
	assert.Equal(t, 20, forwarded.MessageID)
	assert.Equal(t, "Latin", genre)
}

func TestBeginReturnsPromptOfReplacedSubmission(t *testing.T) {
	m := NewMachine()
	m.Begin(userID, ItemRef{ChatID: userID, MessageID: 10})
	require.NoError(t, m.SetPrompt(userID, PromptRef{ChatID: userID, MessageID: 11}))

	stale := m.Begin(userID, ItemRef{ChatID: userID, MessageID: 20})
	require.NotNil(t, stale)
	assert.Equal(t, 11, stale.MessageID)
}

func TestChooseAgainKeepsItem(t *testing.T) {
	m := NewMachine()
	m.Begin(userID, ItemRef{ChatID: userID, MessageID: 10})
	_, err := m.ChooseGenre(userID, "Chill")
	require.NoError(t, err)

	_, err = m.ChooseAgain(userID)
	require.NoError(t, err)
	assert.Equal(t, StateAwaitingGenre, m.StateOf(userID))

	_, err = m.ChooseGenre(userID, "Latin")
	require.NoError(t, err)

	var forwarded ItemRef
	_, err = m.Confirm(userID, func(i ItemRef, _ string) error {
		forwarded = i
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 10, forwarded.MessageID)
}

func TestFailedForwardKeepsSubmission(t *testing.T) {
	m := NewMachine()
	m.Begin(userID, ItemRef{ChatID: userID, MessageID: 10})
	_, err := m.ChooseGenre(userID, "Chill")
	require.NoError(t, err)

	boom := errors.New("network down")
	_, err = m.Confirm(userID, func(ItemRef, string) error { return boom })
	assert.ErrorIs(t, err, boom)

	// the item must survive for a retry
	assert.Equal(t, StateAwaitingConfirmation, m.StateOf(userID))
	_, err = m.Confirm(userID, func(ItemRef, string) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, StateIdle, m.StateOf(userID))
}

func TestConcurrentConfirmForwardsOnce(t *testing.T) {
	m := NewMachine()
	m.Begin(userID, ItemRef{ChatID: userID, MessageID: 10})
	_, err := m.ChooseGenre(userID, "Chill")
	require.NoError(t, err)

	var forwards atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = m.Confirm(userID, func(ItemRef, string) error {
				forwards.Add(1)
				return nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), forwards.Load())
	assert.Equal(t, StateIdle, m.StateOf(userID))
}

func TestIdentitiesAreIndependent(t *testing.T) {
	m := NewMachine()
	m.Begin(1, ItemRef{ChatID: 1, MessageID: 10})
	m.Begin(2, ItemRef{ChatID: 2, MessageID: 20})

	_, err := m.ChooseGenre(1, "Chill")
	require.NoError(t, err)

	assert.Equal(t, StateAwaitingConfirmation, m.StateOf(1))
	assert.Equal(t, StateAwaitingGenre, m.StateOf(2))

	_, err = m.Cancel(1)
	require.NoError(t, err)
	assert.Equal(t, StateIdle, m.StateOf(1))
	assert.Equal(t, StateAwaitingGenre, m.StateOf(2))
}
