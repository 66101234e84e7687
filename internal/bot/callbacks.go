package bot

import (
	"errors"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/tunegate/tunegate/core/telegram/callbacks"
	tghelpers "github.com/tunegate/tunegate/core/telegram/helpers"
	"github.com/tunegate/tunegate/internal/genre"
	"github.com/tunegate/tunegate/internal/submission"
)

// handleGenrePick moves the sender's submission to confirmation.
func (a *App) handleGenrePick(c tele.Context) error {
	userID := c.Sender().ID
	label := strings.TrimSpace(callbacks.CallbackPayload(c))
	if !a.catalog.Contains(label) {
		return tghelpers.SendText(c, textStalePrompt)
	}

	stale, err := a.machine.ChooseGenre(userID, label)
	if err != nil {
		return a.replySubmissionError(c, err)
	}
	a.retract(stale)
	a.store.RecordInteraction(userID)

	return a.presentConfirmPrompt(c, userID, label)
}

// handleConfirm forwards the tagged item to the destination. The forward runs
// under the submission lock, so a double tap delivers at most once. A failed
// forward keeps the submission alive for a retry.
func (a *App) handleConfirm(c tele.Context) error {
	userID := c.Sender().ID
	senderName := tghelpers.DisplayName(c.Sender())

	stale, err := a.machine.Confirm(userID, func(item submission.ItemRef, label string) error {
		return a.forwardItem(item, genre.Caption(label, senderName))
	})
	if err != nil {
		if errors.Is(err, submission.ErrNoSubmission) || errors.Is(err, submission.ErrUnexpectedEvent) {
			return a.replySubmissionError(c, err)
		}
		return tghelpers.SendText(c, textForwardFailed)
	}

	a.retract(stale)
	a.store.RecordInteraction(userID)
	return tghelpers.SendText(c, textForwarded)
}

// handleChooseAgain returns the sender to genre selection without losing the item.
func (a *App) handleChooseAgain(c tele.Context) error {
	userID := c.Sender().ID

	stale, err := a.machine.ChooseAgain(userID)
	if err != nil {
		return a.replySubmissionError(c, err)
	}
	a.retract(stale)

	return a.presentGenrePrompt(c, userID)
}

func (a *App) replySubmissionError(c tele.Context, err error) error {
	switch {
	case errors.Is(err, submission.ErrNoSubmission):
		return tghelpers.SendText(c, textNothingToDo)
	case errors.Is(err, submission.ErrUnexpectedEvent):
		return tghelpers.SendText(c, textStalePrompt)
	}
	return err
}
