package bot

import (
	"fmt"

	tele "gopkg.in/telebot.v4"

	"github.com/tunegate/tunegate/core/buildinfo"
	tghelpers "github.com/tunegate/tunegate/core/telegram/helpers"
	"github.com/tunegate/tunegate/core/telegram/keyboard"
	"github.com/tunegate/tunegate/internal/submission"
)

const (
	cbGenre       = "genre"
	cbConfirm     = "confirm"
	cbChooseAgain = "choose_again"

	genresPerRow = 2
)

func (a *App) handleStart(c tele.Context) error {
	a.store.RecordInteraction(c.Sender().ID)
	return tghelpers.SendText(c, textStart)
}

func (a *App) handleHelp(c tele.Context) error {
	a.store.RecordInteraction(c.Sender().ID)
	return tghelpers.SendText(c, textHelp)
}

func (a *App) handleAbout(c tele.Context) error {
	return tghelpers.SendText(c, fmt.Sprintf("tunegate %s (%s, built %s)",
		buildinfo.Version, buildinfo.Commit, buildinfo.Date))
}

// handleAudio starts (or restarts) the tagging conversation for the sender.
// Any previous in-flight submission is replaced and its prompt retracted.
func (a *App) handleAudio(c tele.Context) error {
	msg := c.Message()
	if msg == nil {
		return nil
	}
	userID := c.Sender().ID
	a.store.RecordInteraction(userID)

	item := submission.ItemRef{ChatID: msg.Chat.ID, MessageID: msg.ID}
	stale := a.machine.Begin(userID, item)
	a.retract(stale)

	return a.presentGenrePrompt(c, userID)
}

func (a *App) handleCancel(c tele.Context) error {
	userID := c.Sender().ID
	a.sessions.Clear(userID)

	stale, err := a.machine.Cancel(userID)
	if err != nil {
		return tghelpers.SendText(c, textNothingToDo)
	}
	a.retract(stale)
	return tghelpers.SendText(c, textCancelled)
}

func (a *App) handleDenied(c tele.Context) error {
	return tghelpers.SendText(c, textDenied)
}

func (a *App) presentGenrePrompt(c tele.Context, userID int64) error {
	buttons := make([]keyboard.InlineBtn, 0, a.catalog.Len())
	for _, label := range a.catalog.Labels() {
		buttons = append(buttons, keyboard.InlineBtn{
			Text:   label,
			Unique: cbGenre,
			Data:   label,
		})
	}
	markup := keyboard.InlineButtonsNPerRow(buttons, genresPerRow)

	sent, err := tghelpers.SendKeyboard(c, textPickGenre, markup)
	if err != nil {
		return err
	}
	return a.machine.SetPrompt(userID, submission.PromptRef{
		ChatID:    sent.Chat.ID,
		MessageID: sent.ID,
	})
}

func (a *App) presentConfirmPrompt(c tele.Context, userID int64, label string) error {
	markup := keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{
			{Text: "Confirm", Unique: cbConfirm},
			{Text: "Choose again", Unique: cbChooseAgain},
		},
	)

	text := textConfirmPrefix + label + textConfirmSuffix
	sent, err := tghelpers.SendKeyboard(c, text, markup)
	if err != nil {
		return err
	}
	return a.machine.SetPrompt(userID, submission.PromptRef{
		ChatID:    sent.Chat.ID,
		MessageID: sent.ID,
	})
}
