package bot

import (
	"log/slog"
	"strconv"

	tele "gopkg.in/telebot.v4"

	"github.com/tunegate/tunegate/core/logger"
	"github.com/tunegate/tunegate/internal/relayerr"
	"github.com/tunegate/tunegate/internal/submission"
)

// forwardItem copies the original audio message into the destination chat
// with the genre caption attached. Bot API copyMessage is used directly
// because the high-level copy helper cannot override the caption.
func (a *App) forwardItem(item submission.ItemRef, caption string) error {
	params := map[string]string{
		"chat_id":      strconv.FormatInt(a.cfg.Relay.DestinationChatID, 10),
		"from_chat_id": strconv.FormatInt(item.ChatID, 10),
		"message_id":   strconv.Itoa(item.MessageID),
		"caption":      caption,
	}
	if _, err := a.bot.Raw("copyMessage", params); err != nil {
		return relayerr.Transport("forward item to destination", err)
	}
	return nil
}

// retract deletes a stale interactive prompt. Failure to retract is logged
// and otherwise ignored; a leftover prompt is cosmetic.
func (a *App) retract(ref *submission.PromptRef) {
	if ref == nil || a.bot == nil {
		return
	}
	msg := tele.StoredMessage{
		ChatID:    ref.ChatID,
		MessageID: strconv.Itoa(ref.MessageID),
	}
	if err := a.bot.Delete(msg); err != nil {
		logger.TG.Warn("prompt.retract",
			slog.String("status", "fail"),
			slog.Int64("chat_id", ref.ChatID),
			slog.Int("message_id", ref.MessageID),
			slog.String("err", err.Error()),
		)
	}
}

// deliver sends one broadcast message to one recipient.
func (a *App) deliver(userID int64, text string) error {
	_, err := a.bot.Send(&tele.User{ID: userID}, text)
	if err != nil {
		return relayerr.Transport("broadcast delivery", err)
	}
	return nil
}
