package router

import (
	"time"

	tg "github.com/tunegate/tunegate/core/telegram"
	"github.com/tunegate/tunegate/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// FSM defines the minimal interface for an FSM manager.
type FSM interface {
	InProgress(userID int64) bool
	ManagerHandler(c tele.Context) error
}

// MessageOptions controls routing of text and audio updates.
type MessageOptions struct {
	// Audio handles incoming audio messages when no conversation is active.
	Audio       tele.HandlerFunc
	UnknownText tele.HandlerFunc
}

// MessageRoutes builds handlers for text and audio routing. Text updates are
// consumed by an in-progress conversation first, then matched against
// registered commands, then handed to the registry's text fallback.
func MessageRoutes(fsmMgr FSM, reg *tg.Registry, opts MessageOptions) []tg.Route {
	textHandler := func(c tele.Context) error {
		start := time.Now()
		text := c.Text()

		if fsmMgr != nil && fsmMgr.InProgress(c.Sender().ID) {
			return handleWithSummary(c, "fsm", start, "", "", func() error {
				return fsmMgr.ManagerHandler(c)
			})
		}

		if reg != nil {
			if key, cmd, ok := reg.LookupCommand(text); ok && cmd.Handler != nil {
				name := normalizeHandlerName(key)
				return handleWithSummary(c, name, start, "", "", func() error {
					return cmd.Handler(c)
				})
			}
		}

		if reg != nil {
			if fb := reg.TextFallback(); fb != nil {
				return handleWithSummary(c, "fallback", start, "", "", func() error {
					return fb(c)
				})
			}
		}

		if opts.UnknownText != nil {
			return handleWithSummary(c, "unknown_text", start, "", "", func() error {
				return opts.UnknownText(c)
			})
		}

		logHandlerSummary(c, "unknown_text", start, "skip", "ok", nil)
		return nil
	}

	audioHandler := func(c tele.Context) error {
		start := time.Now()
		if fsmMgr != nil && fsmMgr.InProgress(c.Sender().ID) {
			return handleWithSummary(c, "fsm_audio", start, "", "", func() error {
				return fsmMgr.ManagerHandler(c)
			})
		}
		if opts.Audio != nil {
			return handleWithSummary(c, "audio", start, "", "", func() error {
				return opts.Audio(c)
			})
		}
		logHandlerSummary(c, "audio", start, "skip", "ok", nil)
		return nil
	}

	return []tg.Route{
		{
			Endpoint: tele.OnText,
			Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(textHandler)),
		},
		{
			Endpoint: tele.OnAudio,
			Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(audioHandler)),
		},
		{
			Endpoint: tele.OnVoice,
			Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(audioHandler)),
		},
	}
}
