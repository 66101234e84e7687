package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	tghelpers "github.com/tunegate/tunegate/core/telegram/helpers"
	"github.com/tunegate/tunegate/core/telegram/state"
	"github.com/tunegate/tunegate/internal/relayerr"
	"github.com/tunegate/tunegate/internal/report"
)

// Conversation states for the two-step admin flows. A stale flow expires on
// its own so a forgotten prompt does not swallow the admin's next message.
const (
	stateAwaitAddUser    state.State = "await_add_user"
	stateAwaitRemoveUser state.State = "await_remove_user"
	stateAwaitBroadcast  state.State = "await_broadcast"

	adminFlowTTL = 5 * time.Minute
)

func (a *App) handleAddUser(c tele.Context) error {
	a.sessions.SetStateTTL(c.Sender().ID, stateAwaitAddUser, adminFlowTTL)
	return tghelpers.SendText(c, textAskAddID)
}

func (a *App) handleRemoveUser(c tele.Context) error {
	a.sessions.SetStateTTL(c.Sender().ID, stateAwaitRemoveUser, adminFlowTTL)
	return tghelpers.SendText(c, textAskRemoveID)
}

func (a *App) handleBroadcastCmd(c tele.Context) error {
	a.sessions.SetStateTTL(c.Sender().ID, stateAwaitBroadcast, adminFlowTTL)
	return tghelpers.SendText(c, textAskBcast)
}

func (a *App) handleListUsers(c tele.Context) error {
	snap := a.store.Snapshot()
	var b strings.Builder
	fmt.Fprintf(&b, "Allowed users (%d):\n", len(snap))
	for _, m := range snap {
		suffix := ""
		if m.IsAdmin() {
			suffix = " (admin)"
		}
		fmt.Fprintf(&b, "%d%s, added %s\n", m.ID, suffix, m.AddedOn.Format("2006-01-02"))
	}
	return tghelpers.SendText(c, strings.TrimRight(b.String(), "\n"))
}

func (a *App) handleReport(c tele.Context) error {
	return tghelpers.SendText(c, report.Build(a.store.Snapshot(), a.bcast.History()))
}

// awaitAddUserInput consumes the admin's reply to /add_user.
func (a *App) awaitAddUserInput(c tele.Context) error {
	id, ok := parseUserID(c.Text())
	if !ok {
		// keep the state so the admin can correct the typo
		return tghelpers.SendText(c, textBadUserID)
	}
	a.sessions.ClearState(c.Sender().ID)

	if err := a.store.Add(id, c.Sender().ID); err != nil {
		return tghelpers.SendText(c, describeStoreError(err))
	}
	return tghelpers.SendText(c, fmt.Sprintf("User %d is now allowed.", id))
}

// awaitRemoveUserInput consumes the admin's reply to /remove_user.
func (a *App) awaitRemoveUserInput(c tele.Context) error {
	id, ok := parseUserID(c.Text())
	if !ok {
		return tghelpers.SendText(c, textBadUserID)
	}
	a.sessions.ClearState(c.Sender().ID)

	if err := a.store.Remove(id, c.Sender().ID); err != nil {
		return tghelpers.SendText(c, describeStoreError(err))
	}
	return tghelpers.SendText(c, fmt.Sprintf("User %d was removed.", id))
}

// awaitBroadcastInput consumes the admin's reply to /broadcast and fans the
// message out. Partial delivery failure is reported, not retried.
func (a *App) awaitBroadcastInput(c tele.Context) error {
	a.sessions.ClearState(c.Sender().ID)

	rec, err := a.bcast.Broadcast(c.Text())
	if err != nil && errors.Is(err, relayerr.ErrEmptyMessage) {
		return tghelpers.SendText(c, "The broadcast text is empty, nothing was sent.")
	}
	return tghelpers.SendText(c, fmt.Sprintf("Broadcast delivered to %d of %d users.",
		rec.Attempted-rec.Failed, rec.Attempted))
}

func parseUserID(text string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func describeStoreError(err error) string {
	switch {
	case errors.Is(err, relayerr.ErrUnauthorized):
		return textDenied
	case errors.Is(err, relayerr.ErrNotFound):
		return "That user is not on the list."
	case errors.Is(err, relayerr.ErrProtectedIdentity):
		return "The admin cannot be removed."
	}
	var derr *relayerr.Error
	if errors.As(err, &derr) && derr.Code() == relayerr.CodePersistence {
		return "The change could not be saved: " + err.Error()
	}
	return "Something went wrong: " + err.Error()
}
