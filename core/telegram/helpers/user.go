package helpers

import (
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v4"
)

// DisplayName resolves a human-readable name for a Telegram user:
// full name, then username, then the numeric id.
func DisplayName(u *tele.User) string {
	if u == nil {
		return "unknown"
	}
	name := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	if name != "" {
		return name
	}
	if u.Username != "" {
		return "@" + u.Username
	}
	return strconv.FormatInt(u.ID, 10)
}
