// Package report renders operator-facing usage summaries.
package report

import (
	"fmt"
	"strings"

	"github.com/tunegate/tunegate/internal/broadcast"
	"github.com/tunegate/tunegate/internal/identity"
)

// Build formats a usage report from a member snapshot and the broadcast
// history. Pure aggregation, no mutation.
func Build(members []identity.Identity, history []broadcast.Record) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Allowed users: %d\n", len(members))
	b.WriteString("\nInteractions:\n")
	for _, m := range members {
		role := ""
		if m.IsAdmin() {
			role = " (admin)"
		}
		fmt.Fprintf(&b, "  %d%s: added %s, %d interaction(s)\n",
			m.ID, role, m.AddedOn.Format("2006-01-02"), m.Interactions)
	}

	b.WriteString("\nBroadcasts since last restart:\n")
	if len(history) == 0 {
		b.WriteString("  none\n")
	}
	for _, rec := range history {
		fmt.Fprintf(&b, "  %s: %d sent, %d failed: %s\n",
			rec.At.Format("2006-01-02 15:04"),
			rec.Attempted-rec.Failed,
			rec.Failed,
			truncate(rec.Text, 48),
		)
	}

	return strings.TrimRight(b.String(), "\n")
}

func truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
