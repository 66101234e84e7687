// Package identity holds the member model shared by the allow list and reports.
package identity

import "time"

// Role distinguishes the bot administrator from regular members.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Identity is a Telegram account known to the allow list.
type Identity struct {
	ID           int64
	Role         Role
	AddedOn      time.Time
	Interactions int
}

// IsAdmin reports whether this identity carries the admin role.
func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }
