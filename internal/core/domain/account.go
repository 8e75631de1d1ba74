package domain

import (
	"strings"
	"time"
)

// Role is the account tier. Tiers are ordered:
// topAdmin > admin > unitManager > user.
type Role string

const (
	RoleTopAdmin    Role = "topAdmin"
	RoleAdmin       Role = "admin"
	RoleUnitManager Role = "unitManager"
	RoleUser        Role = "user"
)

// ParseRole normalizes an arbitrarily-cased role string to its canonical
// form. Every boundary (HTTP payloads, JWT claims, stored documents) goes
// through this so only the four canonical spellings exist inside the core.
func ParseRole(s string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "topadmin", "superadmin":
		return RoleTopAdmin, true
	case "admin":
		return RoleAdmin, true
	case "unitmanager":
		return RoleUnitManager, true
	case "user":
		return RoleUser, true
	}
	return "", false
}

// Assignable reports whether a role may be granted to an account by another
// account. topAdmin exists only as the seeded root and is never assignable.
func (r Role) Assignable() bool {
	return r == RoleAdmin || r == RoleUnitManager || r == RoleUser
}

// CanCreate reports whether an actor with this role may create an account
// with the given role. An account's role never exceeds its creator's.
func (r Role) CanCreate(target Role) bool {
	switch r {
	case RoleTopAdmin, RoleAdmin:
		return target.Assignable()
	case RoleUnitManager:
		return target == RoleUser
	}
	return false
}

// Account models an authenticated actor in the system.
type Account struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	IsBlocked    bool      `json:"isBlocked"`
	CreatedBy    string    `json:"createdBy,omitempty"`
	GroupedWith  []string  `json:"groupedWith,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// IsPeerOf reports whether other is already in the account's peer group.
func (a *Account) IsPeerOf(id string) bool {
	for _, g := range a.GroupedWith {
		if g == id {
			return true
		}
	}
	return false
}

// Identity is the claim set carried by access and refresh tokens and
// attached to a request once the gate has validated it.
type Identity struct {
	AccountID string
	Email     string
	Role      Role
}
