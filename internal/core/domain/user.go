package domain

import "time"

// Role is the closed set of identities that decide addressing and visibility.
type Role string

const (
	RoleAdmin         Role = "admin"
	RoleCorrespondent Role = "correspondent"
	RoleShared        Role = "shared"
)

// Valid reports whether r belongs to the closed role set.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleCorrespondent, RoleShared:
		return true
	}
	return false
}

// Counterparty returns the role a message from r is addressed to.
// Shared senders write to the correspondent; everyone else, admin included,
// writes to the shared collective.
func (r Role) Counterparty() Role {
	if r == RoleShared {
		return RoleCorrespondent
	}
	return RoleShared
}

// ReceivesLivePushes reports whether connections bound to r see traffic on
// the two-party channel regardless of who sent it.
func (r Role) ReceivesLivePushes() bool {
	return r == RoleCorrespondent || r == RoleShared
}

// User models an authenticated actor in the system. Role never changes
// after creation.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// DisplayName is the name shown to the counterparty.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}
