package domain

import "time"

// Admin is the authenticated staff profile returned by the backend at login.
type Admin struct {
	ID        string     `json:"_id"`
	FullName  string     `json:"fullName"`
	Email     string     `json:"email"`
	IsAdmin   bool       `json:"isAdmin"`
	IsBlocked bool       `json:"isBlocked"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// SessionState is a consistent snapshot of the session manager.
// Token and Admin are always both set or both empty.
type SessionState struct {
	Admin     *Admin
	Token     string
	Loading   bool
	Error     string
	ExpiresAt *time.Time
}

// IsAuthenticated reports whether both credential halves are present.
func (s SessionState) IsAuthenticated() bool {
	return s.Token != "" && s.Admin != nil
}

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)
