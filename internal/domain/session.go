package domain

import "time"

// Session is the client-local record of an authenticated operator: the
// identity last confirmed by the backend and the bearer token that proves
// it. It is cached between runs and re-validated on start.
type Session struct {
	User    User      `json:"user"`
	Token   string    `json:"token"`
	SavedAt time.Time `json:"saved_at"`
}

// Valid reports whether the session carries enough to attempt restoration.
func (s Session) Valid() bool {
	return s.Token != "" && s.User.Username != ""
}

// Expired reports whether the cached session is older than the given TTL.
// A false result is no guarantee the backend still honours the token;
// restore always revalidates.
func (s Session) Expired(ttl time.Duration) bool {
	if s.SavedAt.IsZero() {
		return true
	}
	return time.Since(s.SavedAt) > ttl
}
