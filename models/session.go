package models

import "time"

// Session is a snapshot of the client-side authentication state.
// A token without a resolved user means the session is still loading and
// must not be treated as authenticated.
type Session struct {
	Token       string    `json:"token"`
	User        *User     `json:"user,omitempty"`
	LastRefresh time.Time `json:"lastRefresh"`
}

// IsAuthenticated returns true only when both the token and the resolved
// user are present.
func (s Session) IsAuthenticated() bool {
	return s.Token != "" && s.User != nil
}
