package session

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenStatus is the outcome of the client-side token validity check.
type TokenStatus int

const (
	// TokenValid means the token shows no client-side evidence of expiry.
	TokenValid TokenStatus = iota
	// TokenExpired means the token is past its exp claim or is a claims
	// token whose payload cannot be read.
	TokenExpired
)

// CheckTokenValidity inspects a bearer token without contacting the backend.
//
// Tokens that are not three dot-separated segments are opaque and checked
// fail-open: the backend's 401 is the only authority on their validity.
// Three-segment tokens are treated as claims tokens: an unreadable payload
// is checked fail-closed, and a readable exp claim expires the token once
// now reaches it. A readable payload without exp never expires client-side.
func CheckTokenValidity(token string, now time.Time) TokenStatus {
	if len(strings.Split(token, ".")) != 3 {
		return TokenValid
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return TokenExpired
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		// An exp claim of the wrong type is as unreadable as a bad payload.
		return TokenExpired
	}
	if exp == nil {
		return TokenValid
	}
	if !now.Before(exp.Time) {
		return TokenExpired
	}
	return TokenValid
}
