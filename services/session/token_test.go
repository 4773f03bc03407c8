package session

import (
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"
)

// makeClaimsToken builds an unsigned three-segment token with the given
// payload claims.
func makeClaimsToken(t *testing.T, claims map[string]any) string {
	t.Helper()

	header, err := json.Marshal(map[string]string{"alg": "none", "typ": "JWT"})
	if err != nil {
		t.Fatalf("marshal header: %v", err)
	}
	payload, err := json.Marshal(claims)
	if err != nil {
		t.Fatalf("marshal claims: %v", err)
	}

	enc := base64.RawURLEncoding
	return enc.EncodeToString(header) + "." + enc.EncodeToString(payload) + ".sig"
}

func TestCheckTokenValidity_OpaqueTokensFailOpen(t *testing.T) {
	now := time.Now()

	// Anything that is not exactly three dot-separated segments is an
	// opaque token and never expires client-side.
	for _, token := range []string{
		"",
		"opaque-bearer-token",
		"two.segments",
		"four.dot.separated.segments",
	} {
		if got := CheckTokenValidity(token, now); got != TokenValid {
			t.Errorf("CheckTokenValidity(%q) = %v, want TokenValid", token, got)
		}
	}
}

func TestCheckTokenValidity_UndecodablePayloadFailsClosed(t *testing.T) {
	now := time.Now()

	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))
	token := header + ".!!!not-base64!!!.sig"

	if got := CheckTokenValidity(token, now); got != TokenExpired {
		t.Errorf("expected undecodable claims token to check as expired, got %v", got)
	}
}

func TestCheckTokenValidity_ExpClaim(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		claims map[string]any
		want   TokenStatus
	}{
		{"no exp claim", map[string]any{"sub": "42"}, TokenValid},
		{"exp in the future", map[string]any{"exp": now.Add(time.Hour).Unix()}, TokenValid},
		{"exp in the past", map[string]any{"exp": now.Add(-time.Hour).Unix()}, TokenExpired},
		{"exp exactly now", map[string]any{"exp": now.Unix()}, TokenExpired},
		{"exp of the wrong type", map[string]any{"exp": "tomorrow"}, TokenExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := makeClaimsToken(t, tt.claims)
			if got := CheckTokenValidity(token, now); got != tt.want {
				t.Errorf("CheckTokenValidity = %v, want %v", got, tt.want)
			}
		})
	}
}
