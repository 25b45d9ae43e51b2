package session

import (
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// Expiry extracts the exp claim from a bearer token without verifying its
// signature. The API owns token authenticity; the portal only peeks at the
// expiry to skip a doomed who-am-I call. Opaque (non-JWT) tokens report no
// expiry and are always sent to the API for the real verdict.
func Expiry(token string) (time.Time, bool) {
	claims := jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// Expired reports whether the token carries an exp claim in the past.
func Expired(token string, now time.Time) bool {
	exp, ok := Expiry(token)
	return ok && now.After(exp)
}
