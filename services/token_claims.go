package services

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// tokenExpired reports whether token is a JWT whose exp claim lies before now.
// The signature is not checked here; that is the backend's job. Opaque
// tokens and tokens without exp are never considered expired.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	return !claims.VerifyExpiresAt(now.Unix(), false)
}
