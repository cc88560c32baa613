package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token decode errors
var (
	ErrMalformedToken = errors.New("malformed bearer token")
	ErrNoSubject      = errors.New("bearer token carries no user id")
	ErrTokenExpired   = errors.New("bearer token has expired")
)

// Claims is the part of the API's bearer token the front end reads.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// DecodeToken reads the subject and expiry of a bearer token without verifying
// its signature; the API remains the only judge of validity.
// PRE: token is a compact JWT
// POST: Returns the user id from "user_id", falling back to "sub"
// INVARIANT: a token whose "exp" is at or before now is rejected
func DecodeToken(token string, now time.Time) (Claims, error) {
	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if claims.UserID == "" {
		claims.UserID = claims.Subject
	}
	if claims.UserID == "" {
		return Claims{}, ErrNoSubject
	}
	if claims.ExpiresAt != nil && !now.Before(claims.ExpiresAt.Time) {
		return Claims{}, ErrTokenExpired
	}
	return claims, nil
}
