package utils // helpers for the optional remember-me login token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// RememberToken is a signed HS256 JWT set as a long-lived cookie when the
// user ticks "remember me" at login.  It only re-establishes a server
// session after the opaque session id has expired; it never authorizes a
// request by itself.
type RememberToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// ErrInvalidRememberToken is returned when a presented token fails
// signature or claim validation.
var ErrInvalidRememberToken = errors.New("invalid remember token")

// NewRememberToken builds and signs a remember-me token for a user.  The
// claims carry the numeric user id as the subject plus standard exp/iat.
func NewRememberToken(secret string, userID uint64, ttlDays int) (RememberToken, error) {
	exp := time.Now().UTC().Add(time.Duration(ttlDays) * 24 * time.Hour)
	claims := jwt.MapClaims{
		"sub": fmt.Sprintf("%d", userID),
		"exp": exp.Unix(),
		"iat": time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return RememberToken{}, err
	}
	return RememberToken{Token: signed, Exp: exp}, nil
}

// ParseRememberToken validates a remember-me token and returns the user
// id it was issued for.  The signing method is pinned to HMAC so a token
// signed with a different algorithm is rejected.
func ParseRememberToken(secret, raw string) (uint64, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidRememberToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return 0, ErrInvalidRememberToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrInvalidRememberToken
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return 0, ErrInvalidRememberToken
	}
	var id uint64
	if _, err := fmt.Sscanf(sub, "%d", &id); err != nil || id == 0 {
		return 0, ErrInvalidRememberToken
	}
	return id, nil
}
