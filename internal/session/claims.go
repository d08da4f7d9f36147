package session

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrTokenExpired = errors.New("session token expired")

type User struct {
	ID int64 `json:"id"`
}

// UserFromToken reads the user id from the token's "sub" claim.
// The signature is not checked here: the API verifies every request.
func UserFromToken(token string, now time.Time) (*User, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("разбор токена: %w", err)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return nil, fmt.Errorf("поле exp: %w", err)
	}
	if exp != nil && !now.Before(exp.Time) {
		return nil, ErrTokenExpired
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return nil, fmt.Errorf("поле sub: %w", err)
	}
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("поле sub %q не является id пользователя", sub)
	}
	return &User{ID: id}, nil
}
