package domain

import (
	"errors"
	"time"
)

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrInvalidToken = errors.New("invalid token")
var ErrTokenExpired = errors.New("token expired")
var ErrForbidden = errors.New("access forbidden")
var ErrUserExists = errors.New("username already exists")
var ErrUserNotFound = errors.New("user not found")

// User models a registered account. PasswordHash never crosses the HTTP
// boundary; the json tag strips it from every response.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
}
