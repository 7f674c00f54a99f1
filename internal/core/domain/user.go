package domain

import (
	"errors"
	"time"
)

const (
	RoleAdmin    = "ADMIN"
	RoleCustomer = "CUSTOMER"
)

// Login failures deliberately share one message so callers cannot tell an
// unknown email apart from a wrong password.
var ErrInvalidCredentials = errors.New("invalid email or password")

var ErrUserExists = errors.New("username or email already taken")
var ErrUserNotFound = errors.New("user not found")
var ErrWeakPassword = errors.New("password does not meet the minimum policy")
var ErrTokenInvalid = errors.New("invalid token")
var ErrTokenExpired = errors.New("token expired")

// User models an authenticated actor in the system.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
