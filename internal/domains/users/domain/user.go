package domain

import (
	"errors"
	"strings"
)

var (
	ErrNoAddress    = errors.New("user has no email address")
	ErrInvalidEmail = errors.New("email must contain '@'")
)

// User is the slice of a customer profile the order workflows read.
type User struct {
	ID        int64
	Username  string
	FirstName string
	LastName  string
	Email     string
}

// Address returns the normalized delivery address.
func (u *User) Address() (string, error) {
	email := strings.TrimSpace(u.Email)
	if email == "" {
		return "", ErrNoAddress
	}
	if !strings.Contains(email, "@") {
		return "", ErrInvalidEmail
	}
	return email, nil
}
