package user

import (
	"errors"
	"time"
)

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already in use")
)

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never expose hash in JSON
	DisplayName  string    `json:"display_name"`
	CityName     string    `json:"city_name"`
	Lat          *float64  `json:"lat,omitempty"`
	Long         *float64  `json:"long,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateParams is everything needed to insert a user row. The hash is derived
// by the caller; the plaintext password never reaches the store.
type CreateParams struct {
	Email        string
	PasswordHash string
	DisplayName  string
	CityName     string
	Lat          *float64
	Long         *float64
}
