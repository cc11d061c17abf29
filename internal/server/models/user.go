// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is an identity record. PasswordHash holds the salted credential
// string produced by cryptox.HashPassword and is never serialised.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
