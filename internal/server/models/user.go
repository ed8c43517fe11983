// Package models holds the records shared by repositories and services.
package models

import (
	"encoding/json"
	"time"
)

// User is a stored account. PasswordHash never leaves the service layer.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string `json:"-"`
	Avatar       string
	GamesData    json.RawMessage
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserPatch lists the fields an update may change; nil means "keep".
// Password is plaintext and is hashed by the service before storage.
type UserPatch struct {
	Username  *string
	Email     *string
	Password  *string
	Avatar    *string
	GamesData json.RawMessage
}

func (p UserPatch) Empty() bool {
	return p.Username == nil && p.Email == nil && p.Password == nil && p.Avatar == nil && p.GamesData == nil
}

// Apply copies the set fields onto u, except Password which needs hashing.
func (p UserPatch) Apply(u *User) {
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Avatar != nil {
		u.Avatar = *p.Avatar
	}
	if p.GamesData != nil {
		u.GamesData = p.GamesData
	}
}
