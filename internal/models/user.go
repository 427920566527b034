package models

import (
	"time"
)

type User struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	Username  string    `json:"username" gorm:"uniqueIndex;not null"`
	Password  string    `json:"-" gorm:"not null"` // bcrypt hash
	CreatedAt time.Time `json:"-" gorm:"autoCreateTime"`
}

// Session is the identity a client keeps for the logged-in user.
type Session struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

func (u *User) Session() Session {
	return Session{ID: u.ID, Username: u.Username}
}
