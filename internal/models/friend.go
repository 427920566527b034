package models

import "time"

// Friend is a directed visibility grant: UserID sees FriendUserID's public todos.
// The composite primary key keeps at most one edge per ordered pair.
type Friend struct {
	UserID       string    `json:"user_id" gorm:"primaryKey;size:36"`
	FriendUserID string    `json:"friend_user_id" gorm:"primaryKey;size:36;index"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`

	User       *User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	FriendUser *User `json:"-" gorm:"foreignKey:FriendUserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
