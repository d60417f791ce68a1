// models/user.go
package models

import (
	"time"
)

type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `gorm:"uniqueIndex;not null" json:"username"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`

	// Cumulative reward points. Never decremented.
	Points int `gorm:"default:0" json:"points"`

	// Notification preferences
	EmailNotifications bool `gorm:"default:true" json:"email_notifications"`
	PushNotifications  bool `gorm:"default:true" json:"push_notifications"`

	// Password reset flow
	ResetToken *string `gorm:"index" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Activities   []Activity    `gorm:"foreignKey:UserID" json:"activities,omitempty"`
	Quests       []Quest       `gorm:"foreignKey:UserID" json:"quests,omitempty"`
	Challenges   []Challenge   `gorm:"foreignKey:UserID" json:"challenges,omitempty"`
	Achievements []Achievement `gorm:"foreignKey:UserID" json:"achievements,omitempty"`
}
