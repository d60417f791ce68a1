// models/achievement.go
package models

import "time"

// Achievement is a user-scoped milestone record. A row's existence is the
// idempotency signal: at most one per (user_id, title).
type Achievement struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"not null;size:200;uniqueIndex:idx_achievements_user_title" json:"title"`
	Description string `gorm:"not null;type:text" json:"description"`
	BadgeImage  string `gorm:"size:200" json:"badge_image,omitempty"`
	PointsValue int    `gorm:"default:0" json:"points_value"`

	UserID     uint      `gorm:"not null;index;uniqueIndex:idx_achievements_user_title" json:"user_id"`
	UnlockedAt time.Time `json:"unlocked_at"`
}
