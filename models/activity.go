// models/activity.go
package models

import "time"

// Activity categories and difficulties accepted by the generator.
const (
	CategoryFood      = "food"
	CategoryCulture   = "culture"
	CategoryAdventure = "adventure"

	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

type Activity struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"not null;size:200" json:"title"`
	Description string `gorm:"not null;type:text" json:"description"`
	Category    string `gorm:"not null;size:50;index" json:"category"`
	Difficulty  string `gorm:"not null;size:20" json:"difficulty"`
	Duration    int    `gorm:"not null" json:"duration"` // minutes
	Location    string `gorm:"not null;size:200" json:"location"`
	Completed   bool   `gorm:"default:false;index" json:"completed"`

	UserID    uint      `gorm:"not null;index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
