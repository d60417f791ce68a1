// models/quest.go
package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// QuestStep is one entry in a quest's ordered step list. Steps are fixed at
// generation time; a quest is completed as a whole, not step by step.
type QuestStep struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type Quest struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"not null;size:100" json:"title"`
	Description string         `gorm:"not null;type:text" json:"description"`
	Difficulty  string         `gorm:"not null;size:20" json:"difficulty"`
	Duration    int            `gorm:"not null" json:"duration"` // minutes
	Steps       datatypes.JSON `gorm:"not null" json:"steps"`

	UserID      uint       `gorm:"not null;index" json:"user_id"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	CompletedAt *time.Time `json:"completed_at"`

	// Awarded at completion time, zero while the quest is active.
	Points int `gorm:"not null;default:0" json:"points"`
}

func (q *Quest) StepList() ([]QuestStep, error) {
	var steps []QuestStep
	if err := json.Unmarshal(q.Steps, &steps); err != nil {
		return nil, err
	}
	return steps, nil
}

func (q *Quest) SetSteps(steps []QuestStep) error {
	raw, err := json.Marshal(steps)
	if err != nil {
		return err
	}
	q.Steps = datatypes.JSON(raw)
	return nil
}

func (q *Quest) IsCompleted() bool {
	return q.CompletedAt != nil
}
