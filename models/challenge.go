// models/challenge.go - Timed multi-task challenge models
package models

import (
	"encoding/json"
	"errors"
	"time"

	"gorm.io/datatypes"
)

var (
	ErrTaskIndexOutOfRange  = errors.New("invalid activity index")
	ErrTaskAlreadyCompleted = errors.New("activity already completed")
)

// ChallengeTask is one sub-activity of a challenge. Tasks are completed
// individually and in any order; the challenge itself completes when the
// last task does.
type ChallengeTask struct {
	Description string     `json:"description"`
	TimeLimit   int        `json:"time_limit"` // minutes
	Points      int        `json:"points"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type Challenge struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"not null;size:200" json:"title"`
	Description string         `gorm:"not null;type:text" json:"description"`
	Activities  datatypes.JSON `gorm:"not null" json:"activities"`

	// Total time limit in minutes, counted from AcceptedAt.
	TimeLimit    int `gorm:"not null" json:"time_limit"`
	PointsReward int `gorm:"not null" json:"points_reward"`

	Accepted   bool       `gorm:"default:false" json:"accepted"`
	AcceptedAt *time.Time `json:"accepted_at"`

	Completed   bool       `gorm:"default:false;index" json:"completed"`
	CompletedAt *time.Time `json:"completed_at"`

	UserID    uint      `gorm:"not null;index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (c *Challenge) Tasks() ([]ChallengeTask, error) {
	var tasks []ChallengeTask
	if err := json.Unmarshal(c.Activities, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Challenge) SetTasks(tasks []ChallengeTask) error {
	raw, err := json.Marshal(tasks)
	if err != nil {
		return err
	}
	c.Activities = datatypes.JSON(raw)
	return nil
}

// MarkTask flips the completion flag of the task at the given zero-based
// index. Out-of-range indexes and repeat marks are rejected without touching
// any entry.
func MarkTask(tasks []ChallengeTask, index int, now time.Time) error {
	if index < 0 || index >= len(tasks) {
		return ErrTaskIndexOutOfRange
	}
	if tasks[index].Completed {
		return ErrTaskAlreadyCompleted
	}
	tasks[index].Completed = true
	tasks[index].CompletedAt = &now
	return nil
}

// TaskStates reports per-task completion flags in task order.
func TaskStates(tasks []ChallengeTask) []bool {
	states := make([]bool, len(tasks))
	for i, t := range tasks {
		states[i] = t.Completed
	}
	return states
}

// IsExpired reports whether the challenge's time limit has elapsed.
// An unaccepted challenge has no deadline yet.
func (c *Challenge) IsExpired(now time.Time) bool {
	if !c.Accepted || c.AcceptedAt == nil {
		return false
	}
	deadline := c.AcceptedAt.Add(time.Duration(c.TimeLimit) * time.Minute)
	return now.After(deadline)
}
