// handlers/achievements.go - Milestone evaluation after activity completions
package handlers

import (
	"time"

	"wanderlust/gamification"
	"wanderlust/models"
	"wanderlust/services"

	"gorm.io/gorm"
)

var generator *services.Generator

// InitHandlers wires the handler package's service dependencies.
func InitHandlers() {
	generator = services.NewGenerator()
}

// evaluateAchievements awards every milestone the user now qualifies for and
// has not yet been granted, crediting milestone points inside the caller's
// transaction. All qualifying milestones are granted in one pass.
func evaluateAchievements(tx *gorm.DB, user *models.User) ([]models.Achievement, error) {
	var completedActivities int64
	if err := tx.Model(&models.Activity{}).
		Where("user_id = ? AND completed = ?", user.ID, true).
		Count(&completedActivities).Error; err != nil {
		return nil, err
	}

	var grantedTitles []string
	if err := tx.Model(&models.Achievement{}).
		Where("user_id = ?", user.ID).
		Pluck("title", &grantedTitles).Error; err != nil {
		return nil, err
	}

	granted := make(map[string]bool, len(grantedTitles))
	for _, title := range grantedTitles {
		granted[title] = true
	}

	var awarded []models.Achievement
	bonus := 0
	for _, m := range gamification.NewlyEarned(int(completedActivities), granted) {
		achievement := models.Achievement{
			Title:       m.Title,
			Description: m.Description,
			PointsValue: m.Points,
			UserID:      user.ID,
			UnlockedAt:  time.Now().UTC(),
		}
		if err := tx.Create(&achievement).Error; err != nil {
			return nil, err
		}

		user.Points += m.Points
		bonus += m.Points
		awarded = append(awarded, achievement)
	}

	if len(awarded) > 0 {
		if err := tx.Model(&models.User{}).Where("id = ?", user.ID).
			Update("points", gorm.Expr("points + ?", bonus)).Error; err != nil {
			return nil, err
		}
	}

	return awarded, nil
}

// notifyAchievements pushes unlock events to the user's open connections.
// Call after the transaction commits, and only when the user opted in.
func notifyAchievements(user *models.User, awarded []models.Achievement) {
	if !user.PushNotifications {
		return
	}
	for _, a := range awarded {
		services.GetNotifier().Notify(user.ID, services.Event{
			Type:    "achievement_unlocked",
			Message: a.Title,
			Payload: a,
		})
	}
}
