// handlers/profile.go
package handlers

import (
	"wanderlust/database"
	"wanderlust/gamification"
	"wanderlust/middleware"
	"wanderlust/models"

	"github.com/gofiber/fiber/v2"
)

func levelName(points int) string {
	return gamification.LevelForPoints(points)
}

// GetProfile returns the user's points, level, achievements and recent
// activity history, plus the home-page counters.
func GetProfile(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	db := database.GetDB()

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"success": false, "error": "User not found"})
	}

	var achievements []models.Achievement
	if err := db.Where("user_id = ?", userID).
		Order("unlocked_at DESC").
		Find(&achievements).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch achievements"})
	}

	var activities []models.Activity
	if err := db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(20).
		Find(&activities).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch activities"})
	}

	var completedActivities int64
	db.Model(&models.Activity{}).
		Where("user_id = ? AND completed = ?", userID, true).
		Count(&completedActivities)

	var activeQuests int64
	db.Model(&models.Quest{}).
		Where("user_id = ? AND completed_at IS NULL", userID).
		Count(&activeQuests)

	return c.JSON(fiber.Map{
		"success":              true,
		"user":                 userInfo(user),
		"level":                levelName(user.Points),
		"points":               user.Points,
		"achievements":         achievements,
		"recent_activities":    activities,
		"completed_activities": completedActivities,
		"active_quests":        activeQuests,
		"email_notifications":  user.EmailNotifications,
		"push_notifications":   user.PushNotifications,
	})
}
