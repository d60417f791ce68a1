// handlers/activities.go
package handlers

import (
	"errors"
	"strings"

	"wanderlust/database"
	"wanderlust/gamification"
	"wanderlust/middleware"
	"wanderlust/models"
	"wanderlust/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type GenerateActivityRequest struct {
	Category   string `json:"category"`
	Difficulty string `json:"difficulty"`
}

// GenerateActivity creates a new AI-generated activity for the current user.
func GenerateActivity(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	var req GenerateActivityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	category := strings.ToLower(req.Category)
	if category == "" {
		category = models.CategoryFood
	}
	difficulty := strings.ToLower(req.Difficulty)
	if difficulty == "" {
		difficulty = models.DifficultyEasy
	}

	generated, err := generator.GenerateActivity(category, difficulty)
	if err != nil {
		if errors.Is(err, services.ErrInvalidArgument) {
			return c.Status(400).JSON(fiber.Map{"success": false, "error": err.Error()})
		}
		return c.Status(502).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	activity := models.Activity{
		Title:       generated.Title,
		Description: generated.Description,
		Category:    category,
		Difficulty:  difficulty,
		Duration:    int(generated.Duration),
		Location:    generated.Location,
		UserID:      userID,
	}

	if err := database.GetDB().Create(&activity).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to save activity"})
	}

	return c.JSON(fiber.Map{"success": true, "activity": activity})
}

// CompleteActivity marks an activity done, credits difficulty points and
// evaluates achievements, all in one transaction.
func CompleteActivity(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	activityID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid activity id"})
	}

	db := database.GetDB()

	var activity models.Activity
	if err := db.First(&activity, activityID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"success": false, "error": "Activity not found"})
	}

	if activity.UserID != userID {
		return c.Status(403).JSON(fiber.Map{"success": false, "error": "Unauthorized"})
	}

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"success": false, "error": "User not found"})
	}

	tx := db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	// Conditional update keeps a concurrent duplicate complete from
	// double-crediting.
	res := tx.Model(&models.Activity{}).
		Where("id = ? AND completed = ?", activity.ID, false).
		Update("completed", true)
	if res.Error != nil {
		tx.Rollback()
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to complete activity"})
	}
	if res.RowsAffected == 0 {
		tx.Rollback()
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Activity already completed"})
	}

	pointsEarned := gamification.ActivityPoints(activity.Difficulty)
	user.Points += pointsEarned
	if err := tx.Model(&models.User{}).Where("id = ?", user.ID).
		Update("points", gorm.Expr("points + ?", pointsEarned)).Error; err != nil {
		tx.Rollback()
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to award points"})
	}

	awarded, err := evaluateAchievements(tx, &user)
	if err != nil {
		tx.Rollback()
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to evaluate achievements"})
	}

	if err := tx.Commit().Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to commit transaction"})
	}

	notifyAchievements(&user, awarded)

	return c.JSON(fiber.Map{
		"success":          true,
		"points":           user.Points,
		"level":            levelName(user.Points),
		"new_achievements": awarded,
	})
}

// GetActiveActivities lists the user's incomplete activities.
func GetActiveActivities(c *fiber.Ctx) error {
	return listActivities(c, false)
}

// GetCompletedActivities lists the user's completed activities.
func GetCompletedActivities(c *fiber.Ctx) error {
	return listActivities(c, true)
}

func listActivities(c *fiber.Ctx, completed bool) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	var activities []models.Activity
	if err := database.GetDB().
		Where("user_id = ? AND completed = ?", userID, completed).
		Order("created_at DESC").
		Find(&activities).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch activities"})
	}

	return c.JSON(fiber.Map{"success": true, "activities": activities})
}
