// handlers/quests.go
package handlers

import (
	"errors"
	"strings"
	"time"

	"wanderlust/database"
	"wanderlust/gamification"
	"wanderlust/middleware"
	"wanderlust/models"
	"wanderlust/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type GenerateQuestRequest struct {
	Difficulty string `json:"difficulty"`
}

// GenerateQuest creates a new AI-generated multi-step quest.
func GenerateQuest(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	var req GenerateQuestRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	difficulty := strings.ToLower(req.Difficulty)
	if difficulty == "" {
		difficulty = models.DifficultyMedium
	}

	generated, err := generator.GenerateQuest(difficulty)
	if err != nil {
		if errors.Is(err, services.ErrInvalidArgument) {
			return c.Status(400).JSON(fiber.Map{"success": false, "error": err.Error()})
		}
		return c.Status(502).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	quest := models.Quest{
		Title:       generated.Title,
		Description: generated.Description,
		Difficulty:  difficulty,
		Duration:    int(generated.Duration),
		UserID:      userID,
	}
	if err := quest.SetSteps(generated.Steps); err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to encode quest steps"})
	}

	if err := database.GetDB().Create(&quest).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to save quest"})
	}

	return c.JSON(fiber.Map{"success": true, "quest": quest})
}

// CompleteQuest marks a quest completed as a whole and credits its
// difficulty-based points.
func CompleteQuest(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	questID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid quest id"})
	}

	db := database.GetDB()

	var quest models.Quest
	if err := db.First(&quest, questID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"success": false, "error": "Quest not found"})
	}

	if quest.UserID != userID {
		return c.Status(403).JSON(fiber.Map{"success": false, "error": "Not authorized"})
	}

	if quest.IsCompleted() {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Quest already completed"})
	}

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"success": false, "error": "User not found"})
	}

	pointsEarned := gamification.QuestPoints(quest.Difficulty)
	now := time.Now().UTC()

	tx := db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	res := tx.Model(&models.Quest{}).
		Where("id = ? AND completed_at IS NULL", quest.ID).
		Updates(map[string]interface{}{
			"completed_at": now,
			"points":       pointsEarned,
		})
	if res.Error != nil {
		tx.Rollback()
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to complete quest"})
	}
	if res.RowsAffected == 0 {
		tx.Rollback()
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Quest already completed"})
	}

	// Relative increment so a concurrent completion of another entity
	// cannot overwrite this credit.
	user.Points += pointsEarned
	if err := tx.Model(&models.User{}).Where("id = ?", user.ID).
		Update("points", gorm.Expr("points + ?", pointsEarned)).Error; err != nil {
		tx.Rollback()
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to award points"})
	}

	if err := tx.Commit().Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to commit transaction"})
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"points_earned": pointsEarned,
		"total_points":  user.Points,
	})
}

// GetActiveQuests lists quests without a completion timestamp.
func GetActiveQuests(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	var quests []models.Quest
	if err := database.GetDB().
		Where("user_id = ? AND completed_at IS NULL", userID).
		Order("created_at DESC").
		Find(&quests).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch quests"})
	}

	return c.JSON(fiber.Map{"success": true, "quests": quests})
}

// GetCompletedQuests lists completed quests, most recent completion first.
func GetCompletedQuests(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	var quests []models.Quest
	if err := database.GetDB().
		Where("user_id = ? AND completed_at IS NOT NULL", userID).
		Order("completed_at DESC").
		Find(&quests).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch quests"})
	}

	return c.JSON(fiber.Map{"success": true, "quests": quests})
}
