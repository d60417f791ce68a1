// handlers/challenges.go - Timed challenge lifecycle
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

type GenerateChallengeRequest struct {
	Difficulty string `json:"difficulty"`
}

// GenerateChallenge creates a new AI-generated challenge with its task list.
func GenerateChallenge(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	var req GenerateChallengeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	difficulty := strings.ToLower(req.Difficulty)
	if difficulty == "" {
		difficulty = models.DifficultyMedium
	}

	generated, err := generator.GenerateChallenge(difficulty)
	if err != nil {
		if errors.Is(err, services.ErrInvalidArgument) {
			return c.Status(400).JSON(fiber.Map{"success": false, "error": err.Error()})
		}
		return c.Status(502).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	challenge := models.Challenge{
		Title:        generated.Title,
		Description:  generated.Description,
		TimeLimit:    int(generated.TimeLimit),
		PointsReward: int(generated.PointsReward),
		UserID:       userID,
	}
	if err := challenge.SetTasks(generated.Activities); err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to encode challenge tasks"})
	}

	if err := database.GetDB().Create(&challenge).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to save challenge"})
	}

	return c.JSON(fiber.Map{"success": true, "challenge": challenge})
}

// AcceptChallenge starts the challenge clock. Tasks can only be completed on
// an accepted, unexpired challenge.
func AcceptChallenge(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	challengeID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid challenge id"})
	}

	db := database.GetDB()

	var challenge models.Challenge
	if err := db.First(&challenge, challengeID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"success": false, "error": "Challenge not found"})
	}

	if challenge.UserID != userID {
		return c.Status(403).JSON(fiber.Map{"success": false, "error": "Unauthorized"})
	}

	now := time.Now().UTC()
	res := db.Model(&models.Challenge{}).
		Where("id = ? AND accepted = ?", challenge.ID, false).
		Updates(map[string]interface{}{
			"accepted":    true,
			"accepted_at": now,
		})
	if res.Error != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to accept challenge"})
	}
	if res.RowsAffected == 0 {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Challenge already accepted"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Challenge accepted! Complete the activities within the time limit.",
	})
}

// CompleteChallengeTask marks one task of an accepted challenge complete,
// addressed by its zero-based index. Completing the last open task finishes
// the challenge and credits the reward exactly once.
func CompleteChallengeTask(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	challengeID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid challenge id"})
	}
	taskIndex, err := c.ParamsInt("index")
	if err != nil || taskIndex < 0 {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid task index"})
	}

	db := database.GetDB()

	var challenge models.Challenge
	if err := db.First(&challenge, challengeID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"success": false, "error": "Challenge not found"})
	}

	if challenge.UserID != userID {
		return c.Status(403).JSON(fiber.Map{"success": false, "error": "Unauthorized"})
	}

	if challenge.Completed {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Challenge already completed"})
	}

	if !challenge.Accepted {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Challenge not accepted yet"})
	}

	now := time.Now().UTC()
	if challenge.IsExpired(now) {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Challenge has expired"})
	}

	tasks, err := challenge.Tasks()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to decode challenge tasks"})
	}

	if err := models.MarkTask(tasks, taskIndex, now); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	if err := challenge.SetTasks(tasks); err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to encode challenge tasks"})
	}

	states := models.TaskStates(tasks)
	challengeDone := gamification.AllComplete(states)

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

	updates := map[string]interface{}{"activities": challenge.Activities}
	if challengeDone {
		updates["completed"] = true
		updates["completed_at"] = now
	}

	// The completed guard doubles as the credit-once lock: a racing request
	// that finished the challenge first makes RowsAffected zero here.
	res := tx.Model(&models.Challenge{}).
		Where("id = ? AND completed = ?", challenge.ID, false).
		Updates(updates)
	if res.Error != nil {
		tx.Rollback()
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to update challenge"})
	}
	if res.RowsAffected == 0 {
		tx.Rollback()
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Challenge already completed"})
	}

	pointsEarned := 0
	var awarded []models.Achievement
	if challengeDone {
		pointsEarned = challenge.PointsReward
		user.Points += pointsEarned
		if err := tx.Model(&models.User{}).Where("id = ?", user.ID).
			Update("points", gorm.Expr("points + ?", pointsEarned)).Error; err != nil {
			tx.Rollback()
			return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to award points"})
		}

		awarded, err = evaluateAchievements(tx, &user)
		if err != nil {
			tx.Rollback()
			return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to evaluate achievements"})
		}
	}

	if err := tx.Commit().Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to commit transaction"})
	}

	if challengeDone && user.PushNotifications {
		services.GetNotifier().Notify(user.ID, services.Event{
			Type:    "challenge_completed",
			Message: challenge.Title,
			Payload: fiber.Map{"challenge_id": challenge.ID, "points_earned": pointsEarned},
		})
	}
	notifyAchievements(&user, awarded)

	return c.JSON(fiber.Map{
		"success":             true,
		"message":             "Activity completed!",
		"progress":            gamification.Progress(states),
		"challenge_completed": challengeDone,
		"points_earned":       pointsEarned,
		"new_achievements":    awarded,
	})
}

// GetActiveChallenges lists challenges not yet completed.
func GetActiveChallenges(c *fiber.Ctx) error {
	return listChallenges(c, false)
}

// GetCompletedChallenges lists completed challenges.
func GetCompletedChallenges(c *fiber.Ctx) error {
	return listChallenges(c, true)
}

func listChallenges(c *fiber.Ctx, completed bool) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	order := "created_at DESC"
	if completed {
		order = "completed_at DESC"
	}

	var challenges []models.Challenge
	if err := database.GetDB().
		Where("user_id = ? AND completed = ?", userID, completed).
		Order(order).
		Find(&challenges).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch challenges"})
	}

	return c.JSON(fiber.Map{"success": true, "challenges": challenges})
}
