// handlers/settings.go
package handlers

import (
	"wanderlust/database"
	"wanderlust/middleware"
	"wanderlust/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type UpdateSettingsRequest struct {
	Username           *string `json:"username"`
	Email              *string `json:"email"`
	CurrentPassword    *string `json:"current_password"`
	NewPassword        *string `json:"new_password"`
	EmailNotifications *bool   `json:"email_notifications"`
	PushNotifications  *bool   `json:"push_notifications"`
}

// UpdateSettings changes profile fields and notification preferences. Only
// fields present in the request are touched; everything applies in one
// transaction or not at all.
func UpdateSettings(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	var req UpdateSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	db := database.GetDB()

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"success": false, "error": "User not found"})
	}

	updates := map[string]interface{}{}

	if req.Email != nil && *req.Email != user.Email {
		var existing models.User
		if err := db.Where("email = ? AND id != ?", *req.Email, userID).First(&existing).Error; err == nil {
			return c.Status(400).JSON(fiber.Map{"success": false, "error": "Email already exists"})
		}
		updates["email"] = *req.Email
	}

	if req.Username != nil && *req.Username != user.Username {
		var existing models.User
		if err := db.Where("username = ? AND id != ?", *req.Username, userID).First(&existing).Error; err == nil {
			return c.Status(400).JSON(fiber.Map{"success": false, "error": "Username already exists"})
		}
		updates["username"] = *req.Username
	}

	if req.NewPassword != nil && *req.NewPassword != "" {
		if req.CurrentPassword == nil {
			return c.Status(400).JSON(fiber.Map{"success": false, "error": "Current password required"})
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(*req.CurrentPassword)); err != nil {
			return c.Status(400).JSON(fiber.Map{"success": false, "error": "Current password is incorrect"})
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to hash password"})
		}
		updates["password"] = string(hashed)
	}

	if req.EmailNotifications != nil {
		updates["email_notifications"] = *req.EmailNotifications
	}
	if req.PushNotifications != nil {
		updates["push_notifications"] = *req.PushNotifications
	}

	if len(updates) == 0 {
		return c.JSON(fiber.Map{"success": true, "message": "Nothing to update"})
	}

	if err := db.Model(&user).Updates(updates).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to update settings"})
	}

	db.First(&user, userID)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Settings updated successfully",
		"user":    userInfo(user),
	})
}
