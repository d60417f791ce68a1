// handlers/challenges_test.go
package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"wanderlust/database"
	"wanderlust/models"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	// A second pooled connection would see its own empty :memory: database.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Activity{},
		&models.Quest{},
		&models.Challenge{},
		&models.Achievement{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	database.SetDB(db)
	return db
}

// newAuthedApp returns an app whose routes run as the given user, the way
// AuthMiddleware would set them up after validating a token.
func newAuthedApp(userID uint) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userId", userID)
		return c.Next()
	})
	app.Post("/challenges/:id/accept", AcceptChallenge)
	app.Post("/challenges/:id/tasks/:index/complete", CompleteChallengeTask)
	return app
}

func post(t *testing.T, app *fiber.App, path string) (int, map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest("POST", path, nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("decode response %q: %v", raw, err)
	}
	return resp.StatusCode, body
}

func seedChallenge(t *testing.T, db *gorm.DB, userID uint, taskCount int, accepted bool, acceptedAt time.Time) models.Challenge {
	t.Helper()

	tasks := make([]models.ChallengeTask, taskCount)
	for i := range tasks {
		tasks[i] = models.ChallengeTask{
			Description: fmt.Sprintf("Stop %d", i+1),
			TimeLimit:   30,
			Points:      10,
		}
	}

	challenge := models.Challenge{
		Title:        "Street Food Sprint",
		Description:  "Three stops around Churchgate",
		TimeLimit:    120,
		PointsReward: 150,
		UserID:       userID,
		Accepted:     accepted,
	}
	if accepted {
		challenge.AcceptedAt = &acceptedAt
	}
	if err := challenge.SetTasks(tasks); err != nil {
		t.Fatalf("encode tasks: %v", err)
	}
	if err := db.Create(&challenge).Error; err != nil {
		t.Fatalf("create challenge: %v", err)
	}
	return challenge
}

func seedUser(t *testing.T, db *gorm.DB) models.User {
	t.Helper()

	user := models.User{
		Username:          "asha",
		Email:             "asha@example.com",
		Password:          "irrelevant",
		PushNotifications: true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func userPoints(t *testing.T, db *gorm.DB, id uint) int {
	t.Helper()

	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	return user.Points
}

func TestCompleteChallengeTaskCreditsRewardOnce(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db)
	challenge := seedChallenge(t, db, user.ID, 3, true, time.Now().UTC())
	app := newAuthedApp(user.ID)

	// The first two tasks make progress without paying out.
	for i, wantProgress := range []float64{1.0 / 3.0, 2.0 / 3.0} {
		status, body := post(t, app, fmt.Sprintf("/challenges/%d/tasks/%d/complete", challenge.ID, i))
		if status != 200 {
			t.Fatalf("task %d: status = %d, body = %v", i, status, body)
		}
		if done, _ := body["challenge_completed"].(bool); done {
			t.Fatalf("task %d: challenge reported complete early", i)
		}
		if got := body["progress"].(float64); got != wantProgress {
			t.Errorf("task %d: progress = %v, want %v", i, got, wantProgress)
		}
		if got := userPoints(t, db, user.ID); got != 0 {
			t.Fatalf("task %d: points credited early: %d", i, got)
		}
	}

	// The last task finishes the challenge and credits the reward.
	status, body := post(t, app, fmt.Sprintf("/challenges/%d/tasks/2/complete", challenge.ID))
	if status != 200 {
		t.Fatalf("final task: status = %d, body = %v", status, body)
	}
	if done, _ := body["challenge_completed"].(bool); !done {
		t.Fatal("final task did not complete the challenge")
	}
	if got := int(body["points_earned"].(float64)); got != challenge.PointsReward {
		t.Errorf("points_earned = %d, want %d", got, challenge.PointsReward)
	}
	if got := userPoints(t, db, user.ID); got != challenge.PointsReward {
		t.Fatalf("user points = %d, want %d", got, challenge.PointsReward)
	}

	var reloaded models.Challenge
	if err := db.First(&reloaded, challenge.ID).Error; err != nil {
		t.Fatalf("reload challenge: %v", err)
	}
	if !reloaded.Completed || reloaded.CompletedAt == nil {
		t.Fatal("challenge not marked completed")
	}

	// A repeat attempt is rejected and must not credit again.
	status, body = post(t, app, fmt.Sprintf("/challenges/%d/tasks/2/complete", challenge.ID))
	if status != 400 {
		t.Fatalf("repeat attempt: status = %d, body = %v", status, body)
	}
	if got := userPoints(t, db, user.ID); got != challenge.PointsReward {
		t.Fatalf("repeat attempt changed points: %d, want %d", got, challenge.PointsReward)
	}
}

func TestCompleteChallengeTaskRequiresAcceptance(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db)
	challenge := seedChallenge(t, db, user.ID, 2, false, time.Time{})
	app := newAuthedApp(user.ID)

	status, body := post(t, app, fmt.Sprintf("/challenges/%d/tasks/0/complete", challenge.ID))
	if status != 400 {
		t.Fatalf("status = %d, body = %v", status, body)
	}
	if got := userPoints(t, db, user.ID); got != 0 {
		t.Fatalf("points changed on rejected attempt: %d", got)
	}
}

func TestCompleteChallengeTaskRejectsExpired(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db)
	// Accepted three hours ago against a two-hour limit.
	challenge := seedChallenge(t, db, user.ID, 2, true, time.Now().UTC().Add(-3*time.Hour))
	app := newAuthedApp(user.ID)

	status, body := post(t, app, fmt.Sprintf("/challenges/%d/tasks/0/complete", challenge.ID))
	if status != 400 {
		t.Fatalf("status = %d, body = %v", status, body)
	}

	var reloaded models.Challenge
	if err := db.First(&reloaded, challenge.ID).Error; err != nil {
		t.Fatalf("reload challenge: %v", err)
	}
	tasks, err := reloaded.Tasks()
	if err != nil {
		t.Fatalf("decode tasks: %v", err)
	}
	if tasks[0].Completed {
		t.Fatal("task marked on expired challenge")
	}
}

func TestCompleteChallengeTaskRejectsOutOfRangeIndex(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db)
	challenge := seedChallenge(t, db, user.ID, 2, true, time.Now().UTC())
	app := newAuthedApp(user.ID)

	status, body := post(t, app, fmt.Sprintf("/challenges/%d/tasks/5/complete", challenge.ID))
	if status != 400 {
		t.Fatalf("status = %d, body = %v", status, body)
	}
}

func TestCompleteChallengeTaskRejectsOtherUsersChallenge(t *testing.T) {
	db := setupTestDB(t)
	owner := seedUser(t, db)
	challenge := seedChallenge(t, db, owner.ID, 2, true, time.Now().UTC())

	intruder := models.User{Username: "ravi", Email: "ravi@example.com", Password: "irrelevant"}
	if err := db.Create(&intruder).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	app := newAuthedApp(intruder.ID)

	status, body := post(t, app, fmt.Sprintf("/challenges/%d/tasks/0/complete", challenge.ID))
	if status != 403 {
		t.Fatalf("status = %d, body = %v", status, body)
	}
}

func TestAcceptChallengeOnlyOnce(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db)
	challenge := seedChallenge(t, db, user.ID, 2, false, time.Time{})
	app := newAuthedApp(user.ID)

	status, body := post(t, app, fmt.Sprintf("/challenges/%d/accept", challenge.ID))
	if status != 200 {
		t.Fatalf("first accept: status = %d, body = %v", status, body)
	}

	status, body = post(t, app, fmt.Sprintf("/challenges/%d/accept", challenge.ID))
	if status != 400 {
		t.Fatalf("second accept: status = %d, body = %v", status, body)
	}
}
