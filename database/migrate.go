// database/migrate.go - Database Migration Runner
package database

import (
	"log"
	"wanderlust/models"
)

// RunMigrations runs all database migrations
func RunMigrations() {
	db := GetDB()
	log.Println("🔄 Running database migrations...")

	if err := db.AutoMigrate(
		&models.User{},
		&models.Activity{},
		&models.Quest{},
		&models.Challenge{},
		&models.Achievement{},
	); err != nil {
		log.Fatalf("❌ Failed to run migrations: %v", err)
	}

	createIndexes()

	log.Println("✅ All migrations completed successfully")
}

func createIndexes() {
	db := GetDB()

	// Hot paths: per-user listings filtered by completion state
	db.Exec("CREATE INDEX IF NOT EXISTS idx_activities_user_completed ON activities(user_id, completed)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_quests_user_completed_at ON quests(user_id, completed_at)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_challenges_user_completed ON challenges(user_id, completed)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_achievements_user ON achievements(user_id)")
}
