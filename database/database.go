package database

import (
	"log"
	"os"

	"collabcanvas-app/internal/domain/billing"
	"collabcanvas-app/internal/domain/contributions"
	"collabcanvas-app/internal/domain/drawinglog"
	"collabcanvas-app/internal/domain/notifications"
	"collabcanvas-app/internal/domain/projects"
	"collabcanvas-app/internal/domain/users"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB() {
	dsn := os.Getenv("DB_URL")
	if dsn == "" {
		log.Fatal("❌ DB_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("❌ Failed to connect to database:", err)
	}

	DB = db

	// ✅ REQUIRED for UUID generation
	if err := DB.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		log.Fatal("❌ Failed to enable pgcrypto extension:", err)
	}

	// ✅ Auto-migrate all domain models
	if err := DB.AutoMigrate(
		// core
		&users.User{},
		&users.VerificationToken{},
		&billing.Payment{},

		// canvas
		&projects.Project{},
		&contributions.Contribution{},
		&drawinglog.Entry{},
		&notifications.Notification{},
	); err != nil {
		log.Fatal("❌ Failed to auto-migrate:", err)
	}

	log.Println("✅ Database connected and migrated")
}
