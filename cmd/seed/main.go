package main

import (
	"context"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"

	"ethleaf/internal/database"
	"ethleaf/internal/domain"
	"ethleaf/internal/modules/kyc"
	"ethleaf/internal/repository"
)

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "ethleaf.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM notifications")
	db.Exec("DELETE FROM kyc_identity_steps")
	db.Exec("DELETE FROM kyc_user_requests")
	db.Exec("DELETE FROM users")

	log.Println("Creating users...")

	adminHash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin := domain.User{
		Firstname: "Ada",
		Lastname:  "Admin",
		Email:     "admin@ethleaf.io",
		Phone:     "+10000000001",
		Password:  string(adminHash),
		Role:      domain.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Fatal("create admin failed:", err)
	}

	supportHash, _ := bcrypt.GenerateFromPassword([]byte("support123"), bcrypt.DefaultCost)
	support := domain.User{
		Firstname: "Sam",
		Lastname:  "Support",
		Email:     "support@ethleaf.io",
		Phone:     "+10000000002",
		Password:  string(supportHash),
		Role:      domain.RoleSupport,
	}
	if err := db.Create(&support).Error; err != nil {
		log.Fatal("create support failed:", err)
	}

	demoHash, _ := bcrypt.GenerateFromPassword([]byte("demo12345"), bcrypt.DefaultCost)
	demo := domain.User{
		Firstname: "Dana",
		Lastname:  "Demo",
		Email:     "demo@ethleaf.io",
		Phone:     "+10000000003",
		Password:  string(demoHash),
		Role:      domain.RoleUser,
	}
	if err := db.Create(&demo).Error; err != nil {
		log.Fatal("create demo user failed:", err)
	}

	kycService := kyc.NewService(
		repository.NewKYCRequestRepository(db),
		repository.NewKYCStepRepository(db),
	)
	if err := kycService.EnsureRequest(context.Background(), demo.ID); err != nil {
		log.Fatal("bootstrap demo KYC request failed:", err)
	}

	log.Println("Seed completed: admin, support and demo users created")
}
