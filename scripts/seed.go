package main

import (
	"log"

	"golang.org/x/crypto/bcrypt"

	"hireos/internal/config"
	"hireos/internal/models"
	"hireos/internal/repositories"
)

func main() {
	log.Println("🚀 Seeding database...")

	// Load configuration
	cfg := config.Load()

	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	userRepo := repositories.NewUserRepository(db)
	jobRepo := repositories.NewJobRepository(db)

	// Admin user
	if _, err := userRepo.FindByEmail("admin@hireos.local"); err != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte("changeme123"), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("❌ Failed to hash admin password: %v", err)
		}

		admin := &models.User{
			Name:         "Admin",
			Email:        "admin@hireos.local",
			PasswordHash: string(hash),
			Role:         "admin",
		}
		if err := userRepo.Create(admin); err != nil {
			log.Fatalf("❌ Failed to create admin user: %v", err)
		}
		log.Println("✅ Admin user created (admin@hireos.local / changeme123)")
	} else {
		log.Println("⚠️  Admin user already exists, skipping")
	}

	// Default open job so synced candidates have an assignment target
	if _, err := jobRepo.FindFirstOpen(); err != nil {
		job := &models.Job{
			Title:      "Backend Engineer",
			Department: "Engineering",
			Location:   "Remote",
			SalaryMin:  70000,
			SalaryMax:  110000,
			Status:     models.JobStatusOpen,
		}
		if err := jobRepo.Create(job); err != nil {
			log.Fatalf("❌ Failed to create sample job: %v", err)
		}
		log.Printf("✅ Sample open job created: %s", job.Title)
	} else {
		log.Println("⚠️  Open job already exists, skipping")
	}

	log.Println("✅ Seed complete")
}
