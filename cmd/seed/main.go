package main

import (
	"context"
	"errors"
	"log"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"roombooking/internal/config"
	"roombooking/internal/database"
	"roombooking/internal/domain"
	"roombooking/internal/repository"
)

// Seeds the database with an admin account and a small catalog so a fresh
// install is usable right away. Safe to run repeatedly.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config load failed: ", err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("database connection failed: ", err)
	}

	ctx := context.Background()
	if err := database.Migrate(ctx, db); err != nil {
		log.Fatal("migrations failed: ", err)
	}

	users := repository.NewUserRepository(db)
	rooms := repository.NewRoomRepository(db)
	equipment := repository.NewEquipmentRepository(db)

	adminPassword := os.Getenv("SEED_ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "admin123"
	}

	if _, err := users.GetByUsername(ctx, "admin"); errors.Is(err, repository.ErrNotFound) {
		hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
		if err != nil {
			log.Fatal("hash failed: ", err)
		}
		admin := &domain.User{
			Username:     "admin",
			FullName:     "Administrator",
			PasswordHash: string(hash),
			Role:         domain.RoleAdmin,
			Active:       true,
		}
		if err := users.Create(ctx, admin); err != nil {
			log.Fatal("create admin failed: ", err)
		}
		log.Println("created admin user")
	} else if err != nil {
		log.Fatal("lookup admin failed: ", err)
	} else {
		log.Println("admin user already exists")
	}

	existing, err := rooms.GetAll(ctx)
	if err != nil {
		log.Fatal("list rooms failed: ", err)
	}
	if len(existing) == 0 {
		for _, room := range []domain.Room{
			{Name: "Boardroom", Capacity: 14, Type: "conference", Location: "Floor 3", Active: true},
			{Name: "Huddle A", Capacity: 4, Type: "huddle", Location: "Floor 1", Active: true},
			{Name: "Huddle B", Capacity: 4, Type: "huddle", Location: "Floor 1", Active: true},
			{Name: "Training Room", Capacity: 30, Type: "training", Location: "Floor 2", Active: true},
		} {
			r := room
			if err := rooms.Create(ctx, &r); err != nil {
				log.Fatal("create room failed: ", err)
			}
		}
		log.Println("created sample rooms")
	}

	existingEq, err := equipment.GetAll(ctx)
	if err != nil {
		log.Fatal("list equipment failed: ", err)
	}
	if len(existingEq) == 0 {
		for _, eq := range []domain.Equipment{
			{Name: "Projector", Type: "display", Available: true},
			{Name: "Conference Phone", Type: "audio", Available: true},
			{Name: "Whiteboard Kit", Type: "stationery", Available: true},
		} {
			e := eq
			if err := equipment.Create(ctx, &e); err != nil {
				log.Fatal("create equipment failed: ", err)
			}
		}
		log.Println("created sample equipment")
	}

	log.Println("seed complete")
}
