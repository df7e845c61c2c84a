package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/restolink/api/internal/config"
	"github.com/restolink/api/internal/enum"
	"github.com/restolink/api/internal/model"
	"github.com/restolink/api/internal/store"
)

func main() {
	// CLI flags
	email := flag.String("email", "", "Owner email address")
	password := flag.String("password", "", "Owner password")
	name := flag.String("name", "", "Owner full name")
	flag.Parse()

	// Fall back to environment variables
	if *email == "" {
		*email = os.Getenv("SEED_EMAIL")
	}
	if *password == "" {
		*password = os.Getenv("SEED_PASSWORD")
	}
	if *name == "" {
		*name = os.Getenv("SEED_NAME")
	}

	// Fall back to defaults
	if *email == "" {
		*email = "owner@restolink.app"
	}
	if *password == "" {
		*password = "password123"
		log.Println("WARNING: Using default password 'password123'. Change immediately in production!")
	}
	if *name == "" {
		*name = "Restolink Owner"
	}

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, st, err := store.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.Fatalf("Unable to connect to document store: %v", err)
	}
	defer client.Disconnect(context.Background())
	log.Println("Connected to document store")

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	owner, err := st.CreateUser(ctx, model.User{
		Email:          *email,
		HashedPassword: string(hash),
		FullName:       *name,
		Role:           enum.UserRoleOwner,
	})
	if err != nil {
		log.Fatalf("Failed to create owner: %v", err)
	}
	log.Printf("Created owner %s (%s)", owner.FullName, owner.ID.Hex())

	// Starter menu so the fresh install is usable right away.
	starters := []model.MenuItem{
		{OwnerID: owner.ID.Hex(), Name: "Margherita", Price: 9.50, Department: enum.DepartmentKitchen},
		{OwnerID: owner.ID.Hex(), Name: "Carbonara", Price: 11.00, Department: enum.DepartmentKitchen},
		{OwnerID: owner.ID.Hex(), Name: "Tiramisu", Price: 6.00, Department: enum.DepartmentKitchen},
		{OwnerID: owner.ID.Hex(), Name: "Espresso", Price: 2.50, Department: enum.DepartmentBar},
		{OwnerID: owner.ID.Hex(), Name: "Aperol Spritz", Price: 7.50, Department: enum.DepartmentBar},
	}
	for _, item := range starters {
		created, err := st.CreateMenuItem(ctx, item)
		if err != nil {
			log.Fatalf("Failed to create menu item %q: %v", item.Name, err)
		}
		log.Printf("Created menu item %s (%s, %s)", created.Name, created.Department, created.ID.Hex())
	}

	log.Println("Seed complete")
}
