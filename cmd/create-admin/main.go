// Command create-admin bootstraps (or resets) the single administrator
// account. It is the only path that creates a user with the Admin role; the
// HTTP API refuses to.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/bibliotecavirtualsenajeg/Bibliotecavirtual/internal/models"
	"github.com/bibliotecavirtualsenajeg/Bibliotecavirtual/internal/repository"
	"github.com/bibliotecavirtualsenajeg/Bibliotecavirtual/pkg/config"
	"github.com/bibliotecavirtualsenajeg/Bibliotecavirtual/pkg/database"
)

const adminUsername = "admin"

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: create-admin <password>")
		os.Exit(1)
	}
	password := os.Args[1]
	if len(password) < 6 {
		fmt.Fprintln(os.Stderr, "please provide a password with at least 6 characters")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close() //nolint:errcheck

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repo := repository.NewUserRepository(db)

	admin, err := repo.FindByRole(ctx, models.RoleAdmin)
	switch {
	case err == nil:
		if err := repo.UpdatePassword(ctx, admin.ID, string(hash), time.Now().UTC()); err != nil {
			log.Fatalf("failed to update admin password: %v", err)
		}
		fmt.Println("admin user updated successfully")
	case errors.Is(err, sql.ErrNoRows):
		user := &models.User{
			Username:     adminUsername,
			PasswordHash: string(hash),
			Role:         models.RoleAdmin,
		}
		if err := repo.Create(ctx, user); err != nil {
			log.Fatalf("failed to create admin user: %v", err)
		}
		fmt.Println("admin user created successfully")
	default:
		log.Fatalf("failed to look up admin user: %v", err)
	}
}
