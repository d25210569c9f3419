package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/stemsi/gdeval-backend/internal/config"
	"github.com/stemsi/gdeval-backend/internal/logger"
	"github.com/stemsi/gdeval-backend/internal/model"
	"github.com/stemsi/gdeval-backend/internal/repository/driver"
	"github.com/stemsi/gdeval-backend/internal/service"
	"golang.org/x/term"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	if cfg.StoreDriver == config.StoreDriverMemory {
		log.Fatal().Msg("STORE_DRIVER=memory keeps nothing; use postgres or sqlite")
	}

	ctx := context.Background()

	// ─── Open Stores ───────────────────────────────────────────────────
	stores, closeStores, err := driver.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open stores")
	}
	defer closeStores()

	// ─── Initialize Service ────────────────────────────────────────────
	// Registration never issues a token here, so no registry is needed.
	authService := service.NewAuthService(cfg, nil)
	userService := service.NewUserService(stores.Users, authService, log)

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create New Instructor ===")

	name := prompt(reader, "Enter Name: ")
	if name == "" {
		fmt.Println("Error: Name is required")
		return
	}

	email := prompt(reader, "Enter Email: ")
	if email == "" {
		fmt.Println("Error: Email is required")
		return
	}

	designation := prompt(reader, "Enter Designation (default Faculty): ")
	if designation == "" {
		designation = "Faculty"
	}

	fmt.Print("Enter Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println() // Newline after password input
	if err != nil {
		fmt.Println("Error reading password")
		return
	}
	password := string(bytePassword)
	if len(password) < 6 {
		fmt.Println("Error: Password must be at least 6 characters")
		return
	}

	// ─── Logic ─────────────────────────────────────────────────────────
	user, err := userService.Register(ctx, model.RegisterRequest{
		Name:        name,
		Email:       email,
		Password:    password,
		Role:        model.RoleInstructor,
		Designation: designation,
	})
	if errors.Is(err, service.ErrEmailTaken) {
		fmt.Printf("Error: %s is already registered\n", email)
		return
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create instructor")
	}

	fmt.Printf("\nSuccess! Instructor '%s' (%s) created with ID: %s\n", user.Name, user.Email, user.ID)
}

func prompt(r *bufio.Reader, label string) string {
	fmt.Print(label)
	line, _ := r.ReadString('\n')
	return strings.TrimSpace(line)
}
