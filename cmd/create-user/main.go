package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/stemsi/mailroom-backend/internal/config"
	"github.com/stemsi/mailroom-backend/internal/database"
	"github.com/stemsi/mailroom-backend/internal/logger"
	"github.com/stemsi/mailroom-backend/internal/model"
	"github.com/stemsi/mailroom-backend/internal/repository"
	"github.com/stemsi/mailroom-backend/internal/service"
	"golang.org/x/term"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	authService := service.NewAuthService(cfg, repository.NewUserRepository(pool), log)

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)
	prompt := func(label string) string {
		fmt.Print(label)
		s, _ := reader.ReadString('\n')
		return strings.TrimSpace(s)
	}

	fmt.Println("=== Create New User ===")

	req := model.RegisterRequest{
		Name:  prompt("Enter Name: "),
		Email: prompt("Enter Email: "),
	}

	fmt.Print("Enter Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		fmt.Println("Error reading password")
		os.Exit(1)
	}
	req.Password = string(bytePassword)
	if len(req.Password) < 6 {
		fmt.Println("Error: Password must be at least 6 characters")
		os.Exit(1)
	}

	req.Role = model.Role(prompt("Enter Role [admin|parent|student] (default admin): "))

	if raw := prompt("Enter Class ID (blank for none): "); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id < 1 {
			fmt.Println("Error: Class ID must be a positive number")
			os.Exit(1)
		}
		req.ClassID = &id
	}

	// ─── Logic ─────────────────────────────────────────────────────────
	profile, err := authService.Register(ctx, req)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create user")
	}

	fmt.Printf("\nSuccess! %s '%s' (%s) created with ID: %d\n", profile.Role, profile.Name, profile.Email, profile.ID)
}
