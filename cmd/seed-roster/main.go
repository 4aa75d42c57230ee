package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/stemsi/mailroom-backend/internal/config"
	"github.com/stemsi/mailroom-backend/internal/database"
	"github.com/stemsi/mailroom-backend/internal/logger"
	"github.com/stemsi/mailroom-backend/internal/model"
	"github.com/stemsi/mailroom-backend/internal/repository"
	"github.com/stemsi/mailroom-backend/internal/service"
)

func main() {
	className := flag.String("class", "Demo 7A", "Class to create or reuse")
	students := flag.Int("students", 20, "Number of students to create")
	password := flag.String("password", "changeme", "Password for every seeded user")
	domain := flag.String("domain", "school.test", "Email domain for seeded users")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// No Redis here: the server's class cache expires on its own TTL.
	classService := service.NewClassService(repository.NewClassRepository(pool), nil, 0, log)
	authService := service.NewAuthService(cfg, repository.NewUserRepository(pool), log)

	classID, err := ensureClass(ctx, classService, *className)
	if err != nil {
		log.Fatal().Err(err).Str("class", *className).Msg("Failed to prepare class")
	}
	fmt.Printf("Using class %q (ID %d)\n", *className, classID)

	slug := strings.ToLower(strings.ReplaceAll(*className, " ", ""))
	created, skipped := 0, 0

	for i := 1; i <= *students; i++ {
		for _, u := range []struct {
			role  model.Role
			label string
		}{
			{model.RoleStudent, "student"},
			{model.RoleParent, "parent"},
		} {
			id := classID
			_, err := authService.Register(ctx, model.RegisterRequest{
				Name:     fmt.Sprintf("%s %s %02d", *className, u.label, i),
				Email:    fmt.Sprintf("%s.%s%02d@%s", slug, u.label, i, *domain),
				Password: *password,
				Role:     u.role,
				ClassID:  &id,
			})
			switch {
			case err == nil:
				created++
			case errors.Is(err, service.ErrDuplicateEmail):
				skipped++
			default:
				log.Fatal().Err(err).Int("index", i).Str("role", string(u.role)).Msg("Failed to create user")
			}
		}
		if i%10 == 0 {
			fmt.Printf("Processed %d/%d students...\n", i, *students)
		}
	}

	fmt.Printf("\nSeed completed! Created %d users, skipped %d existing.\n", created, skipped)
}

// ensureClass returns the id of the class named name, creating it when missing.
func ensureClass(ctx context.Context, classes *service.ClassService, name string) (int, error) {
	c, err := classes.Create(ctx, name)
	if err == nil {
		return c.ID, nil
	}
	if !errors.Is(err, service.ErrDuplicateClass) {
		return 0, err
	}

	all, err := classes.List(ctx)
	if err != nil {
		return 0, err
	}
	for _, c := range all {
		if c.Name == name {
			return c.ID, nil
		}
	}
	return 0, fmt.Errorf("class %q reported as existing but not found", name)
}
