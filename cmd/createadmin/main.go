// Command createadmin seeds the first super_admin account so a fresh
// deployment can log into the panel. It is idempotent: when a super_admin
// already exists nothing is written.
//
// Credentials come from ADMIN_NAME, ADMIN_EMAIL and ADMIN_PASSWORD.
package main

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/FelixFS3D/uixom/internal/core/domain"
	"github.com/FelixFS3D/uixom/internal/core/ports"
	"github.com/FelixFS3D/uixom/internal/infrastructure/config"
	mongodb "github.com/FelixFS3D/uixom/internal/infrastructure/db/mongo"
	"github.com/FelixFS3D/uixom/pkg/logger"
)

const runTimeout = 30 * time.Second

var errMissingCredentials = errors.New("ADMIN_EMAIL and ADMIN_PASSWORD are required")

type adminInput struct {
	Name     string
	Email    string
	Password string
}

func main() {
	_ = godotenv.Load()

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "uixom-createadmin",
	})

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		disconnectCtx, disconnect := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnect()
		_ = client.Disconnect(disconnectCtx)
	}()

	users := mongodb.NewUserRepository(db)
	if err := users.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("user indexes failed")
	}

	in := adminInput{
		Name:     os.Getenv("ADMIN_NAME"),
		Email:    os.Getenv("ADMIN_EMAIL"),
		Password: os.Getenv("ADMIN_PASSWORD"),
	}
	if in.Name == "" {
		in.Name = "Administrador"
	}

	created, err := ensureSuperAdmin(ctx, users, in, cfg.BcryptCost, log)
	if err != nil {
		log.Fatal().Err(err).Msg("super admin bootstrap failed")
	}
	if !created {
		log.Info().Msg("a super_admin already exists, nothing to do")
	}
}

// ensureSuperAdmin creates the initial super_admin unless one is already
// present. It reports whether an account was created.
func ensureSuperAdmin(ctx context.Context, users ports.UserRepository, in adminInput, bcryptCost int, log zerolog.Logger) (bool, error) {
	existing, _, err := users.List(ctx, ports.ListUsersFilter{
		Role:  string(domain.RoleSuperAdmin),
		Page:  1,
		Limit: 1,
	})
	if err != nil {
		return false, err
	}
	if len(existing) > 0 {
		return false, nil
	}

	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Email == "" || in.Password == "" {
		return false, errMissingCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return false, err
	}

	now := time.Now().UTC()
	created, err := users.Create(ctx, &domain.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         domain.RoleSuperAdmin,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return false, err
	}

	log.Info().Str("id", created.ID).Str("email", created.Email).Msg("super admin created")
	return true, nil
}
