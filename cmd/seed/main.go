// seed crea el usuario administrador inicial y carga el catálogo de materiales.
//
// Uso: go run ./cmd/seed [ruta/materiales.csv]
// Credenciales del admin: SEED_ADMIN_EMAIL, SEED_ADMIN_PASSWORD (obligatoria), SEED_ADMIN_NAME.
// Usa el backend configurado en DB_BACKEND (postgres o legacy).
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/veroscale-api/internal/application/auth"
	"github.com/jhoicas/veroscale-api/internal/application/dto"
	"github.com/jhoicas/veroscale-api/internal/application/usecase"
	"github.com/jhoicas/veroscale-api/internal/domain"
	"github.com/jhoicas/veroscale-api/internal/domain/entity"
	"github.com/jhoicas/veroscale-api/internal/domain/repository"
	"github.com/jhoicas/veroscale-api/internal/infrastructure/legacy"
	"github.com/jhoicas/veroscale-api/internal/infrastructure/postgres"
	"github.com/jhoicas/veroscale-api/pkg/config"
	"github.com/jhoicas/veroscale-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Named("seed")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var (
		users     repository.UserRepository
		materials repository.MaterialRepository
	)
	switch cfg.DB.Backend {
	case config.BackendPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB, log)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.Migrate(ctx, pool, log); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		users, materials = postgres.NewUserRepository(pool), postgres.NewMaterialRepository(pool)
	case config.BackendLegacy:
		db, err := legacy.Open(cfg.Legacy, log)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a base heredada")
		}
		if err := legacy.Migrate(db); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		users, materials = legacy.NewUserRepository(db), legacy.NewMaterialRepository(db)
	default:
		log.Fatal().Str("backend", cfg.DB.Backend).Msg("seed requiere backend postgres o legacy")
	}

	authUC := auth.NewAuthUseCase(users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	if err := seedAdmin(ctx, authUC, log); err != nil {
		log.Fatal().Err(err).Msg("usuario administrador")
	}

	if len(os.Args) < 2 {
		log.Info().Msg("sin CSV de materiales; catálogo sin cambios")
		return
	}
	f, err := os.Open(os.Args[1])
	if err != nil {
		log.Fatal().Err(err).Msg("abrir CSV")
	}
	defer f.Close()

	catalog, err := readCatalog(f)
	if err != nil {
		log.Fatal().Err(err).Msg("catálogo de materiales")
	}
	materialUC := usecase.NewMaterialUseCase(materials)
	created, skipped := 0, 0
	for _, in := range catalog {
		if _, err := materialUC.Create(ctx, in); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				skipped++
				continue
			}
			log.Fatal().Err(err).Str("material", in.Name).Msg("crear material")
		}
		created++
	}
	log.Info().Int("creados", created).Int("existentes", skipped).Msg("catálogo cargado")
}

func seedAdmin(ctx context.Context, uc *auth.AuthUseCase, log *logger.Logger) error {
	email := os.Getenv("SEED_ADMIN_EMAIL")
	if email == "" {
		email = "admin@veroscale.local"
	}
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		return errors.New("SEED_ADMIN_PASSWORD es obligatoria")
	}
	name := os.Getenv("SEED_ADMIN_NAME")
	if name == "" {
		name = "Administrador"
	}

	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{
		Email:    email,
		Password: password,
		Name:     name,
		Role:     entity.RoleAdmin,
	})
	if errors.Is(err, domain.ErrEmailAlreadyExists) {
		log.Info().Str("email", email).Msg("administrador ya existe")
		return nil
	}
	if err != nil {
		return err
	}
	log.Info().Str("email", email).Msg("administrador creado")
	return nil
}
