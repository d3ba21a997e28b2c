package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/veroscale-api/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("JWT_SECRET", "secreto")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.BackendPostgres, cfg.DB.Backend)
	assert.Equal(t, 10*time.Second, cfg.IoT.LivenessTimeout)
	assert.Equal(t, 5*time.Second, cfg.IoT.CheckInterval)
	assert.InDelta(t, 0.01, cfg.IoT.MinValidWeight, 1e-9)
	assert.InDelta(t, 1000.0, cfg.IoT.MaxValidWeight, 1e-9)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestLoad_SinJWTSecretFalla(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_LegacyRequiereDSN(t *testing.T) {
	t.Setenv("JWT_SECRET", "secreto")
	t.Setenv("DB_BACKEND", "legacy")
	t.Setenv("LEGACY_DB_DSN", "")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_LeeVariablesDeEntorno(t *testing.T) {
	t.Setenv("JWT_SECRET", "secreto")
	t.Setenv("DB_BACKEND", "memory")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("IOT_LIVENESS_TIMEOUT_SECONDS", "30")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.BackendMemory, cfg.DB.Backend)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 30*time.Second, cfg.IoT.LivenessTimeout)
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:w/rd", DBName: "vs", SSLMode: "require"}
	assert.Equal(t, "postgres://app:p%40ss%3Aw%2Frd@db:5432/vs?sslmode=require", c.DSN())
	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
