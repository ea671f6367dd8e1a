package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GO_ENV", "test")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "local", cfg.Storage.Driver)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenTTL)
	assert.Equal(t, 30*time.Second, cfg.LLM.Timeout)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("GO_ENV", "test")
	t.Setenv("UNIAPPLY_SERVER_PORT", "9090")
	t.Setenv("UNIAPPLY_AUTH_JWT_SECRET", "a-much-longer-secret")
	t.Setenv("UNIAPPLY_LLM_TIMEOUT", "5s")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "a-much-longer-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, 5*time.Second, cfg.LLM.Timeout)
}

func TestValidate(t *testing.T) {
	base := Config{
		Auth:    AuthConfig{JWTSecret: "secret", AccessTokenTTL: time.Minute, RefreshTokenTTL: time.Hour},
		Storage: StorageConfig{Driver: "local"},
	}
	assert.NoError(t, base.Validate())

	noSecret := base
	noSecret.Auth.JWTSecret = ""
	assert.Error(t, noSecret.Validate())

	s3NoBucket := base
	s3NoBucket.Storage.Driver = "s3"
	assert.Error(t, s3NoBucket.Validate())

	unknown := base
	unknown.Storage.Driver = "ftp"
	assert.Error(t, unknown.Validate())
}
