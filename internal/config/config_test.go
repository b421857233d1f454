package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaultsAndEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("DATABASE_DSN", "file::memory:")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "test-secret", cfg.JWT.Secret)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 7*24*time.Hour, cfg.Invitation.TTL)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, "noop", cfg.Mail.Provider)
	assert.Equal(t, "postgres", cfg.Messages.Backend)
}

func TestLoadConfigReadsFile(t *testing.T) {
	dir := t.TempDir()
	body := []byte(`
server:
  app_origin: https://app.supacoach.test
jwt:
  secret: from-file
  expiration: 2h
invitation:
  ttl: 48h
mail:
  provider: ses
  ses:
    region: eu-west-1
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), body, 0o600))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "https://app.supacoach.test", cfg.Server.AppOrigin)
	assert.Equal(t, 2*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, 48*time.Hour, cfg.Invitation.TTL)
	assert.Equal(t, "eu-west-1", cfg.Mail.SES.Region)
}

func TestValidateRejectsBadValues(t *testing.T) {
	base := Config{
		JWT:        JWTConfig{Secret: "s"},
		Database:   DatabaseConfig{Driver: "postgres", DSN: "postgres://x"},
		Mail:       MailConfig{Provider: "noop"},
		Messages:   MessagesConfig{Backend: "postgres"},
		Invitation: InvitationConfig{TTL: time.Hour},
	}
	require.NoError(t, base.Validate())

	noSecret := base
	noSecret.JWT.Secret = ""
	assert.Error(t, noSecret.Validate())

	badDriver := base
	badDriver.Database.Driver = "mysql"
	assert.Error(t, badDriver.Validate())

	badMail := base
	badMail.Mail.Provider = "resend"
	assert.Error(t, badMail.Validate())

	badTTL := base
	badTTL.Invitation.TTL = 0
	assert.Error(t, badTTL.Validate())
}
