package helper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDatabaseConfiguration(t *testing.T) {
	t.Run("Reads configuration from environment", func(t *testing.T) {
		t.Setenv("DB_HOST", "localhost")
		t.Setenv("DB_PORT", "5432")
		t.Setenv("DB_DATABASE", "churn")
		t.Setenv("DB_USERNAME", "analyst")
		t.Setenv("DB_PASSWORD", "secret")
		t.Setenv("DB_SCHEMA", "reporting")
		t.Setenv("DB_SSLMODE", "require")

		config, err := NewDatabaseConfiguration()
		require.NoError(t, err, "Expected NewDatabaseConfiguration to not return an error")

		assert.Equal(t, "localhost", config.Host)
		assert.Equal(t, "5432", config.Port)
		assert.Equal(t, "churn", config.Database)
		assert.Equal(t, "analyst", config.Username)
		assert.Equal(t, "secret", config.Password)
		assert.Equal(t, "reporting", config.Schema)
		assert.Equal(t, "require", config.SSLMode)
	})

	t.Run("Schema and SSL mode have defaults", func(t *testing.T) {
		t.Setenv("DB_HOST", "localhost")
		t.Setenv("DB_PORT", "5432")
		t.Setenv("DB_DATABASE", "churn")
		t.Setenv("DB_USERNAME", "analyst")
		t.Setenv("DB_SCHEMA", "")
		t.Setenv("DB_SSLMODE", "")

		config, err := NewDatabaseConfiguration()
		require.NoError(t, err)

		assert.Equal(t, "public", config.Schema, "Expected default schema")
		assert.Equal(t, "disable", config.SSLMode, "Expected default SSL mode")
	})

	t.Run("Missing required variables error", func(t *testing.T) {
		t.Setenv("DB_HOST", "")
		t.Setenv("DB_PORT", "")
		t.Setenv("DB_DATABASE", "")
		t.Setenv("DB_USERNAME", "")

		config, err := NewDatabaseConfiguration()
		assert.Error(t, err, "Expected error for missing configuration")
		assert.Nil(t, config)
		assert.Contains(t, err.Error(), "DB_HOST, DB_PORT, DB_DATABASE and DB_USERNAME must be set", "Expected specific error message")
	})

	t.Run("Partial configuration errors", func(t *testing.T) {
		t.Setenv("DB_HOST", "localhost")
		t.Setenv("DB_PORT", "5432")
		t.Setenv("DB_DATABASE", "")
		t.Setenv("DB_USERNAME", "")

		config, err := NewDatabaseConfiguration()
		assert.Error(t, err, "Expected error when only some variables are set")
		assert.Nil(t, config)
	})
}
