package helper

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDatabaseConfiguration(t *testing.T) {
	t.Run("Reads configuration from environment", func(t *testing.T) {
		SetTestDatabaseConfigEnvs(t, "5433")

		config, err := NewDatabaseConfiguration()
		require.NoError(t, err)
		assert.Equal(t, "localhost", config.Host)
		assert.Equal(t, "5433", config.Port)
		assert.Equal(t, "database", config.Database)
		assert.Equal(t, "user", config.Username)
		assert.Equal(t, "password", config.Password)
		assert.Equal(t, "public", config.Schema)
		assert.Equal(t, "disable", config.SSLMode)
	})

	t.Run("Applies defaults for schema and sslmode", func(t *testing.T) {
		SetTestDatabaseConfigEnvs(t, "5432")
		t.Setenv("DB_SCHEMA", "")
		t.Setenv("DB_SSLMODE", "")

		config, err := NewDatabaseConfiguration()
		require.NoError(t, err)
		assert.Equal(t, "public", config.Schema)
		assert.Equal(t, "disable", config.SSLMode)
	})

	t.Run("Fails when host is missing", func(t *testing.T) {
		SetTestDatabaseConfigEnvs(t, "5432")
		t.Setenv("DB_HOST", "")

		_, err := NewDatabaseConfiguration()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "DB_HOST")
	})
}

func TestDatabaseConfigurationConnectionString(t *testing.T) {
	config := &DatabaseConfiguration{
		Host:     "localhost",
		Port:     "5432",
		Database: "headlines",
		Username: "user",
		Password: "p@ss word",
		Schema:   "ner",
		SSLMode:  "disable",
	}

	u, err := url.Parse(config.ConnectionString())
	require.NoError(t, err)

	assert.Equal(t, "postgres", u.Scheme)
	assert.Equal(t, "localhost:5432", u.Host)
	assert.Equal(t, "/headlines", u.Path)
	password, _ := u.User.Password()
	assert.Equal(t, "p@ss word", password)
	assert.Equal(t, "disable", u.Query().Get("sslmode"))
	assert.Equal(t, "ner", u.Query().Get("search_path"))
}

func TestNewDatabase(t *testing.T) {
	t.Run("Nil configuration is rejected", func(t *testing.T) {
		_, err := NewDatabase("test", nil, nil)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "configuration is nil")
	})

	t.Run("Closing a nil database is a no-op", func(t *testing.T) {
		var db *Database
		assert.NoError(t, db.Close())
	})
}
