package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENV", "POSTGRES_CONN_STR", "MONGO_URI", "MONGO_DATABASE", "JWT_SECRET"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "proconnect", cfg.MongoDatabase)
	assert.Empty(t, cfg.PostgresConnStr)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("POSTGRES_CONN_STR", "host=db user=app dbname=app")
	t.Setenv("MONGO_URI", "mongodb://db:27017")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "host=db user=app dbname=app", cfg.PostgresConnStr)
	assert.Equal(t, "mongodb://db:27017", cfg.MongoURI)
	assert.False(t, cfg.IsDevelopment())
}

func TestInitDBRequiresConnectionStrings(t *testing.T) {
	_, err := InitDB(&Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "POSTGRES_CONN_STR")

	_, err = InitDB(&Config{PostgresConnStr: "host=localhost"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MONGO_URI")
}
