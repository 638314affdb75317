package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-activities-api/pkg/config"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{Host: "db", Port: 5433, User: "u", Password: "p", Name: "acts", SSLMode: "disable"})
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=acts sslmode=disable", dsn)
}

func TestEmbeddedMigrations(t *testing.T) {
	entries, err := migrations.ReadDir("migrations")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	body, err := migrations.ReadFile("migrations/" + entries[0].Name())
	require.NoError(t, err)
	schema := string(body)
	assert.Contains(t, schema, "-- +goose Up")
	assert.Contains(t, schema, "UNIQUE (activity_id, user_id)")
	assert.Contains(t, schema, "registered_count <= available_slots")
}
