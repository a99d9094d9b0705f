package db

import (
	"testing"

	"github.com/diewo77/qrsona/internal/config"
	"github.com/diewo77/qrsona/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDSN(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"  'postgres://u:p@h/db'  ", "postgres://u:p@h/db"},
		{"host=h   user=u dbname=d", "host=h user=u dbname=d sslmode=disable"},
		{"host=h sslmode=require", "host=h sslmode=require"},
		{"garbage", "garbage"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeDSN(tt.in), "input %q", tt.in)
	}
}

func TestOpenAndMigrate_SQLite(t *testing.T) {
	d, err := Open(config.DatabaseConfig{Driver: "sqlite", SQLitePath: "file:" + t.Name() + "?mode=memory&cache=shared"})
	require.NoError(t, err)
	require.NoError(t, Migrate(d))
	require.NoError(t, Migrate(d), "migrate twice")

	for _, m := range []any{&models.User{}, &models.Profile{}, &models.OptionField{}, &models.Link{}, &models.Connection{}} {
		assert.True(t, d.Migrator().HasTable(m), "table for %T", m)
	}
	assert.True(t, d.Migrator().HasIndex(&models.Connection{}, "idx_connection_pair"))
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(config.DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "file::memory:?cache=shared", SQLiteDSN(":memory:"))
	assert.Equal(t, "qrsona.db", SQLiteDSN("qrsona.db"))
}
