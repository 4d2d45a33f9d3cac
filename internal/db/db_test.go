package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/NabirasulA/Galaxy/internal/config"
)

func TestNormalizeDriver(t *testing.T) {
	assert.Equal(t, "postgres", normalizeDriver(""))
	assert.Equal(t, "postgres", normalizeDriver(" PostgreSQL "))
	assert.Equal(t, "mysql", normalizeDriver("mariadb"))
	assert.Equal(t, "sqlite", normalizeDriver("sqlite"))
}

func TestDialectorForRejectsBadConfig(t *testing.T) {
	_, err := dialectorFor(config.DBConfig{Driver: "postgres"})
	require.Error(t, err)

	_, err = dialectorFor(config.DBConfig{Driver: "oracle", DSN: "x"})
	require.Error(t, err)

	d, err := dialectorFor(config.DBConfig{Driver: "mysql", DSN: "u:p@tcp(localhost:3306)/galaxy"})
	require.NoError(t, err)
	assert.Equal(t, "mysql", d.Name())
}

func TestPostgresDSNCarriesTimezone(t *testing.T) {
	assert.Equal(t, "host=db user=galaxy TimeZone=Asia/Kolkata", postgresDSN("host=db user=galaxy", "Asia/Kolkata"))
	assert.Equal(t, "postgres://galaxy@db:5432/galaxy?TimeZone=UTC&sslmode=disable",
		postgresDSN("postgres://galaxy@db:5432/galaxy?sslmode=disable", "UTC"))
	assert.Equal(t, "host=db timezone=UTC", postgresDSN("host=db timezone=UTC", "Asia/Kolkata"))
	assert.Equal(t, "host=db", postgresDSN("host=db", " "))
}

func TestLogLevel(t *testing.T) {
	assert.Equal(t, logger.Silent, logLevel(""))
	assert.Equal(t, logger.Warn, logLevel("WARN"))
	assert.Equal(t, logger.Info, logLevel("info"))
}
