package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"DB_DRIVER", "API_BASE_PATH", "BCRYPT_COST", "TIME_ZONE", "TOKEN_TTL", "ENFORCE_TASK_OWNERSHIP", "REDIS_ADDR"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, DriverMySQL, cfg.DBDriver)
	assert.Equal(t, "/api/v1", cfg.APIBasePath)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, "Asia/Kolkata", cfg.TimeZone)
	assert.Equal(t, time.Duration(0), cfg.TokenTTL)
	assert.False(t, cfg.EnforceTaskOwnership)
	assert.Empty(t, cfg.RedisAddr)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("BCRYPT_COST", "4")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("ENFORCE_TASK_OWNERSHIP", "true")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg := Load()

	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, 4, cfg.BcryptCost)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.True(t, cfg.EnforceTaskOwnership)
	assert.Equal(t, 0, cfg.RedisDB, "invalid ints fall back to the default")
}

func TestConfig_Location(t *testing.T) {
	cfg := &Config{TimeZone: "Asia/Kolkata"}
	loc, err := cfg.Location()
	require.NoError(t, err)

	_, offset := time.Date(2024, 1, 1, 0, 0, 0, 0, loc).Zone()
	assert.Equal(t, 5*3600+30*60, offset)

	cfg.TimeZone = "Mars/Olympus"
	_, err = cfg.Location()
	assert.Error(t, err)
}

func TestConfig_DSNs(t *testing.T) {
	cfg := &Config{DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "1", DBName: "n"}

	assert.Equal(t, "u:p@tcp(h:1)/n?charset=utf8mb4&parseTime=True&loc=UTC", cfg.MySQLDSN())
	assert.Contains(t, cfg.PostgresDSN(), "host=h port=1 user=u password=p dbname=n")
}
