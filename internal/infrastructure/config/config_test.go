package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var managedEnv = []string{
	"STOREFRONT_APP_NAME",
	"STOREFRONT_APP_ENV",
	"STOREFRONT_APP_PORT",
	"STOREFRONT_DATABASE_HOST",
	"STOREFRONT_DATABASE_PORT",
	"STOREFRONT_DATABASE_PASSWORD",
	"STOREFRONT_DATABASE_SSLMODE",
	"STOREFRONT_DATABASE_MAX_OPEN_CONNS",
	"STOREFRONT_DATABASE_MAX_IDLE_CONNS",
	"STOREFRONT_REDIS_ENABLED",
	"STOREFRONT_JWT_SECRET",
	"STOREFRONT_SMTP_ENABLED",
	"STOREFRONT_SMTP_HOST",
	"STOREFRONT_SMTP_TLS_POLICY",
	"STOREFRONT_STORAGE_ENABLED",
	"STOREFRONT_STORAGE_BUCKET",
	"STOREFRONT_OPERATOR_API_KEY",
	"STOREFRONT_TELEMETRY_SAMPLING_RATIO",
	"STOREFRONT_JWT_ACCESS_TOKEN_EXPIRATION",
	"STOREFRONT_HTTP_CORS_ALLOW_ORIGINS",
}

// clearEnv blanks every variable the tests touch; viper ignores empty values.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range managedEnv {
		t.Setenv(k, "")
	}
}

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv(t)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "storefront", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "storefront", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.False(t, cfg.Redis.Enabled)
		assert.Equal(t, 24*time.Hour, cfg.JWT.AccessTokenExpiration)
		assert.Equal(t, "pecommerce8@gmail.com", cfg.SMTP.From)
		assert.Equal(t, "Mera Bestie", cfg.SMTP.FromName)
		assert.Equal(t, "mandatory", cfg.SMTP.TLSPolicy)
		assert.Equal(t, 2, cfg.Event.Workers)
		assert.Equal(t, int64(5<<20), cfg.Storage.MaxUploadSize)
	})

	t.Run("loads values from environment variables with STOREFRONT prefix", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("STOREFRONT_APP_PORT", "9000")
		t.Setenv("STOREFRONT_DATABASE_HOST", "db.internal")
		t.Setenv("STOREFRONT_DATABASE_PORT", "5433")
		t.Setenv("STOREFRONT_REDIS_ENABLED", "true")
		t.Setenv("STOREFRONT_OPERATOR_API_KEY", "ops-key")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "db.internal", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.True(t, cfg.Redis.Enabled)
		assert.Equal(t, "ops-key", cfg.Operator.APIKey)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("STOREFRONT_DATABASE_MAX_OPEN_CONNS", "10")
		t.Setenv("STOREFRONT_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("requires smtp host when mail is enabled", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("STOREFRONT_SMTP_ENABLED", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "smtp.host")
	})

	t.Run("rejects unknown smtp tls policy", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("STOREFRONT_SMTP_TLS_POLICY", "sometimes")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "smtp.tls_policy")
	})

	t.Run("requires bucket when storage is enabled", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("STOREFRONT_STORAGE_ENABLED", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage.bucket")
	})

	t.Run("rejects sampling ratio above one", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("STOREFRONT_TELEMETRY_SAMPLING_RATIO", "1.5")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sampling_ratio")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	setValidProductionBase := func(t *testing.T) {
		clearEnv(t)
		t.Setenv("STOREFRONT_APP_ENV", "production")
		t.Setenv("STOREFRONT_JWT_SECRET", "this-is-a-very-secure-jwt-secret-key-32chars")
		t.Setenv("STOREFRONT_DATABASE_PASSWORD", "secure-password")
		t.Setenv("STOREFRONT_DATABASE_SSLMODE", "require")
		t.Setenv("STOREFRONT_REDIS_ENABLED", "true")
	}

	t.Run("passes validation with valid production config", func(t *testing.T) {
		setValidProductionBase(t)

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.App.IsProduction())
	})

	t.Run("requires jwt.secret at least 32 characters in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("STOREFRONT_JWT_SECRET", "short-secret")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret must be at least 32 characters")
	})

	t.Run("requires SSL enabled in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("STOREFRONT_DATABASE_SSLMODE", "disable")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.sslmode cannot be 'disable' in production")
	})

	t.Run("requires shared session store in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("STOREFRONT_REDIS_ENABLED", "false")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "redis.enabled")
	})

	t.Run("rejects short operator key in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("STOREFRONT_OPERATOR_API_KEY", "short")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "operator.api_key")
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid DSN", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "testuser",
			Password: "testpass",
			DBName:   "testdb",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost:5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "/testdb")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{Host: "localhost", Port: 5432, User: "user", Password: "pass@word#123", DBName: "db", SSLMode: "disable"}
		assert.Contains(t, cfg.DSN(), "pass%40word%23123")
	})
}

func TestRedisConfig_Addr(t *testing.T) {
	assert.Equal(t, "cache:6380", RedisConfig{Host: "cache", Port: 6380}.Addr())
}

func TestLoad_ReportsEveryProblem(t *testing.T) {
	clearEnv(t)
	t.Setenv("STOREFRONT_SMTP_ENABLED", "true")
	t.Setenv("STOREFRONT_STORAGE_ENABLED", "true")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp.host")
	assert.Contains(t, err.Error(), "storage.bucket")
}

func TestLoad_DecodesDurationsAndLists(t *testing.T) {
	clearEnv(t)
	t.Setenv("STOREFRONT_JWT_ACCESS_TOKEN_EXPIRATION", "2h")
	t.Setenv("STOREFRONT_HTTP_CORS_ALLOW_ORIGINS", "https://shop.example,https://admin.example")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, cfg.JWT.AccessTokenExpiration)
	assert.Equal(t, []string{"https://shop.example", "https://admin.example"}, cfg.HTTP.CORSAllowOrigins)
	assert.Empty(t, cfg.Telemetry.ServiceVersion)
}
