package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ETH_LEAF_S3_ENDPOINT", "s3.example.com")
	t.Setenv("ETH_LEAF_S3_SERVER", "https://cdn.example.com")

	// blank out everything else so ambient env cannot leak in
	for _, key := range []string{
		"APP_ENV", "PORT", "DATABASE_URL", "JWT_SECRET", "JWT_TTL",
		"ETH_LEAF_S3_SECURE", "ETH_LEAF_S3_PRESIGN_TTL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5050", cfg.Port)
	assert.Equal(t, "ethleaf.db", cfg.DatabaseURL)
	assert.Equal(t, "168h0m0s", cfg.JWTTTL.String())
	assert.True(t, cfg.S3.UseSSL)
	assert.Equal(t, "5m0s", cfg.S3.PresignTTL.String())
}

func TestLoad_S3SecureValues(t *testing.T) {
	cases := []struct {
		raw  string
		want bool
	}{
		{"", true},
		{"true", true},
		{"false", false},
		{"0", false},
		// garbage keeps the secure default instead of flipping it off
		{"yes please", true},
	}

	for _, tc := range cases {
		t.Run("value "+tc.raw, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv("ETH_LEAF_S3_SECURE", tc.raw)

			cfg, err := Load()
			require.NoError(t, err)
			assert.Equal(t, tc.want, cfg.S3.UseSSL)
		})
	}
}

func TestLoad_InvalidDurations(t *testing.T) {
	setRequiredEnv(t)

	t.Setenv("JWT_TTL", "one week")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_ProdGuards(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_ENV", "prod")

	_, err := Load()
	require.Error(t, err, "prod must refuse the default JWT secret")

	t.Setenv("JWT_SECRET", "real-secret")
	_, err = Load()
	require.Error(t, err, "prod must refuse the default database DSN")

	t.Setenv("DATABASE_URL", "postgres://app:pw@db:5432/ethleaf")
	_, err = Load()
	assert.NoError(t, err)
}
