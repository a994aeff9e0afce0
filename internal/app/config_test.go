package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Chdir(t.TempDir())

	tests := []struct {
		name    string
		env     map[string]string
		check   func(t *testing.T, cfg *Config)
		wantErr string
	}{
		{
			name:    "database url required",
			env:     map[string]string{},
			wantErr: "database URL is required",
		},
		{
			name: "defaults",
			env:  map[string]string{"STOREFRONT_DATABASE_URL": "postgres://db/store"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "postgres://db/store", cfg.DatabaseURL)
				assert.Equal(t, defaultAddr, cfg.Addr)
				assert.Equal(t, "cart", cfg.CartKey)
				assert.Equal(t, 10, cfg.RecentlyViewedMax)
				assert.Empty(t, cfg.RedisURL)
				assert.Equal(t, []string{"*"}, cfg.CORS.Origins)
			},
		},
		{
			name: "platform variables",
			env: map[string]string{
				"DATABASE_URL": "postgres://platform/db",
				"REDIS_URL":    "redis://cache:6379/0",
				"PORT":         "9090",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "postgres://platform/db", cfg.DatabaseURL)
				assert.Equal(t, "redis://cache:6379/0", cfg.RedisURL)
				assert.Equal(t, "0.0.0.0:9090", cfg.Addr)
			},
		},
		{
			name: "explicit addr wins over PORT",
			env: map[string]string{
				"STOREFRONT_DATABASE_URL": "postgres://db/store",
				"STOREFRONT_ADDR":         "127.0.0.1:7000",
				"PORT":                    "9090",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "127.0.0.1:7000", cfg.Addr)
			},
		},
		{
			name: "invalid history length",
			env: map[string]string{
				"STOREFRONT_DATABASE_URL":        "postgres://db/store",
				"STOREFRONT_RECENTLY_VIEWED_MAX": "0",
			},
			wantErr: "recently viewed max must be positive",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range []string{"DATABASE_URL", "REDIS_URL", "PORT"} {
				t.Setenv(k, "")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := LoadConfig()
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}
