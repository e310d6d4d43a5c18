package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
	}))
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, ":5000", cfg.Addr())
	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 15*time.Minute, cfg.JWTTTL)
	assert.Equal(t, DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, "courier.db", cfg.DB.DSN)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, 24*time.Hour, cfg.Redis.IdempotencyTTL)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Equal(t, "courier.events", cfg.Kafka.Topic)
	assert.Equal(t, 4, cfg.Kafka.Workers)
}

func TestLoadWith_Overrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":    "s3cret",
		"PORT":          "8080",
		"JWT_TTL":       "1h",
		"DB_DRIVER":     "Postgres",
		"DB_DSN":        "host=db user=courier",
		"REDIS_ADDR":    "redis:6379",
		"KAFKA_BROKERS": "k1:9092,k2:9092",
	}))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, time.Hour, cfg.JWTTTL)
	assert.Equal(t, DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
}

func TestLoadWith_RequiresSecret(t *testing.T) {
	_, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadWith_RejectsUnknownDriver(t *testing.T) {
	_, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
		"DB_DRIVER":  "oracle",
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oracle")
}

func TestPrettyLogs(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		want bool
	}{
		{"development default", map[string]string{}, true},
		{"production json", map[string]string{"ENV": "Production"}, false},
		{"production forced pretty", map[string]string{"ENV": "production", "LOG_PRETTY": "true"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			vars := map[string]string{"JWT_SECRET": "s3cret"}
			for k, v := range tc.env {
				vars[k] = v
			}
			cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(vars))
			require.NoError(t, err)
			assert.Equal(t, tc.want, cfg.PrettyLogs())
		})
	}
}
