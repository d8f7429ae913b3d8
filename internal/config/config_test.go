package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseEnv() map[string]string {
	return map[string]string{
		"JWT_ACCESS_SECRET":  "access",
		"JWT_REFRESH_SECRET": "refresh",
	}
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse(baseEnv())
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, ":8080", cfg.ListenAddr())
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenAge)
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTokenAge)
	assert.Equal(t, cfg.RefreshTokenAge, cfg.SessionAge)
	assert.Equal(t, "http://localhost:8090", cfg.FilesAPIBaseURL)
	assert.Nil(t, cfg.KafkaBrokers)
	assert.False(t, cfg.CookieSecure)
}

func TestParse_Overrides(t *testing.T) {
	env := baseEnv()
	env["PORT"] = "9000"
	env["ACCESS_TOKEN_AGE"] = "900000"
	env["REFRESH_TOKEN_AGE"] = "2d"
	env["SESSION_AGE"] = "36h"
	env["FILES_API_BASE_URL"] = "http://files:8090/"
	env["KAFKA_BROKERS"] = "k1:9092, ,k2:9092"

	cfg, err := Parse(env)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenAge)
	assert.Equal(t, 48*time.Hour, cfg.RefreshTokenAge)
	assert.Equal(t, 36*time.Hour, cfg.SessionAge)
	assert.Equal(t, "http://files:8090", cfg.FilesAPIBaseURL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]string)
	}{
		{name: "missing access secret", mutate: func(m map[string]string) { delete(m, "JWT_ACCESS_SECRET") }},
		{name: "missing refresh secret", mutate: func(m map[string]string) { delete(m, "JWT_REFRESH_SECRET") }},
		{name: "same secrets", mutate: func(m map[string]string) { m["JWT_REFRESH_SECRET"] = "access" }},
		{name: "bad age", mutate: func(m map[string]string) { m["ACCESS_TOKEN_AGE"] = "soon" }},
		{name: "zero age", mutate: func(m map[string]string) { m["ACCESS_TOKEN_AGE"] = "0" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := baseEnv()
			tt.mutate(env)
			_, err := Parse(env)
			require.Error(t, err)
		})
	}
}

func TestParseAge(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{in: "15m", want: 15 * time.Minute},
		{in: "7d", want: 7 * 24 * time.Hour},
		{in: "604800000", want: 7 * 24 * time.Hour},
		{in: " 1h30m ", want: 90 * time.Minute},
	}
	for _, tt := range tests {
		got, err := ParseAge(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"", "d", "-5m", "abc"} {
		_, err := ParseAge(bad)
		assert.Error(t, err, bad)
	}
}
