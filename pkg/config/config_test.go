package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setSeedEnv(t *testing.T) {
	t.Helper()
	t.Setenv("API_URL", "https://events.example.com/api/")
	t.Setenv("API_TOKEN", "")
	t.Setenv("API_TRANSPORT", "")
	t.Setenv("IMAGE_BASE_URL", "")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "")
	t.Setenv("SEED_UNIQUE_NAMES", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("RESEND_KEY", "")
	t.Setenv("SEED_REPORT_EMAIL", "")
	t.Setenv("SEED_REPORT_FROM", "")
}

func TestGetHelpers(t *testing.T) {
	const key = "EVENT_SEED_TEST_VALUE"

	t.Setenv(key, "")
	assert.Equal(t, "fallback", getOrDefault(key, "fallback"))
	n, err := getIntOrDefault(key, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	b, err := getBoolOrDefault(key, true)
	require.NoError(t, err)
	assert.True(t, b)

	t.Setenv(key, "abc")
	assert.Equal(t, "abc", getOrDefault(key, "fallback"))
	_, err = getIntOrDefault(key, 7)
	assert.ErrorContains(t, err, key+` must be an integer, got "abc"`)
	_, err = getBoolOrDefault(key, false)
	assert.ErrorContains(t, err, key+` must be a boolean, got "abc"`)

	t.Setenv(key, "42")
	n, err = getIntOrDefault(key, 7)
	require.NoError(t, err)
	assert.Equal(t, 42, n)

	t.Setenv(key, "true")
	b, err = getBoolOrDefault(key, false)
	require.NoError(t, err)
	assert.True(t, b)
}

func TestLoadSeedConfigDefaults(t *testing.T) {
	setSeedEnv(t)

	cfg, err := LoadSeedConfig()
	require.NoError(t, err)

	assert.Equal(t, "https://events.example.com/api", cfg.APIURL)
	assert.Equal(t, TransportGRPCWeb, cfg.Transport)
	assert.Equal(t, "https://picsum.photos", cfg.ImageBaseURL)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Equal(t, "onboarding@resend.dev", cfg.ReportFromEmail)
	assert.False(t, cfg.UniqueNames)
	assert.False(t, cfg.ReportEnabled())
}

func TestLoadSeedConfigOverrides(t *testing.T) {
	setSeedEnv(t)
	t.Setenv("API_TRANSPORT", "GRPC")
	t.Setenv("API_TOKEN", " secret ")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "5")
	t.Setenv("SEED_UNIQUE_NAMES", "1")
	t.Setenv("RESEND_KEY", "re_123")
	t.Setenv("SEED_REPORT_EMAIL", "ops@example.com")

	cfg, err := LoadSeedConfig()
	require.NoError(t, err)

	assert.Equal(t, TransportGRPC, cfg.Transport)
	assert.Equal(t, "secret", cfg.APIToken)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.True(t, cfg.UniqueNames)
	assert.True(t, cfg.ReportEnabled())
}

func TestLoadSeedConfigRejectsInvalidEnvironment(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{name: "missing api url", key: "API_URL", value: "", wantErr: "API_URL is required"},
		{name: "blank api url", key: "API_URL", value: "   ", wantErr: "API_URL is required"},
		{name: "relative api url", key: "API_URL", value: "events.example.com", wantErr: "API_URL is invalid"},
		{name: "unsupported scheme", key: "API_URL", value: "ftp://events.example.com", wantErr: "API_URL is invalid"},
		{name: "bad image base", key: "IMAGE_BASE_URL", value: "not a url", wantErr: "IMAGE_BASE_URL is invalid"},
		{name: "unknown transport", key: "API_TRANSPORT", value: "websocket", wantErr: "API_TRANSPORT must be"},
		{name: "non-positive timeout", key: "HTTP_TIMEOUT_SECONDS", value: "0", wantErr: "HTTP_TIMEOUT_SECONDS must be > 0"},
		{name: "non-numeric timeout", key: "HTTP_TIMEOUT_SECONDS", value: "abc", wantErr: "HTTP_TIMEOUT_SECONDS must be an integer"},
		{name: "non-boolean unique names", key: "SEED_UNIQUE_NAMES", value: "sometimes", wantErr: "SEED_UNIQUE_NAMES must be a boolean"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			setSeedEnv(t)
			t.Setenv(tc.key, tc.value)

			_, err := LoadSeedConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoadFakeAPIConfig(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("CORS_HOSTS", "http://localhost:3000, https://app.example.com,")
	t.Setenv("FAKEAPI_TOKEN", "token")

	cfg, err := LoadFakeAPIConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, []string{"http://localhost:3000", "https://app.example.com"}, cfg.CORSHosts)
	assert.Equal(t, "token", cfg.Token)

	t.Setenv("PORT", "eighty")
	_, err = LoadFakeAPIConfig()
	assert.ErrorContains(t, err, "PORT must be numeric")

	t.Setenv("PORT", "9000")
	t.Setenv("CORS_HOSTS", " , ")
	_, err = LoadFakeAPIConfig()
	assert.ErrorContains(t, err, "CORS_HOSTS must not be empty")
}
