package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/xerrors"
)

const (
	TransportGRPCWeb = "grpc-web"
	TransportGRPC    = "grpc"
)

// SeedConfig contains the seeder configuration loaded from environment variables.
type SeedConfig struct {
	APIURL          string
	APIToken        string
	Transport       string
	ImageBaseURL    string
	HTTPTimeout     time.Duration
	UniqueNames     bool
	LogLevel        string
	ResendKey       string
	ReportEmail     string
	ReportFromEmail string
}

// ReportEnabled reports whether a seed summary should be mailed after the run.
func (c SeedConfig) ReportEnabled() bool {
	return c.ResendKey != "" && c.ReportEmail != ""
}

func LoadSeedConfig() (SeedConfig, error) {
	timeoutSeconds, err := getIntOrDefault("HTTP_TIMEOUT_SECONDS", 30)
	if err != nil {
		return SeedConfig{}, err
	}
	uniqueNames, err := getBoolOrDefault("SEED_UNIQUE_NAMES", false)
	if err != nil {
		return SeedConfig{}, err
	}

	cfg := SeedConfig{
		APIURL:          strings.TrimRight(strings.TrimSpace(os.Getenv("API_URL")), "/"),
		APIToken:        strings.TrimSpace(os.Getenv("API_TOKEN")),
		Transport:       strings.ToLower(getOrDefault("API_TRANSPORT", TransportGRPCWeb)),
		ImageBaseURL:    strings.TrimRight(getOrDefault("IMAGE_BASE_URL", "https://picsum.photos"), "/"),
		HTTPTimeout:     time.Duration(timeoutSeconds) * time.Second,
		UniqueNames:     uniqueNames,
		LogLevel:        getOrDefault("LOG_LEVEL", "INFO"),
		ResendKey:       os.Getenv("RESEND_KEY"),
		ReportEmail:     strings.TrimSpace(os.Getenv("SEED_REPORT_EMAIL")),
		ReportFromEmail: getOrDefault("SEED_REPORT_FROM", "onboarding@resend.dev"),
	}

	if cfg.APIURL == "" {
		return SeedConfig{}, xerrors.Errorf("API_URL is required")
	}
	if err := validateHTTPURL(cfg.APIURL); err != nil {
		return SeedConfig{}, xerrors.Errorf("API_URL is invalid: %w", err)
	}
	if err := validateHTTPURL(cfg.ImageBaseURL); err != nil {
		return SeedConfig{}, xerrors.Errorf("IMAGE_BASE_URL is invalid: %w", err)
	}
	if cfg.Transport != TransportGRPCWeb && cfg.Transport != TransportGRPC {
		return SeedConfig{}, xerrors.Errorf("API_TRANSPORT must be %q or %q", TransportGRPCWeb, TransportGRPC)
	}
	if cfg.HTTPTimeout <= 0 {
		return SeedConfig{}, xerrors.Errorf("HTTP_TIMEOUT_SECONDS must be > 0")
	}

	return cfg, nil
}

// FakeAPIConfig configures the local stand-in for the event API.
type FakeAPIConfig struct {
	Port                string
	LogLevel            string
	CORSHosts           []string
	Token               string
	FirebaseProjectID   string
	FirebaseCredentials string
}

func LoadFakeAPIConfig() (FakeAPIConfig, error) {
	cfg := FakeAPIConfig{
		Port:                getOrDefault("PORT", "8080"),
		LogLevel:            getOrDefault("LOG_LEVEL", "INFO"),
		CORSHosts:           parseCSV(getOrDefault("CORS_HOSTS", "*")),
		Token:               strings.TrimSpace(os.Getenv("FAKEAPI_TOKEN")),
		FirebaseProjectID:   strings.TrimSpace(os.Getenv("FIREBASE_PROJECT_ID")),
		FirebaseCredentials: os.Getenv("FIREBASE_CREDENTIALS_JSON"),
	}

	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return FakeAPIConfig{}, xerrors.Errorf("PORT must be numeric")
	}
	if len(cfg.CORSHosts) == 0 {
		return FakeAPIConfig{}, xerrors.Errorf("CORS_HOSTS must not be empty")
	}

	return cfg, nil
}

func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return xerrors.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return xerrors.Errorf("missing host")
	}
	return nil
}

func parseCSV(input string) []string {
	var out []string
	for _, part := range strings.Split(input, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getOrDefault(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func getIntOrDefault(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return 0, xerrors.Errorf("%s must be an integer, got %q", key, raw)
	}
	return parsed, nil
}

func getBoolOrDefault(key string, fallback bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return false, xerrors.Errorf("%s must be a boolean, got %q", key, raw)
	}
	return parsed, nil
}
