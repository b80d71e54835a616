package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/borderville/season-stats/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	HTTPAddr       string

	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	CORSAllowedOrigins []string

	SeasonYear   int
	OutputPath   string
	FetchWorkers int

	CacheEnabled    bool
	CacheTTL        time.Duration
	RefreshInterval time.Duration

	AirtableBaseURL             string
	AirtableToken               string
	AirtableBaseID              string
	AirtablePlayersTable        string
	AirtableMatchesTable        string
	AirtableGoalsTable          string
	AirtablePageSize            int
	AirtablePageDelay           time.Duration
	AirtableTimeout             time.Duration
	AirtableMaxRetries          int
	AirtableCircuitEnabled      bool
	AirtableCircuitFailureCount int
	AirtableCircuitOpenTimeout  time.Duration
	AirtableCircuitHalfOpenReq  int

	InternalJobToken string

	UptraceEnabled bool
	UptraceDSN     string

	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration

	LogLevel logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	seasonYear, err := getEnvAsInt("SEASON_YEAR", 2026)
	if err != nil {
		return Config{}, fmt.Errorf("parse SEASON_YEAR: %w", err)
	}
	if seasonYear < 2000 || seasonYear > 2100 {
		return Config{}, fmt.Errorf("SEASON_YEAR %d is out of range", seasonYear)
	}

	fetchWorkers, err := getEnvAsInt("FETCH_WORKERS", 3)
	if err != nil {
		return Config{}, fmt.Errorf("parse FETCH_WORKERS: %w", err)
	}
	if fetchWorkers < 1 {
		return Config{}, fmt.Errorf("FETCH_WORKERS must be >= 1")
	}

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "5m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}

	refreshInterval, err := time.ParseDuration(getEnv("REFRESH_INTERVAL", "15m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse REFRESH_INTERVAL: %w", err)
	}
	if refreshInterval <= 0 {
		return Config{}, fmt.Errorf("REFRESH_INTERVAL must be > 0")
	}

	airtableToken := strings.TrimSpace(getEnv("AIRTABLE_TOKEN", ""))
	if airtableToken == "" {
		return Config{}, fmt.Errorf("AIRTABLE_TOKEN is required")
	}
	airtableBaseID := strings.TrimSpace(getEnv("AIRTABLE_BASE_ID", ""))
	if airtableBaseID == "" {
		return Config{}, fmt.Errorf("AIRTABLE_BASE_ID is required")
	}

	airtablePageSize, err := getEnvAsInt("AIRTABLE_PAGE_SIZE", 100)
	if err != nil {
		return Config{}, fmt.Errorf("parse AIRTABLE_PAGE_SIZE: %w", err)
	}
	if airtablePageSize < 1 || airtablePageSize > 100 {
		return Config{}, fmt.Errorf("AIRTABLE_PAGE_SIZE must be between 1 and 100")
	}
	airtablePageDelay, err := time.ParseDuration(getEnv("AIRTABLE_PAGE_DELAY", "250ms"))
	if err != nil {
		return Config{}, fmt.Errorf("parse AIRTABLE_PAGE_DELAY: %w", err)
	}
	if airtablePageDelay < 0 {
		return Config{}, fmt.Errorf("AIRTABLE_PAGE_DELAY must be >= 0")
	}
	airtableTimeout, err := time.ParseDuration(getEnv("AIRTABLE_TIMEOUT", "20s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse AIRTABLE_TIMEOUT: %w", err)
	}
	if airtableTimeout <= 0 {
		return Config{}, fmt.Errorf("AIRTABLE_TIMEOUT must be > 0")
	}
	airtableMaxRetries, err := getEnvAsInt("AIRTABLE_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse AIRTABLE_MAX_RETRIES: %w", err)
	}
	if airtableMaxRetries < 0 {
		return Config{}, fmt.Errorf("AIRTABLE_MAX_RETRIES must be >= 0")
	}
	airtableCircuitEnabled, err := strconv.ParseBool(getEnv("AIRTABLE_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse AIRTABLE_CIRCUIT_ENABLED: %w", err)
	}
	airtableCircuitFailureCount, err := getEnvAsInt("AIRTABLE_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse AIRTABLE_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if airtableCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("AIRTABLE_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	airtableCircuitOpenTimeout, err := time.ParseDuration(getEnv("AIRTABLE_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse AIRTABLE_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if airtableCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("AIRTABLE_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	airtableCircuitHalfOpenReq, err := getEnvAsInt("AIRTABLE_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse AIRTABLE_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if airtableCircuitHalfOpenReq < 1 {
		return Config{}, fmt.Errorf("AIRTABLE_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	cfg := Config{
		AppEnv:         appEnv,
		ServiceName:    getEnv("APP_SERVICE_NAME", "season-stats-api"),
		ServiceVersion: getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:       getEnv("APP_HTTP_ADDR", ":8080"),

		ReadTimeout:        readTimeout,
		WriteTimeout:       writeTimeout,
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),

		SeasonYear:   seasonYear,
		OutputPath:   getEnv("OUTPUT_PATH", "data/aggregated.json"),
		FetchWorkers: fetchWorkers,

		CacheEnabled:    cacheEnabled,
		CacheTTL:        cacheTTL,
		RefreshInterval: refreshInterval,

		AirtableBaseURL:             strings.TrimSpace(getEnv("AIRTABLE_BASE_URL", "https://api.airtable.com/v0")),
		AirtableToken:               airtableToken,
		AirtableBaseID:              airtableBaseID,
		AirtablePlayersTable:        getEnv("AIRTABLE_PLAYERS_TABLE", "Players"),
		AirtableMatchesTable:        getEnv("AIRTABLE_MATCHES_TABLE", "Matches"),
		AirtableGoalsTable:          getEnv("AIRTABLE_GOALS_TABLE", "Goals"),
		AirtablePageSize:            airtablePageSize,
		AirtablePageDelay:           airtablePageDelay,
		AirtableTimeout:             airtableTimeout,
		AirtableMaxRetries:          airtableMaxRetries,
		AirtableCircuitEnabled:      airtableCircuitEnabled,
		AirtableCircuitFailureCount: airtableCircuitFailureCount,
		AirtableCircuitOpenTimeout:  airtableCircuitOpenTimeout,
		AirtableCircuitHalfOpenReq:  airtableCircuitHalfOpenReq,

		InternalJobToken: strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),

		UptraceEnabled: uptraceEnabled,
		UptraceDSN:     uptraceDSN,

		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,

		LogLevel: parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
	}

	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	return cfg, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
