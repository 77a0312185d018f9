package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/dirty-thirty/internal/platform/logging"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                  string
	ServiceName             string
	ServiceVersion          string
	HTTPAddr                string
	ReadTimeout             time.Duration
	WriteTimeout            time.Duration
	LogLevel                logging.Level
	CORSAllowedOrigins      []string
	SwaggerEnabled          bool
	StoreDriver             string
	DBURL                   string
	DBDisablePreparedBinary bool
	CacheEnabled            bool
	CacheTTL                time.Duration

	ESPNBaseURL               string
	ESPNStatsBaseURL          string
	ESPNTimeout               time.Duration
	ESPNMaxRetries            int
	ESPNRateLimitRPS          float64
	ESPNRateLimitBurst        int
	ESPNCircuitEnabled        bool
	ESPNCircuitFailureCount   int
	ESPNCircuitOpenTimeout    time.Duration
	ESPNCircuitHalfOpenMaxReq int

	GameTournamentGroup    string
	GameScheduleLimit      int
	GameDayLocation        *time.Location
	GameFanoutConcurrency  int
	LiveReconcileInterval  time.Duration
	LiveReconcileWorkers   int
	LiveRolloverCron       string
	MetricsEnabled         bool
	UptraceEnabled         bool
	UptraceDSN             string
	PprofEnabled           bool
	PprofAddr              string
	PyroscopeEnabled       bool
	PyroscopeServerAddress string
	PyroscopeAppName       string
	PyroscopeAuthToken     string
	PyroscopeBasicAuthUser string
	PyroscopeBasicAuthPass string
	PyroscopeUploadRate    time.Duration
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:                 appEnv,
		ServiceName:            getEnv("APP_SERVICE_NAME", "dirty-thirty"),
		ServiceVersion:         getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:               getEnv("APP_HTTP_ADDR", ":3001"),
		LogLevel:               parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
		CORSAllowedOrigins:     splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		ESPNBaseURL:            strings.TrimRight(getEnv("ESPN_BASE_URL", ""), "/"),
		ESPNStatsBaseURL:       strings.TrimRight(getEnv("ESPN_STATS_BASE_URL", ""), "/"),
		GameTournamentGroup:    strings.TrimSpace(getEnv("GAME_TOURNAMENT_GROUP", "100")),
		LiveRolloverCron:       strings.TrimSpace(getEnv("LIVE_ROLLOVER_CRON", "5 0 * * *")),
		DBURL:                  strings.TrimSpace(getEnv("DB_URL", "")),
		PprofAddr:              strings.TrimSpace(getEnv("PPROF_ADDR", ":6060")),
		UptraceDSN:             strings.TrimSpace(getEnv("UPTRACE_DSN", "")),
		PyroscopeServerAddress: strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", "")),
		PyroscopeAppName:       getEnv("PYROSCOPE_APP_NAME", "dirty-thirty"),
		PyroscopeAuthToken:     getEnv("PYROSCOPE_AUTH_TOKEN", ""),
		PyroscopeBasicAuthUser: getEnv("PYROSCOPE_BASIC_AUTH_USER", ""),
		PyroscopeBasicAuthPass: getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", ""),
	}

	if cfg.ReadTimeout, err = parsePositiveDuration("APP_READ_TIMEOUT", "10s"); err != nil {
		return Config{}, err
	}
	if cfg.WriteTimeout, err = parsePositiveDuration("APP_WRITE_TIMEOUT", "30s"); err != nil {
		return Config{}, err
	}

	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(getEnv("STORE_DRIVER", StoreMemory)))
	switch cfg.StoreDriver {
	case StoreMemory:
	case StorePostgres:
		if cfg.DBURL == "" {
			return Config{}, fmt.Errorf("DB_URL is required when STORE_DRIVER=postgres")
		}
	default:
		return Config{}, fmt.Errorf("invalid STORE_DRIVER %q: valid values are %s, %s", cfg.StoreDriver, StoreMemory, StorePostgres)
	}
	if cfg.DBDisablePreparedBinary, err = strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "false")); err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}

	if cfg.CacheEnabled, err = strconv.ParseBool(getEnv("CACHE_ENABLED", "true")); err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	if cfg.CacheTTL, err = parsePositiveDuration("CACHE_TTL", "6h"); err != nil {
		return Config{}, err
	}

	if cfg.ESPNTimeout, err = parsePositiveDuration("ESPN_TIMEOUT", "8s"); err != nil {
		return Config{}, err
	}
	if cfg.ESPNMaxRetries, err = getEnvAsInt("ESPN_MAX_RETRIES", 0); err != nil {
		return Config{}, fmt.Errorf("parse ESPN_MAX_RETRIES: %w", err)
	}
	if cfg.ESPNMaxRetries < 0 {
		return Config{}, fmt.Errorf("ESPN_MAX_RETRIES must be >= 0")
	}
	if cfg.ESPNRateLimitRPS, err = strconv.ParseFloat(getEnv("ESPN_RATE_LIMIT_RPS", "20"), 64); err != nil {
		return Config{}, fmt.Errorf("parse ESPN_RATE_LIMIT_RPS: %w", err)
	}
	if cfg.ESPNRateLimitBurst, err = getEnvAsInt("ESPN_RATE_LIMIT_BURST", 10); err != nil {
		return Config{}, fmt.Errorf("parse ESPN_RATE_LIMIT_BURST: %w", err)
	}
	if cfg.ESPNCircuitEnabled, err = strconv.ParseBool(getEnv("ESPN_CIRCUIT_ENABLED", "true")); err != nil {
		return Config{}, fmt.Errorf("parse ESPN_CIRCUIT_ENABLED: %w", err)
	}
	if cfg.ESPNCircuitFailureCount, err = getEnvAsInt("ESPN_CIRCUIT_FAILURE_COUNT", 5); err != nil {
		return Config{}, fmt.Errorf("parse ESPN_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if cfg.ESPNCircuitOpenTimeout, err = parsePositiveDuration("ESPN_CIRCUIT_OPEN_TIMEOUT", "30s"); err != nil {
		return Config{}, err
	}
	if cfg.ESPNCircuitHalfOpenMaxReq, err = getEnvAsInt("ESPN_CIRCUIT_HALF_OPEN_MAX_REQ", 2); err != nil {
		return Config{}, fmt.Errorf("parse ESPN_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}

	if cfg.GameScheduleLimit, err = getEnvAsInt("GAME_SCHEDULE_LIMIT", 50); err != nil {
		return Config{}, fmt.Errorf("parse GAME_SCHEDULE_LIMIT: %w", err)
	}
	if cfg.GameScheduleLimit <= 0 {
		return Config{}, fmt.Errorf("GAME_SCHEDULE_LIMIT must be > 0")
	}
	if cfg.GameDayLocation, err = time.LoadLocation(getEnv("GAME_DAY_TIMEZONE", "UTC")); err != nil {
		return Config{}, fmt.Errorf("parse GAME_DAY_TIMEZONE: %w", err)
	}
	if cfg.GameFanoutConcurrency, err = getEnvAsInt("GAME_FANOUT_CONCURRENCY", 8); err != nil {
		return Config{}, fmt.Errorf("parse GAME_FANOUT_CONCURRENCY: %w", err)
	}
	if cfg.GameFanoutConcurrency <= 0 {
		return Config{}, fmt.Errorf("GAME_FANOUT_CONCURRENCY must be > 0")
	}

	if cfg.LiveReconcileInterval, err = parsePositiveDuration("LIVE_RECONCILE_INTERVAL", "60s"); err != nil {
		return Config{}, err
	}
	if cfg.LiveReconcileWorkers, err = getEnvAsInt("LIVE_RECONCILE_WORKERS", 8); err != nil {
		return Config{}, fmt.Errorf("parse LIVE_RECONCILE_WORKERS: %w", err)
	}
	if cfg.LiveReconcileWorkers <= 0 {
		return Config{}, fmt.Errorf("LIVE_RECONCILE_WORKERS must be > 0")
	}
	if cfg.LiveRolloverCron == "" {
		return Config{}, fmt.Errorf("LIVE_ROLLOVER_CRON must not be empty")
	}

	if cfg.SwaggerEnabled, err = strconv.ParseBool(getEnv("SWAGGER_ENABLED", "true")); err != nil {
		return Config{}, fmt.Errorf("parse SWAGGER_ENABLED: %w", err)
	}
	if cfg.MetricsEnabled, err = strconv.ParseBool(getEnv("METRICS_ENABLED", "true")); err != nil {
		return Config{}, fmt.Errorf("parse METRICS_ENABLED: %w", err)
	}
	if cfg.UptraceEnabled, err = strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false")); err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	if cfg.UptraceDSN == "" {
		cfg.UptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if cfg.UptraceEnabled && cfg.UptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	if cfg.PprofEnabled, err = strconv.ParseBool(getEnv("PPROF_ENABLED", "false")); err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	if cfg.PprofEnabled && cfg.PprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	if cfg.PyroscopeEnabled, err = strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false")); err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	if cfg.PyroscopeEnabled && cfg.PyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	if cfg.PyroscopeUploadRate, err = parsePositiveDuration("PYROSCOPE_UPLOAD_RATE", "15s"); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func parsePositiveDuration(key, fallback string) (time.Duration, error) {
	value, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if value <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}
	return value, nil
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

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
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
