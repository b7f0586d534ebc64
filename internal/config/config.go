package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sporating/sporating/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

// TennisConfig covers the scraping gateway, which talks to a results page
// rather than an API host.
type TennisConfig struct {
	Enabled   bool
	BaseURL   string
	Tours     []string
	Timeout   time.Duration
	PageDelay time.Duration
}

// ProviderConfig carries one sport provider's connection settings.
type ProviderConfig struct {
	Enabled             bool
	APIKey              string
	Host                string
	BaseURL             string
	Timeout             time.Duration
	MaxRetries          int
	RequestDelay        time.Duration
	AllowedCompetitions []string
}

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv             string
	ServiceName        string
	ServiceVersion     string
	HTTPAddr           string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	CORSAllowedOrigins []string
	LogLevel           logging.Level
	SwaggerEnabled     bool

	DBURL                   string
	DBDisablePreparedBinary bool
	DBAutoMigrate           bool
	MigrationsDir           string

	PprofEnabled bool
	PprofAddr    string

	UptraceEnabled     bool
	UptraceDSN         string
	UptraceLogsEnabled bool

	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration

	AccountsBaseURL             string
	AccountsIntrospectPath      string
	AccountsTimeout             time.Duration
	AccountsCacheTTL            time.Duration
	AccountsCircuitEnabled      bool
	AccountsCircuitFailureCount int
	AccountsCircuitOpenTimeout  time.Duration
	AccountsCircuitHalfOpenMax  int

	InternalJobToken string

	QStashEnabled       bool
	QStashBaseURL       string
	QStashToken         string
	QStashTargetBaseURL string
	QStashRetries       int
	ImportInterval      time.Duration

	Football   ProviderConfig
	Basketball ProviderConfig
	Rugby      ProviderConfig
	Formula1   ProviderConfig
	MMA        ProviderConfig

	Tennis TennisConfig

	ImportWorkerCount int
	ImportSeason      string

	AliasTablePath           string
	LeaderboardRecentMatches int
	LeaderboardDefaultLimit  int
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	logLevel, err := parseLogLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, err
	}

	swaggerDefault := "true"
	if appEnv == EnvProd {
		swaggerDefault = "false"
	}
	swaggerEnabled, err := strconv.ParseBool(getEnv("SWAGGER_ENABLED", swaggerDefault))
	if err != nil {
		return Config{}, fmt.Errorf("parse SWAGGER_ENABLED: %w", err)
	}

	readTimeout, err := getEnvAsDuration("HTTP_READ_TIMEOUT", 15*time.Second)
	if err != nil {
		return Config{}, err
	}
	writeTimeout, err := getEnvAsDuration("HTTP_WRITE_TIMEOUT", 30*time.Second)
	if err != nil {
		return Config{}, err
	}

	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}

	dbAutoMigrate, err := strconv.ParseBool(getEnv("DB_AUTO_MIGRATE", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_AUTO_MIGRATE: %w", err)
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	uptraceLogsEnabled, err := strconv.ParseBool(getEnv("UPTRACE_LOGS_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_LOGS_ENABLED: %w", err)
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeUploadRate, err := getEnvAsDuration("PYROSCOPE_UPLOAD_RATE", 15*time.Second)
	if err != nil {
		return Config{}, err
	}

	accountsTimeout, err := getEnvAsDuration("ACCOUNTS_TIMEOUT", 5*time.Second)
	if err != nil {
		return Config{}, err
	}
	accountsCacheTTL, err := getEnvAsDuration("ACCOUNTS_CACHE_TTL", time.Minute)
	if err != nil {
		return Config{}, err
	}
	accountsCircuitEnabled, err := strconv.ParseBool(getEnv("ACCOUNTS_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ACCOUNTS_CIRCUIT_ENABLED: %w", err)
	}
	accountsCircuitFailureCount, err := getEnvAsInt("ACCOUNTS_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, err
	}
	accountsCircuitOpenTimeout, err := getEnvAsDuration("ACCOUNTS_CIRCUIT_OPEN_TIMEOUT", 15*time.Second)
	if err != nil {
		return Config{}, err
	}
	accountsCircuitHalfOpenMax, err := getEnvAsInt("ACCOUNTS_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, err
	}

	qstashEnabled, err := strconv.ParseBool(getEnv("QSTASH_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse QSTASH_ENABLED: %w", err)
	}
	qstashRetries, err := getEnvAsInt("QSTASH_RETRIES", 3)
	if err != nil {
		return Config{}, err
	}
	importInterval, err := getEnvAsDuration("IMPORT_INTERVAL", 6*time.Hour)
	if err != nil {
		return Config{}, err
	}

	football, err := loadProvider("FOOTBALL", "v3.football.api-sports.io", defaultFootballCompetitions)
	if err != nil {
		return Config{}, err
	}
	basketball, err := loadProvider("BASKETBALL", "v1.basketball.api-sports.io", defaultBasketballCompetitions)
	if err != nil {
		return Config{}, err
	}
	rugby, err := loadProvider("RUGBY", "v1.rugby.api-sports.io", defaultRugbyCompetitions)
	if err != nil {
		return Config{}, err
	}
	formula1, err := loadProvider("FORMULA1", "v1.formula-1.api-sports.io", nil)
	if err != nil {
		return Config{}, err
	}
	mma, err := loadProvider("MMA", "v1.mma.api-sports.io", nil)
	if err != nil {
		return Config{}, err
	}

	tennisEnabled, err := strconv.ParseBool(getEnv("TENNIS_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse TENNIS_ENABLED: %w", err)
	}
	tennisTimeout, err := getEnvAsDuration("TENNIS_TIMEOUT", 15*time.Second)
	if err != nil {
		return Config{}, err
	}
	tennisPageDelay, err := getEnvAsDuration("TENNIS_PAGE_DELAY", 2*time.Second)
	if err != nil {
		return Config{}, err
	}

	importWorkerCount, err := getEnvAsInt("IMPORT_WORKER_COUNT", 4)
	if err != nil {
		return Config{}, err
	}
	if importWorkerCount < 1 {
		return Config{}, fmt.Errorf("IMPORT_WORKER_COUNT must be >= 1")
	}

	leaderboardRecentMatches, err := getEnvAsInt("LEADERBOARD_RECENT_MATCHES", 5)
	if err != nil {
		return Config{}, err
	}
	leaderboardDefaultLimit, err := getEnvAsInt("LEADERBOARD_DEFAULT_LIMIT", 50)
	if err != nil {
		return Config{}, err
	}

	return Config{
		AppEnv:             appEnv,
		ServiceName:        getEnv("SERVICE_NAME", "sporating"),
		ServiceVersion:     getEnv("SERVICE_VERSION", "dev"),
		HTTPAddr:           getEnv("HTTP_ADDR", ":8080"),
		ReadTimeout:        readTimeout,
		WriteTimeout:       writeTimeout,
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		LogLevel:           logLevel,
		SwaggerEnabled:     swaggerEnabled,

		DBURL:                   strings.TrimSpace(getEnv("DB_URL", "")),
		DBDisablePreparedBinary: dbDisablePreparedBinary,
		DBAutoMigrate:           dbAutoMigrate,
		MigrationsDir:           getEnv("MIGRATIONS_DIR", "./migrations"),

		PprofEnabled: pprofEnabled,
		PprofAddr:    getEnv("PPROF_ADDR", ":6060"),

		UptraceEnabled:     uptraceEnabled,
		UptraceDSN:         uptraceDSN,
		UptraceLogsEnabled: uptraceLogsEnabled,

		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     getEnv("PYROSCOPE_SERVER_ADDRESS", ""),
		PyroscopeAppName:           getEnv("PYROSCOPE_APP_NAME", "sporating"),
		PyroscopeAuthToken:         getEnv("PYROSCOPE_AUTH_TOKEN", ""),
		PyroscopeBasicAuthUser:     getEnv("PYROSCOPE_BASIC_AUTH_USER", ""),
		PyroscopeBasicAuthPassword: getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", ""),
		PyroscopeUploadRate:        pyroscopeUploadRate,

		AccountsBaseURL:             getEnv("ACCOUNTS_BASE_URL", ""),
		AccountsIntrospectPath:      getEnv("ACCOUNTS_INTROSPECT_PATH", "/v1/tokens/introspect"),
		AccountsTimeout:             accountsTimeout,
		AccountsCacheTTL:            accountsCacheTTL,
		AccountsCircuitEnabled:      accountsCircuitEnabled,
		AccountsCircuitFailureCount: accountsCircuitFailureCount,
		AccountsCircuitOpenTimeout:  accountsCircuitOpenTimeout,
		AccountsCircuitHalfOpenMax:  accountsCircuitHalfOpenMax,

		InternalJobToken: strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),

		QStashEnabled:       qstashEnabled,
		QStashBaseURL:       getEnv("QSTASH_BASE_URL", "https://qstash.upstash.io"),
		QStashToken:         getEnv("QSTASH_TOKEN", ""),
		QStashTargetBaseURL: getEnv("QSTASH_TARGET_BASE_URL", ""),
		QStashRetries:       qstashRetries,
		ImportInterval:      importInterval,

		Football:   football,
		Basketball: basketball,
		Rugby:      rugby,
		Formula1:   formula1,
		MMA:        mma,

		Tennis: TennisConfig{
			Enabled:   tennisEnabled,
			BaseURL:   getEnv("TENNIS_BASE_URL", "https://www.tennisexplorer.com"),
			Tours:     splitCSV(getEnv("TENNIS_TOURS", "atp,wta")),
			Timeout:   tennisTimeout,
			PageDelay: tennisPageDelay,
		},

		ImportWorkerCount: importWorkerCount,
		ImportSeason:      getEnv("IMPORT_SEASON", ""),

		AliasTablePath:           getEnv("ALIAS_TABLE_PATH", ""),
		LeaderboardRecentMatches: leaderboardRecentMatches,
		LeaderboardDefaultLimit:  leaderboardDefaultLimit,
	}, nil
}

var defaultFootballCompetitions = []string{
	"Premier League",
	"La Liga",
	"Serie A",
	"Bundesliga",
	"Ligue 1",
	"UEFA Champions League",
}

var defaultBasketballCompetitions = []string{
	"NBA",
	"Euroleague",
}

var defaultRugbyCompetitions = []string{
	"Top 14",
	"Six Nations",
	"Premiership Rugby",
	"United Rugby Championship",
}

func loadProvider(prefix, defaultHost string, defaultCompetitions []string) (ProviderConfig, error) {
	enabled, err := strconv.ParseBool(getEnv(prefix+"_ENABLED", "true"))
	if err != nil {
		return ProviderConfig{}, fmt.Errorf("parse %s_ENABLED: %w", prefix, err)
	}
	timeout, err := getEnvAsDuration(prefix+"_TIMEOUT", 10*time.Second)
	if err != nil {
		return ProviderConfig{}, err
	}
	maxRetries, err := getEnvAsInt(prefix+"_MAX_RETRIES", 2)
	if err != nil {
		return ProviderConfig{}, err
	}
	requestDelay, err := getEnvAsDuration(prefix+"_REQUEST_DELAY", 500*time.Millisecond)
	if err != nil {
		return ProviderConfig{}, err
	}

	competitions := defaultCompetitions
	if raw := getEnv(prefix+"_COMPETITIONS", ""); strings.TrimSpace(raw) != "" {
		competitions = splitCSV(raw)
	}

	host := getEnv(prefix+"_API_HOST", defaultHost)
	return ProviderConfig{
		Enabled:             enabled,
		APIKey:              strings.TrimSpace(getEnv(prefix+"_API_KEY", "")),
		Host:                host,
		BaseURL:             getEnv(prefix+"_BASE_URL", "https://"+host),
		Timeout:             timeout,
		MaxRetries:          maxRetries,
		RequestDelay:        requestDelay,
		AllowedCompetitions: competitions,
	}, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return value, nil
}

func getEnvAsDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	value, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return value, nil
}

func splitCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}

func parseLogLevel(raw string) (logging.Level, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return logging.LevelDebug, nil
	case "info", "":
		return logging.LevelInfo, nil
	case "warn", "warning":
		return logging.LevelWarn, nil
	case "error":
		return logging.LevelError, nil
	default:
		return logging.LevelInfo, fmt.Errorf("parse LOG_LEVEL: unknown level %q", raw)
	}
}

func parseAppEnv(raw string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case EnvDev, "development", "":
		return EnvDev, nil
	case EnvStage, "staging":
		return EnvStage, nil
	case EnvProd, "production":
		return EnvProd, nil
	default:
		return "", fmt.Errorf("parse APP_ENV: unknown environment %q", raw)
	}
}
