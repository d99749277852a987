package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds all application configuration in a structured way.
type Config struct {
	App        AppConfig
	MCP        MCPConfig
	Paths      PathsConfig
	Database   DatabaseConfig
	Valkey     ValkeyConfig
	Cache      CacheConfig
	Generator  GeneratorConfig
	WorkerPool WorkerPoolConfig
	APIKeys    APIKeysConfig
}

type AppConfig struct {
	Version            string
	Port               string
	Debug              bool
	Environment        string
	BasicAuth          []string
	BasePath           string
	TrustedProxies     []string
	BaseUrl            string
	CorsAllowedOrigins []string
	ServerID           string
}

type MCPConfig struct {
	Port string
	Host string
}

type PathsConfig struct {
	Storages string
}

type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	Name     string // File path for SQLite, DB Name for Postgres
}

type ValkeyConfig struct {
	Enabled   bool
	Address   string
	Password  string
	DB        int
	KeyPrefix string
}

// CacheConfig configures the outline/content cache. Durations of zero fall
// back to the cache defaults.
type CacheConfig struct {
	MaxSize             int
	DefaultTTL          time.Duration
	OutlineTTL          time.Duration
	ContentTTL          time.Duration
	WarmingTTL          time.Duration
	SweepInterval       time.Duration
	EnableStats         bool
	EnableWarming       bool
	EvictionPolicy      string
	StatsReportInterval time.Duration
	SharedTier          bool
}

type GeneratorConfig struct {
	Provider       string // openai | gemini
	OpenAIModel    string
	GeminiModel    string
	Language       string
	RequestTimeout time.Duration
}

type WorkerPoolConfig struct {
	Size      int
	QueueSize int
}

type APIKeysConfig struct {
	Gemini string
	OpenAI string
}

// Global provides access to the loaded configuration for the cmd layer.
var Global *Config

// LoadConfig loads configuration from environment variables or defaults.
func LoadConfig() (*Config, error) {
	debug := false
	if v := os.Getenv("APP_DEBUG"); v == "true" || v == "1" || v == "on" {
		debug = true
	} else if v := os.Getenv("DEBUG"); v == "true" || v == "1" {
		debug = true
	}

	var basicAuth []string
	if v := os.Getenv("APP_BASIC_AUTH"); v != "" {
		basicAuth = strings.Split(v, ",")
	}

	corsOrigins := []string{"http://localhost:3000", "http://localhost:5173"}
	if v := os.Getenv("APP_CORS_ALLOWED_ORIGINS"); v != "" {
		corsOrigins = strings.Split(v, ",")
	}

	appCfg := AppConfig{
		Version:            "v1.0.0",
		Port:               getEnv("APP_PORT", "3000"),
		Debug:              debug,
		Environment:        getEnv("APP_ENV", "development"),
		BasicAuth:          basicAuth,
		BasePath:           getEnv("APP_BASE_PATH", ""),
		BaseUrl:            getEnv("APP_BASE_URL", "http://localhost:3000"),
		CorsAllowedOrigins: corsOrigins,
		ServerID:           getEnv("SERVER_ID", ""),
	}
	if v := os.Getenv("APP_TRUSTED_PROXIES"); v != "" {
		appCfg.TrustedProxies = strings.Split(v, ",")
	}

	pathsCfg := PathsConfig{
		Storages: getEnv("APP_BASE_DIR", "storages"),
	}

	dbCfg := DatabaseConfig{
		Driver:   getEnv("DB_DRIVER", "sqlite"),
		Name:     getEnv("DB_NAME", filepath.Join(pathsCfg.Storages, "app.db")),
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnvInt("DB_PORT", 5432),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
	}

	valkeyCfg := ValkeyConfig{
		Enabled:   getEnvBool("VALKEY_ENABLED", false),
		Address:   getEnv("VALKEY_ADDRESS", "localhost:6379"),
		Password:  getEnv("VALKEY_PASSWORD", ""),
		DB:        getEnvInt("VALKEY_DB", 0),
		KeyPrefix: getEnv("VALKEY_KEY_PREFIX", "azcontent:"),
	}

	cacheCfg := CacheConfig{
		MaxSize:             getEnvInt("CACHE_MAX_SIZE", 1000),
		DefaultTTL:          getEnvDuration("CACHE_DEFAULT_TTL", 30*time.Minute),
		OutlineTTL:          getEnvDuration("CACHE_OUTLINE_TTL", 30*time.Minute),
		ContentTTL:          getEnvDuration("CACHE_CONTENT_TTL", 60*time.Minute),
		WarmingTTL:          getEnvDuration("CACHE_WARMING_TTL", 5*time.Minute),
		SweepInterval:       getEnvDuration("CACHE_SWEEP_INTERVAL", 5*time.Minute),
		EnableStats:         getEnvBool("CACHE_ENABLE_STATS", true),
		EnableWarming:       getEnvBool("CACHE_ENABLE_WARMING", true),
		EvictionPolicy:      getEnv("CACHE_EVICTION_POLICY", "hybrid"),
		StatsReportInterval: getEnvDuration("CACHE_STATS_REPORT_INTERVAL", 15*time.Second),
		SharedTier:          getEnvBool("CACHE_SHARED_TIER", true),
	}

	genCfg := GeneratorConfig{
		Provider:       getEnv("GENERATOR_PROVIDER", "openai"),
		OpenAIModel:    getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		Language:       getEnv("GENERATOR_LANGUAGE", "en"),
		RequestTimeout: getEnvDuration("GENERATOR_REQUEST_TIMEOUT", 90*time.Second),
	}

	cfg := &Config{
		App:        appCfg,
		MCP:        MCPConfig{Port: getEnv("MCP_PORT", "8080"), Host: getEnv("MCP_HOST", "localhost")},
		Paths:      pathsCfg,
		Database:   dbCfg,
		Valkey:     valkeyCfg,
		Cache:      cacheCfg,
		Generator:  genCfg,
		WorkerPool: WorkerPoolConfig{Size: getEnvInt("GENERATOR_WORKER_POOL_SIZE", 4), QueueSize: getEnvInt("GENERATOR_WORKER_QUEUE_SIZE", 100)},
		APIKeys: APIKeysConfig{
			Gemini: getEnv("GEMINI_API_KEY", ""),
			OpenAI: getEnv("OPENAI_API_KEY", ""),
		},
	}

	Global = cfg
	return cfg, nil
}
