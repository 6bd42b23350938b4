package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

// Migration modes.
const (
	MigrationAuto = "auto"
	MigrationSQL  = "sql"
	MigrationNone = "none"
)

type Config struct {
	DBDriver      string `yaml:"db_driver"`
	DBHost        string `yaml:"db_host"`
	DBPort        string `yaml:"db_port"`
	DBUser        string `yaml:"db_user"`
	DBPassword    string `yaml:"db_password"`
	DBName        string `yaml:"db_name"`
	DBSSLMode     string `yaml:"db_ssl_mode"`
	DBDSN         string `yaml:"db_dsn"`
	RedisHost     string `yaml:"redis_host"`
	RedisPort     string `yaml:"redis_port"`
	RedisPassword string `yaml:"redis_password"`
	SessionSecret string `yaml:"session_secret"`
	JWTSecret     string `yaml:"jwt_secret"`
	JWTTTLRaw     string `yaml:"jwt_ttl"`
	GinMode       string `yaml:"gin_mode"`
	Port          string `yaml:"port"`
	LogLevel      string `yaml:"log_level"`
	LogFilePath   string `yaml:"log_file_path"`
	OpenAIAPIKey  string `yaml:"openai_api_key"`
	MigrationMode string `yaml:"migration_mode"`
	MigrationsDir string `yaml:"migrations_dir"`

	JWTTTL time.Duration `yaml:"-"`
}

func defaults() *Config {
	return &Config{
		DBDriver:      DriverPostgres,
		DBHost:        "localhost",
		DBPort:        "5432",
		DBUser:        "pms",
		DBPassword:    "pmspassword",
		DBName:        "pms",
		DBSSLMode:     "disable",
		RedisPort:     "6379",
		SessionSecret: "default-secret-key-change-me",
		JWTSecret:     "default-jwt-secret-change-me",
		JWTTTLRaw:     "1h",
		GinMode:       "debug",
		Port:          "8080",
		LogLevel:      "info",
		MigrationMode: MigrationAuto,
		MigrationsDir: "migrations",
	}
}

// Load reads configuration from defaults, an optional YAML file named by
// CONFIG_PATH, and the environment, in increasing precedence. A .env file in
// the working directory is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := defaults()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("config: parse yaml: %w", err)
		}
	}

	cfg.DBDriver = getEnv("DB_DRIVER", cfg.DBDriver)
	cfg.DBHost = getEnv("DB_HOST", cfg.DBHost)
	cfg.DBPort = getEnv("DB_PORT", cfg.DBPort)
	cfg.DBUser = getEnv("DB_USER", cfg.DBUser)
	cfg.DBPassword = getEnv("DB_PASSWORD", cfg.DBPassword)
	cfg.DBName = getEnv("DB_NAME", cfg.DBName)
	cfg.DBSSLMode = getEnv("DB_SSL_MODE", cfg.DBSSLMode)
	cfg.DBDSN = getEnv("DB_DSN", cfg.DBDSN)
	cfg.RedisHost = getEnv("REDIS_HOST", cfg.RedisHost)
	cfg.RedisPort = getEnv("REDIS_PORT", cfg.RedisPort)
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", cfg.RedisPassword)
	cfg.SessionSecret = getEnv("SESSION_SECRET", cfg.SessionSecret)
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.JWTTTLRaw = getEnv("JWT_TTL", cfg.JWTTTLRaw)
	cfg.GinMode = getEnv("GIN_MODE", cfg.GinMode)
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFilePath = getEnv("LOG_FILE_PATH", cfg.LogFilePath)
	cfg.OpenAIAPIKey = getEnv("OPENAI_API_KEY", cfg.OpenAIAPIKey)
	cfg.MigrationMode = getEnv("MIGRATION_MODE", cfg.MigrationMode)
	cfg.MigrationsDir = getEnv("MIGRATIONS_DIR", cfg.MigrationsDir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate normalizes derived fields and rejects inconsistent settings.
func (c *Config) Validate() error {
	c.DBDriver = strings.ToLower(c.DBDriver)
	switch c.DBDriver {
	case DriverPostgres, DriverMySQL, DriverSQLite:
	default:
		return fmt.Errorf("config: unsupported db_driver %q", c.DBDriver)
	}

	switch c.MigrationMode {
	case MigrationAuto, MigrationNone:
	case MigrationSQL:
		if c.DBDriver != DriverPostgres {
			return fmt.Errorf("config: migration_mode %q requires the postgres driver", c.MigrationMode)
		}
	default:
		return fmt.Errorf("config: unsupported migration_mode %q", c.MigrationMode)
	}

	ttl, err := time.ParseDuration(c.JWTTTLRaw)
	if err != nil {
		return fmt.Errorf("config: jwt_ttl: %w", err)
	}
	if ttl <= 0 {
		return fmt.Errorf("config: jwt_ttl must be positive")
	}
	c.JWTTTL = ttl

	if c.IsProduction() {
		if c.JWTSecret == "" || c.JWTSecret == defaults().JWTSecret {
			return fmt.Errorf("config: jwt_secret must be set in release mode")
		}
		if c.SessionSecret == "" || c.SessionSecret == defaults().SessionSecret {
			return fmt.Errorf("config: session_secret must be set in release mode")
		}
	}
	return nil
}

// IsProduction reports whether gin runs in release mode.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

// DSN returns the connection string for the configured driver. DB_DSN wins
// when set.
func (c *Config) DSN() string {
	if c.DBDSN != "" {
		return c.DBDSN
	}
	switch c.DBDriver {
	case DriverMySQL:
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
	case DriverSQLite:
		return c.DBName + ".db"
	default:
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
			c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
	}
}

// MigrationURL returns the postgres URL consumed by golang-migrate.
func (c *Config) MigrationURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + c.DBSSLMode,
	}
	return u.String()
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
