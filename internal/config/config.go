package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DB      DBConfig
	Server  ServerConfig
	Weather WeatherConfig
	Ingest  IngestConfig
}

// DBType represents database type
type DBType string

const (
	DBTypePostgreSQL DBType = "postgres"
	DBTypeMySQL      DBType = "mysql"
	DBTypeMemory     DBType = "memory"
)

// DBConfig holds database configuration
type DBConfig struct {
	Type          DBType
	Host          string
	Port          string
	User          string
	Password      string
	Name          string
	SSLMode       string
	MigrationsDir string
}

// WeatherConfig holds settings for the OpenWeatherMap client
type WeatherConfig struct {
	APIKey  string
	BaseURL string
	Units   string
	Timeout time.Duration
	// RateLimit is the number of provider requests allowed per second.
	// Zero disables client-side pacing.
	RateLimit float64
	// BreakerThreshold is the number of consecutive provider failures
	// after which remaining calls are short-circuited.
	BreakerThreshold int
}

// IngestConfig holds settings for the ingestion runs
type IngestConfig struct {
	ReferencePath string
	Region        string
	// Interval schedules periodic temperature ingestion. Zero disables it.
	Interval time.Duration
}

// DSN returns the database connection string
func (c DBConfig) DSN() string {
	switch c.Type {
	case DBTypeMemory:
		// SQLite in-memory database
		if c.Name != "" && c.Name != "climate" {
			return fmt.Sprintf("file:%s?mode=memory&cache=shared", c.Name)
		}
		return "file::memory:?cache=shared"
	case DBTypeMySQL:
		return fmt.Sprintf(
			"%s:%s@tcp(%s:%s)/%s?parseTime=true&loc=UTC",
			c.User, c.Password, c.Host, c.Port, c.Name,
		)
	}
	// PostgreSQL connection string
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode,
	)
}

// MigrationURL returns the database URL understood by golang-migrate
func (c DBConfig) MigrationURL() string {
	switch c.Type {
	case DBTypeMemory:
		return "sqlite3://" + c.DSN()
	case DBTypeMySQL:
		return "mysql://" + c.DSN() + "&multiStatements=true"
	}
	return c.DSN()
}

// MigrationsSource returns the golang-migrate source URL for this dialect
func (c DBConfig) MigrationsSource() string {
	dir := c.MigrationsDir
	if dir == "" {
		dir = "migrations"
	}
	dialect := "postgres"
	switch c.Type {
	case DBTypeMemory:
		dialect = "sqlite"
	case DBTypeMySQL:
		dialect = "mysql"
	}
	return "file://" + strings.TrimSuffix(dir, "/") + "/" + dialect
}

// IsMemory returns true if using in-memory database
func (c DBConfig) IsMemory() bool {
	return c.Type == DBTypeMemory
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbType := DBType(getEnv("DB_TYPE", "memory"))
	if dbType != DBTypePostgreSQL && dbType != DBTypeMySQL && dbType != DBTypeMemory {
		dbType = DBTypeMemory
	}

	defaultPort := "5432"
	if dbType == DBTypeMySQL {
		defaultPort = "3306"
	}

	timeout, err := getEnvAsDuration("WEATHER_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	interval, err := getEnvAsDuration("INGEST_INTERVAL", 0)
	if err != nil {
		return nil, err
	}

	config := &Config{
		DB: DBConfig{
			Type:          dbType,
			Host:          getEnv("DB_HOST", "localhost"),
			Port:          getEnv("DB_PORT", defaultPort),
			User:          getEnv("DB_USER", "climate"),
			Password:      getEnv("DB_PASSWORD", "climate_password"),
			Name:          getEnv("DB_NAME", "climate"),
			SSLMode:       getEnv("DB_SSLMODE", "disable"),
			MigrationsDir: getEnv("MIGRATIONS_DIR", "migrations"),
		},
		Server: ServerConfig{
			Port: getEnv("APP_PORT", "8080"),
		},
		Weather: WeatherConfig{
			APIKey:           getEnv("WEATHER_API_KEY", ""),
			BaseURL:          getEnv("WEATHER_BASE_URL", "https://api.openweathermap.org/data/2.5/weather"),
			Units:            getEnv("WEATHER_UNITS", "metric"),
			Timeout:          timeout,
			RateLimit:        getEnvAsFloat("WEATHER_RATE_LIMIT", 1),
			BreakerThreshold: getEnvAsInt("WEATHER_BREAKER_THRESHOLD", 5),
		},
		Ingest: IngestConfig{
			ReferencePath: getEnv("REFERENCE_PATH", "data/countries.json"),
			Region:        getEnv("INGEST_REGION", "Europe"),
			Interval:      interval,
		},
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
