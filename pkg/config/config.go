package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DateLayout is the layout used for ANALYSIS_DATE and every --date flag
const DateLayout = "2006-01-02"

// DefaultAnalysisDate is the recency reference point of the FLO dataset
// (마지막 주문일 2021-05-30 + 3일)
var DefaultAnalysisDate = time.Date(2021, 6, 2, 0, 0, 0, 0, time.UTC)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	Env string // development, staging, production

	// Analysis run
	Analysis AnalysisConfig

	// Database (optional, empty URL disables persistence)
	Database DatabaseConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// AnalysisConfig holds the inputs of one segmentation run
type AnalysisConfig struct {
	Date          time.Time // recency reference point
	InputPath     string
	OutputDir     string
	CampaignsPath string // empty → built-in campaigns
	Persist       bool   // save scores to PostgreSQL (requires DATABASE_URL)
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// Enabled reports whether a database URL was configured
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	analysisDate, err := getEnvAsDate("ANALYSIS_DATE", DefaultAnalysisDate)
	if err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg := &Config{
		Env: getEnv("ENV", "development"),

		Analysis: AnalysisConfig{
			Date:          analysisDate,
			InputPath:     getEnv("INPUT_PATH", "flo_data_20k.csv"),
			OutputDir:     getEnv("OUTPUT_DIR", "."),
			CampaignsPath: getEnv("CAMPAIGNS_PATH", ""),
			Persist:       getEnvAsBool("PERSIST_RESULTS", false),
		},

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 4),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 1),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// LoadWithFile loads an explicit .env file first, then reads the environment.
// Variables already set in the environment win over the file.
func LoadWithFile(path string) (*Config, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return nil, fmt.Errorf("load env file %s: %w", path, err)
		}
	}
	return Load()
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Analysis.Date.IsZero() {
		return fmt.Errorf("ANALYSIS_DATE is required")
	}

	if c.Analysis.InputPath == "" {
		return fmt.Errorf("INPUT_PATH is required")
	}

	if c.Database.Enabled() && c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("DB_MIN_CONNS must be <= DB_MAX_CONNS")
	}

	return nil
}

// ValidatePersist checks the persist switch against the database settings.
// run 명령은 --persist 플래그 적용 후에 호출
func (c *Config) ValidatePersist() error {
	if c.Analysis.Persist && !c.Database.Enabled() {
		return fmt.Errorf("PERSIST_RESULTS requires DATABASE_URL")
	}
	return nil
}

// ParseDate parses a YYYY-MM-DD value in UTC
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want %s): %w", s, DateLayout, err)
	}
	return t, nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
		"backend/.env",
	}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}

// getEnvAsDate는 다른 헬퍼와 달리 잘못된 값을 기본값으로 덮지 않음
// 분석 기준일이 조용히 바뀌면 recency 전체가 틀어지기 때문
func getEnvAsDate(key string, defaultValue time.Time) (time.Time, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	return ParseDate(valueStr)
}
