package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"jigsaw-bot/internal/classifier"
	"jigsaw-bot/internal/domain/entity"
	"jigsaw-bot/internal/matcher"
)

type Config struct {
	TelegramToken string
	LogLevel      string

	// HTTP API
	Host               string
	Port               string
	RequestTimeout     time.Duration
	MaxRequestBodySize int64

	// Хранилище деталей: локальная папка или Azure Blob, если задан аккаунт
	StorageDir            string
	AzureStorageAccount   string
	AzureStorageKey       string
	AzureStorageContainer string

	Workers         int
	SimplifyEpsilon float64

	// Поиск углов и классификация сторон
	RightAngleTolerance  float64
	OriginAngleTolerance float64
	MaxCornerIterations  int
	StrayFactor          float64
	BiasThreshold        int

	// Сравнение сторон
	RotationTolerance  float64
	CouplingThreshold  float64
	SecondaryThreshold float64
	SecondaryMeasure   entity.DistanceMeasure
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cls := classifier.DefaultConfig()
	m := matcher.DefaultConfig()

	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		LogLevel:      getEnvOrDefault("LOG_LEVEL", "info"),

		Host:               getEnvOrDefault("HOST", "0.0.0.0"),
		Port:               getEnvOrDefault("PORT", "8080"),
		RequestTimeout:     parseDurationOrDefault("REQUEST_TIMEOUT", 30*time.Second),
		MaxRequestBodySize: parseIntOrDefault("MAX_REQUEST_BODY_SIZE", 10*1024*1024), // 10MB

		StorageDir:            getEnvOrDefault("STORAGE_DIR", "data/pieces"),
		AzureStorageAccount:   os.Getenv("AZURE_STORAGE_ACCOUNT"),
		AzureStorageKey:       os.Getenv("AZURE_STORAGE_KEY"),
		AzureStorageContainer: getEnvOrDefault("AZURE_STORAGE_CONTAINER", "pieces"),

		Workers:         int(parseIntOrDefault("WORKERS", 0)),
		SimplifyEpsilon: parseFloatOrDefault("SIMPLIFY_EPSILON", 20),

		RightAngleTolerance:  parseFloatOrDefault("RIGHT_ANGLE_TOLERANCE", cls.RightAngleTolerance),
		OriginAngleTolerance: parseFloatOrDefault("ORIGIN_ANGLE_TOLERANCE", cls.OriginAngleTolerance),
		MaxCornerIterations:  int(parseIntOrDefault("MAX_CORNER_ITERATIONS", int64(cls.MaxIterations))),
		StrayFactor:          parseFloatOrDefault("STRAY_FACTOR", cls.StrayFactor),
		BiasThreshold:        int(parseIntOrDefault("BIAS_THRESHOLD", int64(cls.BiasThreshold))),

		RotationTolerance:  parseFloatOrDefault("ROTATION_TOLERANCE", m.RotationTolerance),
		CouplingThreshold:  parseFloatOrDefault("COUPLING_THRESHOLD", m.CouplingThreshold),
		SecondaryThreshold: parseFloatOrDefault("SECONDARY_THRESHOLD", m.SecondaryThreshold),
	}

	measure, err := entity.ParseDistanceMeasure(getEnvOrDefault("SECONDARY_MEASURE", string(m.Secondary)))
	if err != nil {
		return nil, fmt.Errorf("invalid SECONDARY_MEASURE: %w", err)
	}
	cfg.SecondaryMeasure = measure

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет диапазоны значений
func (c *Config) Validate() error {
	p, err := strconv.Atoi(strings.TrimSpace(c.Port))
	if err != nil || p < 1 || p > 65535 {
		return fmt.Errorf("invalid PORT: %q", c.Port)
	}
	if c.MaxRequestBodySize <= 0 {
		return fmt.Errorf("MAX_REQUEST_BODY_SIZE must be > 0 (got %d)", c.MaxRequestBodySize)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be > 0 (got %s)", c.RequestTimeout)
	}
	if c.Workers < 0 {
		return fmt.Errorf("WORKERS must be >= 0 (got %d)", c.Workers)
	}
	if c.SimplifyEpsilon <= 0 {
		return fmt.Errorf("SIMPLIFY_EPSILON must be > 0 (got %v)", c.SimplifyEpsilon)
	}
	if c.AzureStorageAccount != "" && c.AzureStorageKey == "" {
		return fmt.Errorf("AZURE_STORAGE_KEY is required when AZURE_STORAGE_ACCOUNT is set")
	}
	if err := c.ClassifierConfig().Validate(); err != nil {
		return fmt.Errorf("classifier config: %w", err)
	}
	if err := c.MatcherConfig().Validate(); err != nil {
		return fmt.Errorf("matcher config: %w", err)
	}
	return nil
}

func (c *Config) ServerAddress() string {
	return net.JoinHostPort(strings.TrimSpace(c.Host), strings.TrimSpace(c.Port))
}

// UseBlobStorage true, если детали хранятся в Azure Blob
func (c *Config) UseBlobStorage() bool {
	return c.AzureStorageAccount != ""
}

// ClassifierConfig настройки поиска углов
func (c *Config) ClassifierConfig() classifier.Config {
	return classifier.Config{
		RightAngleTolerance:  c.RightAngleTolerance,
		OriginAngleTolerance: c.OriginAngleTolerance,
		MaxIterations:        c.MaxCornerIterations,
		StrayFactor:          c.StrayFactor,
		BiasThreshold:        c.BiasThreshold,
	}
}

// MatcherConfig настройки сравнения сторон
func (c *Config) MatcherConfig() matcher.Config {
	return matcher.Config{
		CouplingThreshold:  c.CouplingThreshold,
		SecondaryThreshold: c.SecondaryThreshold,
		Secondary:          c.SecondaryMeasure,
		RotationTolerance:  c.RotationTolerance,
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func parseFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return f
		}
	}
	return defaultValue
}
