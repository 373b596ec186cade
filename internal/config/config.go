package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"camstation/internal/service/ai"

	"github.com/joho/godotenv"
)

const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

type Config struct {
	Port        int
	Environment string
	LogLevel    string

	CameraDevice   int
	CameraFlip     bool
	ModelDirectory string

	ImageDirectory string
	LogBackend     string
	LogFile        string
	DatabasePath   string

	TickInterval            time.Duration // Co ile uruchamiać jedną iterację pętli
	CaptureInterval         time.Duration // Minimalny odstęp między zapisami
	CaptureFirstImmediately bool
	ConfidenceThreshold     float64
	FacePadding             int
	BlurSigma               float64

	PageSize        int
	GalleryPageSize int
	LogDirectory    string
}

// Load reads an optional .env file and then builds the configuration from
// environment variables, falling back to defaults.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:        getEnvAsInt("PORT", 8080),
		Environment: getEnv("ENVIRONMENT", "production"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		CameraDevice:   getEnvAsInt("CAMERA_DEVICE", 0),
		CameraFlip:     getEnvAsBool("CAMERA_FLIP", true),
		ModelDirectory: getEnv("MODEL_DIR", filepath.Join(".", "models")),

		ImageDirectory: getEnv("IMAGE_DIR", filepath.Join(".", "images_captured")),
		LogBackend:     getEnv("LOG_BACKEND", BackendJSON),
		LogFile:        getEnv("LOG_FILE", filepath.Join(".", "log.json")),
		DatabasePath:   getEnv("DB_PATH", filepath.Join(".", "data", "captures.db")),

		TickInterval:            getEnvAsDuration("TICK_INTERVAL_MS", time.Millisecond, 10*time.Millisecond),
		CaptureInterval:         getEnvAsDuration("CAPTURE_INTERVAL", time.Second, 10*time.Second),
		CaptureFirstImmediately: getEnvAsBool("CAPTURE_FIRST_IMMEDIATELY", false),
		ConfidenceThreshold:     getEnvAsFloat("CONFIDENCE_THRESHOLD", ai.DetectionThreshold),
		FacePadding:             getEnvAsInt("FACE_PADDING", 20),
		BlurSigma:               getEnvAsFloat("BLUR_SIGMA", 30),

		PageSize:        getEnvAsInt("PAGE_SIZE", 20),
		GalleryPageSize: getEnvAsInt("GALLERY_PAGE_SIZE", 25), // siatka 5x5
		LogDirectory:    getEnv("LOG_DIR", filepath.Join(".", "logs")),
	}
}

// Validate reports the first setting that would make the station misbehave.
func (c *Config) Validate() error {
	if c.TickInterval <= 0 {
		return fmt.Errorf("tick interval must be positive, got %s", c.TickInterval)
	}
	if c.CaptureInterval <= 0 {
		return fmt.Errorf("capture interval must be positive, got %s", c.CaptureInterval)
	}
	if c.ConfidenceThreshold <= 0 || c.ConfidenceThreshold > 1 {
		return fmt.Errorf("confidence threshold must be in (0, 1], got %.2f", c.ConfidenceThreshold)
	}
	if c.FacePadding < 0 {
		return fmt.Errorf("face padding must not be negative, got %d", c.FacePadding)
	}
	if c.BlurSigma <= 0 {
		return fmt.Errorf("blur sigma must be positive, got %.1f", c.BlurSigma)
	}
	if c.PageSize < 1 || c.GalleryPageSize < 1 {
		return fmt.Errorf("page sizes must be at least 1")
	}
	switch c.LogBackend {
	case BackendJSON, BackendSQLite:
	default:
		return fmt.Errorf("unknown log backend %q (want %q or %q)", c.LogBackend, BackendJSON, BackendSQLite)
	}
	return nil
}

// ModelPath joins a model file name onto the model directory.
func (c *Config) ModelPath(name string) string {
	return filepath.Join(c.ModelDirectory, name)
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
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsDuration reads an integer count of unit from key.
func getEnvAsDuration(key string, unit, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return time.Duration(intValue) * unit
		}
	}
	return defaultValue
}
