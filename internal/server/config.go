package server

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/esimov/ciya"
	"github.com/esimov/ciya/internal/logger"
	"github.com/joho/godotenv"
)

// Config holds the service settings read from the environment.
type Config struct {
	Port    string `validate:"required,numeric"`
	GinMode string `validate:"oneof=debug release test"`

	FaceCascade   string `validate:"required,file"`
	PuplocCascade string `validate:"required,file"`
	LandmarkDir   string `validate:"required,dir"`
	// Sprite is an optional custom overlay.
	Sprite string `validate:"omitempty,file"`

	// RateLimit is the number of requests per second allowed for an IP.
	RateLimit     float64  `validate:"gt=0"`
	MaxUploadSize int64    `validate:"gt=0"`
	MaxImageSize  int      `validate:"gt=0"`
	AllowOrigins  []string `validate:"dive,url"`
}

// LoadConfig reads the configuration from the environment, after loading
// the provided .env files (or ./.env when none is given).
func LoadConfig(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil {
		logger.Info("error loading env variables", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
	}

	cfg := Config{
		Port:          getEnv("PORT", "8080"),
		GinMode:       getEnv("GIN_MODE", "release"),
		FaceCascade:   os.Getenv("CIYA_FACE_CASCADE"),
		PuplocCascade: os.Getenv("CIYA_PUPLOC_CASCADE"),
		LandmarkDir:   os.Getenv("CIYA_LANDMARK_DIR"),
		Sprite:        os.Getenv("CIYA_SPRITE"),
	}
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowOrigins = append(cfg.AllowOrigins, o)
			}
		}
	}

	var err error
	if cfg.RateLimit, err = strconv.ParseFloat(getEnv("RATE_LIMIT", "5"), 64); err != nil {
		return cfg, fmt.Errorf("invalid RATE_LIMIT: %w", err)
	}
	if cfg.MaxUploadSize, err = strconv.ParseInt(getEnv("MAX_UPLOAD_SIZE", strconv.Itoa(15<<20)), 10, 64); err != nil {
		return cfg, fmt.Errorf("invalid MAX_UPLOAD_SIZE: %w", err)
	}
	if cfg.MaxImageSize, err = strconv.Atoi(getEnv("MAX_IMAGE_SIZE", strconv.Itoa(ciya.MaxImageSize))); err != nil {
		return cfg, fmt.Errorf("invalid MAX_IMAGE_SIZE: %w", err)
	}

	if errs := validateStruct(cfg); errs != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", errs[0])
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
