// pkg/config/env_config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Renderer names accepted by FLIGHTGL_RENDERER.
const (
	RendererTerminal = "terminal"
	RendererEngo     = "engo"
	RendererNull     = "null"
)

// EnvironmentConfig holds process-level settings read from the environment.
type EnvironmentConfig struct {
	Renderer   string
	HealthAddr string

	// AudioEnabled opens the system speaker for the hit sound.
	AudioEnabled bool
	// FrameStaleSeconds is how long the loop may go without a frame before
	// the readiness probe fails.
	FrameStaleSeconds float64

	AssetTimeout time.Duration
	AssetRetries int

	// Circuit Breaker Configuration
	CircuitBreakerMaxRequests         uint32
	CircuitBreakerInterval            time.Duration
	CircuitBreakerTimeout             time.Duration
	CircuitBreakerMaxConsecutiveFails uint32
}

// ValidationError reports an invalid configuration field.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field %s (value: %v): %s", e.Field, e.Value, e.Message)
}

// LoadConfigFromEnv reads EnvironmentConfig after loading an optional .env
// file from the working directory.
func LoadConfigFromEnv() (*EnvironmentConfig, error) {
	// A missing .env file is normal.
	_ = godotenv.Load()

	config := &EnvironmentConfig{
		Renderer:   strings.ToLower(getEnvOrDefault("FLIGHTGL_RENDERER", RendererTerminal)),
		HealthAddr: getEnvOrDefault("FLIGHTGL_HEALTH_ADDR", ""),

		AudioEnabled:      getEnvAsBoolOrDefault("FLIGHTGL_AUDIO", true),
		FrameStaleSeconds: getEnvAsFloatOrDefault("FLIGHTGL_FRAME_STALE_SECONDS", 5),

		AssetTimeout: getEnvAsDurationOrDefault("FLIGHTGL_ASSET_TIMEOUT", 30*time.Second),
		AssetRetries: getEnvAsIntOrDefault("FLIGHTGL_ASSET_RETRIES", 3),

		CircuitBreakerMaxRequests:         uint32(getEnvAsIntOrDefault("FLIGHTGL_BREAKER_MAX_REQUESTS", 3)),
		CircuitBreakerInterval:            getEnvAsDurationOrDefault("FLIGHTGL_BREAKER_INTERVAL", 60*time.Second),
		CircuitBreakerTimeout:             getEnvAsDurationOrDefault("FLIGHTGL_BREAKER_TIMEOUT", 30*time.Second),
		CircuitBreakerMaxConsecutiveFails: uint32(getEnvAsIntOrDefault("FLIGHTGL_BREAKER_MAX_CONSECUTIVE_FAILS", 5)),
	}

	if err := validateEnvironmentConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

func validateEnvironmentConfig(config *EnvironmentConfig) error {
	switch config.Renderer {
	case RendererTerminal, RendererEngo, RendererNull:
	default:
		return &ValidationError{Field: "Renderer", Value: config.Renderer, Message: "must be terminal, engo or null"}
	}
	if config.FrameStaleSeconds <= 0 {
		return &ValidationError{Field: "FrameStaleSeconds", Value: config.FrameStaleSeconds, Message: "must be positive"}
	}
	if config.AssetTimeout < 100*time.Millisecond {
		return &ValidationError{Field: "AssetTimeout", Value: config.AssetTimeout, Message: "must be at least 100ms"}
	}
	if config.AssetRetries < 0 || config.AssetRetries > 10 {
		return &ValidationError{Field: "AssetRetries", Value: config.AssetRetries, Message: "must be between 0 and 10"}
	}
	if config.CircuitBreakerMaxRequests < 1 {
		return &ValidationError{Field: "CircuitBreakerMaxRequests", Value: config.CircuitBreakerMaxRequests, Message: "must be at least 1"}
	}
	if config.CircuitBreakerInterval < time.Second {
		return &ValidationError{Field: "CircuitBreakerInterval", Value: config.CircuitBreakerInterval, Message: "must be at least 1s"}
	}
	if config.CircuitBreakerTimeout < time.Second {
		return &ValidationError{Field: "CircuitBreakerTimeout", Value: config.CircuitBreakerTimeout, Message: "must be at least 1s"}
	}
	if config.CircuitBreakerMaxConsecutiveFails < 1 {
		return &ValidationError{Field: "CircuitBreakerMaxConsecutiveFails", Value: config.CircuitBreakerMaxConsecutiveFails, Message: "must be at least 1"}
	}
	return nil
}

// ApplyEnvironmentOverrides maps FLIGHTGL_* tuning variables onto a file
// config, after loading an optional .env file. Unlike the process settings,
// an unparsable value is an error here.
func ApplyEnvironmentOverrides(config *FlightConfig) error {
	_ = godotenv.Load()

	if value := os.Getenv("FLIGHTGL_MAX_FPS"); value != "" {
		fps, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid FLIGHTGL_MAX_FPS: %w", err)
		}
		config.Loop.MaxFPS = fps
	}

	if value := os.Getenv("FLIGHTGL_MAX_STEPS"); value != "" {
		steps, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid FLIGHTGL_MAX_STEPS: %w", err)
		}
		config.Loop.MaxSteps = steps
	}

	if value := os.Getenv("FLIGHTGL_COLLISION_THRESHOLD"); value != "" {
		threshold, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid FLIGHTGL_COLLISION_THRESHOLD: %w", err)
		}
		config.Collision.Threshold = threshold
	}

	if value := os.Getenv("FLIGHTGL_ASTEROIDS"); value != "" {
		count, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid FLIGHTGL_ASTEROIDS: %w", err)
		}
		config.Environment.Asteroids = count
	}

	return config.Validate()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
