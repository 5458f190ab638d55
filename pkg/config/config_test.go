// pkg/config/config_test.go
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config == nil {
		t.Fatal("DefaultConfig returned nil")
	}

	if config.Loop.MaxFPS != 60 {
		t.Errorf("Expected MaxFPS 60, got %f", config.Loop.MaxFPS)
	}
	if config.Loop.MaxSteps != 240 {
		t.Errorf("Expected MaxSteps 240, got %d", config.Loop.MaxSteps)
	}
	if config.Loop.TimestepMs != 1000.0/60.0 {
		t.Errorf("Expected TimestepMs 1000/60, got %f", config.Loop.TimestepMs)
	}
	if config.Physics.Drag != 0.8 {
		t.Errorf("Expected Drag 0.8, got %f", config.Physics.Drag)
	}
	if config.Physics.MinVelocity != -100 || config.Physics.MaxVelocity != -1 {
		t.Errorf("Expected velocity range [-100, -1], got [%f, %f]", config.Physics.MinVelocity, config.Physics.MaxVelocity)
	}
	if config.Collision.Threshold != 1000 {
		t.Errorf("Expected Threshold 1000, got %f", config.Collision.Threshold)
	}
	if config.Environment.Asteroids != 1000 || config.Environment.Planets != 6 {
		t.Errorf("Expected 1000 asteroids and 6 planets, got %d and %d", config.Environment.Asteroids, config.Environment.Planets)
	}
	if config.Camera.FOV != 60 {
		t.Errorf("Expected FOV 60, got %f", config.Camera.FOV)
	}

	if err := config.Validate(); err != nil {
		t.Errorf("DefaultConfig should validate, got %v", err)
	}
}

func TestLoadConfig_Success(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "flight.json")

	testConfig := DefaultConfig()
	testConfig.Loop.MaxFPS = 30
	testConfig.Collision.DoubleSided = true
	testConfig.Environment.Seed = 42
	testConfig.Assets.HitSound = "https://example.com/hit.ogg"

	data, err := json.Marshal(testConfig)
	if err != nil {
		t.Fatalf("Failed to marshal test config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}

	loadedConfig, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if loadedConfig.Loop.MaxFPS != 30 {
		t.Errorf("Expected MaxFPS 30, got %f", loadedConfig.Loop.MaxFPS)
	}
	if !loadedConfig.Collision.DoubleSided {
		t.Error("Expected DoubleSided true")
	}
	if loadedConfig.Environment.Seed != 42 {
		t.Errorf("Expected Seed 42, got %d", loadedConfig.Environment.Seed)
	}
	if loadedConfig.Assets.HitSound != testConfig.Assets.HitSound {
		t.Errorf("Expected HitSound %q, got %q", testConfig.Assets.HitSound, loadedConfig.Assets.HitSound)
	}
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "partial.json")
	if err := os.WriteFile(configPath, []byte(`{"loop": {"maxFps": 120}}`), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if config.Loop.MaxFPS != 120 {
		t.Errorf("Expected MaxFPS 120, got %f", config.Loop.MaxFPS)
	}
	if config.Loop.MaxSteps != 240 {
		t.Errorf("Expected default MaxSteps 240, got %d", config.Loop.MaxSteps)
	}
	if config.Physics.Drag != 0.8 {
		t.Errorf("Expected default Drag 0.8, got %f", config.Physics.Drag)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	tempDir := t.TempDir()

	invalidJSON := filepath.Join(tempDir, "invalid.json")
	if err := os.WriteFile(invalidJSON, []byte(`{"loop": {"maxFps": 60}, invalid}`), 0o644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	invalidValues := filepath.Join(tempDir, "values.json")
	if err := os.WriteFile(invalidValues, []byte(`{"loop": {"maxSteps": 0}}`), 0o644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	tests := []struct {
		name     string
		path     string
		contains string
	}{
		{"file not found", "/path/that/does/not/exist/config.json", "failed to open config file"},
		{"invalid json", invalidJSON, "failed to parse config file"},
		{"invalid values", invalidValues, "invalid config file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadConfig(tt.path)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if config != nil {
				t.Error("Expected nil config on error")
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("Expected error to contain %q, got %q", tt.contains, err.Error())
			}
		})
	}
}

func TestSaveConfig(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "saved.json")
		config := DefaultConfig()
		config.Environment.Radius = 8000

		if err := SaveConfig(config, configPath); err != nil {
			t.Fatalf("SaveConfig failed: %v", err)
		}

		loaded, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if loaded.Environment.Radius != 8000 {
			t.Errorf("Expected Radius 8000, got %f", loaded.Environment.Radius)
		}
	})

	t.Run("invalid path", func(t *testing.T) {
		err := SaveConfig(DefaultConfig(), "/nonexistent/directory/config.json")
		if err == nil {
			t.Error("Expected error when saving to invalid path")
		}
	})

	t.Run("nil config", func(t *testing.T) {
		err := SaveConfig(nil, filepath.Join(t.TempDir(), "nil.json"))
		if err == nil {
			t.Error("Expected error when saving nil config")
		}
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(c *FlightConfig)
		errorField string
	}{
		{"valid", func(c *FlightConfig) {}, ""},
		{"zero timestep", func(c *FlightConfig) { c.Loop.TimestepMs = 0 }, "Loop.TimestepMs"},
		{"negative max fps", func(c *FlightConfig) { c.Loop.MaxFPS = -1 }, "Loop.MaxFPS"},
		{"zero max steps", func(c *FlightConfig) { c.Loop.MaxSteps = 0 }, "Loop.MaxSteps"},
		{"inverted velocity bounds", func(c *FlightConfig) { c.Physics.MinVelocity = 0 }, "Physics.MinVelocity"},
		{"negative threshold", func(c *FlightConfig) { c.Collision.Threshold = -1 }, "Collision.Threshold"},
		{"negative asteroids", func(c *FlightConfig) { c.Environment.Asteroids = -5 }, "Environment"},
		{"zero radius", func(c *FlightConfig) { c.Environment.Radius = 0 }, "Environment.Radius"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)
			err := config.Validate()

			if tt.errorField == "" {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}

			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("Expected ValidationError, got %T: %v", err, err)
			}
			if validationErr.Field != tt.errorField {
				t.Errorf("Expected error for field %q, got %q", tt.errorField, validationErr.Field)
			}
		})
	}
}
