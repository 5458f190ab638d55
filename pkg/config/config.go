// pkg/config/config.go
package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// FlightConfig contains configuration for a flight session
type FlightConfig struct {
	Loop        LoopConfig        `json:"loop"`
	Physics     PhysicsConfig     `json:"physics"`
	Collision   CollisionConfig   `json:"collision"`
	Environment EnvironmentLayout `json:"environment"`
	Camera      CameraConfig      `json:"camera"`
	Assets      AssetsConfig      `json:"assets"`
}

// LoopConfig contains fixed-timestep loop settings
type LoopConfig struct {
	TimestepMs float64 `json:"timestepMs"`
	MaxFPS     float64 `json:"maxFps"`
	MaxSteps   int     `json:"maxSteps"`
}

// PhysicsConfig contains flight integrator constants
type PhysicsConfig struct {
	Drag             float64 `json:"drag"`
	MinVelocity      float64 `json:"minVelocity"`
	MaxVelocity      float64 `json:"maxVelocity"`
	ModelMaxRotation float64 `json:"modelMaxRotation"`
	ThrustStep       float64 `json:"thrustStep"`
}

// CollisionConfig contains ray-cast detector settings
type CollisionConfig struct {
	Threshold   float64 `json:"threshold"`
	HitVolume   float64 `json:"hitVolume"`
	DoubleSided bool    `json:"doubleSided"`
}

// EnvironmentLayout describes the obstacle field
type EnvironmentLayout struct {
	Asteroids              int     `json:"asteroids"`
	Planets                int     `json:"planets"`
	Radius                 float64 `json:"radius"`
	RecycleBatch           int     `json:"recycleBatch"`
	PlanetRadiusMultiplier float64 `json:"planetRadiusMultiplier"`
	Seed                   uint64  `json:"seed"`
}

// CameraConfig contains camera rig settings
type CameraConfig struct {
	FOV                float64 `json:"fov"`
	Near               float64 `json:"near"`
	Far                float64 `json:"far"`
	Distance           float64 `json:"distance"`
	DistanceMultiplier float64 `json:"distanceMultiplier"`
	YawIntensity       float64 `json:"yawIntensity"`
	RollIntensity      float64 `json:"rollIntensity"`
	PitchIntensity     float64 `json:"pitchIntensity"`
	OnAxisYaw          float64 `json:"onAxisYawIntensity"`
	OnAxisPitch        float64 `json:"onAxisPitchIntensity"`
	OnAxisRoll         float64 `json:"onAxisRollIntensity"`
}

// AssetsConfig names the assets that must load before the loop starts.
// Sources are file paths or http(s) URLs.
type AssetsConfig struct {
	HitSound   string  `json:"hitSound"`
	ShipModel  string  `json:"shipModel"`
	HitBoxSize float64 `json:"hitBoxSize"`
}

// LoadConfig loads a configuration from a file
func LoadConfig(path string) (*FlightConfig, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}

	return config, nil
}

// SaveConfig saves a configuration to a file
func SaveConfig(config *FlightConfig, path string) error {
	if config == nil {
		return fmt.Errorf("config is nil")
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks the values the hot path relies on.
func (c *FlightConfig) Validate() error {
	if c.Loop.TimestepMs <= 0 {
		return &ValidationError{Field: "Loop.TimestepMs", Value: c.Loop.TimestepMs, Message: "must be positive"}
	}
	if c.Loop.MaxFPS <= 0 {
		return &ValidationError{Field: "Loop.MaxFPS", Value: c.Loop.MaxFPS, Message: "must be positive"}
	}
	if c.Loop.MaxSteps <= 0 {
		return &ValidationError{Field: "Loop.MaxSteps", Value: c.Loop.MaxSteps, Message: "must be positive"}
	}
	if c.Physics.MinVelocity > c.Physics.MaxVelocity {
		return &ValidationError{Field: "Physics.MinVelocity", Value: c.Physics.MinVelocity, Message: "must not exceed maxVelocity"}
	}
	if c.Collision.Threshold < 0 {
		return &ValidationError{Field: "Collision.Threshold", Value: c.Collision.Threshold, Message: "must not be negative"}
	}
	if c.Environment.Asteroids < 0 || c.Environment.Planets < 0 {
		return &ValidationError{Field: "Environment", Value: c.Environment.Asteroids, Message: "obstacle counts must not be negative"}
	}
	if c.Environment.Radius <= 0 {
		return &ValidationError{Field: "Environment.Radius", Value: c.Environment.Radius, Message: "must be positive"}
	}
	return nil
}

// DefaultConfig returns the default flight configuration
func DefaultConfig() *FlightConfig {
	return &FlightConfig{
		Loop: LoopConfig{
			TimestepMs: 1000.0 / 60.0,
			MaxFPS:     60,
			MaxSteps:   240,
		},
		Physics: PhysicsConfig{
			Drag:             0.8,
			MinVelocity:      -100,
			MaxVelocity:      -1,
			ModelMaxRotation: 15.0 / 360.0,
			ThrustStep:       10,
		},
		Collision: CollisionConfig{
			Threshold:   1000,
			HitVolume:   0.5,
			DoubleSided: false,
		},
		Environment: EnvironmentLayout{
			Asteroids:              1000,
			Planets:                6,
			Radius:                 16000,
			RecycleBatch:           5,
			PlanetRadiusMultiplier: 3.5,
		},
		Camera: CameraConfig{
			FOV:                60,
			Near:               0.1,
			Far:                100000,
			Distance:           -250,
			DistanceMultiplier: 100,
			YawIntensity:       1,
			RollIntensity:      2,
			PitchIntensity:     3,
			OnAxisYaw:          15,
			OnAxisPitch:        30,
			OnAxisRoll:         30,
		},
		Assets: AssetsConfig{
			HitSound:   "assets/sounds/explosion.ogg",
			ShipModel:  "assets/models/ship.json",
			HitBoxSize: 100,
		},
	}
}
