package core

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type ApplicationSection struct {
	// The application name used in windowing.
	Name string `toml:"name"`
	// The demo to start when none is given on the command line.
	Demo string `toml:"demo"`
	// Window starting position x axis.
	StartPosX uint32 `toml:"pos_x"`
	// Window starting position y axis.
	StartPosY uint32 `toml:"pos_y"`
	// Window starting width.
	StartWidth uint32 `toml:"width"`
	// Window starting height.
	StartHeight uint32 `toml:"height"`
	// Upper bound on the frame delta handed to the game, in seconds.
	MaxFrameSeconds float64 `toml:"max_frame_seconds"`
}

type AssetsSection struct {
	Root  string `toml:"root"`
	Watch bool   `toml:"watch"`
}

type CameraSection struct {
	// Units per second.
	Speed float32 `toml:"speed"`
	// Degrees per second.
	YawSpeed float32 `toml:"yaw_speed"`
}

type ProjectionSection struct {
	FOV  float32 `toml:"fov"`
	Near float32 `toml:"near"`
	Far  float32 `toml:"far"`
}

/**
 * @brief The full run-time configuration, usually decoded from config.toml.
 * Sections missing from the file keep the values of DefaultConfig.
 */
type Config struct {
	Application ApplicationSection `toml:"application"`
	Log         LogConfig          `toml:"log"`
	Assets      AssetsSection      `toml:"assets"`
	Camera      CameraSection      `toml:"camera"`
	Projection  ProjectionSection  `toml:"projection"`
}

func DefaultConfig() *Config {
	return &Config{
		Application: ApplicationSection{
			Name:            "Anima Scenes",
			Demo:            "hello_triangle",
			StartPosX:       100,
			StartPosY:       100,
			StartWidth:      640,
			StartHeight:     480,
			MaxFrameSeconds: 0.25,
		},
		Log: LogConfig{
			Level: "info",
			File:  "gl.log",
		},
		Assets: AssetsSection{
			Root:  "assets",
			Watch: true,
		},
		Camera: CameraSection{
			Speed:    1.0,
			YawSpeed: 10.0,
		},
		Projection: ProjectionSection{
			FOV:  67.0,
			Near: 0.1,
			Far:  100.0,
		},
	}
}

// ParseConfig decodes TOML data on top of the defaults and validates it.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Application.Name == "" {
		return fmt.Errorf("application name must not be empty: %w", ErrInvalidConfig)
	}
	if c.Application.StartWidth == 0 || c.Application.StartHeight == 0 {
		return fmt.Errorf("window size %dx%d: %w", c.Application.StartWidth, c.Application.StartHeight, ErrInvalidConfig)
	}
	if c.Application.MaxFrameSeconds <= 0 {
		return fmt.Errorf("max_frame_seconds must be positive: %w", ErrInvalidConfig)
	}
	if c.Assets.Root == "" {
		return fmt.Errorf("assets root must not be empty: %w", ErrInvalidConfig)
	}
	if c.Camera.Speed < 0 || c.Camera.YawSpeed < 0 {
		return fmt.Errorf("camera speeds must not be negative: %w", ErrInvalidConfig)
	}
	p := c.Projection
	if p.FOV <= 0 || p.FOV >= 180 || p.Near <= 0 || p.Far <= p.Near {
		return fmt.Errorf("projection fov=%g near=%g far=%g: %w", p.FOV, p.Near, p.Far, ErrInvalidConfig)
	}
	return nil
}
