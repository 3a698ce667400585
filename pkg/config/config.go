// Package config loads server settings from an optional YAML file, a .env
// file and environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/chazu/sketch/pkg/engine"
	"github.com/chazu/sketch/pkg/flatten"
	"github.com/chazu/sketch/pkg/snap"
	"github.com/chazu/sketch/pkg/solver"
	"github.com/chazu/sketch/pkg/viewport"
)

type Config struct {
	Solver struct {
		Iterations int `yaml:"iterations"`
	} `yaml:"solver"`
	Snap struct {
		JointPx          float64 `yaml:"joint_px"`
		InferenceJointPx float64 `yaml:"inference_joint_px"`
		LinePx           float64 `yaml:"line_px"`
		HitJointPx       float64 `yaml:"hit_joint_px"`
		HitLinePx        float64 `yaml:"hit_line_px"`
		HitCirclePx      float64 `yaml:"hit_circle_px"`
	} `yaml:"snap"`
	Viewport struct {
		Width       float64 `yaml:"width"` // model units
		Height      float64 `yaml:"height"`
		PixelWidth  float64 `yaml:"pixel_width"`
		PixelHeight float64 `yaml:"pixel_height"`
	} `yaml:"viewport"`
	Engine struct {
		Timeout      time.Duration `yaml:"timeout"`
		AutoCoincide *bool         `yaml:"auto_coincide"`
	} `yaml:"engine"`
	Export struct {
		CircleSegments int `yaml:"circle_segments"`
		PNGWidth       int `yaml:"png_width"`
		PNGHeight      int `yaml:"png_height"`
	} `yaml:"export"`
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Store struct {
		Path string `yaml:"path"`
	} `yaml:"store"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Load builds a Config. A missing path or file yields defaults; a file that
// exists but does not parse is an error.
func Load(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	// 2. Load YAML config
	var cfg Config
	if path != "" {
		file, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(file, &cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	cfg.applyDefaults()

	// 3. Override with Environment Variables if present
	cfg.applyEnv()
	return &cfg, nil
}

// Default returns a Config holding only defaults.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func (c *Config) applyDefaults() {
	tol := snap.DefaultTolerances()
	setInt(&c.Solver.Iterations, solver.DefaultIterations)
	setFloat(&c.Snap.JointPx, tol.Joint)
	setFloat(&c.Snap.InferenceJointPx, tol.InferenceJoint)
	setFloat(&c.Snap.LinePx, tol.Line)
	setFloat(&c.Snap.HitJointPx, tol.HitJoint)
	setFloat(&c.Snap.HitLinePx, tol.HitLine)
	setFloat(&c.Snap.HitCirclePx, tol.HitCircle)
	setFloat(&c.Viewport.Width, 1200)
	setFloat(&c.Viewport.Height, 800)
	setFloat(&c.Viewport.PixelWidth, 1200)
	setFloat(&c.Viewport.PixelHeight, 800)
	if c.Engine.Timeout <= 0 {
		c.Engine.Timeout = engine.EvalTimeout
	}
	if c.Engine.AutoCoincide == nil {
		on := true
		c.Engine.AutoCoincide = &on
	}
	setInt(&c.Export.CircleSegments, flatten.DefaultCircleSegments)
	setInt(&c.Export.PNGWidth, 800)
	setInt(&c.Export.PNGHeight, 600)
	if c.Server.Port == "" {
		c.Server.Port = "3000"
	}
	if c.Store.Path == "" {
		c.Store.Path = "data/sketches.db"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv("SKETCH_SOLVER_ITERATIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Solver.Iterations = n
		}
	}
	if v := os.Getenv("SKETCH_EVAL_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.Engine.Timeout = d
		}
	}
	if port := os.Getenv("PORT"); port != "" {
		c.Server.Port = port
	}
	if p := os.Getenv("SKETCH_DB_PATH"); p != "" {
		c.Store.Path = p
	}
	if level := os.Getenv("SKETCH_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
}

func setInt(v *int, def int) {
	if *v <= 0 {
		*v = def
	}
}

func setFloat(v *float64, def float64) {
	if *v <= 0 {
		*v = def
	}
}

// Tolerances returns the snap and hit-test radii in device pixels.
func (c *Config) Tolerances() snap.Tolerances {
	return snap.Tolerances{
		Joint:          c.Snap.JointPx,
		InferenceJoint: c.Snap.InferenceJointPx,
		Line:           c.Snap.LinePx,
		HitJoint:       c.Snap.HitJointPx,
		HitLine:        c.Snap.HitLinePx,
		HitCircle:      c.Snap.HitCirclePx,
	}
}

// NewViewport builds the default model-to-device mapping, with the model
// origin at the center of the pixel area.
func (c *Config) NewViewport() (*viewport.Viewport, error) {
	return viewport.New(
		viewport.Rect{W: c.Viewport.Width, H: c.Viewport.Height},
		c.Viewport.PixelWidth, c.Viewport.PixelHeight,
	)
}

// EngineOptions returns the script engine settings.
func (c *Config) EngineOptions() []engine.Option {
	return []engine.Option{
		engine.WithTimeout(c.Engine.Timeout),
		engine.WithAutoCoincide(*c.Engine.AutoCoincide),
	}
}

// LogLevel parses Log.Level, falling back to info.
func (c *Config) LogLevel() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(c.Log.Level))); err != nil {
		return slog.LevelInfo
	}
	return l
}
