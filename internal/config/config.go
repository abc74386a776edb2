// Package config provides YAML-based configuration loading and validation
// for grid building, generation, search and the surrounding services.
package config

import (
	"fmt"
	"math"
	"time"

	"github.com/vovakirdan/gridpath/internal/gridbuild"
	"github.com/vovakirdan/gridpath/internal/locate"
	"github.com/vovakirdan/gridpath/internal/registry"
)

// Config is the full application configuration.
type Config struct {
	Grid      GridConfig      `yaml:"grid"`
	Generator GeneratorConfig `yaml:"generator"`
	Search    SearchConfig    `yaml:"search"`
	Log       LogConfig       `yaml:"log"`
	Storage   StorageConfig   `yaml:"storage"`
	Server    ServerConfig    `yaml:"server"`
	Watch     WatchConfig     `yaml:"watch"`
}

// Size is a rows x cols pair.
type Size struct {
	Rows int `yaml:"rows"`
	Cols int `yaml:"cols"`
}

// GridConfig controls image binarization.
type GridConfig struct {
	ThresholdMode  string `yaml:"threshold_mode"` // fixed | adaptive
	ThresholdValue *int   `yaml:"threshold_value,omitempty"` // nil: per-mode default
	AdaptiveBlock  int    `yaml:"adaptive_block"`
	Invert         bool   `yaml:"invert"`
	NoiseCleanup   bool   `yaml:"noise_cleanup"`
	Interpolation  string `yaml:"interpolation"` // nearest | bilinear
	TargetSize     Size   `yaml:"target_size"`
}

// GeneratorConfig controls procedural grids.
type GeneratorConfig struct {
	Name            string        `yaml:"name"`
	WallProbability float64       `yaml:"wall_probability"`
	Density         DensityPreset `yaml:"density"` // overrides wall_probability when set
	RandomSeed      *int64        `yaml:"random_seed"`
	Size            Size          `yaml:"size"`
	Loops           int           `yaml:"loops"` // extra openings for maze
}

// SearchConfig controls the locator and the pathfinder.
type SearchConfig struct {
	Budget                int `yaml:"budget"`
	ExpansionConnectivity int `yaml:"expansion_connectivity"`
	StepLimit             int `yaml:"step_limit"` // 0 = unlimited
	Parallel              int `yaml:"parallel"`   // batch workers
}

// LogConfig controls the logger.
type LogConfig struct {
	Level string `yaml:"level"`
}

// StorageConfig controls the solve history database.
type StorageConfig struct {
	Path    string `yaml:"path"`
	Enabled bool   `yaml:"enabled"`
}

// ServerConfig controls the SSH server.
type ServerConfig struct {
	Address        string        `yaml:"address"`
	HostKeyPath    string        `yaml:"host_key_path"`
	IdleTimeout    time.Duration `yaml:"idle_timeout"`
	MaxSessions    int           `yaml:"max_sessions"`
	MetricsAddress string        `yaml:"metrics_address"` // empty disables /metrics
}

// WatchConfig controls the search animation.
type WatchConfig struct {
	FPS           int `yaml:"fps"`
	StepsPerFrame int `yaml:"steps_per_frame"`
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	switch gridbuild.ThresholdMode(c.Grid.ThresholdMode) {
	case gridbuild.ThresholdFixed, gridbuild.ThresholdAdaptive:
	default:
		return fmt.Errorf("config: grid.threshold_mode must be fixed or adaptive, got %q", c.Grid.ThresholdMode)
	}
	switch gridbuild.Interpolation(c.Grid.Interpolation) {
	case "", gridbuild.InterpolationNearest, gridbuild.InterpolationBilinear:
	default:
		return fmt.Errorf("config: grid.interpolation must be nearest or bilinear, got %q", c.Grid.Interpolation)
	}
	if c.Grid.TargetSize.Rows < 0 || c.Grid.TargetSize.Cols < 0 {
		return fmt.Errorf("config: grid.target_size must not be negative")
	}
	if p := c.Generator.WallProbability; math.IsNaN(p) || p < 0 || p > 1 {
		return fmt.Errorf("config: generator.wall_probability must be in [0,1], got %v", p)
	}
	if c.Generator.Density != "" && !c.Generator.Density.Valid() {
		return fmt.Errorf("config: unknown generator.density %q", c.Generator.Density)
	}
	if c.Generator.Name != "" && !registry.Exists(c.Generator.Name) {
		return fmt.Errorf("config: unknown generator.name %q", c.Generator.Name)
	}
	if c.Generator.Size.Rows <= 0 || c.Generator.Size.Cols <= 0 {
		return fmt.Errorf("config: generator.size must be positive")
	}
	if c.Search.Budget <= 0 {
		return fmt.Errorf("config: search.budget must be positive, got %d", c.Search.Budget)
	}
	if _, err := locate.ParseConnectivity(c.Search.ExpansionConnectivity); err != nil {
		return fmt.Errorf("config: search.expansion_connectivity: %w", err)
	}
	if c.Search.StepLimit < 0 {
		return fmt.Errorf("config: search.step_limit must not be negative")
	}
	if c.Watch.FPS <= 0 {
		return fmt.Errorf("config: watch.fps must be positive")
	}
	return nil
}

// Threshold returns the configured threshold value, or the default of the
// configured mode when threshold_value is unset.
func (c Config) Threshold() int {
	if c.Grid.ThresholdValue != nil {
		return *c.Grid.ThresholdValue
	}
	return gridbuild.DefaultThreshold(gridbuild.ThresholdMode(c.Grid.ThresholdMode))
}

// ImageOptions converts the grid section into binarization options.
func (c Config) ImageOptions() gridbuild.Options {
	return gridbuild.Options{
		Rows:           c.Grid.TargetSize.Rows,
		Cols:           c.Grid.TargetSize.Cols,
		Mode:           gridbuild.ThresholdMode(c.Grid.ThresholdMode),
		ThresholdValue: c.Threshold(),
		AdaptiveBlock:  c.Grid.AdaptiveBlock,
		Invert:         c.Grid.Invert,
		NoiseCleanup:   c.Grid.NoiseCleanup,
		Interpolation:  gridbuild.Interpolation(c.Grid.Interpolation),
	}
}

// LocateOptions converts the search section into locator options.
// Validate guarantees the connectivity is 4 or 8.
func (c Config) LocateOptions() locate.Options {
	conn, err := locate.ParseConnectivity(c.Search.ExpansionConnectivity)
	if err != nil {
		conn = locate.Eight
	}
	return locate.Options{Budget: c.Search.Budget, Connectivity: conn}
}

// WallProbability returns the density preset's probability when one is set,
// otherwise the explicit probability.
func (c Config) WallProbability() float64 {
	if c.Generator.Density != "" {
		return WallProbabilityForPreset(c.Generator.Density)
	}
	return c.Generator.WallProbability
}

// GeneratorParams converts the generator section into source parameters.
func (c Config) GeneratorParams(seed int64) registry.Params {
	return registry.Params{
		Rows:            c.Generator.Size.Rows,
		Cols:            c.Generator.Size.Cols,
		WallProbability: c.WallProbability(),
		Seed:            seed,
		Loops:           c.Generator.Loops,
	}
}
