package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/gridpath.yaml
var defaultYAML []byte

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return append([]byte(nil), defaultYAML...)
}

// Default returns the hardcoded default configuration.
func Default() Config {
	return Config{
		Grid: GridConfig{
			ThresholdMode: "fixed",
			AdaptiveBlock: 11,
			Interpolation: "bilinear",
			TargetSize:    Size{Rows: 100, Cols: 100},
		},
		Generator: GeneratorConfig{
			Name:            "random",
			WallProbability: 0.25,
			Size:            Size{Rows: 30, Cols: 60},
		},
		Search: SearchConfig{
			Budget:                50,
			ExpansionConnectivity: 8,
			Parallel:              4,
		},
		Log: LogConfig{
			Level: "info",
		},
		Storage: StorageConfig{
			Path:    "~/.gridpath/history.db",
			Enabled: true,
		},
		Server: ServerConfig{
			Address:     ":23235",
			IdleTimeout: 30 * time.Minute,
			MaxSessions: 16,
		},
		Watch: WatchConfig{
			FPS:           30,
			StepsPerFrame: 1,
		},
	}
}
