package config

// DensityPreset names a wall density for procedural grids.
type DensityPreset string

const (
	DensitySparse DensityPreset = "sparse"
	DensityNormal DensityPreset = "normal"
	DensityDense  DensityPreset = "dense"
)

// Valid reports whether p is a known preset.
func (p DensityPreset) Valid() bool {
	switch p {
	case DensitySparse, DensityNormal, DensityDense:
		return true
	default:
		return false
	}
}

// WallProbabilityForPreset returns the wall probability for a density preset.
func WallProbabilityForPreset(preset DensityPreset) float64 {
	switch preset {
	case DensitySparse:
		return 0.15
	case DensityDense:
		return 0.35
	default:
		return 0.25
	}
}

// ApplyDensityPreset pins the generator to a preset's probability.
func ApplyDensityPreset(cfg *Config, preset DensityPreset) {
	cfg.Generator.Density = preset
	cfg.Generator.WallProbability = WallProbabilityForPreset(preset)
}
