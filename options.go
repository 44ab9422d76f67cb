package constellation

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the tunables for layout, connections and statistics.
// Zero fields are filled from DefaultConfig by WithDefaults.
type Config struct {
	// Layout
	Iterations          int     `yaml:"iterations" json:"iterations"`
	InitialSpread       float64 `yaml:"initial_spread" json:"initial_spread"`
	RepulsionStrength   float64 `yaml:"repulsion_strength" json:"repulsion_strength"`
	AttractionStrength  float64 `yaml:"attraction_strength" json:"attraction_strength"`
	SimilarityThreshold float64 `yaml:"similarity_threshold" json:"similarity_threshold"`
	Damping             float64 `yaml:"damping" json:"damping"`
	Epsilon             float64 `yaml:"epsilon" json:"epsilon"`
	MinRadius           float64 `yaml:"min_radius" json:"min_radius"`
	MaxRadius           float64 `yaml:"max_radius" json:"max_radius"`
	DefaultPosition     *Vec3   `yaml:"default_position,omitempty" json:"default_position,omitempty"`

	// Connections
	ConnectionThreshold   float64 `yaml:"connection_threshold" json:"connection_threshold"`
	ConnectionMaxDistance float64 `yaml:"connection_max_distance" json:"connection_max_distance"`
	ConnectionDim         float64 `yaml:"connection_dim" json:"connection_dim"`

	// Statistics
	StatsWindow time.Duration `yaml:"stats_window" json:"stats_window"`
	MoodWindow  time.Duration `yaml:"mood_window" json:"mood_window"`
}

// DefaultConfig returns the stock layout parameters.
func DefaultConfig() Config {
	return Config{
		Iterations:          50,
		InitialSpread:       4,
		RepulsionStrength:   0.5,
		AttractionStrength:  0.1,
		SimilarityThreshold: 30,
		Damping:             0.9,
		Epsilon:             0.1,
		MinRadius:           0.5,
		MaxRadius:           2.0,
		DefaultPosition:     &Vec3{Z: 1},

		ConnectionThreshold:   40,
		ConnectionMaxDistance: 10,
		ConnectionDim:         0.3,

		StatsWindow: 24 * time.Hour,
		MoodWindow:  5 * time.Minute,
	}
}

// WithDefaults returns a copy of cfg with every zero field replaced by its
// default.
func (cfg Config) WithDefaults() Config {
	def := DefaultConfig()
	if cfg.Iterations == 0 {
		cfg.Iterations = def.Iterations
	}
	if cfg.InitialSpread == 0 {
		cfg.InitialSpread = def.InitialSpread
	}
	if cfg.RepulsionStrength == 0 {
		cfg.RepulsionStrength = def.RepulsionStrength
	}
	if cfg.AttractionStrength == 0 {
		cfg.AttractionStrength = def.AttractionStrength
	}
	if cfg.SimilarityThreshold == 0 {
		cfg.SimilarityThreshold = def.SimilarityThreshold
	}
	if cfg.Damping == 0 {
		cfg.Damping = def.Damping
	}
	if cfg.Epsilon == 0 {
		cfg.Epsilon = def.Epsilon
	}
	if cfg.MinRadius == 0 {
		cfg.MinRadius = def.MinRadius
	}
	if cfg.MaxRadius == 0 {
		cfg.MaxRadius = def.MaxRadius
	}
	if cfg.DefaultPosition == nil {
		cfg.DefaultPosition = def.DefaultPosition
	}
	if cfg.ConnectionThreshold == 0 {
		cfg.ConnectionThreshold = def.ConnectionThreshold
	}
	if cfg.ConnectionMaxDistance == 0 {
		cfg.ConnectionMaxDistance = def.ConnectionMaxDistance
	}
	if cfg.ConnectionDim == 0 {
		cfg.ConnectionDim = def.ConnectionDim
	}
	if cfg.StatsWindow == 0 {
		cfg.StatsWindow = def.StatsWindow
	}
	if cfg.MoodWindow == 0 {
		cfg.MoodWindow = def.MoodWindow
	}
	return cfg
}

// Validate ...
func (cfg Config) Validate() error {
	if cfg.Iterations < 0 {
		return fmt.Errorf("iterations must be >= 0, got %v", cfg.Iterations)
	}
	if cfg.InitialSpread <= 0 {
		return fmt.Errorf("initial_spread must be > 0, got %v", cfg.InitialSpread)
	}
	for _, p := range []struct {
		name  string
		value float64
	}{
		{"repulsion_strength", cfg.RepulsionStrength},
		{"attraction_strength", cfg.AttractionStrength},
		{"similarity_threshold", cfg.SimilarityThreshold},
		{"damping", cfg.Damping},
		{"connection_threshold", cfg.ConnectionThreshold},
		{"connection_max_distance", cfg.ConnectionMaxDistance},
		{"connection_dim", cfg.ConnectionDim},
	} {
		if p.value <= 0 {
			return fmt.Errorf("%s must be > 0, got %v", p.name, p.value)
		}
	}
	if cfg.Epsilon <= 0 {
		return fmt.Errorf("epsilon must be > 0, got %v", cfg.Epsilon)
	}
	if cfg.MinRadius <= 0 || cfg.MaxRadius < cfg.MinRadius {
		return fmt.Errorf("radius band [%v, %v] is invalid", cfg.MinRadius, cfg.MaxRadius)
	}
	if cfg.DefaultPosition != nil {
		if l := cfg.DefaultPosition.Len(); l < cfg.MinRadius || l > cfg.MaxRadius {
			return fmt.Errorf("default_position radius %v outside [%v, %v]", l, cfg.MinRadius, cfg.MaxRadius)
		}
	}
	if cfg.StatsWindow < 0 || cfg.MoodWindow < 0 {
		return fmt.Errorf("statistics windows must not be negative")
	}
	return nil
}

// LoadConfig reads a YAML config file. Missing keys keep their defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig ...
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
