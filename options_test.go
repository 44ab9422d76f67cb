package constellation

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
iterations: 80
repulsion_strength: 0.75
max_radius: 3
default_position: {x: 0, y: 1.5, z: 0}
mood_window: 10m
`))
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal(80, cfg.Iterations)
	assert.Equal(0.75, cfg.RepulsionStrength)
	assert.Equal(3.0, cfg.MaxRadius)
	assert.Equal(&Vec3{Y: 1.5}, cfg.DefaultPosition)
	assert.Equal(10*time.Minute, cfg.MoodWindow)

	// Everything else falls back to the defaults.
	def := DefaultConfig()
	assert.Equal(def.AttractionStrength, cfg.AttractionStrength)
	assert.Equal(def.MinRadius, cfg.MinRadius)
	assert.Equal(def.StatsWindow, cfg.StatsWindow)
}

func TestParseConfigInvalid(t *testing.T) {
	for name, doc := range map[string]string{
		"syntax":          "iterations: [",
		"negative":        "iterations: -1",
		"radius band":     "min_radius: 2\nmax_radius: 1",
		"default outside": "default_position: {x: 5, y: 0, z: 0}",
		"repulsion":       "repulsion_strength: -0.5",
		"attraction":      "attraction_strength: -0.1",
		"similarity":      "similarity_threshold: -30",
		"damping":         "damping: -0.9",
		"connection":      "connection_threshold: -1",
		"connection dist": "connection_max_distance: -10",
		"connection dim":  "connection_dim: -0.3",
	} {
		_, err := ParseConfig([]byte(doc))
		assert.Error(t, err, name)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.yaml")
	require.NoError(t, os.WriteFile(path, []byte("similarity_threshold: 20\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 20.0, cfg.SimilarityThreshold)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestNewEngineRejectsNegativeStrengths(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RepulsionStrength = -0.5
	_, err := NewEngine(cfg, nil)
	assert.ErrorContains(t, err, "repulsion_strength")
}
