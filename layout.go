package constellation

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

// Node is an active bucket as seen by the layout: its id and the average
// value of its members.
type Node struct {
	ID      int
	Average float64
}

// Engine places active buckets in 3D with a force-directed relaxation.
// An Engine owns its random source and is not safe for concurrent use.
type Engine struct {
	cfg Config
	rng *rand.Rand
}

// NewEngine returns an engine using cfg (zero fields take defaults) and
// rng for initial placement. A nil rng is seeded from the clock.
func NewEngine(cfg Config, rng *rand.Rand) (*Engine, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{cfg: cfg, rng: rng}, nil
}

// NewDefaultEngine ...
func NewDefaultEngine() *Engine {
	eng, err := NewEngine(DefaultConfig(), nil)
	if err != nil {
		panic(err)
	}
	return eng
}

// Config returns the effective configuration.
func (eng *Engine) Config() Config {
	return eng.cfg
}

// Layout returns one position per node, keyed by node id. Zero nodes give
// an empty map and a single node sits at the default position without
// iterating. Duplicate ids are rejected.
func (eng *Engine) Layout(nodes []Node) (map[int]Vec3, error) {
	seen := make(map[int]bool, len(nodes))
	for _, n := range nodes {
		if seen[n.ID] {
			return nil, fmt.Errorf("duplicate node id: %v", n.ID)
		}
		seen[n.ID] = true
	}

	out := make(map[int]Vec3, len(nodes))
	switch len(nodes) {
	case 0:
		return out, nil
	case 1:
		out[nodes[0].ID] = *eng.cfg.DefaultPosition
		return out, nil
	}

	positions := eng.relax(nodes)
	for i, n := range nodes {
		out[n.ID] = positions[i]
	}
	return out, nil
}

// relax runs the force iterations over positions indexed like nodes.
func (eng *Engine) relax(nodes []Node) []Vec3 {
	cfg := eng.cfg
	positions := make([]Vec3, len(nodes))
	for i := range positions {
		positions[i] = Vec3{
			X: (eng.rng.Float64() - 0.5) * cfg.InitialSpread,
			Y: (eng.rng.Float64() - 0.5) * cfg.InitialSpread,
			Z: (eng.rng.Float64() - 0.5) * cfg.InitialSpread,
		}
	}

	forces := make([]Vec3, len(nodes))
	for iter := 0; iter < cfg.Iterations; iter++ {
		for i := range forces {
			forces[i] = Vec3{}
		}

		// Repulsion between every pair.
		for i := 0; i < len(nodes); i++ {
			for j := i + 1; j < len(nodes); j++ {
				diff := positions[j].Sub(positions[i])
				d := diff.Len()
				if d <= cfg.Epsilon {
					continue
				}
				f := diff.Scale(1 / d).Scale(cfg.RepulsionStrength / (d * d))
				forces[i] = forces[i].Sub(f)
				forces[j] = forces[j].Add(f)
			}
		}

		// Springs between buckets with similar averages.
		for i := 0; i < len(nodes); i++ {
			for j := i + 1; j < len(nodes); j++ {
				delta := math.Abs(nodes[i].Average - nodes[j].Average)
				if delta >= cfg.SimilarityThreshold {
					continue
				}
				diff := positions[j].Sub(positions[i])
				d := diff.Len()
				if d == 0 {
					continue
				}
				// Close pairs still get a spring so they push out to the target.
				target := math.Max(1, delta/10)
				f := diff.Scale(1 / d).Scale(cfg.AttractionStrength * (d - target))
				forces[i] = forces[i].Add(f)
				forces[j] = forces[j].Sub(f)
			}
		}

		for i := range positions {
			positions[i] = positions[i].Add(forces[i].Scale(cfg.Damping)).ClampLen(cfg.MinRadius, cfg.MaxRadius)
		}
	}
	return positions
}
