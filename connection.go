package constellation

import "math"

// Connection links two placed buckets whose averages are close.
type Connection struct {
	From     int     `json:"from"`
	To       int     `json:"to"`
	Distance float64 `json:"distance"`
	Color    Color   `json:"color"`
}

// Connections returns an edge for every pair of placed buckets whose
// averages differ by less than cfg.ConnectionThreshold and whose positions
// are closer than cfg.ConnectionMaxDistance. Edges are ordered by (From, To)
// with From < To. The edge color is the midpoint of both bucket colors,
// dimmed by cfg.ConnectionDim.
func Connections(bs *Buckets, cfg Config) []Connection {
	cfg = cfg.WithDefaults()
	var out []Connection
	for i := 0; i < NumBuckets; i++ {
		a := bs[i]
		if !a.Active() || !a.HasPosition {
			continue
		}
		for j := i + 1; j < NumBuckets; j++ {
			b := bs[j]
			if !b.Active() || !b.HasPosition {
				continue
			}
			if math.Abs(a.AverageValue-b.AverageValue) >= cfg.ConnectionThreshold {
				continue
			}
			d := a.Position.Dist(b.Position)
			if d >= cfg.ConnectionMaxDistance {
				continue
			}
			out = append(out, Connection{
				From:     a.ID,
				To:       b.ID,
				Distance: d,
				Color:    a.Color.Blend(b.Color, 0.5).Scale(cfg.ConnectionDim),
			})
		}
	}
	return out
}
