package constellation

import (
	"time"

	"github.com/google/uuid"
)

// Snapshot is everything a renderer needs for one data refresh.
type Snapshot struct {
	ID          string       `json:"id"`
	GeneratedAt time.Time    `json:"generated_at"`
	Buckets     Buckets      `json:"buckets"`
	Active      []int        `json:"active"`
	Connections []Connection `json:"connections"`
	Stats       Stats        `json:"stats"`
}

// Build aggregates samples, lays out the active buckets with eng and
// derives connections and statistics. now anchors the statistics windows.
func Build(samples []Sample, eng *Engine, now time.Time) (*Snapshot, error) {
	buckets, err := Aggregate(samples)
	if err != nil {
		return nil, err
	}
	if err := buckets.Place(eng); err != nil {
		return nil, err
	}

	cfg := eng.Config()
	return &Snapshot{
		ID:          uuid.NewString(),
		GeneratedAt: now,
		Buckets:     buckets,
		Active:      buckets.ActiveIDs(),
		Connections: Connections(&buckets, cfg),
		Stats:       Summarize(samples, now, cfg),
	}, nil
}

// Positions returns the placed buckets' positions keyed by id.
func (s *Snapshot) Positions() map[int]Vec3 {
	out := make(map[int]Vec3, len(s.Active))
	for _, b := range s.Buckets {
		if b.HasPosition {
			out[b.ID] = b.Position
		}
	}
	return out
}
