package constellation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func placed(id int, avg float64, pos Vec3) BucketState {
	return BucketState{
		ID:           id,
		Count:        1,
		AverageValue: avg,
		Color:        ColorOf(avg),
		Position:     pos,
		HasPosition:  true,
	}
}

func TestConnections(t *testing.T) {
	var bs Buckets
	for id := range bs {
		bs[id] = BucketState{ID: id}
	}
	bs[1] = placed(1, 12, Vec3{X: 1})
	bs[3] = placed(3, 35, Vec3{X: -1})
	bs[8] = placed(8, 88, Vec3{Y: 2})
	// Active but not placed: never connected.
	bs[2] = BucketState{ID: 2, Count: 1, AverageValue: 20}

	got := Connections(&bs, DefaultConfig())
	if assert.Len(t, got, 1) {
		c := got[0]
		assert.Equal(t, 1, c.From)
		assert.Equal(t, 3, c.To)
		assert.InDelta(t, 2.0, c.Distance, 1e-12)
		want := ColorOf(12).Blend(ColorOf(35), 0.5).Scale(0.3)
		assert.Equal(t, want, c.Color)
	}
}

func TestConnectionsDistanceLimit(t *testing.T) {
	var bs Buckets
	bs[4] = placed(4, 45, Vec3{X: 1})
	bs[5] = placed(5, 50, Vec3{X: -1})

	cfg := DefaultConfig()
	assert.Len(t, Connections(&bs, cfg), 1)

	cfg.ConnectionMaxDistance = 1.5
	assert.Empty(t, Connections(&bs, cfg))
}
