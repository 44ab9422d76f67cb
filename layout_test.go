package constellation

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSeededEngine(t *testing.T, seed int64) *Engine {
	t.Helper()
	eng, err := NewEngine(DefaultConfig(), rand.New(rand.NewSource(seed)))
	require.NoError(t, err)
	return eng
}

func TestLayoutEmpty(t *testing.T) {
	eng := newSeededEngine(t, 1)
	got, err := eng.Layout(nil)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestLayoutSingleNode(t *testing.T) {
	const seed = 7
	eng := newSeededEngine(t, seed)
	got, err := eng.Layout([]Node{{ID: 5, Average: 50}})
	require.NoError(t, err)
	assert.Equal(t, map[int]Vec3{5: {Z: 1}}, got)

	// No iteration happened, so the random source is untouched.
	fresh := rand.New(rand.NewSource(seed))
	assert.Equal(t, fresh.Float64(), eng.rng.Float64())
}

func TestLayoutDuplicateIDs(t *testing.T) {
	eng := newSeededEngine(t, 1)
	_, err := eng.Layout([]Node{{ID: 3, Average: 31}, {ID: 3, Average: 35}})
	assert.Error(t, err)
}

func TestLayoutOnePositionPerNode(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 200; trial++ {
		n := 2 + rng.Intn(NumBuckets-1)
		ids := rng.Perm(NumBuckets)[:n]
		nodes := make([]Node, n)
		for i, id := range ids {
			nodes[i] = Node{ID: id, Average: float64(id*10) + rng.Float64()*10}
		}

		eng := newSeededEngine(t, int64(trial))
		got, err := eng.Layout(nodes)
		require.NoError(t, err)
		require.Len(t, got, n)
		for _, nd := range nodes {
			pos, ok := got[nd.ID]
			require.True(t, ok, "bucket %d missing", nd.ID)
			l := pos.Len()
			assert.True(t, l >= 0.5-1e-9 && l <= 2.0+1e-9, "bucket %d at radius %v", nd.ID, l)
		}
	}
}

func TestLayoutDeterministic(t *testing.T) {
	nodes := []Node{{0, 4}, {3, 33}, {4, 41}, {9, 97}}
	a, err := newSeededEngine(t, 99).Layout(nodes)
	require.NoError(t, err)
	b, err := newSeededEngine(t, 99).Layout(nodes)
	require.NoError(t, err)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("same seed gave different layouts (-first +second):\n%s", diff)
	}

	c, err := newSeededEngine(t, 100).Layout(nodes)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestLayoutSimilarBucketsCloser(t *testing.T) {
	// 1 and 2 are similar, 9 is far from both.
	nodes := []Node{{ID: 1, Average: 10}, {ID: 2, Average: 15}, {ID: 9, Average: 90}}

	const runs = 300
	var similar, dissimilar float64
	for seed := int64(0); seed < runs; seed++ {
		pos, err := newSeededEngine(t, seed).Layout(nodes)
		require.NoError(t, err)
		similar += pos[1].Dist(pos[2])
		dissimilar += (pos[1].Dist(pos[9]) + pos[2].Dist(pos[9])) / 2
	}
	similar /= runs
	dissimilar /= runs
	assert.Less(t, similar, dissimilar)
}

func TestLayoutSingleIterationClamps(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Iterations = 1
	eng, err := NewEngine(cfg, rand.New(rand.NewSource(3)))
	require.NoError(t, err)
	got, err := eng.Layout([]Node{{1, 10}, {8, 88}})
	require.NoError(t, err)
	for id, p := range got {
		l := p.Len()
		assert.True(t, l >= 0.5-1e-9 && l <= 2.0+1e-9, "bucket %d at radius %v", id, l)
	}
}

func TestNewEngineRejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinRadius = 3
	_, err := NewEngine(cfg, nil)
	assert.Error(t, err)
}

func TestNewEngineDefaults(t *testing.T) {
	eng, err := NewEngine(Config{}, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), eng.Config())
	assert.NotNil(t, NewDefaultEngine())
}

// fixedSource replays a fixed sequence of Float64 values.
type fixedSource struct {
	values []float64
	next   int
}

func (s *fixedSource) Int63() int64 {
	v := s.values[s.next%len(s.values)]
	s.next++
	return int64(v * (1 << 63))
}

func (s *fixedSource) Seed(int64) {}

func TestLayoutSeparatesCloseSimilarBuckets(t *testing.T) {
	// With the default spread of 4, these start at (1,1,1) and (1.05,1,1),
	// inside the repulsion cutoff.
	src := &fixedSource{values: []float64{0.75, 0.75, 0.75, 0.7625, 0.75, 0.75}}
	eng, err := NewEngine(DefaultConfig(), rand.New(src))
	require.NoError(t, err)

	got, err := eng.Layout([]Node{{ID: 5, Average: 50}, {ID: 6, Average: 60}})
	require.NoError(t, err)
	assert.Greater(t, got[5].Dist(got[6]), 0.5)
}
