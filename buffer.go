package constellation

import (
	"fmt"

	"github.com/beorn7/perks/quantile"
)

// quantile targets tracked per bucket, with their allowed rank error.
var bucketTargets = map[float64]float64{
	0.5: 0.05,
	0.9: 0.01,
}

// buffer collects the member values of a single bucket.
type buffer struct {
	id     int
	vec    []float64
	sum    float64
	stream *quantile.Stream
}

// newBuffer ...
func newBuffer(id int) (*buffer, error) {
	if id < 0 || id >= NumBuckets {
		return nil, fmt.Errorf("invalid bucket id: %v", id)
	}
	return &buffer{
		id:     id,
		vec:    make([]float64, 0),
		stream: quantile.NewTargeted(bucketTargets),
	}, nil
}

// push adds a value that belongs to this bucket.
func (buf *buffer) push(value float64) error {
	if got := BucketOf(value); got != buf.id {
		return fmt.Errorf("value %v belongs to bucket %v, not %v", value, got, buf.id)
	}
	buf.vec = append(buf.vec, value)
	buf.sum += value
	buf.stream.Insert(value)
	return nil
}

// members returns the values in insertion order.
func (buf *buffer) members() []float64 {
	ret := make([]float64, len(buf.vec))
	copy(ret, buf.vec)
	return ret
}

// average returns the mean member value, or ok == false when empty.
func (buf *buffer) average() (avg float64, ok bool) {
	if len(buf.vec) == 0 {
		return 0, false
	}
	return buf.sum / float64(len(buf.vec)), true
}

// query returns the estimated q-quantile of the members.
func (buf *buffer) query(q float64) float64 {
	if len(buf.vec) == 0 {
		return 0
	}
	return buf.stream.Query(q)
}

// size ...
func (buf *buffer) size() int {
	return len(buf.vec)
}
