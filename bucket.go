package constellation

import "encoding/json"

// BucketState is the derived view of one decile bucket for a single data
// refresh. It is rebuilt from scratch every time and never mutated in place.
type BucketState struct {
	ID           int       `json:"id"`
	MemberValues []float64 `json:"member_values"`
	Count        int       `json:"count"`
	AverageValue float64   `json:"average_value"`
	Median       float64   `json:"median"`
	P90          float64   `json:"p90"`
	Color        Color     `json:"color"`
	Position     Vec3      `json:"position"`
	HasPosition  bool      `json:"-"`
}

// bucketJSON omits the position of buckets the layout did not place.
type bucketJSON struct {
	bucketFields
	Position *Vec3 `json:"position,omitempty"`
}

type bucketFields BucketState

// MarshalJSON ...
func (b BucketState) MarshalJSON() ([]byte, error) {
	out := bucketJSON{bucketFields: bucketFields(b)}
	if b.HasPosition {
		pos := b.Position
		out.Position = &pos
	}
	return json.Marshal(out)
}

// UnmarshalJSON ...
func (b *BucketState) UnmarshalJSON(data []byte) error {
	var in bucketJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*b = BucketState(in.bucketFields)
	if in.Position != nil {
		b.Position, b.HasPosition = *in.Position, true
	}
	return nil
}

// Active reports whether any sample fell into the bucket.
func (b BucketState) Active() bool {
	return b.Count > 0
}

// Range returns the half-open value range [lo, hi) covered by the bucket.
// The top bucket also includes 100.
func (b BucketState) Range() (lo, hi float64) {
	return float64(b.ID * 10), float64(b.ID*10 + 10)
}

// Buckets is the full set of ten bucket states, indexed by id.
type Buckets [NumBuckets]BucketState

// Aggregate groups samples into buckets and computes each bucket's members,
// average, quantiles and color. Positions are left unset. Inactive buckets
// keep their range centre as average so they still have a color.
func Aggregate(samples []Sample) (Buckets, error) {
	if err := ValidateAll(samples); err != nil {
		return Buckets{}, err
	}

	var bufs [NumBuckets]*buffer
	for id := range bufs {
		buf, err := newBuffer(id)
		if err != nil {
			return Buckets{}, err
		}
		bufs[id] = buf
	}
	for _, s := range samples {
		if err := bufs[BucketOf(s.Value)].push(s.Value); err != nil {
			return Buckets{}, err
		}
	}

	var out Buckets
	for id, buf := range bufs {
		st := BucketState{
			ID:           id,
			MemberValues: buf.members(),
			Count:        buf.size(),
			AverageValue: float64(id*10 + 5),
		}
		if avg, ok := buf.average(); ok {
			st.AverageValue = avg
			st.Median = buf.query(0.5)
			st.P90 = buf.query(0.9)
		}
		st.Color = ColorOf(st.AverageValue)
		out[id] = st
	}
	return out, nil
}

// ActiveIDs returns the ids of active buckets in ascending order.
func (bs *Buckets) ActiveIDs() []int {
	ids := make([]int, 0, NumBuckets)
	for _, b := range bs {
		if b.Active() {
			ids = append(ids, b.ID)
		}
	}
	return ids
}

// Nodes returns the layout input for the active buckets.
func (bs *Buckets) Nodes() []Node {
	nodes := make([]Node, 0, NumBuckets)
	for _, b := range bs {
		if b.Active() {
			nodes = append(nodes, Node{ID: b.ID, Average: b.AverageValue})
		}
	}
	return nodes
}

// Place runs the engine over the active buckets and stores the results.
func (bs *Buckets) Place(eng *Engine) error {
	positions, err := eng.Layout(bs.Nodes())
	if err != nil {
		return err
	}
	for id := range bs {
		bs[id].Position, bs[id].HasPosition = positions[id]
	}
	return nil
}
