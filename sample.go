package constellation

import (
	"fmt"
	"math"
	"time"
)

// NumBuckets is the number of fixed decile buckets over [0, 100].
const NumBuckets = 10

const (
	// MinValue ...
	MinValue = 0.0
	// MaxValue ...
	MaxValue = 100.0
)

// Sources a sample can come from.
const (
	SourceSession  = "session"
	SourceSnapshot = "snapshot"
)

// Sample is one recorded sanity level.
type Sample struct {
	Value     float64   `json:"value"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source,omitempty"`
	UserID    string    `json:"user_id,omitempty"`
}

// IsSnapshot reports whether the sample is a periodic mood snapshot.
// Anything else, including an empty Source, counts as a session.
func (s Sample) IsSnapshot() bool {
	return s.Source == SourceSnapshot
}

// Validate checks that the sample value is a finite number in [0, 100].
func (s Sample) Validate() error {
	if math.IsNaN(s.Value) || math.IsInf(s.Value, 0) {
		return fmt.Errorf("sample value is not finite: %v", s.Value)
	}
	if s.Value < MinValue || s.Value > MaxValue {
		return fmt.Errorf("sample value %v outside [%v, %v]", s.Value, MinValue, MaxValue)
	}
	return nil
}

// BucketOf returns the decile bucket for v, clamped to [0, NumBuckets-1].
// A value of exactly 100 lands in the top bucket.
func BucketOf(v float64) int {
	id := int(math.Floor(v / 10))
	if id < 0 {
		return 0
	}
	if id > NumBuckets-1 {
		return NumBuckets - 1
	}
	return id
}

// ValidateAll returns the first validation error, naming the offending index.
func ValidateAll(samples []Sample) error {
	for i, s := range samples {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("sample %d: %v", i, err)
		}
	}
	return nil
}
