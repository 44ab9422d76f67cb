package constellation

import (
	"math"
	"sort"
	"time"

	"github.com/stripe/veneur/tdigest"
)

// compression for the global merging digest.
const digestCompression = 100

// neutralMood is reported when no recent snapshots exist.
const neutralMood = 50

const anonymousUser = "anonymous"

// DefaultHistoryLimit caps UserHistory when no limit is given.
const DefaultHistoryLimit = 50

// Stats are the aggregate figures over a sample set.
type Stats struct {
	Count       int     `json:"count"`
	Mean        float64 `json:"mean"`
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	Median      float64 `json:"median"`
	P90         float64 `json:"p90"`
	UniqueUsers int     `json:"unique_users"`

	CurrentMood    int  `json:"current_mood"`
	MoodSampleSize int  `json:"mood_sample_size"`
	Mood           Mood `json:"mood"`
}

// Summarize computes global statistics over session samples recorded
// within cfg.StatsWindow before now, and the current mood over snapshot
// samples within cfg.MoodWindow. A sample is a snapshot only when its
// Source says so. Samples with a zero timestamp are treated as recorded
// at now.
func Summarize(samples []Sample, now time.Time, cfg Config) Stats {
	cfg = cfg.WithDefaults()
	statsFrom := now.Add(-cfg.StatsWindow)
	moodFrom := now.Add(-cfg.MoodWindow)

	var (
		st      Stats
		sum     float64
		moodSum float64
		users   = make(map[string]struct{})
		digest  = tdigest.NewMerging(digestCompression, false)
	)
	st.Min = math.Inf(1)
	st.Max = math.Inf(-1)

	for _, s := range samples {
		ts := recordedAt(s, now)
		if s.IsSnapshot() {
			if ts.After(moodFrom) {
				moodSum += s.Value
				st.MoodSampleSize++
			}
			continue
		}
		if !ts.After(statsFrom) {
			continue
		}

		st.Count++
		sum += s.Value
		st.Min = math.Min(st.Min, s.Value)
		st.Max = math.Max(st.Max, s.Value)
		digest.Add(s.Value, 1)
		users[userOf(s)] = struct{}{}
	}

	if st.Count > 0 {
		st.Mean = sum / float64(st.Count)
		st.Median = digest.Quantile(0.5)
		st.P90 = digest.Quantile(0.9)
		st.UniqueUsers = len(users)
	} else {
		st.Min, st.Max = 0, 0
	}

	st.CurrentMood = neutralMood
	if st.MoodSampleSize > 0 {
		st.CurrentMood = int(math.Round(moodSum / float64(st.MoodSampleSize)))
	}
	st.Mood = MoodOf(float64(st.CurrentMood))
	return st
}

// UserSummary is the per-user view of session samples.
type UserSummary struct {
	UserID     string    `json:"user_id"`
	Sessions   int       `json:"sessions"`
	Average    float64   `json:"average"`
	LastActive time.Time `json:"last_active"`
}

// SummarizeUsers groups session samples by user, ordered by user id.
// Averages are rounded to two decimals.
func SummarizeUsers(samples []Sample, now time.Time) []UserSummary {
	byUser := make(map[string]*UserSummary)
	sums := make(map[string]float64)
	for _, s := range samples {
		if s.IsSnapshot() {
			continue
		}
		id := userOf(s)
		u, ok := byUser[id]
		if !ok {
			u = &UserSummary{UserID: id}
			byUser[id] = u
		}
		u.Sessions++
		sums[id] += s.Value
		if ts := recordedAt(s, now); ts.After(u.LastActive) {
			u.LastActive = ts
		}
	}

	out := make([]UserSummary, 0, len(byUser))
	for id, u := range byUser {
		u.Average = math.Round(sums[id]/float64(u.Sessions)*100) / 100
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}

// UserHistory returns up to limit of a user's session samples, newest
// first. A limit <= 0 means DefaultHistoryLimit.
func UserHistory(samples []Sample, userID string, limit int, now time.Time) []Sample {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	var out []Sample
	for _, s := range samples {
		if !s.IsSnapshot() && userOf(s) == userID {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return recordedAt(out[i], now).After(recordedAt(out[j], now))
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func recordedAt(s Sample, now time.Time) time.Time {
	if s.Timestamp.IsZero() {
		return now
	}
	return s.Timestamp
}

func userOf(s Sample) string {
	if s.UserID == "" {
		return anonymousUser
	}
	return s.UserID
}
