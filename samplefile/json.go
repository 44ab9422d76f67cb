package samplefile

import (
	"fmt"
	"strconv"
	"time"

	"github.com/axiomhq/constellation"
	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
	"github.com/pkg/errors"
)

// Field aliases accepted in JSON records, first match wins.
var (
	valueKeys     = []string{"sanity_level", "sanityLevel", "value"}
	timestampKeys = []string{"timestamp", "created_at", "createdAt"}
	userKeys      = []string{"user_id", "userId"}
)

// parseJSON decodes samples from data. Without a JSONPath the document is
// either an array of records or an object holding "sessions" and
// "snapshots" arrays.
func parseJSON(data []byte, opts Options) ([]constellation.Sample, error) {
	doc, err := oj.Parse(data)
	if err != nil {
		return nil, errors.Wrap(err, "invalid JSON")
	}

	if opts.JSONPath != "" {
		x, err := jp.ParseString(opts.JSONPath)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid JSONPath expression %q", opts.JSONPath)
		}
		return recordsToSamples(flatten(x.Get(doc)), opts.DefaultSource)
	}

	switch v := doc.(type) {
	case []interface{}:
		return recordsToSamples(v, opts.DefaultSource)
	case map[string]interface{}:
		sessions, err := recordsToSamples(asArray(v["sessions"]), constellation.SourceSession)
		if err != nil {
			return nil, errors.Wrap(err, "sessions")
		}
		snapshots, err := recordsToSamples(asArray(v["snapshots"]), constellation.SourceSnapshot)
		if err != nil {
			return nil, errors.Wrap(err, "snapshots")
		}
		return append(sessions, snapshots...), nil
	default:
		return nil, fmt.Errorf("JSON document must be an array or an object, got %T", doc)
	}
}

// flatten unwraps a single array result so "$.sessions" and
// "$.sessions[*]" select the same records.
func flatten(results []interface{}) []interface{} {
	if len(results) == 1 {
		if arr, ok := results[0].([]interface{}); ok {
			return arr
		}
	}
	return results
}

func asArray(v interface{}) []interface{} {
	arr, _ := v.([]interface{})
	return arr
}

func recordsToSamples(records []interface{}, source string) ([]constellation.Sample, error) {
	out := make([]constellation.Sample, 0, len(records))
	for i, rec := range records {
		obj, ok := rec.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("record %d: expected an object, got %T", i, rec)
		}
		s, err := recordToSample(obj, source)
		if err != nil {
			return nil, errors.Wrapf(err, "record %d", i)
		}
		out = append(out, s)
	}
	return out, nil
}

func recordToSample(obj map[string]interface{}, source string) (constellation.Sample, error) {
	s := constellation.Sample{Source: source}

	raw, ok := lookup(obj, valueKeys)
	if !ok {
		return s, fmt.Errorf("missing sanity level")
	}
	v, err := toFloat(raw)
	if err != nil {
		return s, err
	}
	s.Value = v

	if raw, ok := lookup(obj, timestampKeys); ok {
		str, ok := raw.(string)
		if !ok {
			return s, fmt.Errorf("timestamp must be a string, got %T", raw)
		}
		ts, err := parseTimestamp(str)
		if err != nil {
			return s, err
		}
		s.Timestamp = ts
	}
	if raw, ok := lookup(obj, userKeys); ok {
		s.UserID = fmt.Sprint(raw)
	}
	if raw, ok := obj["source"].(string); ok && raw != "" {
		s.Source = raw
	}
	return s, s.Validate()
}

func lookup(obj map[string]interface{}, keys []string) (interface{}, bool) {
	for _, k := range keys {
		if v, ok := obj[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func toFloat(v interface{}) (float64, error) {
	switch n := v.(type) {
	case int64:
		return float64(n), nil
	case float64:
		return n, nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, errors.Wrapf(err, "invalid sanity level %q", n)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("invalid sanity level type %T", v)
	}
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}
