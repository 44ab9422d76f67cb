package samplefile

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/axiomhq/constellation"
	"github.com/pkg/errors"
)

// parseCSV decodes samples from a CSV document with a header row. The value
// column is "value" or "sanity_level"; "timestamp", "user_id" and "source"
// are optional.
func parseCSV(data []byte, opts Options) ([]constellation.Sample, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read CSV header")
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	valueCol := -1
	for _, k := range []string{"value", "sanity_level"} {
		if i, ok := cols[k]; ok {
			valueCol = i
			break
		}
	}
	if valueCol < 0 {
		return nil, fmt.Errorf("CSV header has no value or sanity_level column: %v", header)
	}
	column := func(row []string, name string) string {
		if i, ok := cols[name]; ok && i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	var out []constellation.Sample
	for line := 2; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}

		v, err := strconv.ParseFloat(strings.TrimSpace(row[valueCol]), 64)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d: invalid value", line)
		}
		s := constellation.Sample{
			Value:  v,
			UserID: column(row, "user_id"),
			Source: column(row, "source"),
		}
		if s.Source == "" {
			s.Source = opts.DefaultSource
		}
		if ts := column(row, "timestamp"); ts != "" {
			if s.Timestamp, err = parseTimestamp(ts); err != nil {
				return nil, errors.Wrapf(err, "line %d", line)
			}
		}
		if err := s.Validate(); err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		out = append(out, s)
	}
	return out, nil
}
