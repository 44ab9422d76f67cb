// Package samplefile reads sanity samples from JSON and CSV files,
// optionally gzip or xz compressed.
package samplefile

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/axiomhq/constellation"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Format of a sample file.
type Format string

const (
	FormatAuto Format = ""
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// Options controls how sample files are decoded.
type Options struct {
	// Format overrides detection by file extension.
	Format Format
	// JSONPath selects the sample records inside a JSON document,
	// e.g. "$.data.sessions[*]".
	JSONPath string
	// DefaultSource is set on samples whose record names no source.
	DefaultSource string
	// Concurrency bounds parallel reads in LoadGlob. Zero means 4.
	Concurrency int
}

// Load reads and decodes the samples in path.
func Load(ctx context.Context, path string, opts Options) ([]constellation.Sample, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	if opts.Format == FormatAuto {
		switch baseExt(path) {
		case ".csv":
			opts.Format = FormatCSV
		default:
			opts.Format = FormatJSON
		}
	}
	samples, err := Parse(data, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", path)
	}
	return samples, nil
}

// Parse decodes samples from data, which may be compressed. An empty
// format means JSON.
func Parse(data []byte, opts Options) ([]constellation.Sample, error) {
	data, err := decompress(data)
	if err != nil {
		return nil, err
	}
	switch opts.Format {
	case FormatCSV:
		return parseCSV(data, opts)
	case FormatJSON, FormatAuto:
		return parseJSON(data, opts)
	default:
		return nil, fmt.Errorf("unsupported format: %q", opts.Format)
	}
}

// LoadGlob loads every file matching pattern, which may use "**", and
// returns their samples concatenated in path order.
func LoadGlob(ctx context.Context, pattern string, opts Options) ([]constellation.Sample, error) {
	paths, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid pattern %q", pattern)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no files match %q", pattern)
	}
	sort.Strings(paths)

	limit := opts.Concurrency
	if limit <= 0 {
		limit = 4
	}
	results := make([][]constellation.Sample, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			samples, err := Load(ctx, path, opts)
			if err != nil {
				return err
			}
			results[i] = samples
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []constellation.Sample
	for _, r := range results {
		out = append(out, r...)
	}
	return out, nil
}
