package samplefile

import (
	"bytes"
	"compress/gzip"
	"io"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/ulikunitz/xz"
)

// Compression is the container format of a sample file.
type Compression int

const (
	CompressionNone Compression = iota
	CompressionGzip
	CompressionXZ
)

// String ...
func (c Compression) String() string {
	switch c {
	case CompressionGzip:
		return "gzip"
	case CompressionXZ:
		return "xz"
	default:
		return "none"
	}
}

var (
	gzipMagic = []byte{0x1f, 0x8b}
	xzMagic   = []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}
)

// DetectCompression inspects the leading bytes of data.
func DetectCompression(data []byte) Compression {
	switch {
	case bytes.HasPrefix(data, gzipMagic):
		return CompressionGzip
	case bytes.HasPrefix(data, xzMagic):
		return CompressionXZ
	default:
		return CompressionNone
	}
}

// decompress returns data with any gzip or xz wrapping removed.
func decompress(data []byte) ([]byte, error) {
	var (
		r   io.Reader
		err error
	)
	switch DetectCompression(data) {
	case CompressionGzip:
		var gz *gzip.Reader
		gz, err = gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, errors.Wrap(err, "failed to create gzip reader")
		}
		defer gz.Close()
		r = gz
	case CompressionXZ:
		r, err = xz.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, errors.Wrap(err, "failed to create xz reader")
		}
	default:
		return data, nil
	}

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "decompression failed")
	}
	return out, nil
}

// baseExt returns the format extension of path, ignoring a trailing
// compression suffix: "a.json.xz" gives ".json".
func baseExt(path string) string {
	p := strings.ToLower(path)
	for _, suffix := range []string{".gz", ".xz"} {
		p = strings.TrimSuffix(p, suffix)
	}
	return filepath.Ext(p)
}
