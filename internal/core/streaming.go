package core

// streaming.go provides the reader stack the parser reads through.
//
// The raw upload is wrapped once, in this order:
//
//  1. StreamingCountingReader counts raw bytes for progress reporting
//  2. The x/text decoder strips a UTF-8 BOM, transcodes UTF-16 files that start
//     with a BOM, and replaces invalid UTF-8 with U+FFFD
//
// Use WrapForParsing to build the stack.

import (
	"fmt"
	"io"
	"strconv"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// StreamingCountingReader wraps an io.Reader to track bytes read.
// Used for progress reporting while a file is parsed.
type StreamingCountingReader struct {
	reader    io.Reader
	BytesRead int64
	Total     int64 // If known (0 if unknown)
}

// NewStreamingCountingReader creates a counting reader with optional total size.
func NewStreamingCountingReader(r io.Reader, total int64) *StreamingCountingReader {
	return &StreamingCountingReader{
		reader: r,
		Total:  total,
	}
}

// Read implements io.Reader.
func (r *StreamingCountingReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	r.BytesRead += int64(n)
	return n, err
}

// Progress returns the read progress as a percentage (0-100).
// Returns 0 if total is unknown.
func (r *StreamingCountingReader) Progress() int {
	if r.Total <= 0 {
		return 0
	}
	p := int(r.BytesRead * 100 / r.Total)
	if p > 100 {
		p = 100
	}
	return p
}

// NewDecodingReader returns r decoded to UTF-8. A leading BOM selects the
// encoding (UTF-8, UTF-16LE or UTF-16BE) and is removed; input without a BOM
// is treated as UTF-8 and invalid sequences become U+FFFD.
func NewDecodingReader(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
}

// InputReader is the decoded view of an upload.
type InputReader struct {
	raw     *StreamingCountingReader
	decoded io.Reader
}

// Read implements io.Reader over the decoded text.
func (r *InputReader) Read(p []byte) (int, error) {
	return r.decoded.Read(p)
}

// BytesRead returns the number of raw (undecoded) bytes consumed so far.
func (r *InputReader) BytesRead() int64 { return r.raw.BytesRead }

// Progress returns the raw read progress as a percentage (0-100).
func (r *InputReader) Progress() int { return r.raw.Progress() }

// WrapForParsing wraps a reader with byte counting and decoding.
// totalSize may be 0 when the size is unknown.
func WrapForParsing(r io.Reader, totalSize int64) *InputReader {
	if ir, ok := r.(*InputReader); ok {
		return ir
	}
	raw := NewStreamingCountingReader(r, totalSize)
	return &InputReader{
		raw:     raw,
		decoded: NewDecodingReader(raw),
	}
}

// SizeLimitReader fails with a size *ValidationError once more than Limit
// bytes have been read. Declared sizes can be wrong, so the limit is also
// enforced on the bytes actually received.
type SizeLimitReader struct {
	reader io.Reader
	Limit  int64
	read   int64
}

// NewSizeLimitReader wraps r with a hard byte limit.
func NewSizeLimitReader(r io.Reader, limit int64) *SizeLimitReader {
	return &SizeLimitReader{reader: r, Limit: limit}
}

// Read implements io.Reader.
func (r *SizeLimitReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	r.read += int64(n)
	if r.read > r.Limit {
		return n, &ValidationError{
			Field:   "size",
			Value:   strconv.FormatInt(r.read, 10),
			Message: fmt.Sprintf("File size cannot exceed %sMB", formatNumber(float64(r.Limit)/1024/1024)),
		}
	}
	return n, err
}
