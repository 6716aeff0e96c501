package core

// parser.go turns delimited text into a typed Dataset.
//
// Parsing is a single pass over the decoded input:
//
//  1. The first non-blank record is the header; repeated names get _1, _2 suffixes
//  2. Every following non-blank record becomes one Record (dynamic typing applied)
//  3. Structural problems are collected, never fatal on their own, so one parse
//     reports every offending line at once
//  4. Column types and summaries are inferred over the finished rows
//
// A parse either returns a complete Dataset or a *ParseError. Partial datasets
// are never returned.

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// ParseErrorKind classifies a failed parse.
type ParseErrorKind string

const (
	ParseErrorEmptyData    ParseErrorKind = "empty-data"
	ParseErrorMalformedRow ParseErrorKind = "malformed-row"
	ParseErrorRead         ParseErrorKind = "read-error"
)

// Sentinels for errors.Is matching against a *ParseError of the same kind.
var (
	ErrEmptyData    = errors.New("empty data")
	ErrMalformedRow = errors.New("malformed row")
	ErrReadFailed   = errors.New("read error")
)

// ParseError is returned by Parse for every failure.
type ParseError struct {
	Kind     ParseErrorKind
	Messages []string // Per-line messages for ParseErrorMalformedRow
	Err      error    // Underlying cause for ParseErrorRead
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case ParseErrorEmptyData:
		return "empty data: the file contains no data rows"
	case ParseErrorMalformedRow:
		return "parse error: " + strings.Join(e.Messages, ", ")
	default:
		if e.Err != nil {
			return "read error: " + e.Err.Error()
		}
		return "read error"
	}
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is lets errors.Is match the kind sentinels.
func (e *ParseError) Is(target error) bool {
	switch target {
	case ErrEmptyData:
		return e.Kind == ParseErrorEmptyData
	case ErrMalformedRow:
		return e.Kind == ParseErrorMalformedRow
	case ErrReadFailed:
		return e.Kind == ParseErrorRead
	}
	return false
}

// ParseOptions controls Parse. Use DefaultParseOptions for the standard policy.
type ParseOptions struct {
	// Header treats the first record as column names. When false, columns are
	// named by position ("0", "1", ...).
	Header bool

	// DynamicTyping stores numeric fields as numbers and empty fields as null.
	// When false every field is kept as text.
	DynamicTyping bool

	// SkipEmptyLines drops records whose content is only whitespace.
	// Truly empty lines are always skipped.
	SkipEmptyLines bool

	// TextColumns are kept as text even with DynamicTyping, and are typed
	// "string". Use it for identifiers whose leading zeros matter.
	TextColumns []string

	// Delimiter is the field separator. Zero detects it from the first line
	// among comma, tab, semicolon and pipe.
	Delimiter rune

	// TotalSize is the input size in bytes if known, for progress logging.
	TotalSize int64
}

// DefaultParseOptions returns header, dynamic typing and empty-line skipping enabled.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{
		Header:         true,
		DynamicTyping:  true,
		SkipEmptyLines: true,
	}
}

// ctxCheckInterval is how many records are read between context checks.
const ctxCheckInterval = 100

// sniffSize is how much input is inspected for delimiter detection.
const sniffSize = 64 * 1024

// delimiterCandidates are tried in order; ties go to the earlier entry.
var delimiterCandidates = []rune{',', '\t', ';', '|'}

// Parse reads delimited text from r and builds a Dataset.
//
// The context is checked periodically; cancellation is reported as a
// ParseErrorRead wrapping ctx.Err().
func Parse(ctx context.Context, r io.Reader, opts ParseOptions) (*Dataset, error) {
	start := time.Now()
	in := WrapForParsing(r, opts.TotalSize)
	br := bufio.NewReaderSize(in, sniffSize)

	delim := opts.Delimiter
	if delim == 0 {
		head, err := br.Peek(sniffSize)
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
			return nil, &ParseError{Kind: ParseErrorRead, Err: err}
		}
		delim = DetectDelimiter(head)
	}

	cr := csv.NewReader(br)
	cr.Comma = delim
	cr.FieldsPerRecord = -1

	var (
		header    []string
		rows      []Record
		problems  []string
		textCols  []bool
		zeros     []bool
		openQuote *csv.ParseError
	)

	for n := 0; ; n++ {
		if n%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, &ParseError{Kind: ParseErrorRead, Err: err}
			}
		}

		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			// A quote error on the final record means the quoted field was
			// still open when the input ran out.
			if openQuote != nil {
				problems[len(problems)-1] = fmt.Sprintf("record on line %d: unterminated quoted field", openQuote.StartLine)
			}
			break
		}
		openQuote = nil
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				problems = append(problems, pe.Error())
				if errors.Is(pe.Err, csv.ErrQuote) {
					openQuote = pe
				}
				continue
			}
			return nil, &ParseError{Kind: ParseErrorRead, Err: err}
		}

		if opts.SkipEmptyLines && isBlankRecord(rec) {
			continue
		}

		if header == nil {
			if opts.Header {
				header = uniqueHeaders(rec)
			} else {
				header = positionalHeaders(len(rec))
			}
			textCols = textColumnFlags(header, opts.TextColumns)
			zeros = make([]bool, len(header))
			if opts.Header {
				continue
			}
		}

		if len(rec) != len(header) {
			line, _ := cr.FieldPos(0)
			problems = append(problems, fmt.Sprintf("record on line %d: expected %d fields, got %d", line, len(header), len(rec)))
			continue
		}

		rows = append(rows, convertRecord(rec, opts.DynamicTyping, textCols, zeros))
	}

	if len(problems) > 0 {
		return nil, &ParseError{Kind: ParseErrorMalformedRow, Messages: problems}
	}
	if len(rows) == 0 {
		return nil, &ParseError{Kind: ParseErrorEmptyData}
	}

	columns := inferColumns(header, rows, textCols, zeros)

	slog.Debug("csv parsed",
		"rows", len(rows),
		"columns", len(columns),
		"bytes", in.BytesRead(),
		"delimiter", string(delim),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return newDataset(columns, rows), nil
}

// ParseString is a convenience wrapper around Parse for in-memory text.
func ParseString(ctx context.Context, text string, opts ParseOptions) (*Dataset, error) {
	return Parse(ctx, strings.NewReader(text), opts)
}

// DetectDelimiter picks the separator that occurs most often in the first
// line of head, ignoring quoted sections. Comma is the fallback.
func DetectDelimiter(head []byte) rune {
	counts := make(map[rune]int, len(delimiterCandidates))
	inQuotes := false
	for _, c := range string(head) {
		if c == '"' {
			inQuotes = !inQuotes
			continue
		}
		if inQuotes {
			continue
		}
		if c == '\n' || c == '\r' {
			break
		}
		counts[c]++
	}
	best, bestCount := ',', 0
	for _, d := range delimiterCandidates {
		if counts[d] > bestCount {
			best, bestCount = d, counts[d]
		}
	}
	return best
}

func isBlankRecord(rec []string) bool {
	return len(rec) == 1 && strings.TrimSpace(rec[0]) == ""
}

func positionalHeaders(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = strconv.Itoa(i)
	}
	return names
}

func textColumnFlags(header, textColumns []string) []bool {
	flags := make([]bool, len(header))
	if len(textColumns) == 0 {
		return flags
	}
	want := make(map[string]bool, len(textColumns))
	for _, c := range textColumns {
		want[c] = true
	}
	for i, h := range header {
		flags[i] = want[h]
	}
	return flags
}

// convertRecord applies the typing policy to one record and notes columns
// where numeric conversion would drop leading zeros.
func convertRecord(rec []string, dynamic bool, textCols, zeros []bool) Record {
	out := make(Record, len(rec))
	for i, raw := range rec {
		switch {
		case !dynamic:
			out[i] = Text(raw)
		case textCols[i]:
			if raw == "" {
				out[i] = Null()
			} else {
				out[i] = Text(raw)
			}
		default:
			out[i] = ConvertField(raw)
			if !zeros[i] && out[i].Kind() == KindNumber && HasLeadingZero(raw) {
				zeros[i] = true
			}
		}
	}
	return out
}
