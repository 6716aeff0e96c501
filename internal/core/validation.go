package core

// validation.go provides the checks that run before any parsing happens.
//
// File checks look only at metadata (name, size, declared media type) so they
// can run before a single byte of the body is read. Column name and numeric
// range checks back the relabeling and range filter inputs.
//
// Every check returns nil or a *ValidationError whose message is safe to show
// to the user as is.

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	// MaxFileSize is the default upload limit: 50 MiB.
	MaxFileSize int64 = 50 * 1024 * 1024

	// MaxColumnNameLength is the longest accepted column name, in characters.
	MaxColumnNameLength = 100
)

// AllowedExtensions lists the accepted file name suffixes (lowercase).
var AllowedExtensions = []string{".csv", ".txt"}

// ValidationError represents a single validation error for a field.
type ValidationError struct {
	Field   string // Field being validated: "size", "name", "type", "column", "range"
	Value   string // The invalid value
	Message string // Human-readable error message
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ValidationResult is the JSON shape of a validation outcome.
type ValidationResult struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// ResultOf converts a validation error (or nil) to a ValidationResult.
func ResultOf(err error) ValidationResult {
	if err == nil {
		return ValidationResult{Valid: true}
	}
	return ValidationResult{Valid: false, Error: err.Error()}
}

// ValidateFile checks a candidate upload against the default 50 MiB limit.
func ValidateFile(meta FileMeta) error {
	return ValidateFileLimit(meta, MaxFileSize)
}

// ValidateFileLimit checks size, extension and declared media type, in that order.
// A non-positive limit falls back to MaxFileSize.
func ValidateFileLimit(meta FileMeta, limit int64) error {
	if limit <= 0 {
		limit = MaxFileSize
	}

	if meta.Size > limit {
		return &ValidationError{
			Field: "size",
			Value: strconv.FormatInt(meta.Size, 10),
			Message: fmt.Sprintf("File size cannot exceed %sMB (current: %.2fMB)",
				formatNumber(float64(limit)/1024/1024), float64(meta.Size)/1024/1024),
		}
	}

	name := strings.ToLower(meta.Name)
	allowed := false
	for _, ext := range AllowedExtensions {
		if strings.HasSuffix(name, ext) {
			allowed = true
			break
		}
	}
	if !allowed {
		return &ValidationError{
			Field:   "name",
			Value:   meta.Name,
			Message: fmt.Sprintf("Unsupported file type (allowed: %s)", strings.Join(AllowedExtensions, ", ")),
		}
	}

	// Media type is matched case-sensitively, as declared by the client.
	if meta.Type != "" && !strings.Contains(meta.Type, "text") && !strings.Contains(meta.Type, "csv") {
		return &ValidationError{
			Field:   "type",
			Value:   meta.Type,
			Message: "Not a valid CSV file",
		}
	}

	return nil
}

// ValidateColumnName rejects empty, whitespace-only and overlong column names.
func ValidateColumnName(name string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: "column", Value: name, Message: "Column name is empty"}
	}
	if utf8.RuneCountInString(name) > MaxColumnNameLength {
		return &ValidationError{
			Field:   "column",
			Value:   name,
			Message: fmt.Sprintf("Column name is too long (max %d characters)", MaxColumnNameLength),
		}
	}
	return nil
}

// ValidateNumericRange rejects NaN, inverted and non-finite bounds, checked in that order.
func ValidateNumericRange(lo, hi float64) error {
	value := fmt.Sprintf("[%v, %v]", lo, hi)
	if math.IsNaN(lo) || math.IsNaN(hi) {
		return &ValidationError{Field: "range", Value: value, Message: "Not a valid number"}
	}
	if lo > hi {
		return &ValidationError{Field: "range", Value: value, Message: "Minimum is greater than maximum"}
	}
	if math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return &ValidationError{Field: "range", Value: value, Message: "Infinite values are not allowed"}
	}
	return nil
}

// ParseNumericRange parses text bounds (from a form or query string) and validates them.
func ParseNumericRange(lo, hi string) (AxisRange, error) {
	l, err := strconv.ParseFloat(strings.TrimSpace(lo), 64)
	if err != nil {
		l = math.NaN()
	}
	h, err := strconv.ParseFloat(strings.TrimSpace(hi), 64)
	if err != nil {
		h = math.NaN()
	}
	if err := ValidateNumericRange(l, h); err != nil {
		return AxisRange{}, err
	}
	return AxisRange{Min: l, Max: h}, nil
}

var fileSizeUnits = []string{"Bytes", "KB", "MB", "GB"}

// FormatFileSize renders a byte count for display: "0 Bytes", "1.5 KB", "50 MB".
func FormatFileSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}
	i := int(math.Floor(math.Log(float64(bytes)) / math.Log(1024)))
	if i >= len(fileSizeUnits) {
		i = len(fileSizeUnits) - 1
	}
	v := float64(bytes) / math.Pow(1024, float64(i))
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64) + " " + fileSizeUnits[i]
}
