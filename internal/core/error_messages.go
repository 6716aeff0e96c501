package core

// error_messages.go maps technical errors to user-facing messages with codes
// for support reference.
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large (validation, before parsing)
//	FILE002 - Unsupported extension (only .csv and .txt)
//	FILE003 - Declared media type is not text or CSV
//	FILE004 - No file in the request
//	FILE005 - Empty data: no rows after blank lines are skipped
//	FILE006 - Malformed rows: quoting or field-count problems, lines listed
//	FILE007 - Read error: the upload could not be read
//	FILE008 - Request body exceeded the size limit while streaming
//
// # Mapping Errors (MAP001-MAP099)
//
//	MAP001 - x, y or z is not selected
//	MAP002 - Two axes use the same column
//	MAP003 - A mapped column does not exist in the dataset
//	MAP004 - The dataset has fewer than three numeric columns
//
// # Session Errors (SES001-SES099)
//
//	SES001 - Session not found or expired
//	SES002 - Too many open sessions
//
// # Upload Errors (UPL001-UPL099)
//
//	UPL001 - System busy: every parse slot is taken
//	UPL002 - Request cancelled
//	UPL003 - Request timed out
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL001 - Invalid column name
//	VAL002 - Invalid numeric range
//	VAL003 - Invalid viewer setting
//
// # Rate Limiting (RATE001)
//
//	RATE001 - Too many requests
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error; check the logs for the technical error
//
// # Matching
//
// Typed errors (*ValidationError, *ParseError and the package sentinels) are
// matched first with errors.As and errors.Is. Anything else falls through to
// case-insensitive substring patterns; the first match wins.

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// maxDetailLines bounds how many per-line parse messages are shown to users.
const maxDetailLines = 5

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string   // What happened (user-friendly)
	Action  string   // What to do about it
	Code    string   // Error code for support reference
	Details []string // Optional specifics, such as offending lines
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

var (
	msgFileTooLarge = UserMessage{Action: "Choose a smaller file or split it into parts", Code: "FILE001"}
	msgFileExt      = UserMessage{Action: "Upload a .csv or .txt file", Code: "FILE002"}
	msgFileType     = UserMessage{Action: "Export the data as CSV and upload it again", Code: "FILE003"}
	msgEmptyData    = UserMessage{
		Message: "The file contains no data rows",
		Action:  "Upload a file with a header row and at least one data row",
		Code:    "FILE005",
	}
	msgMalformed = UserMessage{
		Message: "The file contains malformed rows",
		Action:  "Check quoting and make sure every row has the same number of fields as the header",
		Code:    "FILE006",
	}
	msgReadError = UserMessage{
		Message: "The file could not be read",
		Action:  "Please try uploading the file again",
		Code:    "FILE007",
	}
	msgMappingIncomplete = UserMessage{
		Message: "Select a column for each of the x, y and z axes",
		Action:  "Choose three numeric columns",
		Code:    "MAP001",
	}
	msgMappingDuplicate = UserMessage{
		Message: "Each axis must use a different column",
		Action:  "Choose three distinct columns for x, y and z",
		Code:    "MAP002",
	}
	msgColumnNotFound = UserMessage{
		Message: "The selected column does not exist in this dataset",
		Action:  "Pick one of the dataset's columns",
		Code:    "MAP003",
	}
	msgNotPlottable = UserMessage{
		Message: "At least 3 numeric columns are required",
		Action:  "Upload a file with three or more numeric columns",
		Code:    "MAP004",
	}
	msgSessionNotFound = UserMessage{
		Message: "Session not found",
		Action:  "The session may have expired. Please upload the file again",
		Code:    "SES001",
	}
	msgTooManySessions = UserMessage{
		Message: "Too many open sessions",
		Action:  "Please try again later",
		Code:    "SES002",
	}
	msgBusy = UserMessage{
		Message: "System busy: too many files are being processed",
		Action:  "Please wait a moment and try again",
		Code:    "UPL001",
	}
	msgCancelled = UserMessage{
		Message: "Request was cancelled",
		Action:  "Please try again",
		Code:    "UPL002",
	}
	msgTimeout = UserMessage{
		Message: "Request timed out",
		Action:  "Try a smaller file or check your connection",
		Code:    "UPL003",
	}
	msgColumnName = UserMessage{Action: "Enter a name of 1 to 100 characters", Code: "VAL001"}
	msgRange      = UserMessage{Action: "Enter finite numbers with minimum not above maximum", Code: "VAL002"}
	msgSetting    = UserMessage{Action: "Correct the highlighted setting", Code: "VAL003"}
)

// errorPatterns maps technical error patterns (case-insensitive) to user
// messages for errors that arrive untyped.
var errorPatterns = []errorPattern{
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select a CSV file to upload",
			Code:    "FILE004",
		},
	},
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "The upload exceeds the maximum file size",
			Action:  "Choose a smaller file or split it into parts",
			Code:    "FILE008",
		},
	},
	{pattern: "context canceled", msg: msgCancelled},
	{pattern: "deadline exceeded", msg: msgTimeout},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var ve *ValidationError
	if errors.As(err, &ve) {
		return validationMessage(ve)
	}

	var pe *ParseError
	if errors.As(err, &pe) {
		switch pe.Kind {
		case ParseErrorEmptyData:
			return msgEmptyData
		case ParseErrorMalformedRow:
			msg := msgMalformed
			msg.Details = truncateDetails(pe.Messages)
			return msg
		default:
			if errors.Is(pe.Err, context.DeadlineExceeded) {
				return msgTimeout
			}
			if errors.Is(pe.Err, context.Canceled) {
				return msgCancelled
			}
			return msgReadError
		}
	}

	switch {
	case errors.Is(err, ErrSessionNotFound):
		return msgSessionNotFound
	case errors.Is(err, ErrTooManySessions):
		return msgTooManySessions
	case errors.Is(err, ErrTooManyParses):
		return msgBusy
	case errors.Is(err, ErrMappingIncomplete):
		return msgMappingIncomplete
	case errors.Is(err, ErrMappingDuplicate):
		return msgMappingDuplicate
	case errors.Is(err, ErrColumnNotFound):
		return msgColumnNotFound
	case errors.Is(err, ErrDatasetNotPlottable):
		msg := msgNotPlottable
		var de *DatasetError
		if errors.As(err, &de) {
			msg.Details = de.Problems
		}
		return msg
	case errors.Is(err, context.DeadlineExceeded):
		return msgTimeout
	case errors.Is(err, context.Canceled):
		return msgCancelled
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

func validationMessage(ve *ValidationError) UserMessage {
	var msg UserMessage
	switch ve.Field {
	case "size":
		msg = msgFileTooLarge
	case "name":
		msg = msgFileExt
	case "type":
		msg = msgFileType
	case "column":
		msg = msgColumnName
	case "range":
		msg = msgRange
	default:
		msg = msgSetting
	}
	msg.Message = ve.Message
	return msg
}

func truncateDetails(lines []string) []string {
	if len(lines) <= maxDetailLines {
		return append([]string(nil), lines...)
	}
	out := append([]string(nil), lines[:maxDetailLines]...)
	return append(out, fmt.Sprintf("and %d more", len(lines)-maxDetailLines))
}

// IsUserFacing reports whether err maps to a specific message rather than
// the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error (for logs) with its user message.
type UserError struct {
	Technical error       // Underlying error, kept for logging
	User      UserMessage // What the client is shown
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err to a UserError. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
