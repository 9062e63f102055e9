package data

import "fmt"

// LoadError codes.
const (
	CodeUnreadableFile = "UNREADABLE_FILE"
	CodeMissingColumn  = "MISSING_COLUMN"
	CodeBadTimestamp   = "BAD_TIMESTAMP"
	CodeBadPrice       = "BAD_PRICE"
	CodeEmptyDataset   = "EMPTY_DATASET"
	CodeFileTooLarge   = "FILE_TOO_LARGE"
)

// LoadError represents a rejected price file. A LoadError never changes the
// dataset currently held by a session.
type LoadError struct {
	Code    string
	Message string
	Row     int // 1-based spreadsheet row, 0 when not row specific
	Err     error
}

func (e *LoadError) Error() string {
	msg := e.Message
	if e.Row > 0 {
		msg = fmt.Sprintf("row %d: %s", e.Row, msg)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *LoadError) Unwrap() error { return e.Err }

func loadErr(code string, row int, err error, format string, args ...any) *LoadError {
	return &LoadError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Row:     row,
		Err:     err,
	}
}
