package services

import (
	"errors"
	"fmt"
	"time"

	"sammyAPI/internal/dates"
)

// ValidationError is returned for caller mistakes. Handlers answer 400 and
// the message is safe to show.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalidf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

var ErrQuotaExceeded = errors.New("daily chat limit reached")

// resolveDate returns date, or today when it is empty.
func resolveDate(date string, now time.Time) (string, error) {
	if date == "" {
		return dates.Today(now), nil
	}
	if !dates.Valid(date) {
		return "", invalidf("invalid date %q, expected YYYY-MM-DD", date)
	}
	return date, nil
}
