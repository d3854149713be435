package utils

import (
	"fmt"
	"time"
)

// ValidateDateString checks the wire format used everywhere in this
// codebase (YYYY-MM-DD).
func ValidateDateString(s string) error {
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return nil
}
