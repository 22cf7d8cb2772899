package errors

import (
	"errors"
	"testing"
)

func TestFormat(t *testing.T) {
	if got := Format(nil); got != "" {
		t.Errorf("Format(nil) = %q, want empty", got)
	}
	if got := Format(errors.New("sleep goal must be between 4 and 12 hours")); got != "Error: sleep goal must be between 4 and 12 hours" {
		t.Errorf("Format() = %q", got)
	}
}
