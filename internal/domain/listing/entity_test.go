package listing

import (
	"errors"
	"testing"
)

func TestParsePostType(t *testing.T) {
	for _, valid := range []string{"load", "truck", "company", "job", "resume"} {
		if _, err := ParsePostType(valid); err != nil {
			t.Errorf("ParsePostType(%q) unexpected error: %v", valid, err)
		}
	}

	for _, invalid := range []string{"", "boat", "LOAD", "loads"} {
		if _, err := ParsePostType(invalid); !errors.Is(err, ErrUnknownPostType) {
			t.Errorf("ParsePostType(%q) expected ErrUnknownPostType, got %v", invalid, err)
		}
	}
}

func TestParseStatus(t *testing.T) {
	if _, err := ParseStatus("active"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParseStatus("deleted"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}
