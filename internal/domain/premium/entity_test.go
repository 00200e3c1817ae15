package premium

import (
	"errors"
	"testing"
	"time"
)

func TestParseType(t *testing.T) {
	for _, valid := range []string{"top", "highlight", "urgent"} {
		if _, err := ParseType(valid); err != nil {
			t.Errorf("ParseType(%q) unexpected error: %v", valid, err)
		}
	}

	for _, invalid := range []string{"", "vip", "TOP", "tops"} {
		if _, err := ParseType(invalid); !errors.Is(err, ErrInvalidType) {
			t.Errorf("ParseType(%q) expected ErrInvalidType, got %v", invalid, err)
		}
	}
}

func TestRecordActiveAt(t *testing.T) {
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	record := Record{
		StartTime: start,
		EndTime:   start.Add(24 * time.Hour),
		IsActive:  false, // advisory flag must not matter
	}

	if !record.ActiveAt(start.Add(23*time.Hour + 59*time.Minute)) {
		t.Fatal("record must be active one minute before end_time")
	}
	if record.ActiveAt(record.EndTime) {
		t.Fatal("record must be inactive exactly at end_time")
	}
	if record.ActiveAt(start.Add(24*time.Hour + time.Minute)) {
		t.Fatal("record must be inactive after end_time")
	}
}

func TestExtendWindow(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	// Still-active record: the new window stacks on the current end.
	currentEnd := now.Add(10 * time.Hour)
	got := extendWindow(now, currentEnd, 24*time.Hour)
	if want := currentEnd.Add(24 * time.Hour); !got.Equal(want) {
		t.Fatalf("extendWindow on active record: got %v, want %v", got, want)
	}

	// Lapsed record: the window restarts from now, no retroactive gap.
	lapsedEnd := now.Add(-2 * time.Hour)
	got = extendWindow(now, lapsedEnd, 24*time.Hour)
	if want := now.Add(24 * time.Hour); !got.Equal(want) {
		t.Fatalf("extendWindow on lapsed record: got %v, want %v", got, want)
	}
}

func TestResolveDuration(t *testing.T) {
	tests := []struct {
		name    string
		typ     Type
		hours   int
		want    int
		wantErr error
	}{
		{"top default", TypeTop, 0, 24, nil},
		{"top 24h", TypeTop, 24, 24, nil},
		{"top 72h", TypeTop, 72, 72, nil},
		{"top 168h", TypeTop, 168, 168, nil},
		{"top 48h rejected", TypeTop, 48, 0, ErrInvalidDuration},
		{"top negative rejected", TypeTop, -24, 0, ErrInvalidDuration},
		{"highlight default", TypeHighlight, 0, 24, nil},
		{"highlight explicit 24h", TypeHighlight, 24, 24, nil},
		{"highlight 72h rejected", TypeHighlight, 72, 0, ErrInvalidDuration},
		{"urgent default", TypeUrgent, 0, 24, nil},
		{"urgent 168h rejected", TypeUrgent, 168, 0, ErrInvalidDuration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveDuration(tt.typ, tt.hours)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
			if got != tt.want {
				t.Fatalf("expected %d hours, got %d", tt.want, got)
			}
		})
	}
}
