package core

import (
	"encoding/json"
	"testing"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		want  Date
		valid bool
	}{
		{"plain date", "2025-09-19", NewDate(2025, 9, 19), true},
		{"timestamp truncated", "2025-09-19T23:59:59", NewDate(2025, 9, 19), true},
		{"padded", " 2025-01-02 ", NewDate(2025, 1, 2), true},
		{"empty", "", Date{}, false},
		{"garbage", "19/09/2025", Date{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if tt.valid && err != nil {
				t.Fatalf("ParseDate(%q) error: %v", tt.in, err)
			}
			if !tt.valid {
				if err == nil {
					t.Fatalf("ParseDate(%q) expected error", tt.in)
				}
				return
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseDate(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestDateWithin(t *testing.T) {
	start := NewDate(2025, 9, 1)
	end := NewDate(2025, 9, 30)

	tests := []struct {
		name string
		d    Date
		want bool
	}{
		{"inside range", NewDate(2025, 9, 15), true},
		{"equal to start", start, true},
		{"equal to end", end, true},
		{"day before start", start.AddDays(-1), false},
		{"day after end", end.AddDays(1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.d.Within(start, end); got != tt.want {
				t.Errorf("%s.Within(%s, %s) = %v, want %v", tt.d, start, end, got, tt.want)
			}
		})
	}

	// Zero bounds leave that side open.
	if !NewDate(1999, 1, 1).Within(Date{}, end) {
		t.Errorf("zero start should not constrain")
	}
	if !NewDate(2999, 1, 1).Within(start, Date{}) {
		t.Errorf("zero end should not constrain")
	}
}

func TestDateMonthBounds(t *testing.T) {
	first, last := NewDate(2025, 2, 14).MonthBounds()
	if !first.Equal(NewDate(2025, 2, 1)) {
		t.Errorf("first = %s, want 2025-02-01", first)
	}
	if !last.Equal(NewDate(2025, 2, 28)) {
		t.Errorf("last = %s, want 2025-02-28", last)
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(2025, 9, 6)
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2025-09-06"` {
		t.Fatalf("marshal = %s", b)
	}
	var back Date
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(d) {
		t.Fatalf("round trip = %s, want %s", back, d)
	}

	var zero Date
	if err := json.Unmarshal([]byte(`null`), &zero); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}
	if !zero.IsZero() {
		t.Fatalf("null should decode to zero date")
	}
}
