package timespan

import (
	"errors"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input   string
		want    Clock
		wantErr bool
	}{
		{"00:00", Midnight, false},
		{"09:30", 9*60 + 30, false},
		{"23:59", EndOfDay, false},
		{"9:30", 0, true},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"ab:cd", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidClock) {
					t.Fatalf("Parse(%q) error = %v, want ErrInvalidClock", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestClock_String(t *testing.T) {
	if got := New(7, 5).String(); got != "07:05" {
		t.Errorf("String() = %q, want 07:05", got)
	}
	if got := New(25, 0); got != EndOfDay {
		t.Errorf("New(25, 0) = %v, want clamped 23:59", got)
	}
}

func TestClock_On(t *testing.T) {
	date := time.Date(2011, 6, 2, 0, 0, 0, 0, time.UTC)
	got := MustParse("10:30").On(date)
	want := time.Date(2011, 6, 2, 10, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("On() = %v, want %v", got, want)
	}
}

func TestAddCapped(t *testing.T) {
	tests := []struct {
		a, b string
		want string
	}{
		{"10:00", "01:00", "11:00"},
		{"22:59", "01:00", "23:59"},
		{"23:00", "01:00", "23:59"},
		{"23:30", "01:00", "23:59"},
		{"00:00", "00:00", "00:00"},
	}

	for _, tt := range tests {
		got := AddCapped(MustParse(tt.a), MustParse(tt.b))
		if got.String() != tt.want {
			t.Errorf("AddCapped(%s, %s) = %s, want %s", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestAdd(t *testing.T) {
	got, err := Add(MustParse("10:15"), MustParse("02:30"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.String() != "12:45" {
		t.Errorf("Add = %s, want 12:45", got)
	}

	if _, err := Add(MustParse("23:00"), MustParse("01:00")); !errors.Is(err, ErrTimeOverflow) {
		t.Errorf("expected ErrTimeOverflow, got %v", err)
	}

	got, err = Add(MustParse("22:59"), MustParse("01:00"))
	if err != nil {
		t.Fatalf("sum of exactly 23:59 should not overflow: %v", err)
	}
	if got != EndOfDay {
		t.Errorf("Add = %s, want 23:59", got)
	}
}

func TestDiff(t *testing.T) {
	if got := Diff(MustParse("09:00"), MustParse("10:30")); got.String() != "01:30" {
		t.Errorf("Diff = %s, want 01:30", got)
	}
	if got := Diff(MustParse("10:30"), MustParse("09:00")); got.String() != "01:30" {
		t.Errorf("Diff reversed = %s, want 01:30", got)
	}
}

func TestBetween(t *testing.T) {
	start, end := MustParse("09:00"), MustParse("10:00")
	tests := []struct {
		c    string
		want bool
	}{
		{"08:59", false},
		{"09:00", true},
		{"09:30", true},
		{"10:00", true},
		{"10:01", false},
	}
	for _, tt := range tests {
		if got := Between(MustParse(tt.c), start, end); got != tt.want {
			t.Errorf("Between(%s) = %v, want %v", tt.c, got, tt.want)
		}
	}
}

func TestInstantBetween(t *testing.T) {
	start := time.Date(2000, 5, 5, 12, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	if !InstantBetween(start, start, end) || !InstantBetween(end, start, end) {
		t.Error("endpoints should be contained")
	}
	if InstantBetween(end.Add(time.Minute), start, end) {
		t.Error("instant after end should not be contained")
	}
}

func TestBetweenLoop(t *testing.T) {
	tests := []struct {
		name        string
		value       int
		left, right int
		wraps       bool
		want        bool
	}{
		{"inside plain range", 3, 2, 5, false, true},
		{"left edge", 2, 2, 5, false, true},
		{"right edge", 5, 2, 5, false, true},
		{"outside plain range", 6, 2, 5, false, false},
		{"single position", 4, 4, 4, false, true},
		{"single position miss", 5, 4, 4, false, false},
		// Friday (5) to Tuesday (2)
		{"wrapped upper arc", 6, 5, 2, true, true},
		{"wrapped lower arc", 1, 5, 2, true, true},
		{"wrapped left edge", 5, 5, 2, true, true},
		{"wrapped right edge", 2, 5, 2, true, true},
		{"wrapped gap", 3, 5, 2, true, false},
		{"wrapped gap upper", 4, 5, 2, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BetweenLoop(tt.value, tt.left, tt.right, tt.wraps); got != tt.want {
				t.Errorf("BetweenLoop(%d, %d, %d, %v) = %v, want %v",
					tt.value, tt.left, tt.right, tt.wraps, got, tt.want)
			}
		})
	}
}
