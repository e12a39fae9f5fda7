package rules

import (
	"errors"
	"testing"
)

func TestRangeContains(t *testing.T) {
	r := Range{Low: 2, High: 3}
	tests := []struct {
		sum  float32
		want bool
	}{
		{1.99, false},
		{2, true},
		{2.5, true},
		{3, true},
		{3.01, false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.sum); got != tt.want {
			t.Errorf("Contains(%f) = %v, want %v", tt.sum, got, tt.want)
		}
	}
}

func TestRangeValidate(t *testing.T) {
	tests := []struct {
		name string
		r    Range
		max  int
		want error
	}{
		{"valid", Range{2, 3}, 8, nil},
		{"inverted", Range{4, 3}, 8, ErrInvalidRange},
		{"negative low", Range{-1, 3}, 8, ErrRangeOutOfBounds},
		{"high above max", Range{2, 9}, 8, ErrRangeOutOfBounds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.r.Validate(tt.max)
			if tt.want == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestRangeClamp(t *testing.T) {
	got := Range{Low: 7, High: 20}.Clamp(5)
	if got != (Range{Low: 5, High: 5}) {
		t.Errorf("expected [5, 5], got %+v", got)
	}
	got = Range{Low: -3, High: 2}.Clamp(5)
	if got != (Range{Low: 0, High: 2}) {
		t.Errorf("expected [0, 2], got %+v", got)
	}
	if err := got.Validate(5); err != nil {
		t.Errorf("clamped range should validate: %v", err)
	}
}

func TestSettingsValidateAndClamp(t *testing.T) {
	s := DefaultSettings()
	if err := s.Validate(8); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}

	s.Radius = MaxRadius + 3
	s.Birth = Range{Low: 6, High: 2}
	if err := s.Validate(8); !errors.Is(err, ErrRadiusOutOfRange) {
		t.Errorf("expected radius error first, got %v", err)
	}

	s.Clamp(8)
	if s.Radius != MaxRadius {
		t.Errorf("expected radius clamped to %d, got %d", MaxRadius, s.Radius)
	}
	if err := s.Validate(8); err != nil {
		t.Errorf("clamped settings should validate: %v", err)
	}
}

func TestParseBoundary(t *testing.T) {
	for in, want := range map[string]Boundary{"wrap": BoundaryWrap, "": BoundaryWrap, "clamp": BoundaryClamp, "Zero": BoundaryClamp} {
		got, err := ParseBoundary(in)
		if err != nil || got != want {
			t.Errorf("ParseBoundary(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseBoundary("mirror"); err == nil {
		t.Error("expected error for unknown boundary")
	}
}

func TestRangeWithLowHigh_KeepsOrder(t *testing.T) {
	r := Range{Low: 2, High: 3}
	if got := r.WithLow(5); got != (Range{Low: 5, High: 5}) {
		t.Errorf("WithLow(5) = %+v", got)
	}
	if got := r.WithHigh(1); got != (Range{Low: 1, High: 1}) {
		t.Errorf("WithHigh(1) = %+v", got)
	}
	if got := r.WithLow(1); got != (Range{Low: 1, High: 3}) {
		t.Errorf("WithLow(1) = %+v", got)
	}
}
