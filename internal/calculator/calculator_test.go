package calculator

import (
	"math"
	"testing"
)

func TestRange(t *testing.T) {
	high, low, err := Range([]float64{1.0, 1.2, 0.9})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if high != 1.2 || low != 0.9 {
		t.Errorf("expected (1.2, 0.9), got (%.2f, %.2f)", high, low)
	}
	if _, _, err := Range(nil); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestCalculateSMA(t *testing.T) {
	got, err := CalculateSMA([]float64{1, 2, 3, 4}, 2)
	if err != nil || got != 3.5 {
		t.Errorf("expected 3.5, got %.2f (%v)", got, err)
	}
	if _, err := CalculateSMA([]float64{1}, 2); err == nil {
		t.Error("expected error for short input")
	}
	if _, err := CalculateSMA([]float64{1}, 0); err == nil {
		t.Error("expected error for zero period")
	}
}

func TestRollingSMA(t *testing.T) {
	got := RollingSMA([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	if len(got) != len(want) {
		t.Fatalf("expected %d values, got %d", len(want), len(got))
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("index %d: expected %.2f, got %.2f", i, want[i], got[i])
		}
	}
	if RollingSMA(nil, 3) != nil {
		t.Error("expected nil for empty input")
	}
}
