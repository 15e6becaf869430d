package domain_test

import (
	"math"
	"math/big"
	"testing"

	"github.com/musks-suburbs/zk-fee-profiler/business/profile/domain"
)

func TestWeiToGwei(t *testing.T) {
	tests := []struct {
		name string
		wei  *big.Int
		want float64
	}{
		{"nil", nil, 0},
		{"zero", big.NewInt(0), 0},
		{"one_gwei", big.NewInt(1_000_000_000), 1},
		{"five_wei", big.NewInt(5), 5e-9},
		{"sixty_wei", big.NewInt(60), 6e-8},
		{"fractional", big.NewInt(12_345_678_900), 12.3456789},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := domain.WeiToGwei(tt.wei); got != tt.want {
				t.Errorf("WeiToGwei(%v) = %v, want %v", tt.wei, got, tt.want)
			}
		})
	}
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"empty", nil, 0},
		{"single", []float64{7}, 7},
		{"odd", []float64{3, 1, 2}, 2},
		{"even_average", []float64{4, 1, 3, 2}, 2.5},
		{"unsorted", []float64{10, 12, 11}, 11},
		{"duplicates", []float64{5, 5, 5, 5}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := domain.Median(tt.values); got != tt.want {
				t.Errorf("Median(%v) = %v, want %v", tt.values, got, tt.want)
			}
		})
	}
}

func TestMedian_DoesNotMutateInput(t *testing.T) {
	values := []float64{3, 1, 2}
	domain.Median(values)

	if values[0] != 3 || values[1] != 1 || values[2] != 2 {
		t.Errorf("input slice mutated: %v", values)
	}
}

func TestPercentile(t *testing.T) {
	series := []float64{30, 10, 50, 20, 40}

	tests := []struct {
		name string
		q    float64
		want float64
	}{
		{"zero_is_min", 0.0, 10},
		{"one_is_max", 1.0, 50},
		{"median", 0.5, 30},
		{"eighty", 0.8, 40}, // round(0.8*4) = 3 -> sorted[3]
		{"clamped_below", -0.5, 10},
		{"clamped_above", 2.0, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := domain.Percentile(series, tt.q); got != tt.want {
				t.Errorf("Percentile(%v, %v) = %v, want %v", series, tt.q, got, tt.want)
			}
		})
	}
}

func TestPercentile_NaN(t *testing.T) {
	series := []float64{30, 10, 50, 20, 40}

	if got := domain.Percentile(series, math.NaN()); got != 50 {
		t.Errorf("Percentile(series, NaN) = %v, want 50", got)
	}
}

func TestPercentile_Empty(t *testing.T) {
	for _, q := range []float64{0, 0.5, 1, -1, 2} {
		if got := domain.Percentile(nil, q); got != 0 {
			t.Errorf("Percentile(nil, %v) = %v, want 0", q, got)
		}
	}
}

func TestMinMax(t *testing.T) {
	series := []float64{12, 10, 11}

	if got := domain.Min(series); got != 10 {
		t.Errorf("Min = %v, want 10", got)
	}
	if got := domain.Max(series); got != 12 {
		t.Errorf("Max = %v, want 12", got)
	}
	if got := domain.Min(nil); got != 0 {
		t.Errorf("Min(nil) = %v, want 0", got)
	}
	if got := domain.Max(nil); got != 0 {
		t.Errorf("Max(nil) = %v, want 0", got)
	}
}

func TestRound3(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"passthrough", 1.5, 1.5},
		{"truncates", 1.23456, 1.235},
		{"half_to_even_down", 1.2345, 1.234},
		{"half_to_even_up", 1.2335, 1.234},
		{"zero", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := domain.Round3(tt.in); got != tt.want {
				t.Errorf("Round3(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
