package smoothing

import (
	"errors"
	"fmt"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"

	"leemiv/internal/models"
)

// TestSmoothPreservesLength verifies the output support matches the input
func TestSmoothPreservesLength(t *testing.T) {
	for _, n := range []int{1, 2, 5, 17, 100} {
		seq := make([]float64, n)
		for i := range seq {
			seq[i] = float64(i * i)
		}
		for _, length := range []int{2, 4, 10} {
			out, err := Smooth(seq, length, Flat)
			if err != nil {
				t.Fatalf("Smooth(n=%d, L=%d) failed: %v", n, length, err)
			}
			if len(out) != n {
				t.Errorf("Smooth(n=%d, L=%d) returned %d samples", n, length, len(out))
			}
		}
	}
}

// TestSmoothConstant verifies a constant sequence is a fixed point of every
// kernel to within rounding of the normalized weights
func TestSmoothConstant(t *testing.T) {
	seq := make([]float64, 30)
	for i := range seq {
		seq[i] = 3.7
	}
	for _, wt := range WindowTypes {
		for _, length := range []int{4, 6, 11, 30} {
			t.Run(fmt.Sprintf("%s/%d", wt, length), func(t *testing.T) {
				out, err := Smooth(seq, length, wt)
				if err != nil {
					t.Fatalf("Smooth failed: %v", err)
				}
				if !floats.EqualApprox(out, seq, 1e-12) {
					t.Errorf("Expected constant output, got %v", out)
				}
			})
		}
	}
}

func TestSmoothFlatValues(t *testing.T) {
	seq := []float64{0, 1, 2, 3, 4, 5, 6, 7}
	out, err := Smooth(seq, 2, Flat)
	if err != nil {
		t.Fatalf("Smooth failed: %v", err)
	}
	want := []float64{0.5, 0.5, 1.5, 2.5, 3.5, 4.5, 5.5, 6.5}
	if !floats.EqualApprox(out, want, 1e-12) {
		t.Errorf("Expected %v, got %v", want, out)
	}

	// The input must not be modified
	if seq[0] != 0 || seq[7] != 7 {
		t.Errorf("Smooth modified its input: %v", seq)
	}
}

// TestOddLengthCorrected verifies odd lengths behave as the next even length
func TestOddLengthCorrected(t *testing.T) {
	seq := []float64{5, 1, 4, 2, 8, 3, 9, 0, 7}
	odd, err := Smooth(seq, 5, Hamming)
	if err != nil {
		t.Fatalf("Smooth failed: %v", err)
	}
	even, err := Smooth(seq, 6, Hamming)
	if err != nil {
		t.Fatalf("Smooth failed: %v", err)
	}
	if !floats.Equal(odd, even) {
		t.Errorf("Length 5 gave %v, length 6 gave %v", odd, even)
	}

	if got, _ := NormalizeLength(7); got != 8 {
		t.Errorf("Expected 7 to normalize to 8, got %d", got)
	}
}

func TestSmoothRejects(t *testing.T) {
	seq := []float64{1, 2, 3, 4}
	tests := []struct {
		name   string
		seq    []float64
		length int
		wt     WindowType
	}{
		{"zero length", seq, 0, Flat},
		{"negative length", seq, -4, Flat},
		{"unknown type", seq, 4, WindowType("kaiser")},
		{"empty sequence", nil, 4, Flat},
		{"hanning of length 2", seq, 2, Hanning},
		{"bartlett of length 1", seq, 1, Bartlett},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Smooth(tt.seq, tt.length, tt.wt); !errors.Is(err, models.ErrInvalidInput) {
				t.Errorf("Expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestParseWindowType(t *testing.T) {
	wt, err := ParseWindowType(" Blackman ")
	if err != nil || wt != Blackman {
		t.Errorf("Expected blackman, got %q (%v)", wt, err)
	}
	if _, err := ParseWindowType("gaussian"); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

// TestKernelNormalized verifies every kernel sums to one and is symmetric
func TestKernelNormalized(t *testing.T) {
	for _, wt := range WindowTypes {
		w, err := Kernel(8, wt)
		if err != nil {
			t.Fatalf("Kernel(%s) failed: %v", wt, err)
		}
		if sum := floats.Sum(w); !scalar.EqualWithinAbs(sum, 1, 1e-12) {
			t.Errorf("Kernel(%s) sums to %v", wt, sum)
		}
		for i := range w {
			if !scalar.EqualWithinAbs(w[i], w[len(w)-1-i], 1e-12) {
				t.Errorf("Kernel(%s) is not symmetric: %v", wt, w)
				break
			}
		}
	}
}

func TestReflect(t *testing.T) {
	// n=4 mirrors as ... 2 1 | 0 1 2 3 | 2 1 0 1 ...
	want := map[int]int{-3: 3, -2: 2, -1: 1, 0: 0, 3: 3, 4: 2, 5: 1, 6: 0, 7: 1}
	for i, w := range want {
		if got := reflect(i, 4); got != w {
			t.Errorf("reflect(%d, 4) = %d, want %d", i, got, w)
		}
	}
	if got := reflect(-9, 1); got != 0 {
		t.Errorf("reflect(-9, 1) = %d, want 0", got)
	}
}

func TestConfigApply(t *testing.T) {
	seq := []float64{1, 9, 1, 9}
	out, err := Config{Enabled: false, Type: Flat, Length: 2}.Apply(seq)
	if err != nil || !floats.Equal(out, seq) {
		t.Errorf("Disabled config changed the sequence: %v (%v)", out, err)
	}

	cfg, err := Config{Enabled: true, Type: " HANNING", Length: 3}.Normalize()
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if cfg.Type != Hanning || cfg.Length != 4 {
		t.Errorf("Expected hanning/4, got %s/%d", cfg.Type, cfg.Length)
	}
}
