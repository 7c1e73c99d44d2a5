package profile

import (
	"math"
	"testing"
)

const eps = 1e-12

func TestMidpoints(t *testing.T) {
	r := Midpoints(3, 0.2)
	want := []float64{0.1, 0.3, 0.5}
	for i := range want {
		if math.Abs(r[i]-want[i]) > eps {
			t.Errorf("midpoint %d = %g, want %g", i, r[i], want[i])
		}
	}
}

func TestPCHIPReproducesKnots(t *testing.T) {
	xs := Midpoints(20, 0.2)
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = math.Exp(-x) / (1. + x)
	}
	interp, err := NewPCHIP(xs, ys)
	if err != nil {
		t.Fatal(err)
	}
	for i, x := range xs {
		if got := interp.At(x); math.Abs(got-ys[i]) > eps {
			t.Errorf("At(%g) = %g, want knot value %g", x, got, ys[i])
		}
	}
}

func TestPCHIPNoExtrapolation(t *testing.T) {
	xs := Midpoints(5, 0.2)
	ys := []float64{5, 4, 3, 2, 1}
	interp, err := NewPCHIP(xs, ys)
	if err != nil {
		t.Fatal(err)
	}
	if got := interp.At(xs[0] - 1e-9); got != 0 {
		t.Errorf("below domain: got %g, want 0", got)
	}
	if got := interp.At(xs[4] + 1e-9); got != 0 {
		t.Errorf("above domain: got %g, want 0", got)
	}
	if got := interp.At(xs[0]); got != 5 {
		t.Errorf("left boundary: got %g, want 5", got)
	}
	if got := interp.At(xs[4]); got != 1 {
		t.Errorf("right boundary: got %g, want 1", got)
	}
}

func TestPCHIPMonotoneNoOvershoot(t *testing.T) {
	// steeply decaying data: a plain cubic spline would undershoot below 0
	xs := []float64{0, 1, 2, 3, 4, 5}
	ys := []float64{100, 10, 1, 0.1, 0.01, 0.001}
	interp, err := NewPCHIP(xs, ys)
	if err != nil {
		t.Fatal(err)
	}
	prev := interp.At(0)
	for x := 0.01; x <= 5; x += 0.01 {
		got := interp.At(x)
		if got < 0 {
			t.Fatalf("overshoot below zero at %g: %g", x, got)
		}
		if got > prev+eps {
			t.Fatalf("monotonicity lost at %g: %g > %g", x, got, prev)
		}
		prev = got
	}
}

func TestPCHIPLinearData(t *testing.T) {
	xs := []float64{0, 1, 2, 3}
	ys := []float64{1, 3, 5, 7}
	interp, err := NewPCHIP(xs, ys)
	if err != nil {
		t.Fatal(err)
	}
	for x := 0.; x <= 3; x += 0.125 {
		if got := interp.At(x); math.Abs(got-(1.+2.*x)) > 1e-9 {
			t.Errorf("linear data: At(%g) = %g, want %g", x, got, 1.+2.*x)
		}
	}
}

func TestPCHIPRejectsBadKnots(t *testing.T) {
	if _, err := NewPCHIP([]float64{1}, []float64{1}); err == nil {
		t.Error("single knot accepted")
	}
	if _, err := NewPCHIP([]float64{1, 1}, []float64{1, 2}); err == nil {
		t.Error("duplicate knots accepted")
	}
	if _, err := NewPCHIP([]float64{1, 2}, []float64{1}); err == nil {
		t.Error("length mismatch accepted")
	}
}

func TestQueries(t *testing.T) {
	qs := Queries(0.5, 3.5, 0.5)
	if len(qs) != 7 {
		t.Fatalf("got %d queries: %v", len(qs), qs)
	}
	if math.Abs(qs[0]-0.5) > eps || math.Abs(qs[6]-3.5) > eps {
		t.Errorf("query range = [%g, %g]", qs[0], qs[6])
	}
}

func TestSampleOutOfDomainSentinel(t *testing.T) {
	xs := Midpoints(20, 0.2) // covers [0.1, 3.9]
	ys := make([]float64, 20)
	for i := range ys {
		ys[i] = 1. / float64(i+1)
	}
	out, err := Sample(xs, ys, []float64{0.0, 0.1, 2.0, 3.9, 4.5})
	if err != nil {
		t.Fatal(err)
	}
	if out[0] != 0 || out[4] != 0 {
		t.Errorf("out-of-domain samples = %g, %g, want 0", out[0], out[4])
	}
	if math.Abs(out[1]-ys[0]) > 1e-9 || math.Abs(out[3]-ys[19]) > 1e-9 {
		t.Errorf("boundary samples = %g, %g", out[1], out[3])
	}
	if out[2] <= 0 {
		t.Errorf("interior sample = %g", out[2])
	}
}
