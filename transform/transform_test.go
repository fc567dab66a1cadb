/*
DESCRIPTION
  transform_test.go provides testing for transform composition and
  decomposition, and for the robust partial affine estimator.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/


package transform

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pkg/errors"

	"github.com/ausocean/stabilizer/feature"
)

const tol = 1e-6

func TestDecomposeRoundTrip(t *testing.T) {
	tests := []Components{
		{},
		{TX: 3, TY: -2},
		{Theta: 0.2, LogScale: math.Log(1.1)},
		{TX: -15, TY: 8, Theta: -0.4, LogScale: math.Log(0.7)},
	}
	for i, want := range tests {
		got := FromComponents(want).Decompose()
		if math.Abs(got.TX-want.TX) > tol || math.Abs(got.TY-want.TY) > tol ||
			math.Abs(got.Theta-want.Theta) > tol || math.Abs(got.LogScale-want.LogScale) > tol {
			t.Errorf("test %d: decompose round trip mismatch\nwant: %+v\ngot: %+v", i, want, got)
		}
	}
}

func TestMulInvert(t *testing.T) {
	a := FromComponents(Components{TX: 5, TY: -3, Theta: 0.1, LogScale: 0.05})
	b := FromComponents(Components{TX: -2, TY: 7, Theta: -0.3})

	inv, ok := a.Invert()
	if !ok {
		t.Fatal("could not invert transform")
	}
	if id := a.Mul(inv); !id.IsIdentity(tol) {
		t.Errorf("a*inv(a) is not identity: %+v", id)
	}

	// Composition applies the right-hand transform first.
	x, y := b.Apply(3, 4)
	wx, wy := a.Apply(x, y)
	gx, gy := a.Mul(b).Apply(3, 4)
	if math.Abs(gx-wx) > tol || math.Abs(gy-wy) > tol {
		t.Errorf("composition mismatch: want (%v, %v), got (%v, %v)", wx, wy, gx, gy)
	}
}

// testPairs builds n matched pairs under a known transform, with the
// trailing outliers pairs displaced far outside the inlier threshold.
func testPairs(n, outliers int, truth Transform) (src, dst feature.Set) {
	rng := rand.New(rand.NewSource(42))
	src = make(feature.Set, 0, n)
	dst = make(feature.Set, 0, n)
	for i := 0; i < n; i++ {
		x := rng.Float64() * 600
		y := rng.Float64() * 400
		mx, my := truth.Apply(x, y)
		if i >= n-outliers {
			mx += 40 + rng.Float64()*40
			my -= 40 + rng.Float64()*40
		}
		src = append(src, feature.Point{X: float32(x), Y: float32(y)})
		dst = append(dst, feature.Point{X: float32(mx), Y: float32(my)})
	}
	return src, dst
}

func TestEstimateRecoversTruth(t *testing.T) {
	tests := []Components{
		{TX: -2},
		{TX: 4, TY: -6},
		{TX: 1, TY: 2, Theta: 0.03, LogScale: math.Log(1.05)},
		{Theta: -0.1, LogScale: math.Log(0.9)},
	}
	e := NewEstimator(100)
	for i, c := range tests {
		truth := FromComponents(c)
		src, dst := testPairs(60, 12, truth)
		got, err := e.Estimate(src, dst)
		if err != nil {
			t.Fatalf("test %d: did not expect error: %v", i, err)
		}
		gc := got.Decompose()
		if math.Abs(gc.TX-c.TX) > 1e-3 || math.Abs(gc.TY-c.TY) > 1e-3 ||
			math.Abs(gc.Theta-c.Theta) > 1e-4 || math.Abs(gc.LogScale-c.LogScale) > 1e-4 {
			t.Errorf("test %d: estimate mismatch\nwant: %+v\ngot: %+v", i, c, gc)
		}
		if s := got.Scale(); !(s > 0) || !got.Finite() {
			t.Errorf("test %d: degenerate transform returned: %+v", i, got)
		}
	}
}

func TestEstimateInsufficientMatches(t *testing.T) {
	e := NewEstimator(10)
	src := feature.Set{{X: 1, Y: 1}, {X: 2, Y: 2}, {X: 3, Y: 1}, {X: 4, Y: 5}, {X: 5, Y: 2}}
	_, err := e.Estimate(src, src)
	if errors.Cause(err) != ErrInsufficientMatches {
		t.Errorf("want ErrInsufficientMatches, got %v", err)
	}
}

func TestEstimateDegenerateScale(t *testing.T) {
	// A clean scale of 3 is outside the accepted scale gate.
	truth := FromComponents(Components{LogScale: math.Log(3)})
	src, dst := testPairs(40, 0, truth)
	e := NewEstimator(40)
	_, err := e.Estimate(src, dst)
	if errors.Cause(err) != ErrDegenerate {
		t.Errorf("want ErrDegenerate, got %v", err)
	}
}

func TestEstimateDeterministic(t *testing.T) {
	truth := FromComponents(Components{TX: 3, TY: 1, Theta: 0.02})
	src, dst := testPairs(50, 10, truth)
	e := NewEstimator(50)
	a, err := e.Estimate(src, dst)
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}
	b, err := e.Estimate(src, dst)
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}
	if a != b {
		t.Errorf("estimation is not deterministic\nfirst: %+v\nsecond: %+v", a, b)
	}
}
