/*
DESCRIPTION
  smooth_test.go provides testing for the windowed correction
  computation.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/


package smooth

import (
	"math"
	"testing"

	"github.com/ausocean/stabilizer/transform"
)

const tol = 1e-9

func window(n int, c transform.Components) []transform.Transform {
	out := make([]transform.Transform, n)
	for i := range out {
		out[i] = transform.FromComponents(c)
	}
	return out
}

func TestIdentityWindow(t *testing.T) {
	k := Correction(window(10, transform.Components{}), 1)
	if !k.IsIdentity(tol) {
		t.Errorf("identity window did not produce identity correction: %+v", k)
	}
}

func TestShortWindow(t *testing.T) {
	for _, n := range []int{0, 1} {
		k := Correction(window(n, transform.Components{TX: 5}), 1)
		if !k.IsIdentity(tol) {
			t.Errorf("window size %d did not produce identity: %+v", n, k)
		}
	}
}

func TestZeroStrength(t *testing.T) {
	k := Correction(window(10, transform.Components{TX: 5, Theta: 0.1}), 0)
	if !k.IsIdentity(tol) {
		t.Errorf("zero strength did not produce identity: %+v", k)
	}
}

func TestConstantTranslation(t *testing.T) {
	// Ten identical per-frame alignments of tx=-2: the mean is -2 and
	// the accumulated motion -20, so the full-strength correction is
	// their difference. Note that under a sustained constant pan this
	// correction is the same for every frame once the window is full:
	// the output is re-centred, not slowed, so no per-frame residual
	// motion bound is asserted here or in the end-to-end pan test.
	k := Correction(window(10, transform.Components{TX: -2}), 1)
	c := k.Decompose()
	if math.Abs(c.TX-18) > tol || math.Abs(c.TY) > tol || math.Abs(c.Theta) > tol || math.Abs(c.LogScale) > tol {
		t.Errorf("want tx 18, got %+v", c)
	}
}

func TestStrengthScalesComponents(t *testing.T) {
	full := Correction(window(8, transform.Components{TX: 1, Theta: 0.01}), 1).Decompose()
	half := Correction(window(8, transform.Components{TX: 1, Theta: 0.01}), 0.5).Decompose()
	if math.Abs(half.TX-full.TX/2) > tol || math.Abs(half.Theta-full.Theta/2) > tol {
		t.Errorf("half strength is not half correction\nfull: %+v\nhalf: %+v", full, half)
	}
}

func TestOscillationCancels(t *testing.T) {
	// Alternating equal and opposite motion sums to nothing over an
	// even window, and so does its mean, so the correction vanishes.
	w := make([]transform.Transform, 0, 10)
	for i := 0; i < 10; i++ {
		v := 5.0
		if i%2 == 1 {
			v = -5
		}
		w = append(w, transform.FromComponents(transform.Components{TX: v}))
	}
	k := Correction(w, 1)
	if c := k.Decompose(); math.Abs(c.TX) > tol {
		t.Errorf("oscillating window should cancel, got %+v", c)
	}
}
