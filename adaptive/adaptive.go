/*
DESCRIPTION
  Maps the current motion class to the effective smoothing strength and
  window size. Static scenes get a light touch, camera shake the full
  configured correction, and pans a reduced one so intentional motion
  is followed rather than fought.

AUTHORS
  Russell Stanley <russell@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/


// Package adaptive resolves effective stabilization parameters from
// the current motion class.
package adaptive

import (
	"math"

	"github.com/ausocean/stabilizer/classify"
)

// Per-class multipliers for correction strength and smoothing window.
var multipliers = map[classify.Class]struct{ strength, window float64 }{
	classify.Static:      {0.2, 1.0},
	classify.SlowMotion:  {0.7, 1.0},
	classify.FastMotion:  {0.4, 0.5},
	classify.CameraShake: {1.0, 1.0},
	classify.PanZoom:     {0.3, 0.7},
}

// Resolve returns the effective correction strength and smoothing
// window for the given class. When adaptive is false the configured
// values pass through unchanged. Strength is clamped to [0, 1] and the
// window to [2, radius].
func Resolve(adaptive bool, class classify.Class, maxCorrection float64, radius int) (strength float64, window int) {
	strength, window = maxCorrection, radius
	if adaptive {
		if m, ok := multipliers[class]; ok {
			strength = maxCorrection * m.strength
			window = int(math.Round(float64(radius) * m.window))
		}
	}
	if strength < 0 {
		strength = 0
	}
	if strength > 1 {
		strength = 1
	}
	if window < 2 {
		window = 2
	}
	if window > radius {
		window = radius
	}
	return strength, window
}
