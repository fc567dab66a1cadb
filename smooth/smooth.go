/*
DESCRIPTION
  Windowed motion smoothing. The correction for the current frame is
  derived from the difference between the mean and the accumulated
  camera motion over the smoothing window, computed in decomposed
  component space for numerical stability.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/


// Package smooth computes per-frame correction transforms from a
// window of recent inter-frame motion.
package smooth

import "github.com/ausocean/stabilizer/transform"

// Correction returns the transform to apply to the current frame given
// the smoothing window of inter-frame transforms in chronological
// order. Strength in [0, 1] scales each decomposed component of the
// correction; at 0 the result is the identity.
//
// The smoothed cumulative motion is the componentwise mean over the
// window and the actual cumulative motion is the componentwise sum, so
// the correction is mean minus sum. Components are combined
// additively: exact for rotation and log scale, and for translation
// only when the composed transforms carry no rotation or scale.
func Correction(window []transform.Transform, strength float64) transform.Transform {
	if len(window) < 2 || strength <= 0 {
		return transform.Identity()
	}
	if strength > 1 {
		strength = 1
	}

	var mean, sum transform.Components
	for _, t := range window {
		c := t.Decompose()
		sum.TX += c.TX
		sum.TY += c.TY
		sum.Theta += c.Theta
		sum.LogScale += c.LogScale
	}
	inv := 1 / float64(len(window))
	mean.TX = sum.TX * inv
	mean.TY = sum.TY * inv
	mean.Theta = sum.Theta * inv
	mean.LogScale = sum.LogScale * inv

	return transform.FromComponents(transform.Components{
		TX:       strength * (mean.TX - sum.TX),
		TY:       strength * (mean.TY - sum.TY),
		Theta:    strength * (mean.Theta - sum.Theta),
		LogScale: strength * (mean.LogScale - sum.LogScale),
	})
}
