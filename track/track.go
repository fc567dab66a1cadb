/*
DESCRIPTION
  Sparse optical flow tracking of a feature set between consecutive
  luma images. Each input point either tracks to a new sub-pixel
  position or is marked lost; the caller decides when the surviving
  set has degraded enough to warrant re-detection.

AUTHORS
  Ella Pietraroia <ella@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/


// Package track implements pyramidal Lucas-Kanade sparse optical flow.
package track

// Tracking parameters: 3 pyramid levels, a 21x21 integration window,
// at most 30 inner iterations converging at 0.01 px, and a residual
// ceiling beyond which a point is considered lost.
const (
	pyramidLevels = 3
	windowSize    = 21
	maxIterations = 30
	epsilon       = 0.01
	maxResidual   = 50.0
)
