/*
DESCRIPTION
  Per-instance observability for the stabilizer. Metrics are updated
  once per processed frame and read back as a cheap struct copy, so a
  host can poll them without touching the pipeline.

AUTHORS
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/


package stabilize

import (
	"time"

	"github.com/ausocean/stabilizer/classify"
)

// Metrics reports the state of the last processed frame. A host
// observes stabilization degradation here rather than through errors.
type Metrics struct {
	LastFrameTime     time.Duration
	TrackedFeatures   int
	LastMotionClass   classify.Class
	EffectiveStrength float64
	HistoryLen        int
	CumulativeFrames  uint64
}
