/*
DESCRIPTION
  Configuration for a stabilizer instance. Out-of-range values never
  fail; they are clamped into the documented range and the clamp is
  logged once per change.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>
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
	"math"

	"github.com/ausocean/stabilizer/edge"
)

// Parameter ranges and defaults.
const (
	minSmoothingRadius, maxSmoothingRadius         = 10, 100
	minMaxFeatures, maxMaxFeatures                 = 100, 1000
	minFeatureQuality, maxFeatureQuality           = 0.001, 0.1
	minFeatureDistance, maxFeatureDistance         = 5, 100
	minRefreshThreshold, maxRefreshThreshold       = 0.3, 0.9
	minSensitivity, maxSensitivity                 = 0.1, 10
	defaultSmoothingRadius                         = 30
	defaultMaxFeatures                             = 200
	defaultMinFeatureQuality                       = 0.01
	defaultMinFeatureDistance                      = 10
	defaultRefreshThresholdRatio                   = 0.5
	defaultMaxCorrection                           = 0.8
	defaultSensitivity                             = 1.0
)

// Params configures a stabilizer instance.
type Params struct {
	// Enabled passes frames through untouched when false.
	Enabled bool

	// SmoothingRadius is the transform history capacity and the default
	// smoothing window, in frames. Range [10, 100].
	SmoothingRadius int

	// MaxFeatures bounds the tracked feature set. Range [100, 1000].
	MaxFeatures int

	// MinFeatureQuality is the minimum corner quality as a fraction of
	// the strongest response. Range [0.001, 0.1].
	MinFeatureQuality float64

	// MinFeatureDistance is the minimum spacing between detected
	// features in pixels. Range [5, 100].
	MinFeatureDistance float64

	// RefreshThresholdRatio triggers feature re-detection when the
	// tracked fraction drops below it. Range [0.3, 0.9].
	RefreshThresholdRatio float64

	// MaxCorrection is the fraction of the raw correction to apply.
	// Range [0, 1].
	MaxCorrection float64

	// EdgeMode is the boundary policy for warped pixels.
	EdgeMode edge.Mode

	// Adaptive lets the motion class override effective smoothing and
	// strength.
	Adaptive bool

	// Sensitivity scales the motion classifier thresholds. Range
	// [0.1, 10].
	Sensitivity float64
}

// DefaultParams returns the default configuration.
func DefaultParams() Params {
	return Params{
		Enabled:               true,
		SmoothingRadius:       defaultSmoothingRadius,
		MaxFeatures:           defaultMaxFeatures,
		MinFeatureQuality:     defaultMinFeatureQuality,
		MinFeatureDistance:    defaultMinFeatureDistance,
		RefreshThresholdRatio: defaultRefreshThresholdRatio,
		MaxCorrection:         defaultMaxCorrection,
		EdgeMode:              edge.Crop,
		Sensitivity:           defaultSensitivity,
	}
}

// clamp forces every field into its documented range, logging each
// field it had to change.
func (p *Params) clamp() {
	p.SmoothingRadius = clampInt("SmoothingRadius", p.SmoothingRadius, minSmoothingRadius, maxSmoothingRadius)
	p.MaxFeatures = clampInt("MaxFeatures", p.MaxFeatures, minMaxFeatures, maxMaxFeatures)
	p.MinFeatureQuality = clampFloat("MinFeatureQuality", p.MinFeatureQuality, minFeatureQuality, maxFeatureQuality)
	p.MinFeatureDistance = clampFloat("MinFeatureDistance", p.MinFeatureDistance, minFeatureDistance, maxFeatureDistance)
	p.RefreshThresholdRatio = clampFloat("RefreshThresholdRatio", p.RefreshThresholdRatio, minRefreshThreshold, maxRefreshThreshold)
	p.MaxCorrection = clampFloat("MaxCorrection", p.MaxCorrection, 0, 1)
	p.Sensitivity = clampFloat("Sensitivity", p.Sensitivity, minSensitivity, maxSensitivity)
	if p.EdgeMode != edge.Crop && p.EdgeMode != edge.Pad && p.EdgeMode != edge.Scale {
		logClamp("EdgeMode", int(p.EdgeMode))
		p.EdgeMode = edge.Crop
	}
}

func clampInt(name string, v, min, max int) int {
	switch {
	case v < min:
		logClamp(name, v)
		return min
	case v > max:
		logClamp(name, v)
		return max
	}
	return v
}

func clampFloat(name string, v, min, max float64) float64 {
	switch {
	case math.IsNaN(v), v < min:
		logClamp(name, v)
		return min
	case v > max:
		logClamp(name, v)
		return max
	}
	return v
}

func logClamp(name string, v interface{}) {
	log.Info(name+" out of range, clamping", name, v)
}
