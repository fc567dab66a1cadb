/*
DESCRIPTION
  Motion classification over a rolling window of inter-frame
  transforms. Recent motion is reduced to scalar statistics (magnitude
  mean and variance, directional consistency, oscillation ratio) and
  mapped to one of five discrete regimes.

AUTHORS
  Russell Stanley <russell@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/


// Package classify derives a discrete motion class from recent
// inter-frame camera motion.
package classify

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/ausocean/stabilizer/transform"
)

// Class is a discrete motion regime.
type Class int

// The motion classes, ordered from least to most active.
const (
	Static Class = iota
	SlowMotion
	FastMotion
	PanZoom
	CameraShake
)

// String returns the name of the motion class.
func (c Class) String() string {
	switch c {
	case Static:
		return "Static"
	case SlowMotion:
		return "SlowMotion"
	case FastMotion:
		return "FastMotion"
	case PanZoom:
		return "PanZoom"
	case CameraShake:
		return "CameraShake"
	}
	return "Unknown"
}

// Metrics holds the rolling statistics the decision rule is evaluated
// against.
type Metrics struct {
	MeanMagnitude          float64
	VarMagnitude           float64
	DirectionalConsistency float64 // In [0, 1].
	HighFreqRatio          float64 // In [0, 1].
}

// Magnitude weighting constants, chosen so rotation and scale changes
// contribute comparably to translations measured in pixels.
const (
	rotWeight = 50
	sclWeight = 100
)

// Decision thresholds at sensitivity 1.
const (
	staticMeanMax  = 6.0
	staticVarMax   = 3.0
	shakeFreqMin   = 0.85
	panConsistency = 0.96
	fastMeanMin    = 15.0
	fastMeanMax    = 40.0
)

// Classifier computes motion metrics and classes. Scratch storage is
// reused between calls.
type Classifier struct {
	mags []float64
}

// NewClassifier returns a classifier sized for windows up to maxWindow
// transforms.
func NewClassifier(maxWindow int) *Classifier {
	return &Classifier{mags: make([]float64, 0, maxWindow)}
}

// Classify maps the window of inter-frame transforms, in chronological
// order, to a motion class. Sensitivity scales the decision thresholds;
// lower sensitivity widens them so that more motion is tolerated before
// leaving Static. Classification is deterministic for identical input.
func (c *Classifier) Classify(window []transform.Transform, sensitivity float64) (Class, Metrics) {
	var m Metrics
	if len(window) == 0 {
		return Static, m
	}
	if sensitivity <= 0 {
		sensitivity = 1
	}
	scale := 1 / sensitivity

	c.mags = c.mags[:0]
	var prevTX, prevTY float64
	var consSum float64
	var consN int
	for i, t := range window {
		d := t.Decompose()
		c.mags = append(c.mags, math.Hypot(d.TX, d.TY)+rotWeight*math.Abs(d.Theta)+sclWeight*math.Abs(d.LogScale))

		if i > 0 {
			na, nb := math.Hypot(prevTX, prevTY), math.Hypot(d.TX, d.TY)
			if na > 1e-6 && nb > 1e-6 {
				consSum += (prevTX*d.TX + prevTY*d.TY) / (na * nb)
				consN++
			}
		}
		prevTX, prevTY = d.TX, d.TY
	}

	m.MeanMagnitude = stat.Mean(c.mags, nil)
	if len(c.mags) > 1 {
		m.VarMagnitude = stat.Variance(c.mags, nil)
	}
	if consN > 0 {
		m.DirectionalConsistency = clamp01(consSum / float64(consN))
	}
	m.HighFreqRatio = highFreqRatio(c.mags)

	switch {
	case m.MeanMagnitude < staticMeanMax*scale && m.VarMagnitude < staticVarMax*scale:
		return Static, m
	case m.HighFreqRatio > shakeFreqMin*scale:
		return CameraShake, m
	case m.DirectionalConsistency > panConsistency/scale && m.MeanMagnitude > staticMeanMax*scale:
		return PanZoom, m
	case m.MeanMagnitude >= fastMeanMin*scale && m.MeanMagnitude < fastMeanMax*scale:
		return FastMotion, m
	default:
		return SlowMotion, m
	}
}

// highFreqRatio returns the fraction of frame-to-frame magnitude
// differences whose sign flips relative to the previous difference, a
// proxy for oscillation.
func highFreqRatio(mags []float64) float64 {
	if len(mags) < 3 {
		return 0
	}
	var flips, n int
	prev := mags[1] - mags[0]
	for i := 2; i < len(mags); i++ {
		d := mags[i] - mags[i-1]
		if d*prev < 0 {
			flips++
		}
		n++
		prev = d
	}
	return float64(flips) / float64(n)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
