/*
DESCRIPTION
  A 2x3 affine transform type describing inter-frame camera motion,
  with a decomposed view (translation, rotation, uniform scale) used
  by the smoothing and classification stages.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/


// Package transform provides the 2x3 affine transform used to describe
// inter-frame camera motion, and a robust estimator that fits a partial
// affine model (translation, rotation and uniform scale) to matched
// feature pairs.
package transform

import "math"

// Transform is a 2x3 affine matrix [A B TX; C D TY]. A point (x, y)
// maps to (A*x + B*y + TX, C*x + D*y + TY).
type Transform struct {
	A, B, TX float64
	C, D, TY float64
}

// Components is the decomposed view of a partial affine transform.
// Scale is carried as its natural logarithm so that the rotation and
// scale parts of a composition add in component space.
type Components struct {
	TX, TY   float64
	Theta    float64 // Rotation in radians, (-pi, pi].
	LogScale float64
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{A: 1, D: 1}
}

// IsIdentity reports whether t is the identity transform to within eps.
func (t Transform) IsIdentity(eps float64) bool {
	return math.Abs(t.A-1) <= eps && math.Abs(t.B) <= eps && math.Abs(t.TX) <= eps &&
		math.Abs(t.C) <= eps && math.Abs(t.D-1) <= eps && math.Abs(t.TY) <= eps
}

// Apply maps the point (x, y) through t.
func (t Transform) Apply(x, y float64) (float64, float64) {
	return t.A*x + t.B*y + t.TX, t.C*x + t.D*y + t.TY
}

// Mul returns the composition t*u, i.e. the transform that applies u
// first and then t.
func (t Transform) Mul(u Transform) Transform {
	return Transform{
		A:  t.A*u.A + t.B*u.C,
		B:  t.A*u.B + t.B*u.D,
		TX: t.A*u.TX + t.B*u.TY + t.TX,
		C:  t.C*u.A + t.D*u.C,
		D:  t.C*u.B + t.D*u.D,
		TY: t.C*u.TX + t.D*u.TY + t.TY,
	}
}

// Invert returns the inverse of t. The second return is false if t is
// singular, in which case the identity is returned.
func (t Transform) Invert() (Transform, bool) {
	det := t.A*t.D - t.B*t.C
	if det == 0 || math.IsNaN(det) || math.IsInf(det, 0) {
		return Identity(), false
	}
	inv := Transform{
		A: t.D / det,
		B: -t.B / det,
		C: -t.C / det,
		D: t.A / det,
	}
	inv.TX = -(inv.A*t.TX + inv.B*t.TY)
	inv.TY = -(inv.C*t.TX + inv.D*t.TY)
	return inv, true
}

// Decompose extracts the similarity part of t. For a transform built by
// FromComponents this is exact; for a general affine it projects onto
// the nearest rotation and uniform scale.
func (t Transform) Decompose() Components {
	p := (t.A + t.D) / 2
	q := (t.C - t.B) / 2
	s := math.Hypot(p, q)
	if s <= 0 || math.IsNaN(s) || math.IsInf(s, 0) {
		return Components{TX: t.TX, TY: t.TY}
	}
	return Components{
		TX:       t.TX,
		TY:       t.TY,
		Theta:    math.Atan2(q, p),
		LogScale: math.Log(s),
	}
}

// FromComponents recomposes a partial affine transform.
func FromComponents(c Components) Transform {
	s := math.Exp(c.LogScale)
	cos, sin := math.Cos(c.Theta), math.Sin(c.Theta)
	return Transform{
		A: s * cos, B: -s * sin, TX: c.TX,
		C: s * sin, D: s * cos, TY: c.TY,
	}
}

// Scale returns the uniform scale factor of t.
func (t Transform) Scale() float64 {
	return math.Exp(t.Decompose().LogScale)
}

// Finite reports whether all six coefficients are finite.
func (t Transform) Finite() bool {
	for _, v := range [...]float64{t.A, t.B, t.TX, t.C, t.D, t.TY} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
