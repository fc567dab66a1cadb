/*
DESCRIPTION
  Robust estimation of a partial affine transform (4 DoF) from matched
  feature pairs using RANSAC over 3-point hypotheses followed by a
  least-squares refit on the inlier set.

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


package transform

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/ausocean/stabilizer/feature"
)

// Estimation failure modes. The estimator never returns a degenerate
// matrix; callers treat either error as "append identity and move on".
var (
	ErrInsufficientMatches = errors.New("too few matched pairs for estimation")
	ErrDegenerate          = errors.New("estimated transform is degenerate")
)

// Estimation parameters.
const (
	minMatches      = 6
	maxIterations   = 2000
	inlierThreshold = 3.0 // Reprojection error in pixels.
	earlyExitRatio  = 0.8
	minInlierRatio  = 0.4
	minScale        = 0.5
	maxScale        = 2.0
	sampleSize      = 3

	// Fixed seed so that estimation is deterministic for identical input.
	ransacSeed = 0x5ab17e
)

// Estimator fits partial affine transforms to matched point pairs. The
// zero value is not usable; construct with NewEstimator. The inlier
// index scratch is reused between calls; the random source and the
// least-squares system of the refit are allocated on every call.
type Estimator struct {
	inliers     []int
	bestInliers []int
}

// NewEstimator returns an estimator with scratch storage sized for
// maxPairs matches.
func NewEstimator(maxPairs int) *Estimator {
	return &Estimator{
		inliers:     make([]int, 0, maxPairs),
		bestInliers: make([]int, 0, maxPairs),
	}
}

// Estimate fits a partial affine transform mapping src points onto dst
// points. It returns ErrInsufficientMatches for fewer than 6 pairs, and
// ErrDegenerate when the robust fit fails the inlier-ratio or scale
// gates.
func (e *Estimator) Estimate(src, dst []feature.Point) (Transform, error) {
	n := len(src)
	if len(dst) < n {
		n = len(dst)
	}
	if n < minMatches {
		return Identity(), ErrInsufficientMatches
	}

	rng := rand.New(rand.NewSource(ransacSeed))
	e.bestInliers = e.bestInliers[:0]

	var sample [sampleSize]int
	for iter := 0; iter < maxIterations; iter++ {
		sampleIndices(rng, n, &sample)
		model, ok := fitSample(src, dst, sample[:])
		if !ok {
			continue
		}

		e.inliers = e.inliers[:0]
		for i := 0; i < n; i++ {
			x, y := model.Apply(float64(src[i].X), float64(src[i].Y))
			dx, dy := x-float64(dst[i].X), y-float64(dst[i].Y)
			if dx*dx+dy*dy <= inlierThreshold*inlierThreshold {
				e.inliers = append(e.inliers, i)
			}
		}

		if len(e.inliers) > len(e.bestInliers) {
			e.bestInliers = append(e.bestInliers[:0], e.inliers...)
			if float64(len(e.bestInliers)) >= earlyExitRatio*float64(n) {
				break
			}
		}
	}

	if float64(len(e.bestInliers)) < minInlierRatio*float64(n) {
		return Identity(), ErrDegenerate
	}

	t, ok := refit(src, dst, e.bestInliers)
	if !ok || !t.Finite() {
		return Identity(), ErrDegenerate
	}
	if s := t.Scale(); !(s >= minScale && s <= maxScale) {
		return Identity(), ErrDegenerate
	}
	return t, nil
}

// sampleIndices draws sampleSize distinct indices in [0, n).
func sampleIndices(rng *rand.Rand, n int, out *[sampleSize]int) {
	for i := 0; i < sampleSize; i++ {
		for {
			v := rng.Intn(n)
			dup := false
			for j := 0; j < i; j++ {
				if out[j] == v {
					dup = true
					break
				}
			}
			if !dup {
				out[i] = v
				break
			}
		}
	}
}

// fitSample computes the closed-form partial affine for a minimal
// sample. With the model x' = p*x - q*y + tx, y' = q*x + p*y + ty the
// least-squares solution over the sample is available in closed form
// from centred coordinates.
func fitSample(src, dst []feature.Point, idx []int) (Transform, bool) {
	var mx, my, mX, mY float64
	for _, i := range idx {
		mx += float64(src[i].X)
		my += float64(src[i].Y)
		mX += float64(dst[i].X)
		mY += float64(dst[i].Y)
	}
	inv := 1 / float64(len(idx))
	mx, my, mX, mY = mx*inv, my*inv, mX*inv, mY*inv

	var num1, num2, den float64
	for _, i := range idx {
		u, v := float64(src[i].X)-mx, float64(src[i].Y)-my
		U, V := float64(dst[i].X)-mX, float64(dst[i].Y)-mY
		num1 += u*U + v*V
		num2 += u*V - v*U
		den += u*u + v*v
	}
	if den < 1e-9 {
		return Identity(), false
	}
	p, q := num1/den, num2/den
	return Transform{
		A: p, B: -q, TX: mX - (p*mx - q*my),
		C: q, D: p, TY: mY - (q*mx + p*my),
	}, true
}

// refit solves the full least-squares system over the inlier set for
// the parameters (p, q, tx, ty).
func refit(src, dst []feature.Point, idx []int) (Transform, bool) {
	a := mat.NewDense(2*len(idx), 4, nil)
	b := mat.NewVecDense(2*len(idx), nil)
	for r, i := range idx {
		x, y := float64(src[i].X), float64(src[i].Y)
		a.SetRow(2*r, []float64{x, -y, 1, 0})
		a.SetRow(2*r+1, []float64{y, x, 0, 1})
		b.SetVec(2*r, float64(dst[i].X))
		b.SetVec(2*r+1, float64(dst[i].Y))
	}

	var sol mat.VecDense
	if err := sol.SolveVec(a, b); err != nil {
		return Identity(), false
	}
	p, q := sol.AtVec(0), sol.AtVec(1)
	if math.Hypot(p, q) < 1e-9 {
		return Identity(), false
	}
	return Transform{
		A: p, B: -q, TX: sol.AtVec(2),
		C: q, D: p, TY: sol.AtVec(3),
	}, true
}
