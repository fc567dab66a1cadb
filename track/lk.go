//go:build withcv
// +build withcv

/*
DESCRIPTION
  Pyramidal Lucas-Kanade tracking over gocv. Bounds and residual
  checks are applied on top of the gocv status so the lost policy is
  identical to the pure Go path.

AUTHORS
  Ella Pietraroia <ella@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/


package track

import (
	"image"
	"math"

	"gocv.io/x/gocv"

	"github.com/ausocean/stabilizer/feature"
	"github.com/ausocean/stabilizer/frame"
)

// Tracker tracks a feature set between consecutive luma images.
type Tracker struct {
	width, height int
	next          feature.Set
	ok            []bool
	ptBytes       []byte // Interleaved CV32FC2 encoding of the input points.
}

// NewTracker returns a tracker for images of the given dimensions,
// sized for up to maxFeatures points.
func NewTracker(w, h, maxFeatures int) *Tracker {
	return &Tracker{
		width:   w,
		height:  h,
		next:    make(feature.Set, 0, maxFeatures),
		ok:      make([]bool, 0, maxFeatures),
		ptBytes: make([]byte, 0, 8*maxFeatures),
	}
}

// Track tracks pts from prev to curr. It returns the tracked
// positions, a per-point success mask of the same length and order,
// and the fraction of points tracked successfully. The returned slices
// are owned by the tracker and valid until the next call.
func (t *Tracker) Track(prev, curr *frame.Luma, pts feature.Set) (feature.Set, []bool, float64) {
	t.next = t.next[:0]
	t.ok = t.ok[:0]
	if len(pts) == 0 {
		return t.next, t.ok, 0
	}

	prevMat, err := gocv.NewMatFromBytes(prev.Height, prev.Width, gocv.MatTypeCV8U, prev.Pix)
	if err != nil {
		return t.lostAll(pts)
	}
	defer prevMat.Close()
	currMat, err := gocv.NewMatFromBytes(curr.Height, curr.Width, gocv.MatTypeCV8U, curr.Pix)
	if err != nil {
		return t.lostAll(pts)
	}
	defer currMat.Close()

	t.ptBytes = t.ptBytes[:0]
	for _, p := range pts {
		t.ptBytes = appendFloat32(t.ptBytes, p.X)
		t.ptBytes = appendFloat32(t.ptBytes, p.Y)
	}
	prevPts, err := gocv.NewMatFromBytes(len(pts), 1, gocv.MatTypeCV32FC2, t.ptBytes)
	if err != nil {
		return t.lostAll(pts)
	}
	defer prevPts.Close()

	currPts := gocv.NewMat()
	defer currPts.Close()
	status := gocv.NewMat()
	defer status.Close()
	errs := gocv.NewMat()
	defer errs.Close()

	crit := gocv.NewTermCriteria(gocv.Count|gocv.EPS, maxIterations, epsilon)
	gocv.CalcOpticalFlowPyrLKWithParams(prevMat, currMat, prevPts, currPts, &status, &errs,
		image.Pt(windowSize, windowSize), pyramidLevels-1, crit, 0, 1e-4)

	okCount := 0
	for i := range pts {
		v := currPts.GetVecfAt(i, 0)
		p := feature.Point{X: v[0], Y: v[1]}
		ok := status.GetUCharAt(i, 0) == 1 &&
			float64(errs.GetFloatAt(i, 0)) <= maxResidual &&
			inBounds(p, t.width, t.height)
		t.next = append(t.next, p)
		t.ok = append(t.ok, ok)
		if ok {
			okCount++
		}
	}
	return t.next, t.ok, float64(okCount) / float64(len(pts))
}

func (t *Tracker) lostAll(pts feature.Set) (feature.Set, []bool, float64) {
	for _, p := range pts {
		t.next = append(t.next, p)
		t.ok = append(t.ok, false)
	}
	return t.next, t.ok, 0
}

func inBounds(p feature.Point, w, h int) bool {
	return p.X >= feature.Border && p.X < float32(w-feature.Border) &&
		p.Y >= feature.Border && p.Y < float32(h-feature.Border)
}

func appendFloat32(b []byte, v float32) []byte {
	bits := math.Float32bits(v)
	return append(b, byte(bits), byte(bits>>8), byte(bits>>16), byte(bits>>24))
}
