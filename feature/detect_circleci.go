//go:build !withcv
// +build !withcv

/*
DESCRIPTION
  Pure Go corner detection. Replaces the gocv detector when building
  without Open CV, which Circle-CI does not have a copy of. Computes
  the Shi-Tomasi response (minimum eigenvalue of the 3x3 structure
  tensor) and applies the same selection policy as the gocv path.

AUTHORS
  Ella Pietraroia <ella@ausocean.org>
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/


package feature

import (
	"math"

	"github.com/ausocean/stabilizer/frame"
)

// Detector finds trackable corners in luma images.
type Detector struct {
	width, height int
	resp          []float32 // Shi-Tomasi response map.
	ix, iy        []float32 // Gradient images.
	cands         []candidate
	pts           Set
}

// NewDetector returns a detector for images of the given dimensions.
func NewDetector(w, h int) *Detector {
	return &Detector{
		width:  w,
		height: h,
		resp:   make([]float32, w*h),
		ix:     make([]float32, w*h),
		iy:     make([]float32, w*h),
	}
}

// Detect returns up to maxFeatures corners of img, strongest first,
// spaced at least minDistance pixels apart and at least Border pixels
// from the image edge. Fewer than MinFeatures corners yields an empty
// set.
func (d *Detector) Detect(img *frame.Luma, maxFeatures int, minQuality, minDistance float64) Set {
	w, h := img.Width, img.Height
	d.gradients(img)

	// Minimum eigenvalue of the structure tensor summed over a 3x3
	// neighbourhood.
	var maxResp float32
	for y := Border; y < h-Border; y++ {
		for x := Border; x < w-Border; x++ {
			var sxx, syy, sxy float32
			for dy := -1; dy <= 1; dy++ {
				base := (y+dy)*w + x
				for dx := -1; dx <= 1; dx++ {
					gx, gy := d.ix[base+dx], d.iy[base+dx]
					sxx += gx * gx
					syy += gy * gy
					sxy += gx * gy
				}
			}
			tr, det := sxx+syy, sxx-syy
			lambda := (tr - float32(math.Sqrt(float64(det*det+4*sxy*sxy)))) / 2
			d.resp[y*w+x] = lambda
			if lambda > maxResp {
				maxResp = lambda
			}
		}
	}
	if maxResp <= 0 {
		return nil
	}

	// Collect local maxima above the quality threshold.
	thresh := float32(minQuality) * maxResp
	d.cands = d.cands[:0]
	for y := Border; y < h-Border; y++ {
		for x := Border; x < w-Border; x++ {
			v := d.resp[y*w+x]
			if v < thresh || !d.localMax(x, y, v) {
				continue
			}
			d.cands = append(d.cands, candidate{pt: Point{X: float32(x), Y: float32(y)}, resp: v})
		}
	}

	d.pts = selectCandidates(d.pts[:0], d.cands, maxFeatures, minDistance)
	if len(d.pts) < MinFeatures {
		return d.pts[:0]
	}
	return d.pts
}

// gradients fills ix and iy with central-difference gradients of img.
func (d *Detector) gradients(img *frame.Luma) {
	w, h := img.Width, img.Height
	for y := 1; y < h-1; y++ {
		row := img.Pix[y*img.Stride:]
		up := img.Pix[(y-1)*img.Stride:]
		down := img.Pix[(y+1)*img.Stride:]
		for x := 1; x < w-1; x++ {
			d.ix[y*w+x] = (float32(row[x+1]) - float32(row[x-1])) / 2
			d.iy[y*w+x] = (float32(down[x]) - float32(up[x])) / 2
		}
	}
}

// localMax reports whether the response at (x, y) is the strict
// maximum of its 3x3 neighbourhood, with ties broken toward the
// earlier pixel in scan order.
func (d *Detector) localMax(x, y int, v float32) bool {
	w := d.width
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			n := d.resp[(y+dy)*w+x+dx]
			if n > v || (n == v && (dy < 0 || (dy == 0 && dx < 0))) {
				return false
			}
		}
	}
	return true
}
