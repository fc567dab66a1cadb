//go:build !withcv
// +build !withcv

/*
DESCRIPTION
  Pure Go pyramidal Lucas-Kanade tracking. Replaces the gocv tracker
  when building without Open CV, which Circle-CI does not have a copy
  of. Flow is refined coarse to fine over the pyramid with iterative
  gradient descent inside the integration window.

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


package track

import (
	"math"

	"github.com/ausocean/stabilizer/feature"
	"github.com/ausocean/stabilizer/frame"
)

const winRadius = windowSize / 2

// Tracker tracks a feature set between consecutive luma images. It
// owns its pyramid buffers so steady-state tracking does not allocate.
type Tracker struct {
	width, height    int
	prevPyr, currPyr [pyramidLevels]*frame.Luma
	next             feature.Set
	ok               []bool
}

// NewTracker returns a tracker for images of the given dimensions,
// sized for up to maxFeatures points.
func NewTracker(w, h, maxFeatures int) *Tracker {
	t := &Tracker{
		width:  w,
		height: h,
		next:   make(feature.Set, 0, maxFeatures),
		ok:     make([]bool, 0, maxFeatures),
	}
	for l := 1; l < pyramidLevels; l++ {
		t.prevPyr[l] = frame.NewLuma(w>>uint(l), h>>uint(l))
		t.currPyr[l] = frame.NewLuma(w>>uint(l), h>>uint(l))
	}
	return t
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

	t.prevPyr[0], t.currPyr[0] = prev, curr
	for l := 1; l < pyramidLevels; l++ {
		downsample(t.prevPyr[l-1], t.prevPyr[l])
		downsample(t.currPyr[l-1], t.currPyr[l])
	}

	okCount := 0
	for _, p := range pts {
		np, ok := t.trackPoint(p)
		t.next = append(t.next, np)
		t.ok = append(t.ok, ok)
		if ok {
			okCount++
		}
	}
	return t.next, t.ok, float64(okCount) / float64(len(pts))
}

// trackPoint refines the flow of one point coarse to fine.
func (t *Tracker) trackPoint(p feature.Point) (feature.Point, bool) {
	var gx, gy float64
	for l := pyramidLevels - 1; l >= 0; l-- {
		s := float64(int(1) << uint(l))
		px, py := float64(p.X)/s, float64(p.Y)/s
		dx, dy, ok := iterate(t.prevPyr[l], t.currPyr[l], px, py, gx, gy)
		if !ok {
			return p, false
		}
		gx += dx
		gy += dy
		if l > 0 {
			gx *= 2
			gy *= 2
		}
	}

	np := feature.Point{X: p.X + float32(gx), Y: p.Y + float32(gy)}
	if np.X < feature.Border || np.X >= float32(t.width-feature.Border) ||
		np.Y < feature.Border || np.Y >= float32(t.height-feature.Border) {
		return np, false
	}
	if residual(t.prevPyr[0], t.currPyr[0], float64(p.X), float64(p.Y), gx, gy) > maxResidual {
		return np, false
	}
	return np, true
}

// iterate runs the Lucas-Kanade iterations at one pyramid level,
// returning the flow increment on top of the guess (gx, gy).
func iterate(prev, curr *frame.Luma, px, py, gx, gy float64) (float64, float64, bool) {
	var ip, ix, iy [windowSize * windowSize]float64

	// Spatial gradient matrix over the window in the previous image.
	var gxx, gxy, gyy float64
	i := 0
	for wy := -winRadius; wy <= winRadius; wy++ {
		for wx := -winRadius; wx <= winRadius; wx++ {
			x, y := px+float64(wx), py+float64(wy)
			ip[i] = sample(prev, x, y)
			ix[i] = (sample(prev, x+1, y) - sample(prev, x-1, y)) / 2
			iy[i] = (sample(prev, x, y+1) - sample(prev, x, y-1)) / 2
			gxx += ix[i] * ix[i]
			gxy += ix[i] * iy[i]
			gyy += iy[i] * iy[i]
			i++
		}
	}
	det := gxx*gyy - gxy*gxy
	if det < 1e-6 {
		return 0, 0, false
	}

	var vx, vy float64
	for iter := 0; iter < maxIterations; iter++ {
		var bx, by float64
		i = 0
		for wy := -winRadius; wy <= winRadius; wy++ {
			for wx := -winRadius; wx <= winRadius; wx++ {
				di := ip[i] - sample(curr, px+float64(wx)+gx+vx, py+float64(wy)+gy+vy)
				bx += di * ix[i]
				by += di * iy[i]
				i++
			}
		}
		ex := (gyy*bx - gxy*by) / det
		ey := (gxx*by - gxy*bx) / det
		vx += ex
		vy += ey
		if math.Hypot(ex, ey) < epsilon {
			break
		}
	}
	return vx, vy, true
}

// residual is the mean absolute intensity difference over the window
// between the point in the previous image and its tracked position in
// the current one.
func residual(prev, curr *frame.Luma, px, py, fx, fy float64) float64 {
	var sum float64
	for wy := -winRadius; wy <= winRadius; wy++ {
		for wx := -winRadius; wx <= winRadius; wx++ {
			x, y := px+float64(wx), py+float64(wy)
			sum += math.Abs(sample(prev, x, y) - sample(curr, x+fx, y+fy))
		}
	}
	return sum / (windowSize * windowSize)
}

// sample reads l at a sub-pixel position with bilinear interpolation,
// clamping coordinates to the image.
func sample(l *frame.Luma, x, y float64) float64 {
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	if x > float64(l.Width-1) {
		x = float64(l.Width - 1)
	}
	if y > float64(l.Height-1) {
		y = float64(l.Height - 1)
	}
	x0, y0 := int(x), int(y)
	x1, y1 := x0+1, y0+1
	if x1 > l.Width-1 {
		x1 = l.Width - 1
	}
	if y1 > l.Height-1 {
		y1 = l.Height - 1
	}
	fx, fy := x-float64(x0), y-float64(y0)

	p00 := float64(l.Pix[y0*l.Stride+x0])
	p10 := float64(l.Pix[y0*l.Stride+x1])
	p01 := float64(l.Pix[y1*l.Stride+x0])
	p11 := float64(l.Pix[y1*l.Stride+x1])
	return p00*(1-fx)*(1-fy) + p10*fx*(1-fy) + p01*(1-fx)*fy + p11*fx*fy
}

// downsample halves src into dst by 2x2 averaging.
func downsample(src, dst *frame.Luma) {
	for y := 0; y < dst.Height; y++ {
		r0 := src.Pix[2*y*src.Stride:]
		r1 := src.Pix[(2*y+1)*src.Stride:]
		out := dst.Pix[y*dst.Stride:]
		for x := 0; x < dst.Width; x++ {
			out[x] = byte((int(r0[2*x]) + int(r0[2*x+1]) + int(r1[2*x]) + int(r1[2*x+1]) + 2) / 4)
		}
	}
}
