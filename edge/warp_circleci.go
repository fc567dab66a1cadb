//go:build !withcv
// +build !withcv

/*
DESCRIPTION
  Pure Go plane warping with bilinear sampling. Replaces the gocv warp
  when building without Open CV, which Circle-CI does not have a copy
  of. Output pixels are mapped back through the inverse transform;
  coordinates outside the source either clamp to the nearest edge
  pixel (Crop, Scale) or read as black (Pad).

AUTHORS
  Scott Barnard <scott@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/


package edge

import (
	"math"

	"github.com/ausocean/stabilizer/transform"
)

// warp maps one plane of channels interleaved samples through the
// sampling map m with bilinear interpolation: output pixels read the
// source at m(x).
func (h *Handler) warp(src, dst []byte, w, ht, sstride, dstride, channels int, m transform.Transform, pad bool) {
	for y := 0; y < ht; y++ {
		fy := float64(y)
		out := dst[y*dstride:]
		for x := 0; x < w; x++ {
			sx := m.A*float64(x) + m.B*fy + m.TX
			sy := m.C*float64(x) + m.D*fy + m.TY

			if pad {
				samplePad(src, w, ht, sstride, channels, sx, sy, out[x*channels:])
				continue
			}
			sampleClamp(src, w, ht, sstride, channels, sx, sy, out[x*channels:])
		}
	}
}

// sampleClamp bilinearly samples with coordinates clamped to the
// image, replicating edge pixels.
func sampleClamp(src []byte, w, h, stride, channels int, x, y float64, out []byte) {
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	if x > float64(w-1) {
		x = float64(w - 1)
	}
	if y > float64(h-1) {
		y = float64(h - 1)
	}
	x0, y0 := int(x), int(y)
	x1, y1 := x0+1, y0+1
	if x1 > w-1 {
		x1 = w - 1
	}
	if y1 > h-1 {
		y1 = h - 1
	}
	fx, fy := x-float64(x0), y-float64(y0)
	for c := 0; c < channels; c++ {
		p00 := float64(src[y0*stride+x0*channels+c])
		p10 := float64(src[y0*stride+x1*channels+c])
		p01 := float64(src[y1*stride+x0*channels+c])
		p11 := float64(src[y1*stride+x1*channels+c])
		out[c] = byte(math.Round(p00*(1-fx)*(1-fy) + p10*fx*(1-fy) + p01*(1-fx)*fy + p11*fx*fy))
	}
}

// samplePad bilinearly samples with anything outside the image read as
// black.
func samplePad(src []byte, w, h, stride, channels int, x, y float64, out []byte) {
	x0, y0 := int(math.Floor(x)), int(math.Floor(y))
	fx, fy := x-float64(x0), y-float64(y0)
	at := func(xi, yi, c int) float64 {
		if xi < 0 || xi >= w || yi < 0 || yi >= h {
			return 0
		}
		return float64(src[yi*stride+xi*channels+c])
	}
	for c := 0; c < channels; c++ {
		v := at(x0, y0, c)*(1-fx)*(1-fy) +
			at(x0+1, y0, c)*fx*(1-fy) +
			at(x0, y0+1, c)*(1-fx)*fy +
			at(x0+1, y0+1, c)*fx*fy
		out[c] = byte(math.Round(v))
	}
}
