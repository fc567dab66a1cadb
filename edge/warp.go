//go:build withcv
// +build withcv

/*
DESCRIPTION
  Plane warping over gocv.WarpAffine with the border mode carrying the
  boundary policy: replicated edges for Crop and Scale, constant black
  for Pad.

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
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ausocean/stabilizer/transform"
)

// warp maps one plane of channels interleaved samples through the
// sampling map m, passed to gocv as an inverse map: output pixels read
// the source at m(x).
func (h *Handler) warp(src, dst []byte, w, ht, sstride, dstride, channels int, m transform.Transform, pad bool) {
	matType := gocv.MatTypeCV8U
	switch channels {
	case 2:
		matType = gocv.MatTypeCV8UC2
	case 4:
		matType = gocv.MatTypeCV8UC4
	}

	// gocv mats are tightly packed, so drop any host row padding first.
	row := w * channels
	data := src
	if sstride != row {
		for y := 0; y < ht; y++ {
			copy(h.scratch[y*row:(y+1)*row], src[y*sstride:])
		}
		data = h.scratch[:row*ht]
	} else {
		data = data[:row*ht]
	}

	srcMat, err := gocv.NewMatFromBytes(ht, w, matType, data)
	if err != nil {
		return
	}
	defer srcMat.Close()

	mm := gocv.NewMatWithSize(2, 3, gocv.MatTypeCV64F)
	defer mm.Close()
	mm.SetDoubleAt(0, 0, m.A)
	mm.SetDoubleAt(0, 1, m.B)
	mm.SetDoubleAt(0, 2, m.TX)
	mm.SetDoubleAt(1, 0, m.C)
	mm.SetDoubleAt(1, 1, m.D)
	mm.SetDoubleAt(1, 2, m.TY)

	border := gocv.BorderReplicate
	if pad {
		border = gocv.BorderConstant
	}

	dstMat := gocv.NewMat()
	defer dstMat.Close()
	gocv.WarpAffineWithParams(srcMat, &dstMat, mm, image.Pt(w, ht),
		gocv.InterpolationLinear|gocv.WarpInverseMap, border, color.RGBA{})

	out, err := dstMat.DataPtrUint8()
	if err != nil {
		return
	}
	for y := 0; y < ht; y++ {
		copy(dst[y*dstride:y*dstride+row], out[y*row:])
	}
}
