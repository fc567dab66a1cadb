//go:build withcv
// +build withcv

/*
DESCRIPTION
  Packed-format luma derivation using gocv colour conversion.

AUTHORS
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/


package frame

import (
	"gocv.io/x/gocv"

	"github.com/pkg/errors"
)

// packedLuma derives luma from a packed BGRA/RGBA view via gocv colour
// conversion.
func (a *Adapter) packedLuma(v View, dst *Luma) error {
	data := v.Planes[0]
	if v.Strides[0] != 4*v.Width {
		// gocv mats are tightly packed, so drop any host row padding first.
		for y := 0; y < v.Height; y++ {
			copy(a.scratch[y*4*v.Width:(y+1)*4*v.Width], v.Planes[0][y*v.Strides[0]:])
		}
		data = a.scratch[:4*v.Width*v.Height]
	} else {
		data = data[:4*v.Width*v.Height]
	}

	src, err := gocv.NewMatFromBytes(v.Height, v.Width, gocv.MatTypeCV8UC4, data)
	if err != nil {
		return errors.Wrap(err, "could not wrap packed frame")
	}
	defer src.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	code := gocv.ColorBGRAToGray
	if v.Format == RGBA {
		code = gocv.ColorRGBAToGray
	}
	gocv.CvtColor(src, &gray, code)

	buf, err := gray.DataPtrUint8()
	if err != nil {
		return errors.Wrap(err, "could not read gray mat")
	}
	for y := 0; y < v.Height; y++ {
		copy(dst.Pix[y*dst.Stride:y*dst.Stride+v.Width], buf[y*v.Width:])
	}
	return nil
}
