//go:build !withcv
// +build !withcv

/*
DESCRIPTION
  Packed-format luma derivation in pure Go. Replaces the gocv colour
  conversion when building without Open CV, which Circle-CI does not
  have a copy of.

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

// packedLuma derives luma from a packed BGRA/RGBA view using the
// Rec. 601 weights, Y = round(0.299R + 0.587G + 0.114B), in fixed
// point.
func (a *Adapter) packedLuma(v View, dst *Luma) error {
	ri, gi, bi := 2, 1, 0
	if v.Format == RGBA {
		ri, bi = 0, 2
	}
	for y := 0; y < v.Height; y++ {
		row := v.Planes[0][y*v.Strides[0]:]
		out := dst.Pix[y*dst.Stride:]
		for x := 0; x < v.Width; x++ {
			px := row[4*x : 4*x+4]
			out[x] = byte((299*int(px[ri]) + 587*int(px[gi]) + 114*int(px[bi]) + 500) / 1000)
		}
	}
	return nil
}
