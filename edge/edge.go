/*
DESCRIPTION
  Applies the correction warp to a frame with a configured boundary
  policy. Crop replicates the nearest source edge into uncovered
  pixels, Pad fills them with black, and Scale zooms about the centre
  by a fixed margin so the valid region covers the full output.

AUTHORS
  Scott Barnard <scott@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/


// Package edge applies correction warps to frames with configurable
// edge handling.
package edge

import (
	"github.com/pkg/errors"

	"github.com/ausocean/stabilizer/frame"
	"github.com/ausocean/stabilizer/transform"
)

// Mode is the boundary policy for pixels the warp maps outside the
// source image.
type Mode int

// The edge modes.
const (
	Crop Mode = iota
	Pad
	Scale
)

// String returns the name of the mode.
func (m Mode) String() string {
	switch m {
	case Crop:
		return "Crop"
	case Pad:
		return "Pad"
	case Scale:
		return "Scale"
	}
	return "unknown"
}

// scaleMargin is the fixed zoom applied in Scale mode.
const scaleMargin = 0.05

// ErrWarp reports an unusable correction transform. Callers emit the
// input frame unchanged on this error.
var ErrWarp = errors.New("cannot apply correction warp")

// identityEps is the tolerance under which a correction is applied as
// a plain copy, keeping pass-through frames bit-exact. A residual this
// small is far below bilinear resolution.
const identityEps = 1e-6

// Handler warps frames by a correction transform. It owns a
// double-buffered pair of output frames so the frame returned for call
// N stays valid while call N+1 is computed.
type Handler struct {
	mode          Mode
	width, height int
	out           [2][]byte
	cur           int
	scratch       []byte // Tightly packed copy of padded source planes.
}

// NewHandler returns a handler for frames of the given dimensions.
func NewHandler(w, h int, m Mode) *Handler {
	return &Handler{
		mode:    m,
		width:   w,
		height:  h,
		out:     [2][]byte{make([]byte, 4*w*h), make([]byte, 4*w*h)},
		scratch: make([]byte, 4*w*h),
	}
}

// SetMode changes the boundary policy.
func (h *Handler) SetMode(m Mode) { h.mode = m }

// Apply warps in by the correction k and returns the output frame.
// The correction is the sampling map: output pixel x reads the source
// at k(x). The returned view is backed by handler-owned memory and
// remains valid until the call after next.
func (h *Handler) Apply(in frame.View, k transform.Transform) (frame.View, error) {
	buf := h.out[h.cur]
	h.cur = 1 - h.cur
	out, err := frame.FromBuffer(in.Width, in.Height, in.Format, buf, in.Timestamp)
	if err != nil {
		return frame.View{}, err
	}

	if k.IsIdentity(identityEps) && h.mode != Scale {
		copyView(in, out)
		return out, nil
	}

	ke := k
	if h.mode == Scale {
		// Zooming the result means sampling coordinates contract about
		// the centre before mapping through the correction.
		ke = k.Mul(sampleZoom(in.Width, in.Height))
	}
	if !ke.Finite() {
		return frame.View{}, errors.Wrap(ErrWarp, "non-finite transform")
	}
	pad := h.mode == Pad

	cw, ch := (in.Width+1)/2, (in.Height+1)/2
	keHalf := halfRes(ke)

	switch in.Format {
	case frame.I420:
		h.warp(in.Planes[0], out.Planes[0], in.Width, in.Height, in.Strides[0], out.Strides[0], 1, ke, pad)
		h.warp(in.Planes[1], out.Planes[1], cw, ch, in.Strides[1], out.Strides[1], 1, keHalf, pad)
		h.warp(in.Planes[2], out.Planes[2], cw, ch, in.Strides[2], out.Strides[2], 1, keHalf, pad)
	case frame.NV12:
		h.warp(in.Planes[0], out.Planes[0], in.Width, in.Height, in.Strides[0], out.Strides[0], 1, ke, pad)
		h.warp(in.Planes[1], out.Planes[1], cw, ch, in.Strides[1], out.Strides[1], 2, keHalf, pad)
	case frame.BGRA, frame.RGBA:
		h.warp(in.Planes[0], out.Planes[0], in.Width, in.Height, in.Strides[0], out.Strides[0], 4, ke, pad)
	default:
		return frame.View{}, errors.Wrapf(frame.ErrUnsupportedFormat, "format tag %d", int(in.Format))
	}
	return out, nil
}

// sampleZoom builds the Scale-mode sampling contraction about the
// image centre.
func sampleZoom(w, h int) transform.Transform {
	s := 1 / (1 + scaleMargin)
	cx, cy := float64(w)/2, float64(h)/2
	return transform.Transform{
		A: s, TX: cx * (1 - s),
		D: s, TY: cy * (1 - s),
	}
}

// halfRes rescales a full-resolution transform to half-resolution
// chroma coordinates: the linear part is unchanged, translation
// halves.
func halfRes(t transform.Transform) transform.Transform {
	t.TX /= 2
	t.TY /= 2
	return t
}

// copyView copies every plane of in to out respecting strides.
func copyView(in, out frame.View) {
	cw, ch := (in.Width+1)/2, (in.Height+1)/2
	type p struct{ w, h int }
	var planes []p
	switch in.Format {
	case frame.I420:
		planes = []p{{in.Width, in.Height}, {cw, ch}, {cw, ch}}
	case frame.NV12:
		planes = []p{{in.Width, in.Height}, {2 * cw, ch}}
	default:
		planes = []p{{4 * in.Width, in.Height}}
	}
	for i, pl := range planes {
		for y := 0; y < pl.h; y++ {
			copy(out.Planes[i][y*out.Strides[i]:y*out.Strides[i]+pl.w], in.Planes[i][y*in.Strides[i]:])
		}
	}
}
