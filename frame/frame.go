/*
DESCRIPTION
  Typed views of host-owned video frames and the owned single-channel
  luma image the stabilization pipeline operates on. Frames are
  borrowed for the duration of one processing call; luma images are
  owned by the stabilizer.

AUTHORS
  Trek Hopton <trek@ausocean.org>
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/


// Package frame defines the frame boundary between a streaming host
// and the stabilization core: borrowed typed frame views, owned luma
// images, and luma extraction for the supported pixel formats.
package frame

import "github.com/pkg/errors"

// Format is the pixel layout of a frame view.
type Format int

// The supported pixel formats.
const (
	I420 Format = iota // Planar 4:2:0, separate U and V planes.
	NV12               // Planar 4:2:0, interleaved UV plane.
	BGRA               // Packed 8-bit BGRA.
	RGBA               // Packed 8-bit RGBA.
)

// String returns the name of the format.
func (f Format) String() string {
	switch f {
	case I420:
		return "I420"
	case NV12:
		return "NV12"
	case BGRA:
		return "BGRA"
	case RGBA:
		return "RGBA"
	}
	return "unknown"
}

// Supported frame dimension limits.
const (
	MinDim    = 32
	MaxWidth  = 7680
	MaxHeight = 4320
)

// Frame boundary errors.
var (
	ErrDimensions        = errors.New("frame dimensions out of supported range")
	ErrUnsupportedFormat = errors.New("unsupported pixel format")
	ErrInvalidFrame      = errors.New("invalid frame layout")
)

// View is a borrowed, typed view of a host frame. The plane data is
// owned by the host and must not be retained past the call it was
// passed to.
type View struct {
	Width, Height int
	Format        Format
	Planes        [4][]byte
	Strides       [4]int
	Timestamp     uint64 // Monotonic, in nanoseconds.
}

// Validate checks dimensions, format and plane layout, returning one
// of the frame boundary errors on failure.
func (v View) Validate() error {
	if v.Width < MinDim || v.Width > MaxWidth || v.Height < MinDim || v.Height > MaxHeight {
		return errors.Wrapf(ErrDimensions, "%dx%d", v.Width, v.Height)
	}
	switch v.Format {
	case I420:
		cw := (v.Width + 1) / 2
		return v.checkPlanes([]int{v.Width, cw, cw})
	case NV12:
		return v.checkPlanes([]int{v.Width, 2 * ((v.Width + 1) / 2)})
	case BGRA, RGBA:
		return v.checkPlanes([]int{4 * v.Width})
	}
	return errors.Wrapf(ErrUnsupportedFormat, "format tag %d", int(v.Format))
}

func (v View) checkPlanes(minStrides []int) error {
	for i, min := range minStrides {
		if v.Planes[i] == nil {
			return errors.Wrapf(ErrInvalidFrame, "plane %d is nil", i)
		}
		if v.Strides[i] < min {
			return errors.Wrapf(ErrInvalidFrame, "plane %d stride %d < %d", i, v.Strides[i], min)
		}
	}
	return nil
}

// BufferSize returns the number of bytes a contiguous frame of the
// given format occupies with tight strides.
func BufferSize(w, h int, f Format) int {
	cw, ch := (w+1)/2, (h+1)/2
	switch f {
	case I420, NV12:
		return w*h + 2*cw*ch
	default:
		return 4 * w * h
	}
}

// FromBuffer lays a frame view with tight strides over a contiguous
// buffer. The buffer must hold at least BufferSize bytes.
func FromBuffer(w, h int, f Format, buf []byte, ts uint64) (View, error) {
	if len(buf) < BufferSize(w, h, f) {
		return View{}, errors.Wrapf(ErrInvalidFrame, "buffer %d bytes, need %d", len(buf), BufferSize(w, h, f))
	}
	v := View{Width: w, Height: h, Format: f, Timestamp: ts}
	cw, ch := (w+1)/2, (h+1)/2
	switch f {
	case I420:
		v.Planes[0], v.Strides[0] = buf[:w*h], w
		v.Planes[1], v.Strides[1] = buf[w*h:w*h+cw*ch], cw
		v.Planes[2], v.Strides[2] = buf[w*h+cw*ch:w*h+2*cw*ch], cw
	case NV12:
		v.Planes[0], v.Strides[0] = buf[:w*h], w
		v.Planes[1], v.Strides[1] = buf[w*h:w*h+2*cw*ch], 2*cw
	case BGRA, RGBA:
		v.Planes[0], v.Strides[0] = buf[:4*w*h], 4*w
	default:
		return View{}, errors.Wrapf(ErrUnsupportedFormat, "format tag %d", int(f))
	}
	return v, nil
}

// Luma is an owned single-channel 8-bit image.
type Luma struct {
	Width, Height, Stride int
	Pix                   []byte
}

// NewLuma returns an owned luma image of the given dimensions with a
// tight stride.
func NewLuma(w, h int) *Luma {
	return &Luma{Width: w, Height: h, Stride: w, Pix: make([]byte, w*h)}
}

// Adapter extracts luma images from frame views. It owns scratch
// storage so steady-state extraction does not allocate.
type Adapter struct {
	scratch []byte // Tightly packed copy used when packed strides are padded.
}

// NewAdapter returns an adapter sized for frames of the given
// dimensions.
func NewAdapter(w, h int) *Adapter {
	return &Adapter{scratch: make([]byte, 4*w*h)}
}

// ExtractLuma fills dst with the luma channel of v. For planar formats
// the Y plane is copied respecting stride; packed formats derive luma
// from the colour channels. dst must match the view dimensions.
func (a *Adapter) ExtractLuma(v View, dst *Luma) error {
	if dst.Width != v.Width || dst.Height != v.Height {
		return errors.Wrapf(ErrInvalidFrame, "luma %dx%d for frame %dx%d", dst.Width, dst.Height, v.Width, v.Height)
	}
	switch v.Format {
	case I420, NV12:
		for y := 0; y < v.Height; y++ {
			copy(dst.Pix[y*dst.Stride:y*dst.Stride+v.Width], v.Planes[0][y*v.Strides[0]:])
		}
		return nil
	case BGRA, RGBA:
		return a.packedLuma(v, dst)
	}
	return errors.Wrapf(ErrUnsupportedFormat, "format tag %d", int(v.Format))
}
