/*
DESCRIPTION
  A filter that removes unwanted camera motion from a stream of raw
  video frames. Each write carries exactly one frame of the configured
  format and dimensions; the stabilized frame is written on to the
  destination.

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


package filter

import (
	"io"

	"github.com/pkg/errors"

	"github.com/ausocean/stabilizer/frame"
	"github.com/ausocean/stabilizer/stabilize"
)

// Stabilize is a video stabilization filter over a raw frame stream.
type Stabilize struct {
	dst           io.WriteCloser
	core          *stabilize.Stabilizer
	width, height int
	format        frame.Format
	size          int
	n             uint64 // Frame counter, doubles as a monotonic timestamp.
}

// NewStabilize returns a pointer to a new Stabilize filter for frames
// of the given format and dimensions.
func NewStabilize(dst io.WriteCloser, w, h int, f frame.Format, p stabilize.Params) (*Stabilize, error) {
	core := stabilize.New()
	err := core.Initialize(w, h, p)
	if err != nil {
		return nil, errors.Wrap(err, "could not initialize stabilizer")
	}
	return &Stabilize{
		dst:    dst,
		core:   core,
		width:  w,
		height: h,
		format: f,
		size:   frame.BufferSize(w, h, f),
	}, nil
}

// StabilizeStage returns a constructor for a stabilization stage, for
// wiring into a Chain alongside other filters.
func StabilizeStage(w, h int, f frame.Format, p stabilize.Params) Constructor {
	return func(dst io.WriteCloser) (Filter, error) {
		return NewStabilize(dst, w, h, f, p)
	}
}

// Write stabilizes one raw frame and writes the result to the
// destination.
func (s *Stabilize) Write(p []byte) (int, error) {
	if len(p) != s.size {
		return 0, errors.Errorf("frame is %d bytes, expected %d", len(p), s.size)
	}
	v, err := frame.FromBuffer(s.width, s.height, s.format, p, s.n)
	if err != nil {
		return 0, errors.Wrap(err, "bad frame layout")
	}
	s.n++

	out, err := s.core.ProcessFrame(v)
	if err != nil {
		return 0, errors.Wrap(err, "could not stabilize frame")
	}
	err = writePlanes(s.dst, out)
	if err != nil {
		return 0, errors.Wrap(err, "could not write stabilized frame")
	}
	return len(p), nil
}

// Close implements io.Closer.
func (s *Stabilize) Close() error { return nil }

// Metrics exposes the stabilizer's per-frame metrics.
func (s *Stabilize) Metrics() stabilize.Metrics { return s.core.Metrics() }

// writePlanes writes every plane of v row by row, dropping any row
// padding so the destination always receives tightly packed frames.
func writePlanes(w io.Writer, v frame.View) error {
	cw, ch := (v.Width+1)/2, (v.Height+1)/2
	var dims [][2]int // Bytes per row, rows.
	switch v.Format {
	case frame.I420:
		dims = [][2]int{{v.Width, v.Height}, {cw, ch}, {cw, ch}}
	case frame.NV12:
		dims = [][2]int{{v.Width, v.Height}, {2 * cw, ch}}
	default:
		dims = [][2]int{{4 * v.Width, v.Height}}
	}
	for i, d := range dims {
		for y := 0; y < d[1]; y++ {
			_, err := w.Write(v.Planes[i][y*v.Strides[i] : y*v.Strides[i]+d[0]])
			if err != nil {
				return err
			}
		}
	}
	return nil
}
