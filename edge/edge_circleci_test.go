//go:build !withcv
// +build !withcv

/*
DESCRIPTION
  Testing for correction warps and boundary policies on the pure Go
  warp path.

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
	"bytes"
	"math"
	"testing"

	"github.com/ausocean/stabilizer/frame"
	"github.com/ausocean/stabilizer/transform"
)

// rampI420 builds an I420 frame whose luma is a horizontal ramp and
// whose chroma planes carry opposing ramps.
func rampI420(w, h int) (frame.View, []byte) {
	buf := make([]byte, frame.BufferSize(w, h, frame.I420))
	v, _ := frame.FromBuffer(w, h, frame.I420, buf, 7)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v.Planes[0][y*v.Strides[0]+x] = byte(x)
		}
	}
	cw, ch := (w+1)/2, (h+1)/2
	for y := 0; y < ch; y++ {
		for x := 0; x < cw; x++ {
			v.Planes[1][y*v.Strides[1]+x] = byte(x)
			v.Planes[2][y*v.Strides[2]+x] = byte(200 - x)
		}
	}
	return v, buf
}

func translation(tx, ty float64) transform.Transform {
	t := transform.Identity()
	t.TX, t.TY = tx, ty
	return t
}

func TestApplyIdentityIsCopy(t *testing.T) {
	const w, h = 64, 48
	in, buf := rampI420(w, h)
	out, err := NewHandler(w, h, Crop).Apply(in, transform.Identity())
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}
	if out.Timestamp != in.Timestamp {
		t.Errorf("timestamp not preserved: want %d, got %d", in.Timestamp, out.Timestamp)
	}
	got := make([]byte, 0, len(buf))
	for _, p := range out.Planes {
		got = append(got, p...)
	}
	if !bytes.Equal(got, buf) {
		t.Error("identity warp is not a bit-exact copy")
	}
}

func TestApplyTranslationCrop(t *testing.T) {
	const w, h = 64, 48
	in, _ := rampI420(w, h)
	out, err := NewHandler(w, h, Crop).Apply(in, translation(5, 0))
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}

	// Output pixel x samples the source at x+5; past the right edge
	// the nearest edge pixel is replicated.
	y := h / 2
	for x := 0; x < w; x++ {
		want := byte(x + 5)
		if x+5 > w-1 {
			want = byte(w - 1)
		}
		if got := out.Planes[0][y*out.Strides[0]+x]; got != want {
			t.Fatalf("luma x=%d: want %d, got %d", x, want, got)
		}
	}

	// Chroma moves at half resolution.
	cw := (w + 1) / 2
	cy := h / 4
	for x := 0; x < cw-3; x++ {
		wantU := byte(float64(x) + 2.5)
		if got := out.Planes[1][cy*out.Strides[1]+x]; got != wantU && got != wantU+1 {
			t.Fatalf("chroma x=%d: want about %d, got %d", x, wantU, got)
		}
	}
}

func TestApplyTranslationPad(t *testing.T) {
	const w, h = 64, 48
	in, _ := rampI420(w, h)
	// Fill luma with a constant so padded pixels are unambiguous.
	for i := range in.Planes[0] {
		in.Planes[0][i] = 99
	}
	out, err := NewHandler(w, h, Pad).Apply(in, translation(6, 0))
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}
	y := h / 2
	if got := out.Planes[0][y*out.Strides[0]]; got != 99 {
		t.Errorf("interior pixel: want 99, got %d", got)
	}
	if got := out.Planes[0][y*out.Strides[0]+w-1]; got != 0 {
		t.Errorf("padded pixel: want 0, got %d", got)
	}
}

func TestApplyScaleUniform(t *testing.T) {
	const w, h = 64, 48
	buf := make([]byte, frame.BufferSize(w, h, frame.BGRA))
	for i := range buf {
		buf[i] = 77
	}
	in, _ := frame.FromBuffer(w, h, frame.BGRA, buf, 3)
	out, err := NewHandler(w, h, Scale).Apply(in, transform.Identity())
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}
	for i, b := range out.Planes[0] {
		if b != 77 {
			t.Fatalf("byte %d: scale warp corrupted a uniform image: got %d", i, b)
		}
	}
}

func TestApplyDoubleBuffer(t *testing.T) {
	const w, h = 64, 48
	in, _ := rampI420(w, h)
	hdl := NewHandler(w, h, Crop)
	a, err := hdl.Apply(in, translation(1, 0))
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}
	snapshot := append([]byte(nil), a.Planes[0]...)
	if _, err := hdl.Apply(in, translation(2, 0)); err != nil {
		t.Fatalf("did not expect error: %v", err)
	}
	if !bytes.Equal(snapshot, a.Planes[0]) {
		t.Error("previous output mutated by the next call; double buffering broken")
	}
}

func TestApplyNonFiniteTransform(t *testing.T) {
	const w, h = 64, 48
	in, _ := rampI420(w, h)
	bad := transform.Identity()
	bad.TX = math.NaN()
	_, err := NewHandler(w, h, Crop).Apply(in, bad)
	if err == nil {
		t.Error("want error for non-finite transform, got nil")
	}
}
