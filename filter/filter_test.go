/*
DESCRIPTION
  filter_test.go contains testing and benchmarks for the filter
  implementations over synthetic raw frames.

AUTHORS
  Ella Pietraroia <ella@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/


package filter

import (
	"bytes"
	"io"
	"testing"

	"github.com/ausocean/stabilizer/frame"
	"github.com/ausocean/stabilizer/stabilize"
)

const (
	testWidth  = 160
	testHeight = 120
	testFrames = 10
)

type bufWriteCloser struct {
	bytes.Buffer
}

func (b *bufWriteCloser) Close() error { return nil }

// testFrame returns one raw I420 frame with a simple gradient.
func testFrame() []byte {
	buf := make([]byte, frame.BufferSize(testWidth, testHeight, frame.I420))
	for i := range buf {
		buf[i] = byte(i % 251)
	}
	return buf
}

func TestNoOpPassesDataOn(t *testing.T) {
	var dst bufWriteCloser
	f := NewNoOp(&dst)
	in := testFrame()
	n, err := f.Write(in)
	if err != nil {
		t.Fatalf("cannot write to noop filter: %v", err)
	}
	if n != len(in) || !bytes.Equal(dst.Bytes(), in) {
		t.Error("noop filter altered the data")
	}
}

func TestEmptyChainIsNoOp(t *testing.T) {
	var dst bufWriteCloser
	c, err := NewChain(&dst)
	if err != nil {
		t.Fatalf("cannot create chain: %v", err)
	}
	defer c.Close()

	in := testFrame()
	if _, err := c.Write(in); err != nil {
		t.Fatalf("cannot write to chain: %v", err)
	}
	if !bytes.Equal(dst.Bytes(), in) {
		t.Error("empty chain altered the data")
	}
}

func TestChainRunsFramesThroughStages(t *testing.T) {
	p := stabilize.DefaultParams()
	p.Enabled = false

	var dst bufWriteCloser
	c, err := NewChain(&dst,
		StabilizeStage(testWidth, testHeight, frame.I420, p),
		func(d io.WriteCloser) (Filter, error) { return NewNoOp(d), nil },
	)
	if err != nil {
		t.Fatalf("cannot create chain: %v", err)
	}
	defer c.Close()

	in := testFrame()
	for i := 0; i < testFrames; i++ {
		if _, err := c.Write(in); err != nil {
			t.Fatalf("cannot write to chain: %v", err)
		}
	}
	if !bytes.Equal(dst.Bytes(), bytes.Repeat(in, testFrames)) {
		t.Error("chain altered the data")
	}
}

func TestStabilizeDisabledPassesFramesOn(t *testing.T) {
	p := stabilize.DefaultParams()
	p.Enabled = false

	var dst bufWriteCloser
	f, err := NewStabilize(&dst, testWidth, testHeight, frame.I420, p)
	if err != nil {
		t.Fatalf("cannot create stabilize filter: %v", err)
	}
	defer f.Close()

	in := testFrame()
	for i := 0; i < testFrames; i++ {
		if _, err := f.Write(in); err != nil {
			t.Fatalf("cannot write to stabilize filter: %v", err)
		}
	}
	want := bytes.Repeat(in, testFrames)
	if !bytes.Equal(dst.Bytes(), want) {
		t.Error("disabled stabilize filter altered the data")
	}
	if got := f.Metrics().CumulativeFrames; got != testFrames {
		t.Errorf("want %d cumulative frames, got %d", testFrames, got)
	}
}

func TestStabilizeRejectsShortFrame(t *testing.T) {
	var dst bufWriteCloser
	f, err := NewStabilize(&dst, testWidth, testHeight, frame.I420, stabilize.DefaultParams())
	if err != nil {
		t.Fatalf("cannot create stabilize filter: %v", err)
	}
	if _, err := f.Write(make([]byte, 10)); err == nil {
		t.Error("want error for short frame, got nil")
	}
}

func BenchmarkStabilize(b *testing.B) {
	var dst bufWriteCloser
	f, err := NewStabilize(&dst, testWidth, testHeight, frame.I420, stabilize.DefaultParams())
	if err != nil {
		b.Fatalf("cannot create stabilize filter: %v", err)
	}
	in := testFrame()
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		dst.Reset()
		if _, err := f.Write(in); err != nil {
			b.Fatalf("cannot write to stabilize filter: %v", err)
		}
	}
	b.Log("Frames: ", b.N)
}
