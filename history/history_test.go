/*
DESCRIPTION
  history_test.go provides testing for the bounded transform ring and
  its sliding window view.

AUTHORS
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/


package history

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ausocean/stabilizer/transform"
)

// tx returns a transform distinguishable by its translation.
func tx(v float64) transform.Transform {
	t := transform.Identity()
	t.TX = v
	return t
}

func txs(vs ...float64) []transform.Transform {
	out := make([]transform.Transform, len(vs))
	for i, v := range vs {
		out[i] = tx(v)
	}
	return out
}

func TestPushEvictsOldest(t *testing.T) {
	h := New(3)
	for i := 1; i <= 5; i++ {
		h.Push(tx(float64(i)))
	}
	if h.Len() != 3 {
		t.Fatalf("want len 3, got %d", h.Len())
	}
	if got, want := h.Window(3), txs(3, 4, 5); !cmp.Equal(got, want) {
		t.Errorf("window not equal\nwant: %v\ngot: %v", want, got)
	}
}

func TestWindowClips(t *testing.T) {
	h := New(10)
	h.Push(tx(1))
	h.Push(tx(2))
	if got, want := h.Window(5), txs(1, 2); !cmp.Equal(got, want) {
		t.Errorf("window not equal\nwant: %v\ngot: %v", want, got)
	}
	if got, want := h.Window(1), txs(2); !cmp.Equal(got, want) {
		t.Errorf("window not equal\nwant: %v\ngot: %v", want, got)
	}
}

func TestClear(t *testing.T) {
	h := New(4)
	h.Push(tx(1))
	h.Push(tx(2))
	h.Clear()
	if h.Len() != 0 {
		t.Errorf("want len 0 after clear, got %d", h.Len())
	}
	if got := h.Window(4); len(got) != 0 {
		t.Errorf("want empty window after clear, got %v", got)
	}
	if h.Cap() != 4 {
		t.Errorf("clear changed capacity: got %d", h.Cap())
	}
}

func TestResize(t *testing.T) {
	h := New(5)
	for i := 1; i <= 5; i++ {
		h.Push(tx(float64(i)))
	}

	// Shrinking truncates the oldest entries.
	h.Resize(3)
	if h.Cap() != 3 || h.Len() != 3 {
		t.Fatalf("want cap 3 len 3, got cap %d len %d", h.Cap(), h.Len())
	}
	if got, want := h.Window(3), txs(3, 4, 5); !cmp.Equal(got, want) {
		t.Errorf("window not equal after shrink\nwant: %v\ngot: %v", want, got)
	}

	// Growing keeps contents and continues appending.
	h.Resize(6)
	h.Push(tx(6))
	if got, want := h.Window(6), txs(3, 4, 5, 6); !cmp.Equal(got, want) {
		t.Errorf("window not equal after grow\nwant: %v\ngot: %v", want, got)
	}
}
