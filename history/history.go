/*
DESCRIPTION
  A bounded ring of recent inter-frame transforms. The stabilizer
  appends one entry per processed frame and the smoother and motion
  classifier read sliding windows off the newest end.

AUTHORS
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/


// Package history provides a bounded ring buffer of transforms with a
// sliding-window view used for motion smoothing.
package history

import "github.com/ausocean/stabilizer/transform"

// History is a fixed-capacity ring of transforms. Once full, a push
// evicts the oldest entry. The zero value is not usable; construct with
// New.
type History struct {
	buf  []transform.Transform
	win  []transform.Transform // Scratch for Window, reused between calls.
	head int                   // Index of the next write.
	n    int
}

// New returns a history with the given capacity.
func New(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{
		buf: make([]transform.Transform, capacity),
		win: make([]transform.Transform, 0, capacity),
	}
}

// Push appends t, evicting the oldest entry if the ring is full.
func (h *History) Push(t transform.Transform) {
	h.buf[h.head] = t
	h.head = (h.head + 1) % len(h.buf)
	if h.n < len(h.buf) {
		h.n++
	}
}

// Window returns the most recent n entries in chronological order,
// clipped to the current length. The returned slice is owned by the
// history and valid until the next call to Window, Push, Resize or
// Clear.
func (h *History) Window(n int) []transform.Transform {
	if n > h.n {
		n = h.n
	}
	h.win = h.win[:0]
	for i := h.n - n; i < h.n; i++ {
		h.win = append(h.win, h.buf[(h.head-h.n+i+2*len(h.buf))%len(h.buf)])
	}
	return h.win
}

// Len returns the number of stored entries.
func (h *History) Len() int { return h.n }

// Cap returns the ring capacity.
func (h *History) Cap() int { return len(h.buf) }

// Clear removes all entries. Capacity is unchanged.
func (h *History) Clear() {
	h.head = 0
	h.n = 0
}

// Resize sets a new capacity, preserving the most recent entries. When
// shrinking, the oldest entries are truncated.
func (h *History) Resize(capacity int) {
	if capacity < 1 {
		capacity = 1
	}
	if capacity == len(h.buf) {
		return
	}
	keep := h.Window(capacity)
	buf := make([]transform.Transform, capacity)
	n := copy(buf, keep)
	h.buf = buf
	h.win = make([]transform.Transform, 0, capacity)
	h.head = n % capacity
	h.n = n
}
