/*
NAME
  filter.go

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


// Package filter provides the interface and implementations of the
// filters to be used on raw video frames, and a chain that connects
// them so frames flow through every stage before reaching the
// destination.
package filter

import (
	"io"

	"github.com/pkg/errors"
)

// Filter is one stage of a raw-frame processing chain. A filter
// receives one frame per Write and writes its output frame on to the
// destination it was constructed with.
type Filter interface {
	io.WriteCloser
	//NB: Filter interface may evolve with more methods as required.
}

// Constructor builds a filter stage writing to dst. NewChain uses
// constructors to connect stages back to front.
type Constructor func(dst io.WriteCloser) (Filter, error)

// The NoOp filter will perform no operation on the frames that are
// being recieved, it will pass them on to the destination with no
// changes. It also stands in for a chain with no stages configured.
type NoOp struct {
	dst io.WriteCloser
}

func NewNoOp(dst io.WriteCloser) *NoOp { return &NoOp{dst: dst} }

func (n *NoOp) Write(p []byte) (int, error) { return n.dst.Write(p) }

func (n *NoOp) Close() error { return nil }

// Chain connects filter stages so that a frame written to the chain
// passes through each stage in order before reaching the final
// destination.
type Chain struct {
	stages []Filter // stages[0] is the stage frames enter first.
}

// NewChain builds a chain over dst from the given constructors,
// connecting stages back to front so each stage writes to the next.
// With no constructors the chain is a single NoOp.
func NewChain(dst io.WriteCloser, ctors ...Constructor) (*Chain, error) {
	if len(ctors) == 0 {
		return &Chain{stages: []Filter{NewNoOp(dst)}}, nil
	}

	stages := make([]Filter, len(ctors))
	next := dst
	for i := len(ctors) - 1; i >= 0; i-- {
		f, err := ctors[i](next)
		if err != nil {
			return nil, errors.Wrapf(err, "could not construct filter %d", i)
		}
		stages[i] = f
		next = f
	}
	return &Chain{stages: stages}, nil
}

// Write passes one frame into the head of the chain.
func (c *Chain) Write(p []byte) (int, error) { return c.stages[0].Write(p) }

// Close closes the stages of the chain in order, stopping at and
// returning the first error.
func (c *Chain) Close() error {
	for _, f := range c.stages {
		err := f.Close()
		if err != nil {
			return err
		}
	}
	return nil
}
