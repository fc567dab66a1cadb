/*
DESCRIPTION
  Trackable feature points and the shared selection logic of the
  corner detector. Point order is preserved between detection and
  tracking so that position i refers to the same physical point from
  frame to frame until it is dropped.

AUTHORS
  Ella Pietraroia <ella@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/


// Package feature provides corner-feature detection for sparse optical
// flow tracking.
package feature

import "sort"

// Point is a sub-pixel position in image coordinates.
type Point struct {
	X, Y float32
}

// Set is an ordered sequence of feature points.
type Set []Point

// MinFeatures is the smallest usable detection result; fewer corners
// than this and the detector reports an empty set, which callers treat
// as tracking loss.
const MinFeatures = 10

// Border is the margin in pixels inside which points are rejected.
const Border = 2

// candidate is a corner with its Shi-Tomasi response.
type candidate struct {
	pt   Point
	resp float32
}

// selectCandidates greedily accepts candidates in descending response
// order, rejecting any within minDistance pixels of an already accepted
// point, up to maxFeatures. The accepted points are appended to dst.
func selectCandidates(dst Set, cands []candidate, maxFeatures int, minDistance float64) Set {
	sort.Slice(cands, func(i, j int) bool { return cands[i].resp > cands[j].resp })
	minD2 := float32(minDistance * minDistance)
	for _, c := range cands {
		if len(dst) >= maxFeatures {
			break
		}
		ok := true
		for _, p := range dst {
			dx, dy := c.pt.X-p.X, c.pt.Y-p.Y
			if dx*dx+dy*dy < minD2 {
				ok = false
				break
			}
		}
		if ok {
			dst = append(dst, c.pt)
		}
	}
	return dst
}
