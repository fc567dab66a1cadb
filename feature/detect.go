//go:build withcv
// +build withcv

/*
DESCRIPTION
  Corner detection over gocv. Shi-Tomasi responses and minimum-distance
  suppression come from GoodFeaturesToTrack; border rejection and the
  minimum-count policy are applied on top.

AUTHORS
  Ella Pietraroia <ella@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/


package feature

import (
	"gocv.io/x/gocv"

	"github.com/ausocean/stabilizer/frame"
)

// Detector finds trackable corners in luma images.
type Detector struct {
	width, height int
	pts           Set // Scratch reused between detections.
}

// NewDetector returns a detector for images of the given dimensions.
func NewDetector(w, h int) *Detector {
	return &Detector{width: w, height: h}
}

// Detect returns up to maxFeatures corners of img, strongest first,
// spaced at least minDistance pixels apart and at least Border pixels
// from the image edge. Fewer than MinFeatures corners yields an empty
// set.
func (d *Detector) Detect(img *frame.Luma, maxFeatures int, minQuality, minDistance float64) Set {
	mat, err := gocv.NewMatFromBytes(img.Height, img.Width, gocv.MatTypeCV8U, img.Pix)
	if err != nil {
		return nil
	}
	defer mat.Close()

	corners := gocv.NewMat()
	defer corners.Close()
	gocv.GoodFeaturesToTrack(mat, &corners, maxFeatures, minQuality, minDistance)

	d.pts = d.pts[:0]
	for i := 0; i < corners.Rows(); i++ {
		v := corners.GetVecfAt(i, 0)
		if len(v) < 2 {
			continue
		}
		x, y := v[0], v[1]
		if x < Border || x >= float32(img.Width-Border) || y < Border || y >= float32(img.Height-Border) {
			continue
		}
		d.pts = append(d.pts, Point{X: x, Y: y})
	}
	if len(d.pts) < MinFeatures {
		return d.pts[:0]
	}
	return d.pts
}
