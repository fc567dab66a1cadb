/*
DESCRIPTION
  Boundary errors surfaced to the host. Internal algorithmic failures
  (feature loss, tracking degradation, degenerate estimation, warp
  failure) never reach the host; they downgrade the frame to
  pass-through instead.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/


package stabilize

import (
	"github.com/pkg/errors"

	"github.com/ausocean/stabilizer/frame"
)

// The boundary errors. Use errors.Cause to compare a returned error
// against these sentinels.
var (
	ErrInvalidDimensions = errors.New("dimensions outside supported range")
	ErrUnsupportedFormat = errors.New("unsupported frame format")
	ErrNotInitialized    = errors.New("stabilizer is not initialized")
	ErrDimensionMismatch = errors.New("frame dimensions do not match initialization")
)

// boundaryError maps a frame validation failure onto the host-facing
// error set.
func boundaryError(err error) error {
	switch errors.Cause(err) {
	case frame.ErrDimensions:
		return errors.Wrap(ErrInvalidDimensions, err.Error())
	case frame.ErrUnsupportedFormat:
		return errors.Wrap(ErrUnsupportedFormat, err.Error())
	}
	return err
}
