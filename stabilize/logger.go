/*
DESCRIPTION
  Optional process-wide logger for the stabilization core. Set once at
  startup and read-only thereafter; when unset, logging is a no-op.

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

import "github.com/ausocean/utils/logging"

// log is the process-wide logger. Defaults to a no-op so an unset
// logger never panics.
var log logging.Logger = noopLogger{}

// SetLogger installs the process-wide logger. Intended to be called
// once at startup, before frames are processed.
func SetLogger(l logging.Logger) {
	if l != nil {
		log = l
	}
}

type noopLogger struct{}

func (noopLogger) SetLevel(int8)                    {}
func (noopLogger) Log(int8, string, ...interface{}) {}
func (noopLogger) Debug(string, ...interface{})     {}
func (noopLogger) Info(string, ...interface{})      {}
func (noopLogger) Warning(string, ...interface{})   {}
func (noopLogger) Error(string, ...interface{})     {}
func (noopLogger) Fatal(string, ...interface{})     {}
