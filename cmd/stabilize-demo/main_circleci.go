//go:build !withcv
// +build !withcv

/*
DESCRIPTION
  Replaces the demo harness when building without Open CV, which
  Circle-CI does not have a copy of.

AUTHORS
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/


package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Fprintln(os.Stderr, "stabilize-demo requires Open CV; rebuild with -tags withcv")
	os.Exit(1)
}
