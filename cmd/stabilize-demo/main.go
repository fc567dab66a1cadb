//go:build withcv
// +build withcv

/*
DESCRIPTION
  A demonstration harness that feeds webcam frames through the
  stabilization engine and shows the input and stabilized output side
  by side.

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
	"flag"
	"fmt"
	"image"
	"image/color"
	"os"
	"time"

	"gocv.io/x/gocv"

	"github.com/ausocean/utils/logging"

	"github.com/ausocean/stabilizer/edge"
	"github.com/ausocean/stabilizer/frame"
	"github.com/ausocean/stabilizer/stabilize"
)

var colorGreen = color.RGBA{0, 191, 0, 0}

func main() {
	var (
		devicePtr   = flag.String("device", "0", "webcam device ID")
		widthPtr    = flag.Int("width", 1280, "frame width")
		heightPtr   = flag.Int("height", 720, "frame height")
		radiusPtr   = flag.Int("radius", 30, "smoothing radius in frames")
		strengthPtr = flag.Float64("strength", 0.8, "correction strength, 0 to 1")
		adaptivePtr = flag.Bool("adaptive", true, "adapt smoothing to motion class")
		modePtr     = flag.String("edge", "crop", "edge mode: crop, pad or scale")
	)
	flag.Parse()

	log := logging.New(logging.Info, os.Stderr, true)
	stabilize.SetLogger(log)

	p := stabilize.DefaultParams()
	p.SmoothingRadius = *radiusPtr
	p.MaxCorrection = *strengthPtr
	p.Adaptive = *adaptivePtr
	switch *modePtr {
	case "pad":
		p.EdgeMode = edge.Pad
	case "scale":
		p.EdgeMode = edge.Scale
	default:
		p.EdgeMode = edge.Crop
	}

	core := stabilize.New()
	err := core.Initialize(*widthPtr, *heightPtr, p)
	if err != nil {
		log.Fatal("could not initialize stabilizer", "error", err.Error())
	}

	webcam, err := gocv.OpenVideoCapture(*devicePtr)
	if err != nil {
		log.Fatal("could not open video capture device", "device", *devicePtr)
	}
	defer webcam.Close()

	inWin := gocv.NewWindow("Input")
	defer inWin.Close()
	outWin := gocv.NewWindow("Stabilized")
	defer outWin.Close()

	img := gocv.NewMat()
	defer img.Close()
	sized := gocv.NewMat()
	defer sized.Close()
	bgra := gocv.NewMat()
	defer bgra.Close()

	fmt.Printf("Start reading device: %v\n", *devicePtr)
	for {
		if ok := webcam.Read(&img); !ok {
			fmt.Printf("Device closed: %v\n", *devicePtr)
			return
		}
		if img.Empty() {
			continue
		}

		gocv.Resize(img, &sized, image.Pt(*widthPtr, *heightPtr), 0, 0, gocv.InterpolationLinear)
		gocv.CvtColor(sized, &bgra, gocv.ColorBGRToBGRA)

		data, err := bgra.DataPtrUint8()
		if err != nil {
			log.Error("could not read frame data", "error", err.Error())
			continue
		}
		v, err := frame.FromBuffer(*widthPtr, *heightPtr, frame.BGRA, data, uint64(time.Now().UnixNano()))
		if err != nil {
			log.Error("could not build frame view", "error", err.Error())
			continue
		}

		out, err := core.ProcessFrame(v)
		if err != nil {
			log.Error("could not process frame", "error", err.Error())
			continue
		}

		outMat, err := gocv.NewMatFromBytes(*heightPtr, *widthPtr, gocv.MatTypeCV8UC4, out.Planes[0])
		if err != nil {
			log.Error("could not build output mat", "error", err.Error())
			continue
		}

		m := core.Metrics()
		gocv.PutText(&outMat, fmt.Sprintf("%v features=%d strength=%.2f %v",
			m.LastMotionClass, m.TrackedFeatures, m.EffectiveStrength, m.LastFrameTime),
			image.Pt(16, 32), gocv.FontHersheyPlain, 1.2, colorGreen, 2)

		inWin.IMShow(bgra)
		outWin.IMShow(outMat)
		outMat.Close()
		if inWin.WaitKey(1) == 27 {
			return
		}
	}
}
