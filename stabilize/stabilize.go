/*
DESCRIPTION
  The stabilization engine. Owns the per-instance pipeline of feature
  detection, optical flow tracking, robust transform estimation,
  motion smoothing, adaptive parameter control and edge-handled
  warping, and exposes the host-facing contract: initialize, update
  params, process frame, reset, metrics.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/


// Package stabilize provides a real-time video stabilization engine.
// It removes unwanted inter-frame camera motion such as handheld
// jitter while preserving intentional motion such as pans.
//
// An instance is single threaded: the host calls ProcessFrame
// sequentially and each call runs to completion. Multiple instances
// are independent. Frame views are borrowed for the duration of a
// call. A pass-through frame is returned as the input view itself;
// any other output view is backed by instance-owned memory and
// remains valid until the next ProcessFrame call.
package stabilize

import (
	"time"

	"github.com/pkg/errors"

	"github.com/ausocean/stabilizer/adaptive"
	"github.com/ausocean/stabilizer/classify"
	"github.com/ausocean/stabilizer/edge"
	"github.com/ausocean/stabilizer/feature"
	"github.com/ausocean/stabilizer/frame"
	"github.com/ausocean/stabilizer/history"
	"github.com/ausocean/stabilizer/smooth"
	"github.com/ausocean/stabilizer/track"
	"github.com/ausocean/stabilizer/transform"
)

// Instance states.
type state int

const (
	uninitialized state = iota
	initialized         // After Initialize or Reset; next frame is a cold start.
	running             // Tracking an established feature set.
	degraded            // Refresh in progress; frames pass through until re-acquisition.
)

// classifyWindow is the number of recent transforms the motion
// classifier looks at.
const classifyWindow = 30

// maxConsecutiveFailures forces a feature refresh after this many
// estimation failures in a row.
const maxConsecutiveFailures = 3

// degradeStreakLimit forces a refresh after this many consecutive
// frames of falling tracking success.
const degradeStreakLimit = 5

// Stabilizer is a per-source video stabilization engine. The zero
// value is uninitialized; call Initialize before processing frames.
type Stabilizer struct {
	cfg           Params
	width, height int
	st            state

	adapter    *frame.Adapter
	detector   *feature.Detector
	tracker    *track.Tracker
	estimator  *transform.Estimator
	hist       *history.History
	classifier *classify.Classifier
	edges      *edge.Handler

	prev, curr *frame.Luma
	hasPrev    bool
	points     feature.Set
	src, dst   feature.Set // Matched pair scratch.

	consecFailures int
	degradeStreak  int
	lastRate       float64

	metrics Metrics
}

// New returns an uninitialized stabilizer.
func New() *Stabilizer { return &Stabilizer{} }

// Initialize validates and clamps params, allocates owned buffers for
// the given frame dimensions and readies the instance for processing.
// It fails only on out-of-range dimensions.
func (s *Stabilizer) Initialize(w, h int, p Params) error {
	if w < frame.MinDim || w > frame.MaxWidth || h < frame.MinDim || h > frame.MaxHeight {
		return errors.Wrapf(ErrInvalidDimensions, "%dx%d", w, h)
	}
	p.clamp()

	s.cfg = p
	s.width, s.height = w, h
	s.adapter = frame.NewAdapter(w, h)
	s.detector = feature.NewDetector(w, h)
	s.tracker = track.NewTracker(w, h, p.MaxFeatures)
	s.estimator = transform.NewEstimator(p.MaxFeatures)
	s.hist = history.New(p.SmoothingRadius)
	s.classifier = classify.NewClassifier(classifyWindow)
	s.edges = edge.NewHandler(w, h, p.EdgeMode)
	s.prev = frame.NewLuma(w, h)
	s.curr = frame.NewLuma(w, h)
	s.points = make(feature.Set, 0, p.MaxFeatures)
	s.src = make(feature.Set, 0, p.MaxFeatures)
	s.dst = make(feature.Set, 0, p.MaxFeatures)

	s.clearRunState()
	s.metrics = Metrics{}
	s.st = initialized
	log.Debug("stabilizer initialized", "width", w, "height", h)
	return nil
}

// UpdateParams clamps and applies new params between frames. A changed
// smoothing radius resizes the history, preserving the most recent
// entries.
func (s *Stabilizer) UpdateParams(p Params) {
	if s.st == uninitialized {
		log.Warning("update params called, but stabilizer not initialized")
		return
	}
	p.clamp()
	if p.SmoothingRadius != s.cfg.SmoothingRadius {
		s.hist.Resize(p.SmoothingRadius)
	}
	s.edges.SetMode(p.EdgeMode)
	s.cfg = p
}

// Reset clears all owned state. The next frame is treated as a cold
// start, exactly as after a fresh Initialize with the same params.
func (s *Stabilizer) Reset() {
	if s.st == uninitialized {
		return
	}
	s.hist.Clear()
	s.clearRunState()
	s.metrics = Metrics{}
	s.st = initialized
}

func (s *Stabilizer) clearRunState() {
	s.hasPrev = false
	s.points = s.points[:0]
	s.consecFailures = 0
	s.degradeStreak = 0
	s.lastRate = 0
}

// Metrics returns the state of the last processed frame. It is a
// cheap copy of a cache updated once per frame.
func (s *Stabilizer) Metrics() Metrics { return s.metrics }

// Config returns a copy of the current effective params.
func (s *Stabilizer) Config() Params { return s.cfg }

// ProcessFrame stabilizes one frame. Only boundary conditions return
// errors; any internal failure downgrades the frame to pass-through,
// so the host always receives a frame. The returned view is valid
// until the next ProcessFrame call on this instance.
func (s *Stabilizer) ProcessFrame(in frame.View) (frame.View, error) {
	if s.st == uninitialized {
		return frame.View{}, errors.Wrap(ErrNotInitialized, "process frame")
	}
	if in.Width != s.width || in.Height != s.height {
		return frame.View{}, errors.Wrapf(ErrDimensionMismatch, "%dx%d frame for %dx%d instance", in.Width, in.Height, s.width, s.height)
	}
	if err := in.Validate(); err != nil {
		return frame.View{}, boundaryError(err)
	}

	start := time.Now()
	if !s.cfg.Enabled {
		s.metrics.CumulativeFrames++
		s.metrics.LastFrameTime = time.Since(start)
		return in, nil
	}

	out := s.process(in)
	s.metrics.CumulativeFrames++
	s.metrics.HistoryLen = s.hist.Len()
	s.metrics.TrackedFeatures = len(s.points)
	s.metrics.LastFrameTime = time.Since(start)
	return out, nil
}

// process runs the stabilization pipeline. It never returns an error;
// internal faults, including panics from the vision layers, downgrade
// to pass-through with an identity history entry.
func (s *Stabilizer) process(in frame.View) (out frame.View) {
	appended := false
	defer func() {
		if r := recover(); r != nil {
			log.Error("internal failure, passing frame through", "recovered", r)
			if !appended {
				s.hist.Push(transform.Identity())
			}
			out = in
		}
	}()

	if err := s.adapter.ExtractLuma(in, s.curr); err != nil {
		log.Error("luma extraction failed, passing frame through", "error", err.Error())
		s.hist.Push(transform.Identity())
		return in
	}

	// Cold start: seed the feature set and pass the frame through.
	if !s.hasPrev {
		s.detect()
		s.swapLuma()
		s.hasPrev = true
		s.st = running
		return in
	}

	tracked, ok, rate := s.tracker.Track(s.prev, s.curr, s.points)
	if rate < s.lastRate {
		s.degradeStreak++
	} else {
		s.degradeStreak = 0
	}
	s.lastRate = rate

	// Estimation maps current positions back onto previous ones, so
	// the history holds the alignment of each frame to its
	// predecessor.
	s.src = s.src[:0]
	s.dst = s.dst[:0]
	surviving := 0
	for i := range tracked {
		if !ok[i] {
			continue
		}
		s.src = append(s.src, tracked[i])
		s.dst = append(s.dst, s.points[i])
		surviving++
	}

	t, estErr := s.estimator.Estimate(s.src, s.dst)
	if estErr != nil {
		t = transform.Identity()
		s.consecFailures++
		log.Debug("estimation failed", "error", estErr.Error(), "consecutive", s.consecFailures)
	} else {
		s.consecFailures = 0
	}
	s.hist.Push(t)
	appended = true

	class, _ := s.classifier.Classify(s.hist.Window(classifyWindow), s.cfg.Sensitivity)
	strength, window := adaptive.Resolve(s.cfg.Adaptive, class, s.cfg.MaxCorrection, s.cfg.SmoothingRadius)
	s.metrics.LastMotionClass = class
	s.metrics.EffectiveStrength = strength

	if estErr != nil {
		out = in
	} else {
		k := smooth.Correction(s.hist.Window(window), strength)
		warped, err := s.edges.Apply(in, k)
		if err != nil {
			log.Error("warp failed, passing frame through", "error", err.Error())
			out = in
		} else {
			out = warped
		}
	}

	s.refreshOrKeep(tracked, ok, rate, surviving)
	s.swapLuma()
	return out
}

// refreshOrKeep applies the feature refresh policy: re-detect on the
// current frame when tracking has degraded, otherwise keep the
// surviving tracked points in order.
func (s *Stabilizer) refreshOrKeep(tracked feature.Set, ok []bool, rate float64, surviving int) {
	minSurviving := s.cfg.MaxFeatures / 2
	if minSurviving < 30 {
		minSurviving = 30
	}
	forced := s.consecFailures >= maxConsecutiveFailures
	if !forced && rate >= s.cfg.RefreshThresholdRatio && surviving >= minSurviving && s.degradeStreak < degradeStreakLimit {
		s.points = s.points[:0]
		for i := range tracked {
			if ok[i] {
				s.points = append(s.points, tracked[i])
			}
		}
		s.st = running
		return
	}

	if forced {
		s.consecFailures = 0
	}
	s.degradeStreak = 0
	s.detect()
	if len(s.points) < feature.MinFeatures {
		s.st = degraded
	} else {
		s.st = running
		log.Debug("feature set refreshed", "count", len(s.points))
	}
}

// detect reseeds the feature set from the current luma image.
func (s *Stabilizer) detect() {
	found := s.detector.Detect(s.curr, s.cfg.MaxFeatures, s.cfg.MinFeatureQuality, s.cfg.MinFeatureDistance)
	s.points = append(s.points[:0], found...)
}

func (s *Stabilizer) swapLuma() {
	s.prev, s.curr = s.curr, s.prev
}
