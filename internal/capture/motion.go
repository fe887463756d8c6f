package capture

import (
	"image"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// Motion gate constants.
const (
	// blurKernelSize is the Gaussian blur kernel applied before
	// differencing to suppress sensor noise.
	blurKernelSize = 21
	// diffThreshold is the per-pixel binary threshold on the frame
	// difference.
	diffThreshold = 25
	// DefaultMotionPercent is the fraction of changed pixels (in percent)
	// above which a frame counts as motion.
	DefaultMotionPercent = 1.0
)

// MotionGate decides whether the scene is moving by differencing
// consecutive frames. The app drops to an idle detection cadence once the
// gate has been quiet long enough, so a still room doesn't burn CPU on the
// landmark model.
type MotionGate struct {
	mu          sync.Mutex
	threshold   float64
	prevGray    gocv.Mat
	initialized bool
	lastMotion  time.Time
}

// NewMotionGate creates a gate with the given changed-pixel percentage
// threshold. Non-positive thresholds use the default.
func NewMotionGate(threshold float64) *MotionGate {
	if threshold <= 0 {
		threshold = DefaultMotionPercent
	}
	return &MotionGate{
		threshold:  threshold,
		prevGray:   gocv.NewMat(),
		lastMotion: time.Now(),
	}
}

// Observe compares the frame against the previous one and reports whether
// the scene moved. The first frame establishes the baseline and reports no
// motion.
func (g *MotionGate) Observe(frame *gocv.Mat) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if frame == nil || frame.Empty() {
		return false
	}

	gray := gocv.NewMat()
	defer gray.Close()
	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Point{X: blurKernelSize, Y: blurKernelSize}, 0, 0, gocv.BorderDefault)

	if !g.initialized {
		blurred.CopyTo(&g.prevGray)
		g.initialized = true
		return false
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(blurred, g.prevGray, &diff)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(diff, &thresh, diffThreshold, 255, gocv.ThresholdBinary)

	changed := float64(gocv.CountNonZero(thresh)) / float64(thresh.Rows()*thresh.Cols()) * 100.0
	blurred.CopyTo(&g.prevGray)

	if changed > g.threshold {
		g.lastMotion = time.Now()
		return true
	}
	return false
}

// QuietFor returns how long the gate has gone without observing motion.
func (g *MotionGate) QuietFor() time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()
	return time.Since(g.lastMotion)
}

// Reset clears the baseline so the next frame starts a fresh comparison.
func (g *MotionGate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.prevGray.Empty() {
		g.prevGray.Close()
		g.prevGray = gocv.NewMat()
	}
	g.initialized = false
	g.lastMotion = time.Now()
}

// Close releases the gate's OpenCV resources.
func (g *MotionGate) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.prevGray.Empty() {
		g.prevGray.Close()
		g.prevGray = gocv.NewMat()
	}
	g.initialized = false
}
