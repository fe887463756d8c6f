// Package gesture interprets hand landmark frames as camera-control intent.
package gesture

// historySize is the capacity of the gesture history ring buffer.
const historySize = 8

// gestureRing is a fixed-capacity circular buffer of raw per-frame gestures
// used for majority voting. Push is O(1); majority is an O(n) scan with
// n <= historySize.
type gestureRing struct {
	buf  [historySize]FingerGesture
	head int
	size int
}

func (r *gestureRing) push(g FingerGesture) {
	r.buf[r.head] = g
	r.head = (r.head + 1) % historySize
	if r.size < historySize {
		r.size++
	}
}

// majority returns the most frequent gesture in the buffer and its frequency
// ratio over the frames actually buffered. An empty buffer reports unknown
// with ratio 0.
func (r *gestureRing) majority() (FingerGesture, float64) {
	if r.size == 0 {
		return GestureUnknown, 0
	}

	counts := make(map[FingerGesture]int, 5)
	for i := 0; i < r.size; i++ {
		counts[r.buf[i]]++
	}

	best := GestureUnknown
	bestCount := 0
	for g, n := range counts {
		if n > bestCount {
			best = g
			bestCount = n
		}
	}

	return best, float64(bestCount) / float64(r.size)
}

func (r *gestureRing) reset() {
	r.head = 0
	r.size = 0
}
