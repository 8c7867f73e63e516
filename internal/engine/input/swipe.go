package input

// DefaultSwipeThreshold is the horizontal travel, as a fraction of the
// window width, that counts as a swipe.
const DefaultSwipeThreshold = 0.1

// Swipe is the outcome of a finger lift.
type Swipe int

const (
	SwipeNone Swipe = iota
	SwipeLeft
	SwipeRight
)

// SwipeTracker detects horizontal swipes from finger down/up pairs.
type SwipeTracker struct {
	threshold float32
	start     map[int64]float32
}

// NewSwipeTracker creates a tracker with the given travel threshold.
func NewSwipeTracker(threshold float32) SwipeTracker {
	return SwipeTracker{
		threshold: threshold,
		start:     make(map[int64]float32),
	}
}

// Down records where finger touched.
func (s *SwipeTracker) Down(finger int64, x float32) {
	s.start[finger] = x
}

// Up classifies the gesture of finger lifting at x.
func (s *SwipeTracker) Up(finger int64, x float32) Swipe {
	x0, ok := s.start[finger]
	if !ok {
		return SwipeNone
	}
	delete(s.start, finger)

	dx := x - x0
	switch {
	case dx > s.threshold:
		return SwipeRight
	case dx < -s.threshold:
		return SwipeLeft
	}
	return SwipeNone
}
