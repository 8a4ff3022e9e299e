package session

import "time"

const (
	// UpgradeWindow is the number of answers in one upgrade window.
	UpgradeWindow = 10

	// UpgradeCorrect is the number of correct answers within a window that
	// triggers a difficulty-upgrade suggestion.
	UpgradeCorrect = 9
)

// Stats are the session-lifetime totals used for the summary.
type Stats struct {
	Correct   int       `json:"correct"`
	Total     int       `json:"total"`
	StartTime time.Time `json:"startTime"`
}

// ScoreTracker counts answers. The window counters drive the upgrade
// suggestion and reset whenever it fires; the session totals only reset
// with the session. Not safe for concurrent use.
type ScoreTracker struct {
	windowCorrect int
	windowTotal   int
	session       Stats
}

// NewScoreTracker starts a tracker for a session beginning at start.
func NewScoreTracker(start time.Time) *ScoreTracker {
	return &ScoreTracker{session: Stats{StartTime: start}}
}

// Record adds an evaluated answer and reports whether a difficulty
// upgrade should be suggested. When it returns true the window counters
// are already back at zero, so the suggestion fires once per window.
func (t *ScoreTracker) Record(correct bool) (suggestUpgrade bool) {
	t.windowTotal++
	t.session.Total++
	if correct {
		t.windowCorrect++
		t.session.Correct++
	}

	if t.windowTotal >= UpgradeWindow && t.windowCorrect >= UpgradeCorrect {
		t.windowCorrect = 0
		t.windowTotal = 0
		return true
	}
	return false
}

// Window returns the counters of the current upgrade window.
func (t *ScoreTracker) Window() (correct, total int) {
	return t.windowCorrect, t.windowTotal
}

// Session returns the session-lifetime totals.
func (t *ScoreTracker) Session() Stats {
	return t.session
}

// Reset zeroes all counters for a session beginning at start.
func (t *ScoreTracker) Reset(start time.Time) {
	*t = ScoreTracker{session: Stats{StartTime: start}}
}
