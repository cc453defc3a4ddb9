package build

import (
	"sync"
	"time"
)

// Metrics tracks page render counts and durations for one build
type Metrics struct {
	total     int64
	succeeded int64
	failed    int64
	duration  time.Duration
	slowest   time.Duration
	mutex     sync.Mutex
}

// Snapshot is a point-in-time copy of Metrics
type Snapshot struct {
	TotalPages      int64
	SuccessfulPages int64
	FailedPages     int64
	TotalDuration   time.Duration
	AverageDuration time.Duration
	SlowestPage     time.Duration
}

// NewMetrics creates an empty tracker
func NewMetrics() *Metrics {
	return &Metrics{}
}

// Record adds one page render
func (m *Metrics) Record(d time.Duration, err error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.total++
	m.duration += d
	if d > m.slowest {
		m.slowest = d
	}
	if err != nil {
		m.failed++
	} else {
		m.succeeded++
	}
}

// Snapshot returns the current totals
func (m *Metrics) Snapshot() Snapshot {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	s := Snapshot{
		TotalPages:      m.total,
		SuccessfulPages: m.succeeded,
		FailedPages:     m.failed,
		TotalDuration:   m.duration,
		SlowestPage:     m.slowest,
	}
	if m.total > 0 {
		s.AverageDuration = m.duration / time.Duration(m.total)
	}
	return s
}
