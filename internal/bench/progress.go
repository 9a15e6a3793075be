package bench

import (
	"log/slog"
	"sync"
	"time"
)

// progressTracker logs completed/total at most once per interval.
type progressTracker struct {
	mu        sync.Mutex
	completed int64
	total     int64
	interval  time.Duration
	lastLog   time.Time
	logger    *slog.Logger
}

func newProgressTracker(total int64, interval time.Duration, logger *slog.Logger) *progressTracker {
	return &progressTracker{
		total:    total,
		interval: interval,
		lastLog:  time.Now(),
		logger:   logger,
	}
}

func (pt *progressTracker) increment() {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	pt.completed++
	now := time.Now()
	if now.Sub(pt.lastLog) < pt.interval && pt.completed != pt.total {
		return
	}
	pt.lastLog = now
	pt.logger.Info("progress",
		"completed", pt.completed,
		"total", pt.total,
		"percent", float64(pt.completed)/float64(pt.total)*100,
	)
}

func (pt *progressTracker) count() int64 {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	return pt.completed
}
