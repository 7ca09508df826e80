package binder

import (
	"sort"
	"sync"
	"time"

	svc "inkwell/internal/domain/services/binder"
)

// TimerScheduler runs each armed callback once after a fixed quiet period.
type TimerScheduler struct {
	delay  time.Duration
	mu     sync.Mutex
	timers map[string]*time.Timer
}

var _ svc.Scheduler = (*TimerScheduler)(nil)

// NewTimerScheduler creates a scheduler that fires callbacks delay after they are armed.
func NewTimerScheduler(delay time.Duration) *TimerScheduler {
	return &TimerScheduler{delay: delay, timers: make(map[string]*time.Timer)}
}

// Arm schedules fn under key, replacing any callback still pending for it.
func (s *TimerScheduler) Arm(key string, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[key]; ok {
		t.Stop()
	}
	var t *time.Timer
	t = time.AfterFunc(s.delay, func() {
		s.mu.Lock()
		// A re-arm may have replaced this timer after it fired.
		if s.timers[key] != t {
			s.mu.Unlock()
			return
		}
		delete(s.timers, key)
		s.mu.Unlock()
		fn()
	})
	s.timers[key] = t
}

// Cancel drops the pending callback for key, if any.
func (s *TimerScheduler) Cancel(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[key]; ok {
		t.Stop()
		delete(s.timers, key)
	}
}

// Stop cancels every pending callback.
func (s *TimerScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, t := range s.timers {
		t.Stop()
		delete(s.timers, key)
	}
}

// ManualScheduler holds armed callbacks until Fire is called. Used where
// saves must happen at a controlled moment rather than after real time.
type ManualScheduler struct {
	mu      sync.Mutex
	pending map[string]func()
	armed   int
}

var _ svc.Scheduler = (*ManualScheduler)(nil)

// NewManualScheduler creates an empty manual scheduler.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{pending: make(map[string]func())}
}

func (s *ManualScheduler) Arm(key string, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[key] = fn
	s.armed++
}

func (s *ManualScheduler) Cancel(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, key)
}

// Fire runs the callback pending for key and reports whether there was one.
func (s *ManualScheduler) Fire(key string) bool {
	s.mu.Lock()
	fn, ok := s.pending[key]
	delete(s.pending, key)
	s.mu.Unlock()

	if ok {
		fn()
	}
	return ok
}

// FireAll runs every pending callback in key order.
func (s *ManualScheduler) FireAll() {
	for _, key := range s.Pending() {
		s.Fire(key)
	}
}

// Pending returns the armed keys in sorted order.
func (s *ManualScheduler) Pending() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(s.pending))
	for k := range s.pending {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Armed counts every Arm call so far.
func (s *ManualScheduler) Armed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.armed
}
