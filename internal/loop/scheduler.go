// Package loop implements the timed walkthrough: sequential focus over a
// list of target ids with one narration per step. At most one walkthrough
// exists per dispatcher; starting a new one, any new command, a stop phrase,
// or teardown cancels the pending advance timer. A cancelled timer must
// never fire its step, which the generation counter below guarantees.
package loop

import (
	"sync"
	"time"

	"voxfolio/internal/logging"
)

// StepFunc is invoked once per walkthrough step with the focused id, its
// position, and the total number of steps.
type StepFunc func(id string, index, total int)

// Scheduler drives one walkthrough at a time.
type Scheduler struct {
	mu    sync.Mutex
	dwell time.Duration

	// Active walkthrough state; nil ids means no walkthrough.
	ids   []string
	index int
	step  StepFunc
	timer *time.Timer

	// generation invalidates stale timers: a timer captured generation g
	// only advances if g is still current when it fires.
	generation uint64
}

// NewScheduler creates a scheduler with the given dwell interval between
// steps.
func NewScheduler(dwell time.Duration) *Scheduler {
	return &Scheduler{dwell: dwell}
}

// Start begins a walkthrough over ids, replacing any walkthrough already
// running. The first step fires synchronously; subsequent steps fire after
// each dwell interval. Empty ids is a no-op.
func (s *Scheduler) Start(ids []string, step StepFunc) {
	if len(ids) == 0 {
		return
	}
	s.mu.Lock()
	s.cancelLocked()
	s.ids = append([]string(nil), ids...)
	s.index = 0
	s.step = step
	s.generation++
	logging.Loop("walkthrough started: %d steps", len(ids))
	s.mu.Unlock()

	s.fire()
}

// Stop cancels the active walkthrough, if any. Safe to call repeatedly.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ids != nil {
		logging.Loop("walkthrough stopped at step %d/%d", s.index, len(s.ids))
	}
	s.cancelLocked()
}

// Active reports whether a walkthrough is in progress.
func (s *Scheduler) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ids != nil
}

// cancelLocked clears walkthrough state and kills the pending timer.
// Callers hold s.mu.
func (s *Scheduler) cancelLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.ids = nil
	s.index = 0
	s.step = nil
	s.generation++
}

// fire runs the current step and schedules the advance.
func (s *Scheduler) fire() {
	s.mu.Lock()
	if s.ids == nil {
		s.mu.Unlock()
		return
	}
	id := s.ids[s.index]
	index := s.index
	total := len(s.ids)
	step := s.step
	gen := s.generation
	s.mu.Unlock()

	logging.LoopDebug("step %d/%d focus=%s", index+1, total, id)
	step(id, index, total)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		// Cancelled (or restarted) while the step callback ran.
		return
	}
	if s.index+1 >= len(s.ids) {
		logging.Loop("walkthrough complete: %d steps", total)
		s.cancelLocked()
		return
	}
	s.timer = time.AfterFunc(s.dwell, func() {
		s.mu.Lock()
		if s.generation != gen {
			s.mu.Unlock()
			return
		}
		s.index++
		s.timer = nil
		s.mu.Unlock()
		s.fire()
	})
}
