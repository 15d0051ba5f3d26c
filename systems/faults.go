package systems

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/pthm-cable/folio/forcefn"
)

// faultStreak tracks evaluation failures of one profile slot.
// A streak is a run of consecutive steps with at least one fault; it is logged
// once when it starts, and again only after a clean step or a new install.
type faultStreak struct {
	name       string
	generation uint64
	inStreak   bool
	stepFaults int
	firstErr   error
	total      uint64
}

// eval calls prof and converts errors, panics and non-finite results to 0.
func (s *faultStreak) eval(prof forcefn.Profile, x, t float64) (v float64) {
	defer func() {
		if r := recover(); r != nil {
			s.record(fmt.Errorf("profile panicked: %v", r))
			v = 0
		}
	}()

	v, err := prof(x, t)
	if err != nil {
		s.record(err)
		return 0
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		s.record(fmt.Errorf("%w: %v", forcefn.ErrNonFinite, v))
		return 0
	}
	return v
}

func (s *faultStreak) record(err error) {
	s.stepFaults++
	if s.firstErr == nil {
		s.firstErr = err
	}
}

// endStep closes the step, logging the first fault of a new streak.
// Returns the number of faults in the step.
func (s *faultStreak) endStep(generation uint64, src string, tick int64) int {
	if generation != s.generation {
		s.generation = generation
		s.inStreak = false
	}

	n := s.stepFaults
	if n > 0 {
		s.total += uint64(n)
		if !s.inStreak {
			slog.Warn("force profile fault",
				"profile", s.name,
				"expr", src,
				"tick", tick,
				"particles", n,
				"error", s.firstErr,
			)
		}
		s.inStreak = true
	} else {
		s.inStreak = false
	}

	s.stepFaults = 0
	s.firstErr = nil
	return n
}
