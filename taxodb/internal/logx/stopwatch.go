package logx

import "time"

// Stopwatch measures one phase at a time. Elapsed stops a running watch and
// resets it, so consecutive phases can share a single value.
type Stopwatch struct {
	start time.Time
	stop  time.Time
	now   func() time.Time
}

func NewStopwatch() *Stopwatch {
	return &Stopwatch{now: time.Now}
}

func (s *Stopwatch) Start() {
	s.start = s.clock()
	s.stop = time.Time{}
}

func (s *Stopwatch) Stop() {
	if s.start.IsZero() {
		return
	}
	s.stop = s.clock()
}

// Elapsed returns the measured duration, or zero if Start was never called.
func (s *Stopwatch) Elapsed() time.Duration {
	if s.start.IsZero() {
		return 0
	}
	if s.stop.IsZero() {
		s.Stop()
	}
	d := s.stop.Sub(s.start)
	s.Reset()
	return d
}

func (s *Stopwatch) Reset() {
	s.start = time.Time{}
	s.stop = time.Time{}
}

// Phase logs the elapsed time of the current phase in verbose mode.
func (s *Stopwatch) Phase(log *Logger) time.Duration {
	d := s.Elapsed()
	log.Verbosef("Elapsed time %.3f sec", d.Seconds())
	return d
}

func (s *Stopwatch) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}
