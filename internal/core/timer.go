package core

import "time"

// FixedStep paces frames at a steady rate for hosts that do not have their
// own tick loop (the terminal viewer). It never asks for more than maxCatchUp
// frames per poll so a stalled host does not replay a backlog in one burst.
type FixedStep struct {
	step        time.Duration
	accumulator time.Duration
	last        time.Time
	frames      uint64
	now         func() time.Time
}

const maxCatchUp = 4

// NewFixedStep constructs a FixedStep controller targeting the given rate.
func NewFixedStep(tps int) *FixedStep {
	fs := &FixedStep{now: time.Now}
	fs.SetTPS(tps)
	fs.accumulator = fs.step
	return fs
}

// SetTPS changes the frame rate. Non-positive values select 60.
func (f *FixedStep) SetTPS(tps int) {
	if tps <= 0 {
		tps = 60
	}
	f.step = time.Second / time.Duration(tps)
}

// SetClock replaces the time source.
func (f *FixedStep) SetClock(now func() time.Time) { f.now = now }

// Interval returns the duration of one frame.
func (f *FixedStep) Interval() time.Duration { return f.step }

// Frames returns how many frames Due has handed out.
func (f *FixedStep) Frames() uint64 { return f.frames }

// Due returns the number of frames to simulate now.
func (f *FixedStep) Due() int {
	now := f.now()
	if f.last.IsZero() {
		f.last = now
	}
	f.accumulator += now.Sub(f.last)
	f.last = now
	n := 0
	for f.accumulator >= f.step && n < maxCatchUp {
		f.accumulator -= f.step
		n++
	}
	if n == maxCatchUp && f.accumulator > f.step {
		f.accumulator = 0
	}
	f.frames += uint64(n)
	return n
}

// ShouldStep reports whether at least one frame is due, consuming one.
func (f *FixedStep) ShouldStep() bool {
	now := f.now()
	if f.last.IsZero() {
		f.last = now
	}
	f.accumulator += now.Sub(f.last)
	f.last = now
	if f.accumulator >= f.step {
		f.accumulator -= f.step
		f.frames++
		return true
	}
	return false
}
