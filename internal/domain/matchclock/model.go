package matchclock

import "fmt"

// StorageKey holds the elapsed seconds as a decimal string.
const StorageKey = "match-time"

type Phase string

const (
	PhaseStopped Phase = "stopped"
	PhaseRunning Phase = "running"
)

// State is the match clock. Running is never persisted.
type State struct {
	ElapsedSeconds int
	Running        bool
}

func (s State) Phase() Phase {
	if s.Running {
		return PhaseRunning
	}
	return PhaseStopped
}

func (s State) Formatted() string {
	return Format(s.ElapsedSeconds)
}

func Start(s State) State {
	s.Running = true
	return s
}

func Pause(s State) State {
	s.Running = false
	return s
}

func Toggle(s State) State {
	if s.Running {
		return Pause(s)
	}
	return Start(s)
}

// Reset stops the clock and zeroes it from either phase.
func Reset(State) State {
	return State{}
}

// Tick advances a running clock by one second. A stopped clock is returned unchanged.
func Tick(s State) State {
	if !s.Running {
		return s
	}
	s.ElapsedSeconds++
	return s
}

// Format renders seconds as mm:ss. Minutes are not wrapped at 60.
func Format(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
