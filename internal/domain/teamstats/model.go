package teamstats

// Event labels are persisted verbatim and shown to users.
const (
	EventCorner   = "Escanteio"
	EventShot     = "Finalização"
	EventSnapshot = "Estatísticas salvas"
)

// StatEvent is one history row. Corners and Shots are only meaningful for
// snapshots; discrete corner and shot events always carry zero counts.
type StatEvent struct {
	Corners   int    `json:"corners"`
	Shots     int    `json:"shots"`
	Timestamp string `json:"timestamp"`
	MatchTime string `json:"matchTime"`
	Event     string `json:"event"`
}

func (e StatEvent) IsSnapshot() bool {
	return e.Event == EventSnapshot
}

// Stamp is the time context captured when an event is created.
type Stamp struct {
	Timestamp string
	MatchTime string
}

// Ledger holds a team's live counters and its append-only history.
type Ledger struct {
	LiveCorners int
	LiveShots   int
	History     []StatEvent
}

func (l *Ledger) IncrementCorner(at Stamp) StatEvent {
	l.LiveCorners++
	return l.appendDiscrete(EventCorner, at)
}

func (l *Ledger) DecrementCorner() {
	l.LiveCorners = decrement(l.LiveCorners)
}

func (l *Ledger) IncrementShot(at Stamp) StatEvent {
	l.LiveShots++
	return l.appendDiscrete(EventShot, at)
}

func (l *Ledger) DecrementShot() {
	l.LiveShots = decrement(l.LiveShots)
}

// Save records a snapshot of both live counters without resetting them.
func (l *Ledger) Save(at Stamp) StatEvent {
	event := StatEvent{
		Corners:   l.LiveCorners,
		Shots:     l.LiveShots,
		Timestamp: at.Timestamp,
		MatchTime: at.MatchTime,
		Event:     EventSnapshot,
	}
	l.History = append(l.History, event)
	return event
}

func (l *Ledger) ResetCounters() {
	l.LiveCorners = 0
	l.LiveShots = 0
}

// DeleteHistoryEntry removes the entry at index and reports whether anything
// was removed. Out-of-range indexes leave the history untouched.
func (l *Ledger) DeleteHistoryEntry(index int) bool {
	if index < 0 || index >= len(l.History) {
		return false
	}

	out := make([]StatEvent, 0, len(l.History)-1)
	out = append(out, l.History[:index]...)
	out = append(out, l.History[index+1:]...)
	l.History = out
	return true
}

// Clone returns a copy whose history does not alias the receiver's.
func (l Ledger) Clone() Ledger {
	l.History = append([]StatEvent(nil), l.History...)
	return l
}

func (l *Ledger) appendDiscrete(kind string, at Stamp) StatEvent {
	event := StatEvent{
		Timestamp: at.Timestamp,
		MatchTime: at.MatchTime,
		Event:     kind,
	}
	l.History = append(l.History, event)
	return event
}

func decrement(v int) int {
	if v <= 0 {
		return 0
	}
	return v - 1
}
