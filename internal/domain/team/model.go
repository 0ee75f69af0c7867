package team

import (
	"fmt"
	"strings"
)

// Slot is the fixed position of a team on the scoreboard.
type Slot string

const (
	SlotTeam1 Slot = "team1"
	SlotTeam2 Slot = "team2"
)

var AllSlots = []Slot{SlotTeam1, SlotTeam2}

func ParseSlot(raw string) (Slot, bool) {
	switch Slot(strings.ToLower(strings.TrimSpace(raw))) {
	case SlotTeam1:
		return SlotTeam1, true
	case SlotTeam2:
		return SlotTeam2, true
	default:
		return "", false
	}
}

// Team is one side of the match as shown on the scoreboard.
//
// StorageKey prefixes the team's live counter keys. It defaults to the display
// name so stores written by earlier versions keep working.
type Team struct {
	Slot       Slot
	Name       string
	StorageKey string
}

func (t Team) Validate() error {
	if _, ok := ParseSlot(string(t.Slot)); !ok {
		return fmt.Errorf("invalid team slot %q", t.Slot)
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("team name is required")
	}
	if strings.TrimSpace(t.key()) == "" {
		return fmt.Errorf("team storage key is required")
	}

	return nil
}

func (t Team) CornersKey() string {
	return t.key() + "-corners"
}

func (t Team) ShotsKey() string {
	return t.key() + "-shots"
}

// HistoryKey is bound to the slot, not the display name.
func (t Team) HistoryKey() string {
	return string(t.Slot) + "-stats"
}

func (t Team) key() string {
	if t.StorageKey != "" {
		return t.StorageKey
	}
	return t.Name
}
