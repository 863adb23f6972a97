package game

import (
	"encoding/json"
	"testing"
)

func TestPhaseNames(t *testing.T) {
	t.Parallel()
	want := map[Phase]string{
		Waiting:   "WAITING",
		HoleCards: "HOLE_CARDS",
		Flop:      "FLOP",
		Turn:      "TURN",
		River:     "RIVER",
		Showdown:  "SHOWDOWN",
	}
	for phase, name := range want {
		if phase.String() != name {
			t.Errorf("%d.String() = %q, want %q", phase, phase.String(), name)
		}
		parsed, err := ParsePhase(name)
		if err != nil || parsed != phase {
			t.Errorf("ParsePhase(%q) = %v, %v", name, parsed, err)
		}
	}

	if _, err := ParsePhase("PREFLOP"); err == nil {
		t.Error("expected error for unknown phase")
	}
	if _, err := json.Marshal(Phase(42)); err == nil {
		t.Error("expected error marshaling invalid phase")
	}
}

func TestPhaseCommunityCount(t *testing.T) {
	t.Parallel()
	counts := []int{0, 0, 3, 4, 5, 5}
	for p, want := range counts {
		if got := Phase(p).CommunityCount(); got != want {
			t.Errorf("%s community count = %d, want %d", Phase(p), got, want)
		}
	}
}
