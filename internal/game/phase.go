package game

import "fmt"

// Phase is the stage of the dealing state machine
type Phase uint8

const (
	Waiting Phase = iota
	HoleCards
	Flop
	Turn
	River
	Showdown
)

var phaseNames = [...]string{
	Waiting:   "WAITING",
	HoleCards: "HOLE_CARDS",
	Flop:      "FLOP",
	Turn:      "TURN",
	River:     "RIVER",
	Showdown:  "SHOWDOWN",
}

// String returns the upper-case phase name used on the wire
func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return fmt.Sprintf("Phase(%d)", uint8(p))
}

// ParsePhase is the inverse of Phase.String.
func ParsePhase(s string) (Phase, error) {
	for i, name := range phaseNames {
		if name == s {
			return Phase(i), nil
		}
	}
	return 0, fmt.Errorf("unknown phase %q", s)
}

// CommunityCount is the number of community cards on the board in this phase.
func (p Phase) CommunityCount() int {
	switch p {
	case Flop:
		return 3
	case Turn:
		return 4
	case River, Showdown:
		return 5
	default:
		return 0
	}
}

func (p Phase) MarshalText() ([]byte, error) {
	if int(p) >= len(phaseNames) {
		return nil, fmt.Errorf("invalid phase %d", uint8(p))
	}
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(text []byte) error {
	parsed, err := ParsePhase(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
