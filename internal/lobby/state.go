package lobby

// State is the lobby protocol state. Race is terminal for the lobby.
type State int

const (
	StateConnect State = iota
	StateSetup
	StateMain
	StateTeamSelect
	StateSelect
	StateRace
)

var stateNames = [...]string{
	StateConnect:    "connect",
	StateSetup:      "setup",
	StateMain:       "main",
	StateTeamSelect: "team_select",
	StateSelect:     "select",
	StateRace:       "race",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// outcome is the result of resolving the current state: stay, or move to next.
// Failure is reported separately as an error.
type outcome struct {
	next State
	move bool
}

func stay() outcome { return outcome{} }

func moveTo(s State) outcome { return outcome{next: s, move: true} }
