package billboard

import "fmt"

// PassState is the program state of a Pass.
type PassState int

const (
	// StateNoScene means no scene is bound; Execute clears outputs.
	StateNoScene PassState = iota

	// StateSceneBoundNoVars means a scene is bound but the variable set
	// has not been built for it yet.
	StateSceneBoundNoVars

	// StateSceneBoundReady means the variable set matches the bound scene.
	StateSceneBoundReady
)

// String returns the string representation of PassState.
func (s PassState) String() string {
	switch s {
	case StateNoScene:
		return "NoScene"
	case StateSceneBoundNoVars:
		return "SceneBoundNoVars"
	case StateSceneBoundReady:
		return "SceneBoundReady"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}
