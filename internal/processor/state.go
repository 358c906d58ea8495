package processor

import "fmt"

// State is a pipeline stage. A run moves forward through the states in
// declaration order and stops at the first failure.
type State int

const (
	StateInit State = iota
	StateAuthenticated
	StateImageLoaded
	StateCaptioned
	StateTranslated
	StateSynthesized
)

var stateNames = [...]string{
	StateInit:          "Init",
	StateAuthenticated: "Authenticated",
	StateImageLoaded:   "ImageLoaded",
	StateCaptioned:     "Captioned",
	StateTranslated:    "Translated",
	StateSynthesized:   "Synthesized",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// StageError reports the stage a run failed at
type StageError struct {
	Stage State
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("Failed(%s): %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Result records how far a run got
type Result struct {
	RunID       string
	State       State // Last state reached
	Failed      bool
	FailedStage State
	Account     string
	Caption     string
	Translation string
	AudioFile   string
}

// Outcome renders the final state, e.g. "Synthesized" or "Failed(Translated)"
func (r *Result) Outcome() string {
	if r.Failed {
		return fmt.Sprintf("Failed(%s)", r.FailedStage)
	}
	return r.State.String()
}
