package analysis

type StepStatus string

const (
	StepPending    StepStatus = "pending"
	StepProcessing StepStatus = "processing"
	StepComplete   StepStatus = "complete"
	StepError      StepStatus = "error"
)

// Step is one record in the progress state machine.
type Step struct {
	Title  string
	Status StepStatus
	Output string
	Err    string
}

var stepTitles = []string{
	"Capturing video metadata",
	"Ingesting video stream",
	"Estimating scene count",
	"Extracting keyframes",
	"Generating story outline",
	"Analyzing scenes",
	"Structuring storyboard",
	"Finalizing",
}

// State tracks the fixed 8-step pipeline. At most one step is processing at
// a time; steps before the cursor are terminal; completing a step auto-starts
// the next one. Owned exclusively by one analyzer run and mutated only there;
// observers receive deep-copied snapshots.
type State struct {
	Steps       []Step
	CurrentStep int
}

func NewState() *State {
	steps := make([]Step, len(stepTitles))
	for i, title := range stepTitles {
		steps[i] = Step{Title: title, Status: StepPending}
	}
	steps[0].Status = StepProcessing

	return &State{Steps: steps, CurrentStep: 0}
}

// CompleteCurrent finishes the cursor step and starts the next one, if any.
func (s *State) CompleteCurrent(output string) {
	step := &s.Steps[s.CurrentStep]
	step.Status = StepComplete
	step.Output = output

	if s.CurrentStep+1 < len(s.Steps) {
		s.CurrentStep++
		s.Steps[s.CurrentStep].Status = StepProcessing
	}
}

// FailCurrent halts the pipeline at the cursor step. Completed steps keep
// their status as evidence of partial progress.
func (s *State) FailCurrent(reason string) {
	step := &s.Steps[s.CurrentStep]
	step.Status = StepError
	step.Err = reason
}

// Done reports whether the final step reached a terminal status.
func (s *State) Done() bool {
	last := s.Steps[len(s.Steps)-1]
	return last.Status == StepComplete || last.Status == StepError
}

// Snapshot returns an immutable deep copy suitable for broadcasting.
func (s *State) Snapshot() State {
	steps := make([]Step, len(s.Steps))
	copy(steps, s.Steps)
	return State{Steps: steps, CurrentStep: s.CurrentStep}
}
