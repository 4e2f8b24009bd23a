package analysis

import "testing"

func TestNewState(t *testing.T) {
	s := NewState()

	if len(s.Steps) != 8 {
		t.Fatalf("expected 8 steps, got %d", len(s.Steps))
	}
	if s.CurrentStep != 0 {
		t.Errorf("cursor should start at 0, got %d", s.CurrentStep)
	}
	if s.Steps[0].Status != StepProcessing {
		t.Errorf("first step should start processing, got %s", s.Steps[0].Status)
	}
	for i := 1; i < len(s.Steps); i++ {
		if s.Steps[i].Status != StepPending {
			t.Errorf("step %d should start pending, got %s", i, s.Steps[i].Status)
		}
	}
}

func TestCompleteCurrentAdvances(t *testing.T) {
	s := NewState()

	s.CompleteCurrent("metadata ready")

	if s.Steps[0].Status != StepComplete {
		t.Errorf("step 0 should be complete, got %s", s.Steps[0].Status)
	}
	if s.Steps[0].Output != "metadata ready" {
		t.Errorf("step 0 output = %q", s.Steps[0].Output)
	}
	if s.CurrentStep != 1 {
		t.Errorf("cursor should advance to 1, got %d", s.CurrentStep)
	}
	if s.Steps[1].Status != StepProcessing {
		t.Errorf("step 1 should be processing, got %s", s.Steps[1].Status)
	}
}

func TestCompleteAllSteps(t *testing.T) {
	s := NewState()

	for i := 0; i < len(s.Steps); i++ {
		if s.Done() {
			t.Fatalf("Done() true before step %d completed", i)
		}
		s.CompleteCurrent("ok")
	}

	if !s.Done() {
		t.Error("Done() false after all steps completed")
	}
	if s.CurrentStep != len(s.Steps)-1 {
		t.Errorf("cursor should stay on last step, got %d", s.CurrentStep)
	}
	for i, step := range s.Steps {
		if step.Status != StepComplete {
			t.Errorf("step %d status = %s", i, step.Status)
		}
	}
}

func TestFailCurrentHalts(t *testing.T) {
	s := NewState()
	s.CompleteCurrent("ok")
	s.CompleteCurrent("ok")

	s.FailCurrent("model returned malformed output")

	if s.Steps[2].Status != StepError {
		t.Errorf("step 2 should be error, got %s", s.Steps[2].Status)
	}
	if s.Steps[2].Err != "model returned malformed output" {
		t.Errorf("step 2 error = %q", s.Steps[2].Err)
	}
	if s.CurrentStep != 2 {
		t.Errorf("cursor should stay at failed step, got %d", s.CurrentStep)
	}
	// Earlier progress is preserved
	if s.Steps[0].Status != StepComplete || s.Steps[1].Status != StepComplete {
		t.Error("completed steps should keep their status after a failure")
	}
	// Later steps never started
	for i := 3; i < len(s.Steps); i++ {
		if s.Steps[i].Status != StepPending {
			t.Errorf("step %d should remain pending, got %s", i, s.Steps[i].Status)
		}
	}
}

func TestSnapshotIsolation(t *testing.T) {
	s := NewState()
	snap := s.Snapshot()

	s.CompleteCurrent("ok")

	if snap.Steps[0].Status != StepProcessing {
		t.Error("snapshot mutated by later state changes")
	}
	if snap.CurrentStep != 0 {
		t.Errorf("snapshot cursor = %d, want 0", snap.CurrentStep)
	}
}
