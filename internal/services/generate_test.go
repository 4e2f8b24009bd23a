package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/generative-ai-go/genai"
)

type scriptedCaller struct {
	responses []string
	errs      []error
	calls     int
}

func (s *scriptedCaller) GenerateStructured(ctx context.Context, apiKey, prompt string, schema *genai.Schema) (string, error) {
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	if i < len(s.responses) {
		return s.responses[i], nil
	}
	return "", errors.New("scripted caller ran out of responses")
}

func testGenerator(caller StructuredCaller, maxRetries int) *Generator {
	return &Generator{
		caller:     caller,
		maxRetries: maxRetries,
		baseDelay:  time.Millisecond,
		maxDelay:   5 * time.Millisecond,
	}
}

type payload struct {
	Title string `json:"title"`
}

func TestGenerateJSONSuccess(t *testing.T) {
	caller := &scriptedCaller{responses: []string{`{"title":"ok"}`}}
	g := testGenerator(caller, 3)

	var out payload
	notifies := 0
	err := g.GenerateJSON(context.Background(), "key", "prompt", nil, &out, func(int, time.Duration, string) { notifies++ })
	if err != nil {
		t.Fatalf("GenerateJSON failed: %v", err)
	}
	if out.Title != "ok" {
		t.Errorf("parsed title = %q", out.Title)
	}
	if notifies != 0 {
		t.Errorf("notify fired %d times on clean success", notifies)
	}
}

func TestGenerateJSONStripsFence(t *testing.T) {
	caller := &scriptedCaller{responses: []string{"```json\n{\"title\":\"fenced\"}\n```"}}
	g := testGenerator(caller, 0)

	var out payload
	if err := g.GenerateJSON(context.Background(), "key", "prompt", nil, &out, nil); err != nil {
		t.Fatalf("GenerateJSON failed: %v", err)
	}
	if out.Title != "fenced" {
		t.Errorf("parsed title = %q", out.Title)
	}
}

func TestGenerateJSONRetriesTransient(t *testing.T) {
	caller := &scriptedCaller{
		errs:      []error{errors.New("503 service unavailable"), errors.New("model overloaded"), nil},
		responses: []string{"", "", `{"title":"third time"}`},
	}
	g := testGenerator(caller, 3)

	var out payload
	var attempts []int
	var delays []time.Duration
	err := g.GenerateJSON(context.Background(), "key", "prompt", nil, &out, func(attempt int, delay time.Duration, reason string) {
		attempts = append(attempts, attempt)
		delays = append(delays, delay)
	})
	if err != nil {
		t.Fatalf("GenerateJSON failed: %v", err)
	}

	if caller.calls != 3 {
		t.Errorf("calls = %d, want 3", caller.calls)
	}
	if len(attempts) != 2 || attempts[0] != 1 || attempts[1] != 2 {
		t.Errorf("notify attempts = %v, want [1 2]", attempts)
	}
	for i, d := range delays {
		if d <= 0 {
			t.Errorf("delay %d = %v, want positive", i, d)
		}
		if d > 5*time.Millisecond {
			t.Errorf("delay %d = %v exceeds cap", i, d)
		}
	}
	if out.Title != "third time" {
		t.Errorf("parsed title = %q", out.Title)
	}
}

func TestGenerateJSONQuotaFailsImmediately(t *testing.T) {
	caller := &scriptedCaller{errs: []error{errors.New("googleapi: Error 429: quota exceeded")}}
	g := testGenerator(caller, 3)

	var out payload
	err := g.GenerateJSON(context.Background(), "key", "prompt", nil, &out, nil)

	var quotaErr *QuotaError
	if !errors.As(err, &quotaErr) {
		t.Fatalf("expected QuotaError, got %v", err)
	}
	if caller.calls != 1 {
		t.Errorf("calls = %d, quota must not retry the same key", caller.calls)
	}
}

func TestGenerateJSONNonRetryableFailsImmediately(t *testing.T) {
	caller := &scriptedCaller{errs: []error{errors.New("invalid request: unknown field")}}
	g := testGenerator(caller, 3)

	var out payload
	err := g.GenerateJSON(context.Background(), "key", "prompt", nil, &out, nil)
	if err == nil {
		t.Fatal("expected failure")
	}
	if caller.calls != 1 {
		t.Errorf("calls = %d, want 1", caller.calls)
	}
}

func TestGenerateJSONMalformedJSONNotRetried(t *testing.T) {
	caller := &scriptedCaller{responses: []string{"this is not json"}}
	g := testGenerator(caller, 3)

	var out payload
	err := g.GenerateJSON(context.Background(), "key", "prompt", nil, &out, nil)
	if err == nil {
		t.Fatal("expected failure")
	}
	if !strings.Contains(err.Error(), "malformed JSON") {
		t.Errorf("error = %v", err)
	}
	if caller.calls != 1 {
		t.Errorf("calls = %d, malformed output must not be retried", caller.calls)
	}
}

// Exhausting all attempts on transient failures must keep the error
// classified transient, so a caller layering its own policy can continue.
func TestGenerateJSONExhaustionStaysTransient(t *testing.T) {
	caller := &scriptedCaller{
		errs: []error{errors.New("503 service unavailable"), errors.New("503 service unavailable")},
	}
	g := testGenerator(caller, 1)

	var out payload
	err := g.GenerateJSON(context.Background(), "key", "prompt", nil, &out, nil)
	if err == nil {
		t.Fatal("expected failure")
	}
	if caller.calls != 2 {
		t.Errorf("calls = %d, want 2", caller.calls)
	}
	if !IsTransient(err) {
		t.Errorf("exhaustion error lost its transient classification: %v", err)
	}
}

func TestGenerateJSONContextCancelledDuringBackoff(t *testing.T) {
	caller := &scriptedCaller{
		errs: []error{errors.New("503 service unavailable")},
	}
	g := &Generator{caller: caller, maxRetries: 3, baseDelay: time.Hour, maxDelay: time.Hour}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		var out payload
		done <- g.GenerateJSON(ctx, "key", "prompt", nil, &out, nil)
	}()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("GenerateJSON did not honor cancellation during backoff")
	}
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		quota     bool
		transient bool
	}{
		{"http 429", errors.New("googleapi: Error 429"), true, false},
		{"quota text", errors.New("RESOURCE_EXHAUSTED: Quota exceeded"), true, false},
		{"http 503", errors.New("googleapi: Error 503"), false, true},
		{"unavailable", errors.New("service currently unavailable"), false, true},
		{"overloaded", errors.New("the model is overloaded"), false, true},
		{"validation", errors.New("invalid argument"), false, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsQuotaReason(tc.err); got != tc.quota {
				t.Errorf("IsQuotaReason = %v, want %v", got, tc.quota)
			}
			if got := IsTransient(tc.err); got != tc.transient {
				t.Errorf("IsTransient = %v, want %v", got, tc.transient)
			}
		})
	}
}

func TestStripJSONFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare json", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"plain fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  {\"a\":1}\n", `{"a":1}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := stripJSONFence(tc.in); got != tc.want {
				t.Errorf("stripJSONFence(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
