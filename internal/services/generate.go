package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
)

// QuotaError marks a credential as exhausted. It is never retried at the
// same key; the caller rotates or escalates to an operator.
type QuotaError struct {
	Reason string
}

func (e *QuotaError) Error() string {
	return "quota exhausted: " + e.Reason
}

// RetryNotify is invoked before each backoff sleep (not before the first
// attempt) with the attempt number, planned delay, and stringified reason.
type RetryNotify func(attempt int, delay time.Duration, reason string)

// Generator is the resilient structured-generation primitive: one logical
// request, up to maxRetries+1 attempts, exponential backoff on transient
// failures, immediate failure on anything else.
type Generator struct {
	caller     StructuredCaller
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
}

func NewGenerator(caller StructuredCaller, maxRetries int) *Generator {
	return &Generator{
		caller:     caller,
		maxRetries: maxRetries,
		baseDelay:  time.Second,
		maxDelay:   30 * time.Second,
	}
}

// GenerateJSON performs the request and parses the response text into out.
// Malformed JSON is a non-retryable failure.
func (g *Generator) GenerateJSON(ctx context.Context, apiKey, prompt string, schema *genai.Schema, out interface{}, notify RetryNotify) error {
	var lastErr error

	for attempt := 0; attempt <= g.maxRetries; attempt++ {
		if attempt > 0 {
			delay := g.backoffDelay(attempt)
			if notify != nil {
				notify(attempt, delay, lastErr.Error())
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		raw, err := g.caller.GenerateStructured(ctx, apiKey, prompt, schema)
		if err != nil {
			if IsQuotaReason(err) {
				return &QuotaError{Reason: err.Error()}
			}
			if IsTransient(err) {
				lastErr = err
				continue
			}
			return err
		}

		cleaned := stripJSONFence(raw)
		if err := json.Unmarshal([]byte(cleaned), out); err != nil {
			return fmt.Errorf("model returned malformed JSON: %w", err)
		}
		return nil
	}

	// The wrapped transient reason keeps this error classified transient,
	// so the chunk-level policy can keep going.
	return fmt.Errorf("generation failed after %d attempts: %w", g.maxRetries+1, lastErr)
}

// min(cap, base * 2^(attempt-1) + jitter)
func (g *Generator) backoffDelay(attempt int) time.Duration {
	delay := g.baseDelay * (1 << uint(attempt-1))
	jitter := time.Duration(rand.Int63n(int64(g.baseDelay)/2 + 1))
	if delay+jitter > g.maxDelay {
		return g.maxDelay
	}
	return delay + jitter
}

// IsQuotaReason reports whether the error text indicates a provider
// rate/usage limit on the current credential.
func IsQuotaReason(err error) bool {
	reason := strings.ToLower(err.Error())
	return strings.Contains(reason, "quota") || strings.Contains(reason, "429")
}

// IsTransient reports whether the error text indicates a temporary service
// condition worth retrying.
func IsTransient(err error) bool {
	reason := strings.ToLower(err.Error())
	return strings.Contains(reason, "503") ||
		strings.Contains(reason, "unavailable") ||
		strings.Contains(reason, "overloaded")
}

func stripJSONFence(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	return strings.TrimSpace(raw)
}
