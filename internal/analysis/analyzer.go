package analysis

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"

	"storyboard-backend/internal/models"
	"storyboard-backend/internal/services"
)

// ModelCaller is the resilient structured-generation boundary the analyzer
// drives. services.Generator satisfies it.
type ModelCaller interface {
	GenerateJSON(ctx context.Context, apiKey, prompt string, schema *genai.Schema, out interface{}, notify services.RetryNotify) error
}

// Options configures one analysis run.
type Options struct {
	SourceURL       string
	Style           string
	VariationPrompt string
	SummaryDuration int
}

// Callbacks is how one run talks to the outside world. OnState fires after
// every state mutation; OnComplete exactly once on success. OnKeysExhausted
// suspends the run awaiting a replacement credential; returning ok=false
// fails the run.
type Callbacks struct {
	OnState         func(State)
	OnComplete      func(*models.AnalysisResult)
	OnKeysExhausted func(ctx context.Context) (string, bool)
}

// Analyzer owns the 8-step pipeline for a single run at a time. The
// credential list and rotation cursor are explicit state advanced only on
// quota exhaustion.
type Analyzer struct {
	caller ModelCaller
	keys   []string
	keyIdx int

	// Pace slows the synthetic early steps so observers see progression.
	Pace time.Duration

	// RetryBase/RetryCap shape the chunk-level transient backoff, layered
	// outside the primitive's own bounded retry.
	RetryBase time.Duration
	RetryCap  time.Duration
}

func New(caller ModelCaller, keys []string) *Analyzer {
	return &Analyzer{
		caller:    caller,
		keys:      append([]string(nil), keys...),
		Pace:      400 * time.Millisecond,
		RetryBase: time.Second,
		RetryCap:  30 * time.Second,
	}
}

func (a *Analyzer) currentKey() string {
	return a.keys[a.keyIdx]
}

// Run executes the full pipeline sequentially and returns the terminal
// storyboard. Any step failure halts progression; completed steps keep
// their status in the emitted state.
func (a *Analyzer) Run(ctx context.Context, meta models.VideoMetadata, opts Options, cb Callbacks) (*models.AnalysisResult, error) {
	state := NewState()
	emit := func() {
		if cb.OnState != nil {
			cb.OnState(state.Snapshot())
		}
	}
	fail := func(err error) error {
		state.FailCurrent(strings.ToLower(err.Error()))
		emit()
		return err
	}

	emit()

	target := targetDuration(meta, opts)

	// Step 1: metadata capture
	meta.FormattedDuration = FormatTimestamp(meta.DurationSeconds)
	if err := a.pause(ctx); err != nil {
		return nil, fail(err)
	}
	state.CompleteCurrent(fmt.Sprintf("%s — %s (%s)", meta.Title, meta.Author, meta.FormattedDuration))
	emit()

	// Step 2: ingestion
	if err := a.pause(ctx); err != nil {
		return nil, fail(err)
	}
	state.CompleteCurrent(fmt.Sprintf("Source registered: %s", meta.VideoID))
	emit()

	// Step 3: scene-count estimation
	estimate := EstimateSceneCount(target)
	if err := a.pause(ctx); err != nil {
		return nil, fail(err)
	}
	state.CompleteCurrent(fmt.Sprintf("~%d scenes expected over %s", estimate, FormatTimestamp(target)))
	emit()

	// Step 4: keyframe extraction
	windows := PlanWindows(target)
	if err := a.pause(ctx); err != nil {
		return nil, fail(err)
	}
	state.CompleteCurrent(fmt.Sprintf("%d segments planned", len(windows)))
	emit()

	// Step 5: story outline
	var outline models.StoryOutline
	outlinePrompt := buildOutlinePrompt(meta, opts, target)
	if err := a.caller.GenerateJSON(ctx, a.currentKey(), outlinePrompt, services.OutlineSchema(), &outline, a.retryNotify(emit)); err != nil {
		return nil, fail(err)
	}
	state.CompleteCurrent(fmt.Sprintf("%q — %d parts", outline.Title, len(outline.Parts)))
	emit()

	// Step 6: per-chunk scene detail
	var result *models.AnalysisResult
	assets := make(map[string]models.Asset)
	var assetOrder []string

	for i, w := range windows {
		batch, err := a.analyzeChunk(ctx, meta, opts, &outline, w, i, len(windows), cb, emit)
		if err != nil {
			return nil, fail(err)
		}

		if result == nil {
			// First chunk seeds the result; its video_meta keeps the
			// model's style read but takes the outline title and the true
			// target duration.
			result = &models.AnalysisResult{VideoMeta: batch.VideoMeta}
			result.VideoMeta.URL = opts.SourceURL
			result.VideoMeta.Title = outline.Title
			result.VideoMeta.Duration = FormatTimestamp(target)
		}

		result.Scenes = append(result.Scenes, batch.Scenes...)

		for _, asset := range batch.Assets {
			if _, seen := assets[asset.ID]; !seen {
				assetOrder = append(assetOrder, asset.ID)
			}
			assets[asset.ID] = asset // last write wins
		}
	}
	state.CompleteCurrent(fmt.Sprintf("%d raw scenes across %d segments", len(result.Scenes), len(windows)))
	emit()

	// Step 7: structuring
	if len(result.Scenes) == 0 {
		return nil, fail(fmt.Errorf("scene analysis produced no scenes"))
	}

	for _, id := range assetOrder {
		result.Assets = append(result.Assets, assets[id])
	}
	result.Outline = &outline

	sortScenes(result.Scenes)
	for i := range result.Scenes {
		result.Scenes[i].ID = i + 1
	}
	state.CompleteCurrent(fmt.Sprintf("%d scenes, %d assets", len(result.Scenes), len(result.Assets)))
	emit()

	// Step 8: finalization
	state.CompleteCurrent("Storyboard ready")
	emit()

	if cb.OnComplete != nil {
		cb.OnComplete(result)
	}
	return result, nil
}

// analyzeChunk runs one window to completion: transient failures are
// retried without bound (ctx is the only way out of a persistently
// unavailable service), quota exhaustion rotates the credential cursor and
// escalates to the intervention hook once the pool is dry.
func (a *Analyzer) analyzeChunk(ctx context.Context, meta models.VideoMetadata, opts Options, outline *models.StoryOutline, w Window, idx, total int, cb Callbacks, emit func()) (*models.SceneBatch, error) {
	prompt := buildChunkPrompt(meta, opts, outline, w, ExpectedScenes(w), idx, total)
	schema := services.SceneBatchSchema()
	delay := a.RetryBase

	for {
		var batch models.SceneBatch
		err := a.caller.GenerateJSON(ctx, a.currentKey(), prompt, schema, &batch, a.retryNotify(emit))
		if err == nil {
			return &batch, nil
		}

		var quotaErr *services.QuotaError
		if errors.As(err, &quotaErr) {
			if a.keyIdx+1 < len(a.keys) {
				a.keyIdx++
				log.Printf("Quota exhausted on segment %d, rotating to credential %d/%d", idx+1, a.keyIdx+1, len(a.keys))
				continue
			}

			if cb.OnKeysExhausted != nil {
				key, ok := cb.OnKeysExhausted(ctx)
				if ok && key != "" {
					a.keys = append(a.keys, key)
					a.keyIdx = len(a.keys) - 1
					log.Printf("Operator supplied replacement credential, resuming segment %d", idx+1)
					continue
				}
			}
			return nil, err
		}

		if services.IsTransient(err) {
			log.Printf("Segment %d transient failure, retrying in %s: %v", idx+1, delay, err)
			emit()
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			if delay *= 2; delay > a.RetryCap {
				delay = a.RetryCap
			}
			continue
		}

		return nil, err
	}
}

// retryNotify re-broadcasts the current step while the primitive backs off,
// so observers see a live retry without a step transition.
func (a *Analyzer) retryNotify(emit func()) services.RetryNotify {
	return func(attempt int, delay time.Duration, reason string) {
		log.Printf("Generation retry %d in %s: %s", attempt, delay, reason)
		emit()
	}
}

func (a *Analyzer) pause(ctx context.Context) error {
	if a.Pace <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(a.Pace):
		return nil
	}
}

func targetDuration(meta models.VideoMetadata, opts Options) int {
	if opts.SummaryDuration > 0 {
		return opts.SummaryDuration
	}
	return meta.DurationSeconds
}

// Scenes sort by parsed start seconds rather than raw timestamp strings, so
// ordering holds even when a chunk returns an unpadded timestamp.
func sortScenes(scenes []models.Scene) {
	sort.SliceStable(scenes, func(i, j int) bool {
		return startSeconds(scenes[i]) < startSeconds(scenes[j])
	})
}

func startSeconds(s models.Scene) int {
	sec, err := ParseTimestamp(s.Start)
	if err != nil {
		return 0
	}
	return sec
}
