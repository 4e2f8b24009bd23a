package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"storyboard-backend/internal/analysis"
	"storyboard-backend/internal/models"
	"storyboard-backend/internal/repository"
	"storyboard-backend/internal/services"
)

const analysisQueue = "queue:storyboard-analysis"

type Pool struct {
	redis       *redis.Client
	generator   *services.Generator
	jobRepo     *repository.JobRepo
	libraryRepo *repository.LibraryRepo
	apiKeys     []string
	quotaWait   time.Duration
	workerCount int
	stopChan    chan struct{}
}

func NewPool(
	redisClient *redis.Client,
	generator *services.Generator,
	jobRepo *repository.JobRepo,
	libraryRepo *repository.LibraryRepo,
	apiKeys []string,
	quotaWait time.Duration,
	workerCount int,
) *Pool {
	return &Pool{
		redis:       redisClient,
		generator:   generator,
		jobRepo:     jobRepo,
		libraryRepo: libraryRepo,
		apiKeys:     apiKeys,
		quotaWait:   quotaWait,
		workerCount: workerCount,
		stopChan:    make(chan struct{}),
	}
}

func (p *Pool) Start() {
	for i := 0; i < p.workerCount; i++ {
		go p.worker(i)
	}
	log.Printf("Started %d worker goroutines", p.workerCount)
}

func (p *Pool) Stop() {
	close(p.stopChan)
}

func (p *Pool) worker(id int) {
	for {
		select {
		case <-p.stopChan:
			log.Printf("Worker %d shutting down", id)
			return
		default:
		}

		ctx := context.Background()

		result, err := p.redis.BLPop(ctx, 30*time.Second, analysisQueue).Result()
		if err != nil {
			continue // Timeout or error, retry
		}

		if len(result) < 2 {
			continue
		}

		var job models.Job
		if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
			log.Printf("Worker %d: failed to parse job: %v", id, err)
			continue
		}

		// Try to acquire lock
		lockKey := fmt.Sprintf("job_lock:%s", job.ID.String())
		locked, err := p.redis.SetNX(ctx, lockKey, "1", 30*time.Minute).Result()
		if err != nil || !locked {
			continue // Another worker has this job
		}

		log.Printf("Worker %d: processing job %s", id, job.ID)

		p.jobRepo.UpdateStatus(ctx, job.ID, "processing")
		p.libraryRepo.UpdateStatus(ctx, job.ReferenceID, "processing")

		if err := p.processAnalysis(ctx, &job); err != nil {
			p.handleFailure(ctx, &job, err)
		} else {
			p.handleSuccess(ctx, &job)
		}

		p.redis.Del(ctx, lockKey)
	}
}

func (p *Pool) processAnalysis(ctx context.Context, job *models.Job) error {
	var config models.AnalysisConfig
	if err := json.Unmarshal(job.ConfigJSON, &config); err != nil {
		return fmt.Errorf("failed to parse job config: %w", err)
	}

	entry, err := p.libraryRepo.GetByID(ctx, job.ReferenceID)
	if err != nil {
		return fmt.Errorf("failed to get library entry: %w", err)
	}

	sourceURL := ""
	if entry.SourceURL != nil {
		sourceURL = *entry.SourceURL
	}

	analyzer := analysis.New(p.generator, p.apiKeys)

	cb := analysis.Callbacks{
		OnState: func(state analysis.State) {
			p.publishUpdate(ctx, job.ID, models.WSMessage{
				Type: "step_update",
				Payload: models.StepUpdate{
					JobID:       job.ID,
					CurrentStep: state.CurrentStep,
					Steps:       stepInfos(state),
				},
			})
		},
		OnKeysExhausted: func(ctx context.Context) (string, bool) {
			return p.awaitReplacementKey(ctx, job.ID, len(p.apiKeys))
		},
	}

	opts := analysis.Options{
		SourceURL:       sourceURL,
		Style:           config.Style,
		VariationPrompt: config.VariationPrompt,
		SummaryDuration: config.SummaryDuration,
	}

	result, err := analyzer.Run(ctx, config.VideoMetadata, opts, cb)
	if err != nil {
		return err
	}

	resultBytes, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode storyboard: %w", err)
	}

	if err := p.libraryRepo.CompleteWithResult(ctx, job.ReferenceID, result.VideoMeta.Title, resultBytes); err != nil {
		return fmt.Errorf("failed to save storyboard: %w", err)
	}

	return nil
}

// awaitReplacementKey suspends the run while an operator decides whether to
// supply a fresh credential. The reply arrives on a per-job list so parallel
// jobs never steal each other's keys. An empty or "decline" reply, or the
// wait elapsing, fails the run.
func (p *Pool) awaitReplacementKey(ctx context.Context, jobID uuid.UUID, keysTried int) (string, bool) {
	p.publishUpdate(ctx, jobID, models.WSMessage{
		Type: "quota_exhausted",
		Payload: models.QuotaEvent{
			JobID:     jobID,
			KeysTried: keysTried,
		},
	})

	replyKey := fmt.Sprintf("quota:replies:%s", jobID.String())
	log.Printf("Job %s suspended: all credentials exhausted, awaiting operator reply on %s", jobID, replyKey)

	result, err := p.redis.BLPop(ctx, p.quotaWait, replyKey).Result()
	if err != nil || len(result) < 2 {
		return "", false
	}

	reply := result[1]
	if reply == "" || reply == "decline" {
		return "", false
	}
	return reply, true
}

func (p *Pool) handleSuccess(ctx context.Context, job *models.Job) {
	p.jobRepo.UpdateStatus(ctx, job.ID, "complete")

	p.publishUpdate(ctx, job.ID, models.WSMessage{
		Type: "completed",
		Payload: models.CompletedEvent{
			JobID:    job.ID,
			ResultID: job.ReferenceID,
		},
	})

	log.Printf("Job %s completed successfully", job.ID)
}

// Failed runs are terminal. The partial state already reached observers via
// step updates; a fresh submission starts a clean run.
func (p *Pool) handleFailure(ctx context.Context, job *models.Job, err error) {
	errMsg := err.Error()
	log.Printf("Job %s failed: %s", job.ID, errMsg)

	p.jobRepo.UpdateError(ctx, job.ID, errMsg)
	p.libraryRepo.MarkFailed(ctx, job.ReferenceID, errMsg)

	p.publishUpdate(ctx, job.ID, models.WSMessage{
		Type: "error",
		Payload: models.ErrorEvent{
			JobID:        job.ID,
			ErrorCode:    "ANALYSIS_FAILED",
			ErrorMessage: errMsg,
		},
	})
}

func (p *Pool) publishUpdate(ctx context.Context, jobID uuid.UUID, msg models.WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Failed to marshal update: %v", err)
		return
	}

	channel := fmt.Sprintf("job_updates:%s", jobID.String())
	if err := p.redis.Publish(ctx, channel, data).Err(); err != nil {
		log.Printf("Failed to publish update: %v", err)
	}
}

func stepInfos(state analysis.State) []models.StepInfo {
	infos := make([]models.StepInfo, len(state.Steps))
	for i, s := range state.Steps {
		infos[i] = models.StepInfo{
			Title:  s.Title,
			Status: string(s.Status),
			Output: s.Output,
			Error:  s.Err,
		}
	}
	return infos
}
