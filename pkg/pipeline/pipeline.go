// Package pipeline drives one résumé generation: prompt, completion,
// extraction, and the local fallback when any of those fail.
package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/nikogura/resume-builder/pkg/extract"
	"github.com/nikogura/resume-builder/pkg/fallback"
	"github.com/nikogura/resume-builder/pkg/field"
	"github.com/nikogura/resume-builder/pkg/llm"
	"github.com/nikogura/resume-builder/pkg/metrics"
	"github.com/nikogura/resume-builder/pkg/prompt"
	"github.com/nikogura/resume-builder/pkg/resume"
)

// Source tells where a record came from.
type Source string

const (
	SourceLLM      Source = "llm"
	SourceFallback Source = "fallback"
)

const (
	// DefaultAttempts is how many full provider sweeps run before falling back.
	DefaultAttempts = 3
	// DefaultBackoff is the pause between sweeps.
	DefaultBackoff = 2 * time.Second
)

// ErrEmptyDescription is the only error Generate returns.
var ErrEmptyDescription = errors.New("description is empty")

// Completer is the completion side of the pipeline. *llm.Client satisfies it.
type Completer interface {
	Complete(ctx context.Context, req llm.Request) (llm.Completion, error)
}

// Options configures a Pipeline. Zero values select defaults.
type Options struct {
	Attempts int
	// Backoff between attempts. Negative disables the pause.
	Backoff time.Duration
	Logger  *zap.Logger
	Metrics *metrics.Metrics
	// Now supplies the clock used for years in prompts and fallback content.
	Now func() time.Time
}

// Request is one generation.
type Request struct {
	Description string
	// Provider is tried first when set.
	Provider string
	// APIKeys holds explicit keys by provider name.
	APIKeys map[string]string
	// Offline skips the providers and goes straight to the fallback.
	Offline bool
	// RequestID tags log lines. Generated when empty.
	RequestID string
}

// Result is a finished generation. Record is always populated.
type Result struct {
	Record    resume.Record `json:"record"`
	Source    Source        `json:"source"`
	Provider  string        `json:"provider,omitempty"`
	Strategy  string        `json:"strategy,omitempty"`
	Attempts  int           `json:"attempts"`
	Bucket    field.Bucket  `json:"bucket"`
	Failures  []string      `json:"failures"`
	RequestID string        `json:"request_id"`
}

// Pipeline is safe for concurrent use; each Generate call is independent.
type Pipeline struct {
	completer Completer
	extractor *extract.Extractor
	attempts  int
	backoff   time.Duration
	logger    *zap.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
}

// New creates a pipeline. A nil completer makes every run use the fallback.
func New(completer Completer, extractor *extract.Extractor, opts Options) (p *Pipeline) {
	if opts.Attempts <= 0 {
		opts.Attempts = DefaultAttempts
	}
	if opts.Backoff == 0 {
		opts.Backoff = DefaultBackoff
	}
	if opts.Backoff < 0 {
		opts.Backoff = 0
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if extractor == nil {
		extractor = extract.NewExtractor(opts.Logger)
	}

	p = &Pipeline{
		completer: completer,
		extractor: extractor,
		attempts:  opts.Attempts,
		backoff:   opts.Backoff,
		logger:    opts.Logger,
		metrics:   opts.Metrics,
		now:       opts.Now,
	}

	return p
}

// Generate produces a record for req.Description. Provider and extraction
// failures never surface: after the last attempt the deterministic fallback
// is used. Only an empty description is an error.
func (p *Pipeline) Generate(ctx context.Context, req Request) (result Result, err error) {
	description := strings.TrimSpace(req.Description)
	if description == "" {
		err = ErrEmptyDescription
		return result, err
	}

	start := time.Now()
	now := p.now()

	result = Result{
		Bucket:    field.Classify(description),
		Failures:  []string{},
		RequestID: req.RequestID,
	}
	if result.RequestID == "" {
		result.RequestID = uuid.NewString()
	}

	log := p.logger.With(zap.String("request_id", result.RequestID), zap.String("bucket", string(result.Bucket)))

	if req.Offline || p.completer == nil {
		log.Info("offline generation, using fallback")
		p.useFallback(&result, description, now, start)
		return result, err
	}

	text := prompt.Build(description, result.Bucket, now.Year())
	llmReq := llm.Request{Prompt: text, Preferred: req.Provider, APIKeys: req.APIKeys}

	for attempt := 1; attempt <= p.attempts; attempt++ {
		result.Attempts = attempt

		var completion llm.Completion
		var extracted extract.Result
		completion, extracted, err = p.attempt(ctx, llmReq)
		if err == nil {
			result.Record = extracted.Record
			result.Source = SourceLLM
			result.Provider = completion.Provider
			result.Strategy = extracted.Strategy

			log.Info("generated resume",
				zap.String("provider", completion.Provider),
				zap.String("strategy", extracted.Strategy),
				zap.Int("attempt", attempt),
			)
			p.metrics.ObserveGeneration(string(SourceLLM), time.Since(start))
			return result, err
		}

		result.Failures = append(result.Failures, err.Error())
		log.Warn("generation attempt failed", zap.Int("attempt", attempt), zap.Error(err))
		err = nil

		if ctx.Err() != nil || attempt == p.attempts {
			break
		}

		if !p.sleep(ctx) {
			break
		}
	}

	log.Info("falling back to template resume", zap.Int("attempts", result.Attempts))
	p.useFallback(&result, description, now, start)

	return result, err
}

// attempt runs one provider sweep and extraction.
func (p *Pipeline) attempt(ctx context.Context, req llm.Request) (completion llm.Completion, extracted extract.Result, err error) {
	completion, err = p.completer.Complete(ctx, req)
	if err != nil {
		err = errors.Wrap(err, "completion failed")
		return completion, extracted, err
	}

	extracted, err = p.extractor.Extract(completion.Text)
	if err != nil {
		p.metrics.ObserveExtraction("failed")
		err = errors.Wrapf(err, "extraction failed for %s output", completion.Provider)
		return completion, extracted, err
	}
	p.metrics.ObserveExtraction(extracted.Strategy)

	return completion, extracted, err
}

// sleep waits out the backoff. It reports false if ctx ended first.
func (p *Pipeline) sleep(ctx context.Context) (ok bool) {
	if p.backoff <= 0 {
		ok = ctx.Err() == nil
		return ok
	}

	timer := time.NewTimer(p.backoff)
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-timer.C:
		ok = true
	}

	return ok
}

func (p *Pipeline) useFallback(result *Result, description string, now, start time.Time) {
	result.Record = fallback.GenerateAt(description, now)
	result.Source = SourceFallback
	result.Provider = ""
	result.Strategy = ""
	p.metrics.ObserveGeneration(string(SourceFallback), time.Since(start))
}
