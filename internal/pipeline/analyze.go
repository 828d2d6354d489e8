// Package pipeline orchestrates one CV-to-job fit analysis.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/cv-fit-analyzer/internal/ingestion"
	"github.com/jonathan/cv-fit-analyzer/internal/llm"
	"github.com/jonathan/cv-fit-analyzer/internal/logger"
	"github.com/jonathan/cv-fit-analyzer/internal/prompts"
	"github.com/jonathan/cv-fit-analyzer/internal/scoring"
	"github.com/jonathan/cv-fit-analyzer/internal/types"
)

// Pipeline steps reported through ProgressCallback.
const (
	StepExtract  = "extract_document"
	StepResolve  = "resolve_job"
	StepComplete = "complete"
	StepScore    = "score"
)

// DocumentExtractor reads the text of an uploaded document and removes the file.
type DocumentExtractor interface {
	Extract(ctx context.Context, path string) (*types.ExtractedDocument, error)
}

// JobResolver chooses the job description for a request.
type JobResolver interface {
	Resolve(ctx context.Context, input types.JobInput) (*types.JobDescription, error)
}

// Completer turns a prompt into a narrative.
type Completer interface {
	Invoke(ctx context.Context, prompt string) (string, error)
}

// ProgressEvent represents a progress update during an analysis
type ProgressEvent struct {
	Step     string        `json:"step"`
	Message  string        `json:"message"`
	Duration time.Duration `json:"duration"`
	Content  any           `json:"content,omitempty"`
}

// ProgressCallback is called when a step finishes. Extraction and resolution
// report from separate goroutines, so callbacks must be safe for concurrent use.
type ProgressCallback func(event ProgressEvent)

// Pipeline wires the extractor, resolver and completer together.
type Pipeline struct {
	extractor  DocumentExtractor
	resolver   JobResolver
	completer  Completer
	logger     *zap.Logger
	onProgress ProgressCallback
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger used for per-analysis summaries.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithProgress registers a callback invoked after each step.
func WithProgress(cb ProgressCallback) Option {
	return func(p *Pipeline) {
		p.onProgress = cb
	}
}

// New creates a Pipeline.
func New(extractor DocumentExtractor, resolver JobResolver, completer Completer, opts ...Option) *Pipeline {
	p := &Pipeline{
		extractor: extractor,
		resolver:  resolver,
		completer: completer,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Analyze extracts the document at documentPath, resolves the job description,
// asks the completion service for a narrative and scores the fit.
// The document file is removed by the extractor whatever the outcome.
func (p *Pipeline) Analyze(ctx context.Context, documentPath string, input types.JobInput) (*types.FitAssessment, error) {
	start := time.Now()

	var (
		doc *types.ExtractedDocument
		job *types.JobDescription
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stepStart := time.Now()
		var err error
		doc, err = p.extractor.Extract(gCtx, documentPath)
		if err != nil {
			return err
		}
		p.emit(StepExtract, fmt.Sprintf("%d pages, %d characters", doc.PageCount, len(doc.Text)), time.Since(stepStart), doc.Metadata)
		return nil
	})
	g.Go(func() error {
		stepStart := time.Now()
		var err error
		job, err = p.resolver.Resolve(gCtx, input)
		if err != nil {
			return err
		}
		p.emit(StepResolve, fmt.Sprintf("job description from %s", job.Source), time.Since(stepStart), job)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	cvText := ingestion.Sanitize(doc.Text)
	prompt, err := prompts.Analysis(cvText, job.Text)
	if err != nil {
		return nil, fmt.Errorf("failed to build analysis prompt: %w", err)
	}

	completeStart := time.Now()
	raw, err := p.completer.Invoke(ctx, prompt)
	if err != nil {
		return nil, err
	}
	narrative := llm.StripControlTokens(raw)
	if narrative == "" {
		return nil, &llm.CompletionError{Kind: llm.KindUnknown, Message: "completion returned no narrative"}
	}
	completeDuration := time.Since(completeStart)
	p.emit(StepComplete, fmt.Sprintf("%d characters of narrative", len(narrative)), completeDuration, nil)

	breakdown := scoring.Breakdown(cvText, job.Text)
	assessment := &types.FitAssessment{
		Narrative:     narrative,
		FitPercentage: breakdown.Score,
	}
	if score, ok := llm.ParseModelScore(narrative); ok {
		assessment.ModelScore = &score
	}
	p.emit(StepScore, fmt.Sprintf("fit %d%%", breakdown.Score), 0, breakdown)

	fields := []zap.Field{
		zap.String("job_source", string(job.Source)),
		zap.String("job_hash", job.Hash),
		zap.Int("page_count", doc.PageCount),
		zap.Int("fit_percentage", assessment.FitPercentage),
		zap.Strings("missing_skills", breakdown.MissingSkills),
		zap.Duration("completion_duration", completeDuration),
		zap.Duration("duration", time.Since(start)),
	}
	if assessment.ModelScore != nil {
		fields = append(fields, zap.Int("model_score", *assessment.ModelScore))
	}
	p.logger.Info("analysis complete", fields...)
	p.logger.Debug("analysis narrative", zap.String("narrative", logger.TruncateForLog(narrative, 200)))

	return assessment, nil
}

func (p *Pipeline) emit(step, message string, d time.Duration, content any) {
	if p.onProgress != nil {
		p.onProgress(ProgressEvent{
			Step:     step,
			Message:  message,
			Duration: d,
			Content:  content,
		})
	}
}
