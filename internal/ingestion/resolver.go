package ingestion

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/jonathan/cv-fit-analyzer/internal/fetch"
	"github.com/jonathan/cv-fit-analyzer/internal/types"
	"go.uber.org/zap"
)

// DefaultJobDescription is used when the caller supplies nothing usable.
const DefaultJobDescription = "Software Engineer with 3+ years experience in JavaScript, TypeScript, and AWS"

// MinJobDescriptionLength is the minimum sanitized length of an inline job description.
const MinJobDescriptionLength = 10

// ResolverOptions configures how job-listing pages are scraped.
type ResolverOptions struct {
	Fetch          *fetch.Options
	UseBrowser     bool
	BrowserTimeout time.Duration
}

type (
	pageFetcher  func(ctx context.Context, url string, opts *fetch.Options) (*fetch.Result, error)
	pageRenderer func(ctx context.Context, url string, timeout time.Duration, logger *zap.Logger) (string, error)
)

// Resolver chooses the job description for an analysis request.
type Resolver struct {
	logger *zap.Logger
	opts   ResolverOptions
	fetch  pageFetcher
	render pageRenderer
}

// NewResolver creates a Resolver. A nil logger disables logging.
func NewResolver(logger *zap.Logger, opts ResolverOptions) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Fetch == nil {
		opts.Fetch = fetch.DefaultOptions()
	}
	return &Resolver{
		logger: logger,
		opts:   opts,
		fetch:  fetch.URL,
		render: fetch.WithBrowser,
	}
}

// Resolve picks the first usable source: a job-listing URL, inline text, then the default.
// A URL never produces an error; scrape failures fall back to the default description.
func (r *Resolver) Resolve(ctx context.Context, input types.JobInput) (*types.JobDescription, error) {
	if !IsBlank(input.URL) {
		return r.scrape(ctx, input.URL), nil
	}

	if !IsBlank(input.Text) {
		text := Sanitize(input.Text)
		if n := utf8.RuneCountInString(text); n < MinJobDescriptionLength {
			return nil, &JobDescriptionTooShortError{Length: n, Min: MinJobDescriptionLength}
		}
		return newJobDescription(types.JobSourceInline, text, "", ""), nil
	}

	return defaultJobDescription(), nil
}

// scrape always returns a description.
func (r *Resolver) scrape(ctx context.Context, rawURL string) *types.JobDescription {
	profile := fetch.ProfileFor(rawURL)
	log := r.logger.With(zap.String("url", rawURL), zap.String("platform", string(profile.Platform)))

	text, err := r.scrapeText(ctx, rawURL, profile)
	if err != nil {
		log.Warn("job page scrape failed, using default description", zap.Error(err))
		return defaultJobDescription()
	}
	if text == "" {
		log.Warn("job page had no description text, using default description")
		return defaultJobDescription()
	}

	log.Info("scraped job description", zap.Int("chars", utf8.RuneCountInString(text)))
	return newJobDescription(types.JobSourceURL, text, rawURL, string(profile.Platform))
}

func (r *Resolver) scrapeText(ctx context.Context, rawURL string, profile fetch.Profile) (string, error) {
	result, err := r.fetch(ctx, rawURL, r.opts.Fetch)
	if err != nil {
		return "", err
	}

	text, err := profile.Extract(result.HTML)
	if err != nil {
		return "", err
	}

	if r.opts.UseBrowser && fetch.ShouldUseBrowser(text) {
		r.logger.Debug("description too short, rendering in browser",
			zap.String("url", rawURL), zap.Int("chars", len(text)))
		html, renderErr := r.render(ctx, rawURL, r.opts.BrowserTimeout, r.logger)
		if renderErr != nil {
			r.logger.Debug("browser render failed, keeping HTTP content", zap.Error(renderErr))
		} else if rendered, extractErr := profile.Extract(html); extractErr == nil && len(rendered) > len(text) {
			text = rendered
		}
	}

	return Sanitize(StripBoilerplate(text)), nil
}

func defaultJobDescription() *types.JobDescription {
	return newJobDescription(types.JobSourceDefault, DefaultJobDescription, "", "")
}

func newJobDescription(source types.JobSource, text, url, platform string) *types.JobDescription {
	return &types.JobDescription{
		Source:   source,
		Text:     text,
		URL:      url,
		Platform: platform,
		Hash:     ContentHash(text),
	}
}
