package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/fitscore/internal/company"
)

// Stage names reported in StageError.
const (
	StageProfile = "profile"
	StageExtract = "extract"
)

// ProfileSource fetches a free-text company profile.
type ProfileSource interface {
	Fetch(ctx context.Context, name string) (company.Profile, error)
}

// Extractor turns profile text into a structured record.
type Extractor interface {
	Extract(ctx context.Context, profileText string) (company.Record, error)
}

// Scorer maps a record to its fit score. It must be pure.
type Scorer interface {
	Evaluate(record company.Record) company.Scored
}

// StageError reports which stage aborted a run.
type StageError struct {
	Stage   string
	Company string
	Err     error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage for %q: %v", e.Stage, e.Company, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Pipeline runs profile retrieval, extraction and scoring strictly in sequence.
type Pipeline struct {
	source    ProfileSource
	extractor Extractor
	scorer    Scorer
	logger    *zap.Logger

	// Timeout bounds each external call. Zero means no bound beyond the caller's context.
	Timeout time.Duration
}

func New(source ProfileSource, extractor Extractor, scorer Scorer, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Pipeline{
		source:    source,
		extractor: extractor,
		scorer:    scorer,
		logger:    logger,
	}
}

// Run scores a single company. The first failing stage aborts the run; nothing is retried.
func (p *Pipeline) Run(ctx context.Context, name string) (*company.Scored, error) {
	if p.source == nil || p.extractor == nil || p.scorer == nil {
		return nil, errors.New("pipeline is not fully configured")
	}

	logger := p.logger.With(zap.String("company", name))

	profile, err := runStage(ctx, p.Timeout, func(ctx context.Context) (company.Profile, error) {
		return p.source.Fetch(ctx, name)
	})
	if err != nil {
		return nil, &StageError{Stage: StageProfile, Company: name, Err: err}
	}

	logger.Info("profile found",
		zap.String("title", profile.Name),
		zap.String("url", profile.URL),
		zap.Int("profile_length", len(profile.Text)),
	)

	record, err := runStage(ctx, p.Timeout, func(ctx context.Context) (company.Record, error) {
		return p.extractor.Extract(ctx, profile.Text)
	})
	if err != nil {
		return nil, &StageError{Stage: StageExtract, Company: name, Err: err}
	}

	logger.Info("extracted record",
		zap.String("company_name", record.Name),
		zap.Int64("employee_size", record.EmployeeSize),
		zap.Int64("revenue", record.Revenue),
		zap.String("industry", record.Industry),
	)

	scored := p.scorer.Evaluate(record)
	scored.Source = profile.URL

	logger.Info("product/market fit score",
		zap.Float64("score", scored.Score),
		zap.Bool("known_industry", scored.KnownIndustry),
	)

	return &scored, nil
}

func runStage[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return fn(ctx)
}
