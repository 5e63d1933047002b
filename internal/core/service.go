package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/transitcheck/internal/config"
	"github.com/JonMunkholm/transitcheck/internal/input"
	"github.com/JonMunkholm/transitcheck/internal/logging"
	"github.com/JonMunkholm/transitcheck/internal/notice"
	"github.com/JonMunkholm/transitcheck/internal/parse"
	"github.com/JonMunkholm/transitcheck/internal/schema"
	"github.com/JonMunkholm/transitcheck/internal/store"
	"github.com/JonMunkholm/transitcheck/internal/table"
	"github.com/JonMunkholm/transitcheck/internal/validator"
)

// ErrUnknownValidator is returned when a skip list names no registered
// validator.
var ErrUnknownValidator = errors.New("unknown validator")

// DefaultRunTimeout bounds a run when the configuration sets no timeout.
const DefaultRunTimeout = 5 * time.Minute

// Service runs validations and keeps their history.
type Service struct {
	schemas  *schema.Set
	registry *validator.Registry
	limiter  *RunLimiter
	history  store.Store

	workers     int
	loadWorkers int
	runTimeout  time.Duration
	countryCode string
	skip        []string
}

// ValidateOptions are per-run settings supplied by the caller.
type ValidateOptions struct {
	// FeedID labels the run in reports and history.
	FeedID string
	// CountryCode overrides the configured default region.
	CountryCode string
	// Now overrides the reference time; zero means the current time.
	Now time.Time
	// Skip names validators to leave out of this run.
	Skip []string
}

// NewService builds a service over the registered schemas and validators.
// Foreign-key validators are derived from the schemas. A nil history keeps
// runs in memory.
func NewService(cfg *config.Config, history store.Store) (*Service, error) {
	set, err := schema.Default()
	if err != nil {
		return nil, fmt.Errorf("build schema set: %w", err)
	}
	return newService(cfg, set, validator.Default(), history)
}

func newService(cfg *config.Config, set *schema.Set, rules *validator.Registry, history store.Store) (*Service, error) {
	reg := validator.NewRegistry()
	for _, u := range validator.ForeignKeyUnits(set) {
		if err := reg.Register(u); err != nil {
			return nil, fmt.Errorf("register %s: %w", u.Name, err)
		}
	}
	for _, u := range rules.Units() {
		if err := reg.Register(u); err != nil {
			return nil, fmt.Errorf("register %s: %w", u.Name, err)
		}
	}

	if history == nil {
		history = store.NewMemoryStore(cfg.History.Capacity)
	}
	timeout := cfg.Validation.RunTimeout
	if timeout <= 0 {
		timeout = DefaultRunTimeout
	}

	s := &Service{
		schemas:     set,
		registry:    reg,
		limiter:     NewRunLimiter(cfg.Validation.MaxConcurrentRuns, cfg.Validation.MaxWaitTime),
		history:     history,
		workers:     cfg.Validation.Workers,
		loadWorkers: cfg.Validation.LoadWorkers,
		runTimeout:  timeout,
		countryCode: cfg.Validation.CountryCode,
		skip:        cfg.Rules.Skip,
	}
	if err := s.checkSkip(s.skip); err != nil {
		return nil, fmt.Errorf("rules file: %w", err)
	}
	return s, nil
}

// Schemas returns the table schemas feeds are loaded against.
func (s *Service) Schemas() *schema.Set {
	return s.schemas
}

// Validators returns every validator unit in run order.
func (s *Service) Validators() []validator.Unit {
	return s.registry.Units()
}

// Validate loads a feed and runs every validator over it. Data problems in
// the feed are reported as notices; the error is non-nil only when the run
// itself could not complete (no run slot, cancelled, timed out or
// misconfigured).
func (s *Service) Validate(ctx context.Context, in input.Input, opts ValidateOptions) (*Report, error) {
	if err := s.checkSkip(opts.Skip); err != nil {
		return nil, err
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	runID := uuid.New().String()
	logger := logging.ForRun(ctx, runID, opts.FeedID)

	ctx, cancel := context.WithTimeout(ctx, s.runTimeout)
	defer cancel()

	countryCode := opts.CountryCode
	if countryCode == "" {
		countryCode = s.countryCode
	}
	rc := validator.NewRunContext(opts.Now, countryCode, opts.FeedID)

	started := time.Now()
	logger.Info("validation started", "source", in.Name(), "country_code", rc.CountryCode)

	notices := notice.NewContainer()
	feed, err := table.NewFeedLoader(s.schemas, s.loadWorkers, logger).
		Load(ctx, in, parse.New(rc.CountryCode), notices)
	if err != nil {
		logger.Warn("validation aborted while loading", "error", err)
		return nil, err
	}

	res, err := s.orchestrator(logger, opts.Skip).Run(ctx, feed, rc)
	if err != nil {
		logger.Warn("validation aborted", "error", err)
		return nil, fmt.Errorf("run validators: %w", err)
	}
	notices.AddAll(res.Notices)

	all := notices.Notices()
	report := &Report{
		RunID:         runID,
		FeedID:        opts.FeedID,
		Source:        in.Name(),
		CountryCode:   rc.CountryCode,
		ReferenceTime: rc.Now,
		StartedAt:     started,
		Duration:      time.Since(started),
		Summary:       summarize(all),
		Tables:        feed.Summary(),
		Validators:    res.Units,
		Notices:       all,
	}

	logger.Info("validation finished",
		"valid", report.Summary.Valid,
		"errors", report.Summary.Errors,
		"warnings", report.Summary.Warnings,
		"infos", report.Summary.Infos,
		"duration_ms", report.Duration.Milliseconds(),
	)

	if err := s.record(context.WithoutCancel(ctx), report); err != nil {
		logger.Error("failed to record run", "error", err)
	}
	return report, nil
}

func (s *Service) orchestrator(logger *slog.Logger, skip []string) *validator.Orchestrator {
	opts := []validator.Option{
		validator.WithLogger(logger),
		validator.WithSkip(s.skip...),
		validator.WithSkip(skip...),
	}
	if s.workers > 0 {
		opts = append(opts, validator.WithWorkers(s.workers))
	}
	return validator.New(s.registry, opts...)
}

// checkSkip rejects names that match no validator.
func (s *Service) checkSkip(names []string) error {
	known := s.registry.Names()
	for _, n := range names {
		if !slices.Contains(known, n) {
			return fmt.Errorf("%w: %s", ErrUnknownValidator, n)
		}
	}
	return nil
}

// RunLimiterStatus returns the current run slot usage.
func (s *Service) RunLimiterStatus() RunLimiterStatus {
	return s.limiter.Status()
}

// WaitForRuns blocks until in-flight runs finish or ctx is done.
func (s *Service) WaitForRuns(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}
