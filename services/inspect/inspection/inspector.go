// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package inspection

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/AleutianAI/AleutianInspect/services/inspect/config"
)

// Result is the response of one inspection.
type Result struct {
	Problems []AdaptedDiagnostic `json:"problems"`
}

// Option configures an Inspector.
type Option func(*Inspector)

// WithAnnotators replaces the annotator table. The default is
// DefaultAnnotators().
func WithAnnotators(t AnnotatorTable) Option {
	return func(i *Inspector) { i.annotators = t }
}

// WithFailurePolicy sets how a failing check or annotator is handled.
func WithFailurePolicy(p FailurePolicy) Option {
	return func(i *Inspector) { i.policy = p }
}

// WithTemplatesPath sets the directory holding per-language templates.
func WithTemplatesPath(path string) Option {
	return func(i *Inspector) { i.templatesPath = path }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(i *Inspector) { i.logger = l }
}

// Inspector is the inspection coordinator.
//
// Description:
//
//	Every Inspect runs as one Dispatcher submission: resolve the session,
//	commit the text, run the available checks through the adapter, run
//	the annotators through the ignore filter, and concatenate the results.
//	Requests are therefore fully serialized across all languages.
//
// Thread Safety: Safe for concurrent use.
type Inspector struct {
	engine        AnalysisEngine
	rules         map[string]*config.LanguageConfig
	annotators    AnnotatorTable
	policy        FailurePolicy
	templatesPath string
	logger        *slog.Logger

	dispatcher *Dispatcher
	registry   *SessionRegistry
}

// New creates an Inspector for the startup language set.
//
// Inputs:
//
//	eng - The analysis engine.
//	languages - The startup language set.
//	rules - Validated rules keyed by language. A missing entry means no rules.
//	opts - Options.
func New(eng AnalysisEngine, languages []string, rules map[string]*config.LanguageConfig, opts ...Option) *Inspector {
	i := &Inspector{
		engine:     eng,
		rules:      rules,
		annotators: DefaultAnnotators(),
		policy:     FailFast,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(i)
	}
	i.dispatcher = NewDispatcher()
	i.registry = NewSessionRegistry(i.dispatcher, eng, languages, i.templatesPath)
	return i
}

// Start initializes the session of every configured language.
//
// Outputs:
//
//	error - The first *EngineInitializationError. Callers treat it as fatal.
func (i *Inspector) Start(ctx context.Context) error {
	return i.dispatcher.Submit(ctx, func(ctx context.Context) error {
		for _, language := range i.registry.Languages() {
			if _, err := i.registry.Get(ctx, language); err != nil {
				return err
			}
		}
		return nil
	})
}

// Languages returns the startup language set.
func (i *Inspector) Languages() []string {
	return i.registry.Languages()
}

// AvailableChecks lists the checks that run for a language.
func (i *Inspector) AvailableChecks(language string) ([]CheckDescriptor, error) {
	if !i.registry.Configured(language) {
		return nil, unconfigured(language)
	}
	checks, err := AvailableChecks(i.engine, language, i.config(language))
	if err != nil {
		return nil, err
	}
	return Describe(checks), nil
}

// Inspect commits text as the language's document and returns the adapted
// diagnostics.
//
// Outputs:
//
//	*Result - Never partial: nil whenever error is non-nil.
//	error - ErrUnconfiguredLanguage, *EngineInitializationError,
//	        *CheckExecutionError (fail-fast policy), an invalid-content
//	        commit error, or ErrDispatcherClosed.
func (i *Inspector) Inspect(ctx context.Context, language, text string) (*Result, error) {
	ctx, span := startInspectSpan(ctx, language, len(text))
	defer span.End()
	start := time.Now()

	var problems []AdaptedDiagnostic
	var suppressed int
	err := i.dispatcher.Submit(ctx, func(ctx context.Context) error {
		var err error
		problems, suppressed, err = i.inspect(ctx, language, text)
		return err
	})
	recordInspectMetrics(ctx, language, time.Since(start), len(problems), suppressed, err)
	if err != nil {
		setSpanError(span, err)
		i.logger.Warn("inspection failed",
			slog.String("language", language),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	i.logger.Debug("inspection complete",
		slog.String("language", language),
		slog.Int("problems", len(problems)),
		slog.Int("suppressed", suppressed),
		slog.Duration("duration", time.Since(start)),
	)
	return &Result{Problems: problems}, nil
}

// inspect runs on the dispatcher worker.
func (i *Inspector) inspect(ctx context.Context, language, text string) ([]AdaptedDiagnostic, int, error) {
	session, err := i.registry.Get(ctx, language)
	if err != nil {
		return nil, 0, err
	}
	if err := i.registry.Commit(ctx, language, text); err != nil {
		return nil, 0, err
	}
	cfg := i.config(language)
	snap := session.Snapshot()

	checks, err := AvailableChecks(i.engine, language, cfg)
	if err != nil {
		return nil, 0, err
	}

	problems := make([]AdaptedDiagnostic, 0)
	suppressed := 0
	for _, check := range checks {
		raw, err := RunCheck(ctx, snap, check)
		if err != nil {
			if ferr := i.handleFailure(ctx, language, check.ID(), err); ferr != nil {
				return nil, 0, ferr
			}
			continue
		}
		for _, d := range raw {
			adapted, ok := Adapt(d, cfg)
			if !ok {
				suppressed++
				continue
			}
			problems = append(problems, adapted)
		}
	}

	notes, errs := RunAnnotators(ctx, snap, i.annotators[language], cfg)
	for _, err := range errs {
		var cerr *CheckExecutionError
		id := ""
		if errors.As(err, &cerr) {
			id = cerr.CheckID
		}
		if ferr := i.handleFailure(ctx, language, id, err); ferr != nil {
			return nil, 0, ferr
		}
	}
	problems = append(problems, notes...)
	return problems, suppressed, nil
}

func (i *Inspector) handleFailure(ctx context.Context, language, checkID string, err error) error {
	recordCheckFailure(ctx, language, checkID)
	if i.policy == FailFast {
		return err
	}
	i.logger.Warn("check failed, skipping",
		slog.String("language", language),
		slog.String("check", checkID),
		slog.String("error", err.Error()),
	)
	return nil
}

func (i *Inspector) config(language string) *config.LanguageConfig {
	if cfg, ok := i.rules[language]; ok && cfg != nil {
		return cfg
	}
	return config.EmptyLanguageConfig(language)
}

// Close releases the sessions and stops the dispatcher after queued
// requests have drained. Requests queued behind the release fail with
// ErrDispatcherClosed.
func (i *Inspector) Close(ctx context.Context) error {
	err := i.dispatcher.Submit(ctx, i.registry.Close)
	i.dispatcher.Close()
	if errors.Is(err, ErrDispatcherClosed) {
		return nil
	}
	return err
}
