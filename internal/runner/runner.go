// Package runner is the host executor for generation jobs. It owns the
// policies the control core leaves open: how the specification document is
// acquired, whether argument sets run sequentially or concurrently, and
// whether one set's failure aborts the rest.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/getkin/kin-openapi/openapi3"
	"golang.org/x/sync/errgroup"

	"github.com/lorenzotomasini/guardrail/internal/args"
	"github.com/lorenzotomasini/guardrail/internal/codegen"
	"github.com/lorenzotomasini/guardrail/internal/framework"
)

// Config holds runner configuration.
type Config struct {
	// Resolver selects the backend for each argument set.
	Resolver *framework.Resolver

	// Concurrency bounds how many argument sets run at once. Values below
	// two mean sequential execution.
	Concurrency int

	// ContinueOnError keeps processing remaining argument sets after one
	// fails. The default is fail-fast.
	ContinueOnError bool

	// Logger is the structured logger (nil uses a discard logger).
	Logger *slog.Logger
}

// Result is the outcome of one argument set's job.
type Result struct {
	Set     args.ArgumentSet
	Written []string
	Err     error
}

// Runner executes validated argument sets end to end: resolve backend,
// build job, load the spec document, run the continuation, materialize the
// write instructions.
type Runner struct {
	resolver     *framework.Resolver
	orchestrator *codegen.Orchestrator
	concurrency  int
	continueOn   bool
	logger       *slog.Logger
}

// New creates a runner.
func New(cfg Config) *Runner {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{
		resolver:     cfg.Resolver,
		orchestrator: codegen.NewOrchestrator(logger),
		concurrency:  cfg.Concurrency,
		continueOn:   cfg.ContinueOnError,
		logger:       logger,
	}
}

// Run processes every argument set and returns one result per set, in
// input order. Under fail-fast the first failure stops the remaining sets
// and is returned; under continue-on-error all sets run and the first
// failure is returned after the fact.
func (r *Runner) Run(ctx context.Context, sets []args.ArgumentSet) ([]Result, error) {
	results := make([]Result, len(sets))
	for i, set := range sets {
		results[i].Set = set
	}

	if r.concurrency > 1 {
		return r.runConcurrent(ctx, sets, results)
	}

	for i, set := range sets {
		results[i].Written, results[i].Err = r.runOne(ctx, set)
		if results[i].Err != nil && !r.continueOn {
			return results[:i+1], results[i].Err
		}
	}
	return results, firstError(results)
}

func (r *Runner) runConcurrent(ctx context.Context, sets []args.ArgumentSet, results []Result) ([]Result, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, set := range sets {
		g.Go(func() error {
			written, err := r.runOne(gctx, set)
			results[i].Written, results[i].Err = written, err
			if err != nil && !r.continueOn {
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, firstError(results)
}

// runOne drives a single argument set through the whole pipeline. Steps of
// one job run strictly in order; sets share no mutable state.
func (r *Runner) runOne(ctx context.Context, set args.ArgumentSet) ([]string, error) {
	b, err := r.resolver.Resolve(ctx, set.Context)
	if err != nil {
		return nil, err
	}

	job, err := r.orchestrator.BuildJob(b, set)
	if err != nil {
		return nil, err
	}

	doc, err := loadSpec(ctx, job.SpecPath)
	if err != nil {
		return nil, err
	}

	r.logger.Info("generating", "kind", set.Kind, "framework", b.Name(), "spec", job.SpecPath)

	instructions, err := job.Generate(ctx, doc)
	if err != nil {
		return nil, err
	}

	written := make([]string, 0, len(instructions))
	for _, ins := range instructions {
		if err := os.MkdirAll(filepath.Dir(ins.Path), 0750); err != nil {
			return written, fmt.Errorf("failed to create output directory: %w", err)
		}
		if err := os.WriteFile(ins.Path, ins.Contents, 0644); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", ins.Path, err)
		}
		r.logger.Debug("wrote file", "path", ins.Path)
		written = append(written, ins.Path)
	}
	return written, nil
}

// loadSpec acquires and parses the specification document for a job.
func loadSpec(ctx context.Context, path string) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx
	loader.IsExternalRefsAllowed = true

	doc, err := loader.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load spec %s: %w", path, err)
	}
	return doc, nil
}

func firstError(results []Result) error {
	for _, res := range results {
		if res.Err != nil {
			return res.Err
		}
	}
	return nil
}
