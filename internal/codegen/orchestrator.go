// Package codegen drives one resolved backend through the generation
// pipeline for one argument set. The pipeline is built as a deferred job:
// nothing runs until a host acquires and parses the specification document
// and invokes the job's continuation.
package codegen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/lorenzotomasini/guardrail/internal/args"
	"github.com/lorenzotomasini/guardrail/internal/faults"
	"github.com/lorenzotomasini/guardrail/pkg/backend"
)

// definitionsSegment is the fixed path segment under which generated model
// types are placed.
const definitionsSegment = "definitions"

// MissingFieldError reports a required argument-set field that was absent.
type MissingFieldError struct {
	Field string
	Set   args.ArgumentSet
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field --%s for %s generation", e.Field, e.Set.Kind)
}

// ImportError reports an import directive the backend could not parse.
type ImportError struct {
	Text   string
	Detail string
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("unparseable import %q: %s", e.Text, e.Detail)
}

// SpecReadJob pairs a specification file path with the continuation that
// turns the parsed document into deferred write instructions. The host owns
// document acquisition; the continuation owns everything after.
type SpecReadJob struct {
	SpecPath string
	Generate func(ctx context.Context, doc *openapi3.T) ([]backend.WriteInstruction, error)
}

// Orchestrator builds deferred generation jobs.
type Orchestrator struct {
	logger *slog.Logger
}

// NewOrchestrator returns an orchestrator logging to the given logger
// (nil uses a discard logger).
func NewOrchestrator(logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Orchestrator{logger: logger}
}

// BuildJob validates the argument set against the backend and returns the
// deferred read-then-generate job. Missing required fields and unparseable
// imports fail synchronously; everything downstream of document parsing is
// deferred into the returned continuation.
func (o *Orchestrator) BuildJob(b backend.Backend, set args.ArgumentSet) (*SpecReadJob, error) {
	switch {
	case set.SpecPath == "":
		return nil, &MissingFieldError{Field: "specPath", Set: set}
	case set.OutputPath == "":
		return nil, &MissingFieldError{Field: "outputPath", Set: set}
	case len(set.PackageName) == 0:
		return nil, &MissingFieldError{Field: "packageName", Set: set}
	}

	imports := make([]backend.Import, 0, len(set.Imports))
	for _, text := range set.Imports {
		imp, err := b.ParseImport(text)
		if err != nil {
			return nil, &ImportError{Text: text, Detail: err.Error()}
		}
		imports = append(imports, imp)
	}

	bctx := backend.Context{
		Framework: set.Context.Framework,
		Modules:   set.Context.Modules,
		Tracing:   set.Context.Tracing,
	}

	job := &SpecReadJob{SpecPath: set.SpecPath}
	job.Generate = func(ctx context.Context, doc *openapi3.T) ([]backend.WriteInstruction, error) {
		var instructions []backend.WriteInstruction
		err := faults.Boundary(set.SpecPath, isTypedFailure, func() error {
			qualified := b.FullyQualifyPackage(set.PackageName)

			definitionsPkg := make([]string, 0, len(qualified)+1+len(set.DtoPackage))
			definitionsPkg = append(definitionsPkg, qualified...)
			definitionsPkg = append(definitionsPkg, definitionsSegment)
			definitionsPkg = append(definitionsPkg, set.DtoPackage...)

			o.logger.Debug("preparing definitions",
				"kind", set.Kind, "spec", set.SpecPath, "definitions_pkg", definitionsPkg)

			models, err := b.PrepareDefinitions(ctx, set.Kind, bctx, doc, definitionsPkg)
			if err != nil {
				return err
			}

			layout := backend.Layout{
				OutputPath:  set.OutputPath,
				PackageName: set.PackageName,
				DtoPackage:  set.DtoPackage,
				Imports:     imports,
			}
			instructions, err = b.WritePackage(ctx, models, bctx, layout)
			return err
		})
		if err != nil {
			return nil, err
		}
		return instructions, nil
	}
	return job, nil
}

// isTypedFailure reports whether err already belongs to the closed failure
// taxonomy; anything else is sanitized into an execution fault.
func isTypedFailure(err error) bool {
	var (
		missing   *MissingFieldError
		badImport *ImportError
		unknownFw *backend.UnknownFrameworkError
		unknown   *args.UnknownArgumentsError
		fault     *faults.ExecutionFaultError
	)
	switch {
	case errors.As(err, &missing),
		errors.As(err, &badImport),
		errors.As(err, &unknownFw),
		errors.As(err, &unknown),
		errors.As(err, &fault):
		return true
	case errors.Is(err, backend.ErrNoFramework),
		errors.Is(err, args.ErrNoArguments),
		errors.Is(err, args.ErrHelpRequested):
		return true
	}
	return false
}
