package codegen

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/lorenzotomasini/guardrail/internal/args"
	"github.com/lorenzotomasini/guardrail/internal/faults"
	"github.com/lorenzotomasini/guardrail/internal/testutil"
	"github.com/lorenzotomasini/guardrail/pkg/backend"
)

// fakeBackend records the pipeline calls the orchestrator makes.
type fakeBackend struct {
	qualifyPrefix []string
	importErr     error

	gotDefinitionsPkg []string
	gotLayout         backend.Layout
	prepareErr        error
	writeErr          error
	panicInPrepare    string
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) FullyQualifyPackage(pkg []string) []string {
	return append(append([]string(nil), f.qualifyPrefix...), pkg...)
}

func (f *fakeBackend) ParseImport(text string) (backend.Import, error) {
	if f.importErr != nil {
		return backend.Import{}, f.importErr
	}
	return backend.Import{Path: text}, nil
}

func (f *fakeBackend) PrepareDefinitions(_ context.Context, _ backend.Kind, _ backend.Context, _ *openapi3.T, definitionsPkg []string) (*backend.Models, error) {
	if f.panicInPrepare != "" {
		panic(f.panicInPrepare)
	}
	f.gotDefinitionsPkg = definitionsPkg
	return &backend.Models{}, f.prepareErr
}

func (f *fakeBackend) WritePackage(_ context.Context, _ *backend.Models, _ backend.Context, layout backend.Layout) ([]backend.WriteInstruction, error) {
	f.gotLayout = layout
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	return []backend.WriteInstruction{{Path: "out/file.go", Contents: []byte("x")}}, nil
}

func completeSet() args.ArgumentSet {
	return args.ArgumentSet{
		Kind:        backend.KindClient,
		SpecPath:    "specs/api.yaml",
		OutputPath:  "out",
		PackageName: []string{"com", "example"},
		DtoPackage:  []string{"dto"},
		Imports:     []string{"support/foo"},
	}
}

func TestBuildJob_MissingRequiredFields(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*args.ArgumentSet)
		wantField string
	}{
		{"no specPath", func(s *args.ArgumentSet) { s.SpecPath = "" }, "specPath"},
		{"no outputPath", func(s *args.ArgumentSet) { s.OutputPath = "" }, "outputPath"},
		{"no packageName", func(s *args.ArgumentSet) { s.PackageName = nil }, "packageName"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := completeSet()
			tt.mutate(&set)

			_, err := NewOrchestrator(nil).BuildJob(&fakeBackend{}, set)

			var missing *MissingFieldError
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, tt.wantField, missing.Field)
		})
	}
}

func TestBuildJob_UnparseableImport(t *testing.T) {
	fake := &fakeBackend{importErr: errors.New("not an import")}

	_, err := NewOrchestrator(nil).BuildJob(fake, completeSet())

	var bad *ImportError
	require.ErrorAs(t, err, &bad)
	assert.Equal(t, "support/foo", bad.Text)
	assert.Equal(t, "not an import", bad.Detail)
}

func TestBuildJob_DefinitionsPackageComputation(t *testing.T) {
	fake := &fakeBackend{qualifyPrefix: []string{"vendor"}}

	job, err := NewOrchestrator(testutil.NewTestLogger(t)).BuildJob(fake, completeSet())
	require.NoError(t, err)
	assert.Equal(t, "specs/api.yaml", job.SpecPath)

	instructions, err := job.Generate(context.Background(), &openapi3.T{})
	require.NoError(t, err)
	require.Len(t, instructions, 1)

	// qualified package ++ ["definitions"] ++ dtoPackage
	assert.Equal(t, []string{"vendor", "com", "example", "definitions", "dto"}, fake.gotDefinitionsPkg)
	assert.Equal(t, "out", fake.gotLayout.OutputPath)
	assert.Equal(t, []string{"com", "example"}, fake.gotLayout.PackageName)
	assert.Equal(t, []backend.Import{{Path: "support/foo"}}, fake.gotLayout.Imports)
}

func TestBuildJob_PanicBecomesExecutionFault(t *testing.T) {
	fake := &fakeBackend{panicInPrepare: "pipeline exploded"}

	job, err := NewOrchestrator(nil).BuildJob(fake, completeSet())
	require.NoError(t, err)

	_, err = job.Generate(context.Background(), &openapi3.T{})

	var fault *faults.ExecutionFaultError
	require.ErrorAs(t, err, &fault)
	assert.Equal(t, "specs/api.yaml", fault.SpecPath)
	assert.Contains(t, fault.Summary, "pipeline exploded")
}

func TestBuildJob_UntypedPipelineErrorIsSanitized(t *testing.T) {
	fake := &fakeBackend{prepareErr: fmt.Errorf("backend hiccup")}

	job, err := NewOrchestrator(nil).BuildJob(fake, completeSet())
	require.NoError(t, err)

	_, err = job.Generate(context.Background(), &openapi3.T{})

	var fault *faults.ExecutionFaultError
	require.ErrorAs(t, err, &fault)
	assert.Equal(t, "backend hiccup", fault.Summary)
}

func TestBuildJob_TypedPipelineErrorPassesThrough(t *testing.T) {
	typed := &ImportError{Text: "x", Detail: "late"}
	fake := &fakeBackend{writeErr: typed}

	job, err := NewOrchestrator(nil).BuildJob(fake, completeSet())
	require.NoError(t, err)

	_, err = job.Generate(context.Background(), &openapi3.T{})

	var bad *ImportError
	require.ErrorAs(t, err, &bad)

	var fault *faults.ExecutionFaultError
	assert.False(t, errors.As(err, &fault), "typed failures must not be re-wrapped")
}

func TestMissingFieldError_Message(t *testing.T) {
	err := &MissingFieldError{Field: "specPath", Set: args.ArgumentSet{Kind: backend.KindServer}}
	assert.Contains(t, err.Error(), "--specPath")
	assert.Contains(t, err.Error(), "server")
}
