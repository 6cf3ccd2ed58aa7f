package runner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorenzotomasini/guardrail/internal/args"
	"github.com/lorenzotomasini/guardrail/internal/framework"
	"github.com/lorenzotomasini/guardrail/internal/testutil"
	"github.com/lorenzotomasini/guardrail/pkg/backend"

	_ "github.com/lorenzotomasini/guardrail/pkg/backends/nethttp"
)

const petstoreSpec = `openapi: 3.0.0
info:
  title: Petstore
  version: 1.0.0
paths: {}
components:
  schemas:
    Pet:
      type: object
      required: [name]
      properties:
        name:
          type: string
        age:
          type: integer
`

func writeSpec(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "petstore.yaml")
	require.NoError(t, os.WriteFile(path, []byte(petstoreSpec), 0644))
	return path
}

func newTestRunner(t *testing.T, cfg Config) *Runner {
	t.Helper()
	if cfg.Resolver == nil {
		cfg.Resolver = &framework.Resolver{VendorDefault: "nethttp"}
	}
	if cfg.Logger == nil {
		cfg.Logger = testutil.NewTestLogger(t)
	}
	return New(cfg)
}

func modelsSet(specPath, outDir string) args.ArgumentSet {
	return args.ArgumentSet{
		Kind:        backend.KindModels,
		SpecPath:    specPath,
		OutputPath:  outDir,
		PackageName: []string{"petstore"},
	}
}

func TestRun_GeneratesFiles(t *testing.T) {
	spec := writeSpec(t)
	out := t.TempDir()

	r := newTestRunner(t, Config{})
	results, err := r.Run(context.Background(), []args.ArgumentSet{modelsSet(spec, out)})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
	require.Len(t, results[0].Written, 1)

	content, err := os.ReadFile(filepath.Join(out, "petstore", "definitions", "definitions.go"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "type Pet struct")
}

func TestRun_UsesFrameworkFromSet(t *testing.T) {
	spec := writeSpec(t)
	out := t.TempDir()

	set := modelsSet(spec, out)
	set.Kind = backend.KindServer
	set.Context.Framework = "nethttp"

	r := newTestRunner(t, Config{Resolver: &framework.Resolver{}})
	results, err := r.Run(context.Background(), []args.ArgumentSet{set})
	require.NoError(t, err)
	assert.Len(t, results[0].Written, 2, "server generation emits definitions and scaffold")
}

func TestRun_FailFastStopsAtFirstFailure(t *testing.T) {
	spec := writeSpec(t)
	out := t.TempDir()

	bad := modelsSet(spec, out)
	bad.Context.Framework = "no-such-framework"
	good := modelsSet(spec, out)

	r := newTestRunner(t, Config{})
	results, err := r.Run(context.Background(), []args.ArgumentSet{bad, good})

	var unknown *backend.UnknownFrameworkError
	require.ErrorAs(t, err, &unknown)
	assert.Len(t, results, 1, "remaining sets are not processed under fail-fast")
}

func TestRun_ContinueOnError(t *testing.T) {
	spec := writeSpec(t)
	out := t.TempDir()

	bad := modelsSet(spec, out)
	bad.Context.Framework = "no-such-framework"
	good := modelsSet(spec, out)

	r := newTestRunner(t, Config{ContinueOnError: true})
	results, err := r.Run(context.Background(), []args.ArgumentSet{bad, good})

	require.Error(t, err, "the first failure is still reported")
	require.Len(t, results, 2)
	assert.Error(t, results[0].Err)
	assert.NoError(t, results[1].Err)
	assert.NotEmpty(t, results[1].Written, "later sets still ran")
}

func TestRun_Concurrent(t *testing.T) {
	spec := writeSpec(t)

	sets := []args.ArgumentSet{
		modelsSet(spec, t.TempDir()),
		modelsSet(spec, t.TempDir()),
		modelsSet(spec, t.TempDir()),
	}

	r := newTestRunner(t, Config{Concurrency: 3})
	results, err := r.Run(context.Background(), sets)
	require.NoError(t, err)
	require.Len(t, results, 3)
	for _, res := range results {
		assert.NoError(t, res.Err)
		assert.NotEmpty(t, res.Written)
	}
}

func TestRun_MissingSpecFile(t *testing.T) {
	set := modelsSet(filepath.Join(t.TempDir(), "missing.yaml"), t.TempDir())

	r := newTestRunner(t, Config{})
	_, err := r.Run(context.Background(), []args.ArgumentSet{set})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load spec")
}

func TestRun_MissingRequiredField(t *testing.T) {
	set := modelsSet(writeSpec(t), t.TempDir())
	set.PackageName = nil

	r := newTestRunner(t, Config{})
	_, err := r.Run(context.Background(), []args.ArgumentSet{set})
	assert.ErrorContains(t, err, "packageName")
}
