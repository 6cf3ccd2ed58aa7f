// Package framework maps a request's framework context to a concrete
// backend. Resolution is a pure selection step with one delegation point:
// module-assembled backends are built by an injected ModuleResolver, which
// may perform external I/O.
package framework

import (
	"context"
	"errors"
	"log/slog"

	"github.com/lorenzotomasini/guardrail/internal/args"
	"github.com/lorenzotomasini/guardrail/pkg/backend"
)

// ModuleResolver assembles a backend from a list of module names.
type ModuleResolver interface {
	ResolveModules(ctx context.Context, modules []string) (backend.Backend, error)
}

// ModuleResolverFunc adapts a function to the ModuleResolver interface.
type ModuleResolverFunc func(ctx context.Context, modules []string) (backend.Backend, error)

// ResolveModules calls f.
func (f ModuleResolverFunc) ResolveModules(ctx context.Context, modules []string) (backend.Backend, error) {
	return f(ctx, modules)
}

// Resolver selects the backend for one argument set.
type Resolver struct {
	// VendorDefault is the framework used when the argument set names none.
	VendorDefault string

	// Modules handles module-based resolution. Required only when module
	// lists are in play.
	Modules ModuleResolver

	// Logger is used for backend construction (nil uses a discard logger).
	Logger *slog.Logger
}

// Resolve returns the backend for the given framework context.
//
// A non-empty module list always delegates to the module resolver; the
// framework name and vendor default are ignored entirely in that case.
// Otherwise the name (argument set first, vendor default second) is looked
// up in the backend registry. A failure here is final for the argument set:
// there are no retries.
func (r *Resolver) Resolve(ctx context.Context, fc args.FrameworkContext) (backend.Backend, error) {
	if len(fc.Modules) > 0 {
		if r.Modules == nil {
			return nil, errors.New("module-based resolution is not configured")
		}
		return r.Modules.ResolveModules(ctx, fc.Modules)
	}

	name := fc.Framework
	if name == "" {
		name = r.VendorDefault
	}
	return backend.New(name, r.Logger)
}
