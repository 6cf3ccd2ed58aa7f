// This file registers the nethttp backend with the backend registry.
// Import this package with a blank identifier to register the backend:
//
//	import _ "github.com/lorenzotomasini/guardrail/pkg/backends/nethttp"
package nethttp

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lorenzotomasini/guardrail/pkg/backend"
)

func init() {
	backend.Register("nethttp", func(logger *slog.Logger) backend.Backend { return New(logger) })
}

// knownModules are the module parts this backend can be assembled from.
var knownModules = map[string]struct{}{
	"definitions": {},
	"client":      {},
	"server":      {},
}

// ResolveModules assembles the nethttp backend from module names. Every
// requested module must be one this backend provides.
func ResolveModules(_ context.Context, modules []string) (backend.Backend, error) {
	for _, m := range modules {
		if _, ok := knownModules[m]; !ok {
			return nil, fmt.Errorf("unknown module %q for nethttp", m)
		}
	}
	return New(nil), nil
}
