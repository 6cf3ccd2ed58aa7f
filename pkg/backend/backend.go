// Package backend defines the capability contract that all code-generation
// backends must implement, plus the shared output types they produce.
//
// Concrete backend implementations live in pkg/backends/ subdirectories and
// register themselves in their init() functions.
package backend

import (
	"context"

	"github.com/getkin/kin-openapi/openapi3"
)

// Kind selects which side of the API a generation request targets.
type Kind int

const (
	KindClient Kind = iota
	KindServer
	KindModels
)

// String returns the lowercase name used in CLI output and logs.
func (k Kind) String() string {
	switch k {
	case KindServer:
		return "server"
	case KindModels:
		return "models"
	default:
		return "client"
	}
}

// Import is one parsed import directive, ready for rendering by a backend.
type Import struct {
	// Path is the import path.
	Path string

	// Alias is the local name, empty when the default name is used.
	Alias string
}

// WriteInstruction is a deferred description of one output file. Nothing is
// written until the host materializes it.
type WriteInstruction struct {
	// Path is the destination file path.
	Path string

	// Contents is the full file contents.
	Contents []byte
}

// Context carries the framework selection of one generation request into the
// backend pipeline.
type Context struct {
	// Framework is the framework name the backend was resolved from.
	Framework string

	// Modules is the module list for module-assembled backends.
	Modules []string

	// Tracing enables tracing support in generated code.
	Tracing bool
}

// Layout describes where and under which names a backend writes one package.
type Layout struct {
	// OutputPath is the root directory for generated files.
	OutputPath string

	// PackageName is the fully qualified target package.
	PackageName []string

	// DtoPackage is the extra path under the definitions package.
	DtoPackage []string

	// Imports are the parsed user-supplied import directives, in the order
	// they were given.
	Imports []Import
}

// Models is the pair of intermediate models a backend builds from a
// specification document before rendering source text.
type Models struct {
	// Protocol holds the wire-level description of the API.
	Protocol any

	// Codegen holds the language-level description of the generated code.
	Codegen any
}

// Backend implements the generation pipeline for one target ecosystem.
type Backend interface {
	// Name returns the registered framework name.
	Name() string

	// FullyQualifyPackage expands a user-supplied package path to its
	// fully qualified form.
	FullyQualifyPackage(pkg []string) []string

	// ParseImport parses one raw import directive.
	ParseImport(text string) (Import, error)

	// PrepareDefinitions builds the intermediate models for a parsed
	// specification document and the computed definitions package.
	PrepareDefinitions(ctx context.Context, kind Kind, bctx Context, doc *openapi3.T, definitionsPkg []string) (*Models, error)

	// WritePackage renders the intermediate models into deferred write
	// instructions for one output package.
	WritePackage(ctx context.Context, models *Models, bctx Context, layout Layout) ([]WriteInstruction, error)
}
