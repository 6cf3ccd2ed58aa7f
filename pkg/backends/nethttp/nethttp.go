// Package nethttp provides a net/http-flavoured generation backend for
// guardrail. It renders definition structs for every component schema of
// the specification plus a thin client or server scaffold, which is enough
// to drive the full pipeline end to end.
package nethttp

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/lorenzotomasini/guardrail/pkg/backend"
)

// Backend implements the backend.Backend interface for plain net/http code.
type Backend struct {
	logger *slog.Logger
}

// New creates a new nethttp backend instance.
func New(logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Backend{logger: logger}
}

// Name returns the registered framework name.
func (b *Backend) Name() string { return "nethttp" }

// FullyQualifyPackage returns the package path unchanged: net/http code has
// no vendor namespace to prepend.
func (b *Backend) FullyQualifyPackage(pkg []string) []string {
	return append([]string(nil), pkg...)
}

// ParseImport parses an import directive of the form "path" or "alias path".
func (b *Backend) ParseImport(text string) (backend.Import, error) {
	fields := strings.Fields(text)
	switch len(fields) {
	case 1:
		if err := checkImportPath(fields[0]); err != nil {
			return backend.Import{}, err
		}
		return backend.Import{Path: fields[0]}, nil
	case 2:
		if err := checkImportPath(fields[1]); err != nil {
			return backend.Import{}, err
		}
		return backend.Import{Alias: fields[0], Path: fields[1]}, nil
	default:
		return backend.Import{}, fmt.Errorf("expected \"path\" or \"alias path\", got %d fields", len(fields))
	}
}

func checkImportPath(path string) error {
	if path == "" {
		return fmt.Errorf("empty import path")
	}
	for _, r := range path {
		if r == '"' || r == ' ' || r == '\n' {
			return fmt.Errorf("invalid character %q in import path", r)
		}
	}
	return nil
}

// Definition is one generated struct.
type Definition struct {
	Name   string
	Fields []Field
}

// Field is one struct field with its JSON name.
type Field struct {
	Name     string
	JSONName string
	Type     string
	Required bool
}

// protocol is the wire-level view of the spec the renderer needs.
type protocol struct {
	Title   string
	Version string
}

// codegenModel is the language-level model handed to the renderer.
type codegenModel struct {
	Kind           backend.Kind
	DefinitionsPkg []string
	Definitions    []Definition
}

// PrepareDefinitions builds the intermediate models from the component
// schemas of the parsed document.
func (b *Backend) PrepareDefinitions(_ context.Context, kind backend.Kind, _ backend.Context, doc *openapi3.T, definitionsPkg []string) (*backend.Models, error) {
	if doc == nil {
		return nil, fmt.Errorf("nil specification document")
	}

	model := &codegenModel{Kind: kind, DefinitionsPkg: definitionsPkg}
	if doc.Components != nil {
		names := make([]string, 0, len(doc.Components.Schemas))
		for name := range doc.Components.Schemas {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			ref := doc.Components.Schemas[name]
			if ref == nil || ref.Value == nil {
				continue
			}
			model.Definitions = append(model.Definitions, definitionFor(name, ref.Value))
		}
	}

	proto := &protocol{Version: "unknown"}
	if doc.Info != nil {
		proto.Title = doc.Info.Title
		proto.Version = doc.Info.Version
	}

	b.logger.Debug("prepared definitions", "kind", kind, "schemas", len(model.Definitions))

	return &backend.Models{Protocol: proto, Codegen: model}, nil
}

func definitionFor(name string, schema *openapi3.Schema) Definition {
	def := Definition{Name: exportedName(name)}

	required := make(map[string]bool, len(schema.Required))
	for _, r := range schema.Required {
		required[r] = true
	}

	props := make([]string, 0, len(schema.Properties))
	for prop := range schema.Properties {
		props = append(props, prop)
	}
	sort.Strings(props)

	for _, prop := range props {
		ref := schema.Properties[prop]
		if ref == nil || ref.Value == nil {
			continue
		}
		def.Fields = append(def.Fields, Field{
			Name:     exportedName(prop),
			JSONName: prop,
			Type:     goType(ref.Value, required[prop]),
			Required: required[prop],
		})
	}
	return def
}

// goType maps an OpenAPI schema to a Go type. Optional fields become
// pointers so absence survives a round trip.
func goType(schema *openapi3.Schema, required bool) string {
	base := "any"
	switch {
	case schema.Type.Is(openapi3.TypeString):
		base = "string"
	case schema.Type.Is(openapi3.TypeInteger):
		base = "int64"
	case schema.Type.Is(openapi3.TypeNumber):
		base = "float64"
	case schema.Type.Is(openapi3.TypeBoolean):
		base = "bool"
	case schema.Type.Is(openapi3.TypeArray):
		inner := "any"
		if schema.Items != nil && schema.Items.Value != nil {
			inner = goType(schema.Items.Value, true)
		}
		return "[]" + inner
	case schema.Type.Is(openapi3.TypeObject):
		base = "map[string]any"
	}
	if !required && base != "any" && base != "map[string]any" {
		return "*" + base
	}
	return base
}

// exportedName converts a schema or property name to an exported Go
// identifier.
func exportedName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-' || r == '.' || r == ' '
	})
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	if b.Len() == 0 {
		return "X"
	}
	return b.String()
}
