// Package args turns the raw command-line token stream into validated
// generation requests. One invocation can describe several independent
// requests, each inheriting defaults from the nearest preceding
// --defaults record.
package args

import (
	"path/filepath"
	"strings"

	"github.com/lorenzotomasini/guardrail/pkg/backend"
)

// FrameworkContext selects which backend handles a request.
type FrameworkContext struct {
	// Framework is the framework name, empty when not set.
	Framework string

	// Modules lists module names for module-assembled backends.
	Modules []string

	// Tracing enables tracing support in generated code.
	Tracing bool
}

// clone returns a deep copy so that records built from a shared template
// never alias its slices.
func (c FrameworkContext) clone() FrameworkContext {
	out := c
	out.Modules = append([]string(nil), c.Modules...)
	return out
}

// ArgumentSet is one fully-configured generation request. Records are
// immutable once closed: every flag produces a new copy via the with*
// methods, never an in-place mutation.
type ArgumentSet struct {
	Kind        backend.Kind
	Context     FrameworkContext
	SpecPath    string
	OutputPath  string
	PackageName []string
	DtoPackage  []string
	Imports     []string
	PrintHelp   bool

	// Template marks a --defaults record. Templates only donate field
	// values to later records and are never executed.
	Template bool
}

func (a ArgumentSet) clone() ArgumentSet {
	out := a
	out.Context = a.Context.clone()
	out.PackageName = append([]string(nil), a.PackageName...)
	out.DtoPackage = append([]string(nil), a.DtoPackage...)
	out.Imports = append([]string(nil), a.Imports...)
	return out
}

func (a ArgumentSet) withKind(k backend.Kind) ArgumentSet {
	out := a.clone()
	out.Kind = k
	return out
}

func (a ArgumentSet) withFramework(name string) ArgumentSet {
	out := a.clone()
	out.Context.Framework = name
	return out
}

func (a ArgumentSet) withModule(name string) ArgumentSet {
	out := a.clone()
	out.Context.Modules = append(out.Context.Modules, name)
	return out
}

func (a ArgumentSet) withTracing() ArgumentSet {
	out := a.clone()
	out.Context.Tracing = true
	return out
}

func (a ArgumentSet) withSpecPath(path, home string) ArgumentSet {
	out := a.clone()
	out.SpecPath = expandTilde(path, home)
	return out
}

func (a ArgumentSet) withOutputPath(path, home string) ArgumentSet {
	out := a.clone()
	out.OutputPath = expandTilde(path, home)
	return out
}

func (a ArgumentSet) withPackageName(dotted string) ArgumentSet {
	out := a.clone()
	out.PackageName = strings.Split(dotted, ".")
	return out
}

func (a ArgumentSet) withDtoPackage(dotted string) ArgumentSet {
	out := a.clone()
	out.DtoPackage = strings.Split(dotted, ".")
	return out
}

func (a ArgumentSet) withImport(directive string) ArgumentSet {
	out := a.clone()
	out.Imports = append(out.Imports, directive)
	return out
}

func (a ArgumentSet) withHelp() ArgumentSet {
	out := a.clone()
	out.PrintHelp = true
	return out
}

// seed copies a record as the start of a new one. Template status and kind
// are decided by the pushing flag, not inherited.
func (a ArgumentSet) seed(template bool) ArgumentSet {
	out := a.clone()
	out.Template = template
	return out
}

// expandTilde expands a leading ~ to the caller's home directory. The home
// value is injected by the caller so the fold never reads process state.
func expandTilde(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
