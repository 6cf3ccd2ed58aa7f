package nethttp

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"text/template"

	"github.com/lorenzotomasini/guardrail/pkg/backend"
)

var definitionsTmpl = template.Must(template.New("definitions").Parse(
	`// Code generated by guardrail. DO NOT EDIT.

package {{.Package}}
{{range .Definitions}}
// {{.Name}} is generated from the {{.Name}} component schema.
type {{.Name}} struct {
{{- range .Fields}}
	{{.Name}} {{.Type}} ` + "`" + `json:"{{.JSONName}}{{if not .Required}},omitempty{{end}}"` + "`" + `
{{- end}}
}
{{end}}`))

var scaffoldTmpl = template.Must(template.New("scaffold").Parse(
	`// Code generated by guardrail. DO NOT EDIT.

package {{.Package}}

import (
	"net/http"
{{- range .Imports}}
	{{if .Alias}}{{.Alias}} {{end}}"{{.Path}}"
{{- end}}
)
{{if .Server}}
// Handler dispatches {{.Title}} requests to an implementation.
type Handler struct {
	Impl http.Handler{{if .Tracing}}

	// Trace is invoked with the request identifier of every call.
	Trace func(name string){{end}}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	{{- if .Tracing}}
	if h.Trace != nil {
		h.Trace(r.Method + " " + r.URL.Path)
	}
	{{- end}}
	h.Impl.ServeHTTP(w, r)
}
{{else}}
// Client calls the {{.Title}} API.
type Client struct {
	BaseURL string
	HTTP    *http.Client{{if .Tracing}}

	// Trace is invoked with the name of every outgoing call.
	Trace func(name string){{end}}
}
{{end}}`))

type scaffoldData struct {
	Package string
	Title   string
	Imports []backend.Import
	Server  bool
	Tracing bool
}

// WritePackage renders the intermediate models into deferred write
// instructions. Definitions go under the computed definitions package; a
// client or server scaffold goes at the package root (models generation
// emits definitions only).
func (b *Backend) WritePackage(_ context.Context, models *backend.Models, bctx backend.Context, layout backend.Layout) ([]backend.WriteInstruction, error) {
	model, ok := models.Codegen.(*codegenModel)
	if !ok {
		return nil, fmt.Errorf("unexpected codegen model %T", models.Codegen)
	}
	proto, ok := models.Protocol.(*protocol)
	if !ok {
		return nil, fmt.Errorf("unexpected protocol model %T", models.Protocol)
	}

	var out []backend.WriteInstruction

	defsDir := filepath.Join(append([]string{layout.OutputPath}, model.DefinitionsPkg...)...)
	defsFile, err := render(definitionsTmpl, map[string]any{
		"Package":     lastSegment(model.DefinitionsPkg, "definitions"),
		"Definitions": model.Definitions,
	})
	if err != nil {
		return nil, err
	}
	out = append(out, backend.WriteInstruction{
		Path:     filepath.Join(defsDir, "definitions.go"),
		Contents: defsFile,
	})

	if model.Kind == backend.KindModels {
		return out, nil
	}

	pkgDir := filepath.Join(append([]string{layout.OutputPath}, layout.PackageName...)...)
	name := "client.go"
	if model.Kind == backend.KindServer {
		name = "server.go"
	}
	scaffold, err := render(scaffoldTmpl, scaffoldData{
		Package: lastSegment(layout.PackageName, "generated"),
		Title:   proto.Title,
		Imports: layout.Imports,
		Server:  model.Kind == backend.KindServer,
		Tracing: bctx.Tracing,
	})
	if err != nil {
		return nil, err
	}
	out = append(out, backend.WriteInstruction{
		Path:     filepath.Join(pkgDir, name),
		Contents: scaffold,
	})

	return out, nil
}

func render(tmpl *template.Template, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("template rendering failed: %w", err)
	}
	return buf.Bytes(), nil
}

func lastSegment(pkg []string, fallback string) string {
	if len(pkg) == 0 {
		return fallback
	}
	return pkg[len(pkg)-1]
}
