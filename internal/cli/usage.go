package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/term"

	"github.com/lorenzotomasini/guardrail/internal/runner"
	"github.com/lorenzotomasini/guardrail/pkg/backend"
)

// styles groups the lipgloss styles used for CLI output. Styling is
// disabled when the output is not a terminal.
type styles struct {
	Header lipgloss.Style
	Path   lipgloss.Style
	Fail   lipgloss.Style
}

func newStyles() styles {
	plain := lipgloss.NewStyle()
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return styles{Header: plain, Path: plain, Fail: plain}
	}
	return styles{
		Header: lipgloss.NewStyle().Bold(true),
		Path:   lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		Fail:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	}
}

// flagHelp is one row of the flag reference table.
type flagHelp struct {
	flag   string
	effect string
}

var flagReference = []flagHelp{
	{"--defaults", "open a template record; later requests inherit its values"},
	{"--client", "open a client generation request"},
	{"--server", "open a server generation request"},
	{"--models", "open a models-only generation request"},
	{"--framework <name>", "framework for the current request"},
	{"--module <name>", "add a framework module (repeatable)"},
	{"--tracing", "enable tracing support in generated code"},
	{"--specPath <path>", "path to the specification document (~ expands)"},
	{"--outputPath <path>", "output directory for generated files (~ expands)"},
	{"--packageName <dotted>", "target package, dot-separated"},
	{"--dtoPackage <dotted>", "extra package path under definitions"},
	{"--import <directive>", "add an import to generated files (repeatable)"},
	{"--help", "show this message and ignore the rest of the line"},
}

// printUsage renders the flag reference and the registered frameworks.
func printUsage(w io.Writer) {
	st := newStyles()

	fmt.Fprintln(w, st.Header.Render("guardrail - specification-driven code generator"))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage: guardrail [--defaults ...] (--client|--server|--models) [flags ...]")
	fmt.Fprintln(w)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Flag", "Effect"})
	for _, f := range flagReference {
		t.AppendRow(table.Row{f.flag, f.effect})
	}
	t.Render()

	fmt.Fprintln(w)
	if available := backend.List(); len(available) > 0 {
		fmt.Fprintf(w, "Registered frameworks: %s\n", strings.Join(available, ", "))
	}
	fmt.Fprintln(w, "Several requests can share one invocation; --defaults values apply to the requests after them.")
}

// printResults writes a one-line summary per generation request.
func printResults(w io.Writer, results []runner.Result) {
	st := newStyles()

	for _, res := range results {
		label := fmt.Sprintf("%s %s", res.Set.Kind, st.Path.Render(res.Set.SpecPath))
		switch {
		case res.Err != nil:
			fmt.Fprintf(w, "%s %s: %v\n", st.Fail.Render("FAIL"), label, res.Err)
		default:
			fmt.Fprintf(w, "OK   %s: %d files\n", label, len(res.Written))
		}
	}
}
