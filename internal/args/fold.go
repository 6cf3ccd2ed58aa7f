package args

import (
	"log/slog"
	"strings"

	"github.com/lorenzotomasini/guardrail/pkg/backend"
)

// FoldOptions carries the environment the fold needs. Home is injected
// rather than read from the process so tilde expansion is testable.
type FoldOptions struct {
	// Home is the caller's home directory, used for ~ expansion.
	Home string

	// Logger receives a debug trace line per iteration (nil discards).
	Logger *slog.Logger
}

// Fold consumes the full token list and produces the ordered sequence of
// argument-set records, applying default inheritance. The first
// unrecognized token aborts the whole fold with UnknownArgumentsError; no
// partial result is returned.
//
// The fold keeps an explicit stack of in-progress records. Record-opening
// flags (--defaults, --client, --server, --models) push a new record seeded
// from the nearest preceding template; every other flag updates the record
// at the top of the stack. When the tokens run out, the stack is returned
// oldest first, including whatever record was still being built.
func Fold(tokens []string, opt FoldOptions) ([]ArgumentSet, error) {
	logger := opt.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if len(tokens) == 0 {
		return nil, nil
	}

	// Seed with one freshly-defaulted template record.
	stack := []ArgumentSet{{Template: true}}
	rest := tokens

	for len(rest) > 0 {
		traceRemaining(logger, rest)

		switch tok := rest[0]; tok {
		case "--defaults":
			stack = append(stack, nearestTemplate(stack).seed(true))
			rest = rest[1:]

		case "--client":
			stack = append(stack, nearestTemplate(stack).seed(false))
			rest = rest[1:]

		case "--server":
			stack = append(stack, nearestTemplate(stack).seed(false).withKind(backend.KindServer))
			rest = rest[1:]

		case "--models":
			stack = append(stack, nearestTemplate(stack).seed(false).withKind(backend.KindModels))
			rest = rest[1:]

		case "--framework":
			value, ok := takeValue(rest)
			if !ok {
				return nil, unknownArgs(rest)
			}
			stack[len(stack)-1] = stack[len(stack)-1].withFramework(value)
			rest = rest[2:]

		case "--module":
			value, ok := takeValue(rest)
			if !ok {
				return nil, unknownArgs(rest)
			}
			stack[len(stack)-1] = stack[len(stack)-1].withModule(value)
			rest = rest[2:]

		case "--tracing":
			stack[len(stack)-1] = stack[len(stack)-1].withTracing()
			rest = rest[1:]

		case "--specPath":
			value, ok := takeValue(rest)
			if !ok {
				return nil, unknownArgs(rest)
			}
			stack[len(stack)-1] = stack[len(stack)-1].withSpecPath(value, opt.Home)
			rest = rest[2:]

		case "--outputPath":
			value, ok := takeValue(rest)
			if !ok {
				return nil, unknownArgs(rest)
			}
			stack[len(stack)-1] = stack[len(stack)-1].withOutputPath(value, opt.Home)
			rest = rest[2:]

		case "--packageName":
			value, ok := takeValue(rest)
			if !ok {
				return nil, unknownArgs(rest)
			}
			stack[len(stack)-1] = stack[len(stack)-1].withPackageName(value)
			rest = rest[2:]

		case "--dtoPackage":
			value, ok := takeValue(rest)
			if !ok {
				return nil, unknownArgs(rest)
			}
			stack[len(stack)-1] = stack[len(stack)-1].withDtoPackage(value)
			rest = rest[2:]

		case "--import":
			value, ok := takeValue(rest)
			if !ok {
				return nil, unknownArgs(rest)
			}
			stack[len(stack)-1] = stack[len(stack)-1].withImport(value)
			rest = rest[2:]

		case "--help":
			// Help truncates the scan: tokens after --help are never
			// inspected, even invalid ones.
			stack[len(stack)-1] = stack[len(stack)-1].withHelp()
			rest = nil

		default:
			return nil, unknownArgs(rest)
		}
	}

	return stack, nil
}

// nearestTemplate scans the stack from most to least recent for a template
// record to inherit from, falling back to an empty default.
func nearestTemplate(stack []ArgumentSet) ArgumentSet {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].Template {
			return stack[i]
		}
	}
	return ArgumentSet{}
}

// takeValue returns the value following a value-taking flag. A flag at the
// end of the token list has no value and reads as an unknown argument.
func takeValue(rest []string) (string, bool) {
	if len(rest) < 2 {
		return "", false
	}
	return rest[1], true
}

func unknownArgs(rest []string) *UnknownArgumentsError {
	return &UnknownArgumentsError{Tokens: append([]string(nil), rest...)}
}

// traceRemaining logs the first five remaining tokens, marking truncation
// whenever more than three remain. The 5/3 mismatch is inherited behaviour
// and kept as-is.
func traceRemaining(logger *slog.Logger, rest []string) {
	shown := rest
	if len(shown) > 5 {
		shown = shown[:5]
	}
	line := strings.Join(shown, ", ")
	if len(rest) > 3 {
		line += ", ..."
	}
	logger.Debug("folding arguments", "remaining", line)
}
