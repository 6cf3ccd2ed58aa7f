package args

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoArguments is returned by Validate when, after dropping template
// records, no generation request remains.
var ErrNoArguments = errors.New("no arguments specified")

// ErrHelpRequested is returned by Validate when any request asked for help.
// It pre-empts the whole invocation, even when other requests are valid.
var ErrHelpRequested = errors.New("help requested")

// UnknownArgumentsError aborts the fold at the first unrecognized token.
// Tokens holds that token and everything after it.
type UnknownArgumentsError struct {
	Tokens []string
}

func (e *UnknownArgumentsError) Error() string {
	return fmt.Sprintf("unknown arguments: %s", strings.Join(e.Tokens, " "))
}
