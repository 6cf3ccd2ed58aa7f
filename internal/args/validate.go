package args

// Validate finalizes the fold output: template records are dropped, the
// survivors must be non-empty, and a help request on any survivor overrides
// everything else for the whole invocation.
func Validate(sets []ArgumentSet) ([]ArgumentSet, error) {
	out := make([]ArgumentSet, 0, len(sets))
	for _, set := range sets {
		if set.Template {
			continue
		}
		out = append(out, set)
	}

	if len(out) == 0 {
		return nil, ErrNoArguments
	}

	for _, set := range out {
		if set.PrintHelp {
			return nil, ErrHelpRequested
		}
	}

	return out, nil
}
