// Package options provides shared checks for functional-option configs.
package options

import "github.com/erraggy/schemaref/schemaerrors"

// ValidateSingleInputSource ensures exactly one input source is specified.
// sources is a variadic list of booleans indicating whether each source is set.
// noSourceMsg is the error message when no source is specified.
// multiSourceMsg is the error message when multiple sources are specified.
// The returned error is a *schemaerrors.ConfigError for the "input" option.
func ValidateSingleInputSource(noSourceMsg, multiSourceMsg string, sources ...bool) error {
	sourceCount := 0
	for _, hasSource := range sources {
		if hasSource {
			sourceCount++
		}
	}

	switch {
	case sourceCount == 0:
		return &schemaerrors.ConfigError{Option: "input", Message: noSourceMsg}
	case sourceCount > 1:
		return &schemaerrors.ConfigError{Option: "input", Value: sourceCount, Message: multiSourceMsg}
	}
	return nil
}
