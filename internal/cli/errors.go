// Package cli implements the pulse command-line interface.
package cli

import (
	"fmt"
	"os"

	pulseerrors "github.com/randalmurphal/pulse/internal/errors"
)

// PrintError prints an error to stderr. Structured pulse errors use the
// user-friendly What/Why/Fix form; anything else prints plainly.
func PrintError(err error) {
	if perr := pulseerrors.AsError(err); perr != nil {
		fmt.Fprintln(os.Stderr, perr.UserMessage())
		if verbose {
			fmt.Fprintf(os.Stderr, "\nCode: %s\n", perr.Code)
			if perr.Cause != nil {
				fmt.Fprintf(os.Stderr, "Cause: %v\n", perr.Cause)
			}
		}
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}
