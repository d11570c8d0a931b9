// Command lasso checks and converts JSON and YAML documents against
// declarative shape files.
package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).Execute(); err != nil {
		if !errors.Is(err, errInvalid) {
			fmt.Fprintln(os.Stderr, "lasso:", err)
		}
		os.Exit(1)
	}
}
