package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
)

func main() {
	err := newRootCmd().Execute()
	if errors.Is(err, errCancelled) {
		fmt.Println()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(exitCode(err))
}

// exitCode maps the result of a command to the process exit status. An
// interrupted run exits with 130 like a shell does after SIGINT.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errCancelled):
		return 130
	default:
		return 1
	}
}
