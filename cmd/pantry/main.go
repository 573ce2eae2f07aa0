// Package main provides the pantry CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/mesh-intelligence/pantry/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes the command line and maps errors to exit codes.
func run(args []string) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "pantry:", err)
		return exitCode(err)
	}
	return exitSuccess
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, types.ErrNotFound),
		errors.Is(err, types.ErrInvalidData):
		return exitUserError
	default:
		return exitSysError
	}
}
