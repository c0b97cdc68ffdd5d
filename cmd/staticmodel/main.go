// Package main is the entry point for the staticmodel command.
//
// staticmodel loads fixed reference datasets (YAML, JSON, CUE or SQLite) into
// per-type in-memory stores and answers finder queries against them from the
// command line or over a read-only HTTP API.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/roach88/staticmodel/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().ExecuteContext(context.Background()); err != nil {
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintf(os.Stderr, "staticmodel: %v\n", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
