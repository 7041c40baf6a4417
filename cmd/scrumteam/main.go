// cmd/scrumteam/main.go
//
// Entry point for the scrumteam CLI. Every subcommand loads the project
// configuration from the working directory (or --project), builds the team
// and writes reports to stdout. Logs go to stderr and, once `scrumteam init`
// has created .scrumteam/, to .scrumteam/logs.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
