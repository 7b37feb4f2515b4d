// Package main is the entry point for the vaultpick launcher.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/runger/vaultpick/internal/cmd"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, os.Interrupt)
	defer cancel()

	err := cmd.Execute(ctx)
	code := cmd.ExitCode(err)
	// Dismissing the picker is a normal way to leave.
	if err != nil && code != cmd.ExitCancelled {
		fmt.Fprintf(os.Stderr, "vaultpick: %v\n", err)
	}
	cancel()
	os.Exit(code)
}
