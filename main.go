package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/samuelfneumann/gomontecarlo/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cmd.RootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
