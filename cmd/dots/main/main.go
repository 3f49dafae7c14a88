package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/arthur-debert/dots/cmd/dots"
	"github.com/arthur-debert/dots/pkg/output"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := dots.NewRootCmd()
	rootCmd.SetArgs(dots.NormalizeArgs(os.Args[1:]))
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if renderer, rerr := output.NewRenderer(os.Stderr, output.FormatText, !output.ColorEnabled(os.Stderr)); rerr == nil {
			_ = renderer.RenderError(err)
		}
		stop()
		os.Exit(1)
	}
}
