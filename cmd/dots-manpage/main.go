package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/dots/cmd/dots"
)

func main() {
	rootCmd := dots.NewRootCmd()

	if err := doc.GenMan(rootCmd, dots.ManHeader(), os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
