package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/ngrash/go-tztime/internal/cli"
)

func main() {
	if err := cli.App.Run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, color.RedString("Error: %v", err))
		os.Exit(1)
	}
}
