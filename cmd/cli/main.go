package main

import (
	"context"
	"fmt"
	"os"

	"github.com/retail-tools/retail-atlas/pkg/runtime/terminal"
	"github.com/retail-tools/retail-atlas/pkg/services/registry"
	"github.com/rs/zerolog"
)

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cli := terminal.NewCLI(terminal.Options{
		OpenRegistry: registry.New,
		Output:       os.Stdout,
	})

	if err := cli.Execute(logger.WithContext(context.Background())); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
