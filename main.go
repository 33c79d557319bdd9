package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/wardenlabs/promptwarden/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		var coder cli.ExitCoder
		if errors.As(err, &coder) {
			_, _ = fmt.Fprint(os.Stderr, coder.Message())
			os.Exit(coder.ExitCode())
		}

		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.ExitGeneral)
	}
}
