package main

import (
	"fmt"
	"os"

	"github.com/MikeSquared-Agency/astra/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "astra:", err)
		os.Exit(1)
	}
}
