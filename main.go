package main

import (
	"fmt"
	"os"

	"github.com/DeepaliDagar/Multi-Agent-Ticketing-Support-Assistant/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
