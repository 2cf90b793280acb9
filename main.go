package main

import (
	"os"

	"github.com/waymark-labs/waymark/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
