package main

import (
	"os"

	"github.com/kbukum/chunkscribe/cmd/chunkscribe/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
