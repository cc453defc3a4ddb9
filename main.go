package main

import (
	"os"

	"github.com/conneroisu/showcase/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
