package main

import (
	"os"

	"github.com/osmcore/relareas/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
