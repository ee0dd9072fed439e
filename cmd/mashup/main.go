package main

import (
	"os"

	"github.com/ewilliams-labs/mashup/cmd/mashup/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
