package main

import (
	"os"

	"github.com/AnyUserName/dzgen-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
