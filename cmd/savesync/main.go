package main

import (
	"os"

	"github.com/bianoble/savesync/cmd/savesync/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
