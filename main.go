package main

import (
	"os"

	"github.com/emotiquest/emotiquest/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
