package main

import (
	"os"

	"github.com/Gowri0016/Creator/cmd/web/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
