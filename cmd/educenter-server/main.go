package main

import (
	"context"
	"os"

	"educenter.io/educenter-server/cmd/educenter-server/cmd"
)

func main() {
	command := cmd.RootCmd
	if err := command.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
