package main

import (
	"fmt"
	"os"

	"github.com/carlosrabelo/unifi2icx/internal/cli"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	if err := cli.NewRootCmd(version, buildTime).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
