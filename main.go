package main

import (
	"os"

	"taskdesk/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
