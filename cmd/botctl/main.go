package main

import (
	"os"

	"botregistry/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
