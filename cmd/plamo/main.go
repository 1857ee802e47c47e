package main

import (
	"os"

	"github.com/davidhbaek/plamo-translate/internal/cli"
)

func main() {
	os.Exit(cli.CLI(os.Args[1:]))
}
