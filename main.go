package main

import (
	"os"

	"github.com/spigell/fitscore/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
