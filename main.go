package main

import (
	"os"

	"github.com/kilnworks/kiln/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
