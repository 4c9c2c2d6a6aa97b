package main

import (
	"os"

	"github.com/xenago/libnss-shim/cli/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
