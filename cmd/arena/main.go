package main

import (
	"github.com/spf13/cobra"

	"github.com/mcoot/rpsarena-go/internal/cli"
)

func main() {
	cobra.CheckErr(cli.NewRootCmd().Execute())
}
