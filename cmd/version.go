package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/happykids/kidsdiag/internal/diagnosis"
)

// version is set via -ldflags at build time.
var version = "(devel)"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("kidsdiag", version)
		fmt.Println("catalog format", diagnosis.SupportedMajor)
	},
}
