package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ajpbench/ajpbench-go-client/internal/domain/model"
)

// versionCmd is the command to display version
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version",
	Long:  `Display the ajpbench version.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ajpbench v%s\n", model.Version)
	},
}

func init() {
	RootCmd.AddCommand(versionCmd)
}
