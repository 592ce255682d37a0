package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/triplemine/internal/pipeline"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of triplemine",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("triplemine %s (extraction method %s)\n", version, pipeline.MethodVersion)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
