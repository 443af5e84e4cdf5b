package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/ash/internal/extract"
)

func init() {
	rootCmd.AddCommand(formatsCmd)
}

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List content types ash can read",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		labels := extract.NewRegistry().Labels()
		if !humanOutput {
			return outputJSON(labels)
		}
		for _, label := range labels {
			fmt.Println(label)
		}
		return nil
	},
}
