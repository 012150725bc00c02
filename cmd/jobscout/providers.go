package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jobscout/jobscout/internal/registry"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List the available listing providers",
	Run: func(cmd *cobra.Command, args []string) {
		for _, d := range registry.DefaultDescriptors(0) {
			note := ""
			if d.Category == registry.CategoryInteractive {
				note = " (rendered pages)"
			}
			if d.NativeKeywordFilter {
				note = " (server-side keyword search)"
			}
			fmt.Printf("%-16s %s%s\n", d.ID, d.Name, note)
		}
	},
}

func init() {
	rootCmd.AddCommand(providersCmd)
}
