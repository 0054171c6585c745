package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sells-group/profilegen/internal/templates"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List available profile templates",
	Run: func(cmd *cobra.Command, args []string) {
		for _, t := range templates.All() {
			areas := make([]string, len(t.FocusAreas))
			for i, fa := range t.FocusAreas {
				areas[i] = string(fa)
			}
			fmt.Printf("%-12s %s\n", t.Name, t.Description)
			fmt.Printf("%-12s focus: %s\n", "", strings.Join(areas, ", "))
		}
	},
}

func init() {
	rootCmd.AddCommand(templatesCmd)
}
