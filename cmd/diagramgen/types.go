package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hassaneGuedad/diagrammer/internal/models"
)

func typesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List supported diagram types",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, t := range models.DiagramTypes {
				fmt.Fprintf(cmd.OutOrStdout(), "%-10s %s\n", t, t.Label())
			}
		},
	}
}
