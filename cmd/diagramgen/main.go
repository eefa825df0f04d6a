package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"

	configPath string
)

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "diagramgen",
		Short:         "Generate Mermaid diagrams from source code",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "path to TOML config file")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "diagramgen %s\n", version)
		},
	}

	cmd.AddCommand(versionCmd)
	cmd.AddCommand(generateCmd())
	cmd.AddCommand(typesCmd())
	return cmd
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
