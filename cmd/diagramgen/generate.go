package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/hassaneGuedad/diagrammer/internal/analyzer"
	"github.com/hassaneGuedad/diagrammer/internal/config"
	"github.com/hassaneGuedad/diagrammer/internal/generator"
	"github.com/hassaneGuedad/diagrammer/internal/models"
)

func generateCmd() *cobra.Command {
	var (
		typeFlag        string
		outputFlag      string
		modelOutputFlag string
		modelFormatFlag string
		concurrencyFlag int
	)

	cmd := &cobra.Command{
		Use:   "generate [path...]",
		Short: "Generate a diagram from files or directories",
		Long: `Analyze the given source files and directories and print a Mermaid
diagram. Directories are walked recursively; vendored and build directories
are skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadCLIConfig(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("type") || cfg.Generate.Type == "" {
				cfg.Generate.Type = typeFlag
			}
			if cmd.Flags().Changed("output") {
				cfg.Generate.Output = outputFlag
			}
			if cmd.Flags().Changed("model-format") || cfg.Generate.ModelFormat == "" {
				cfg.Generate.ModelFormat = modelFormatFlag
			}
			if cmd.Flags().Changed("concurrency") {
				cfg.Loader.Concurrency = concurrencyFlag
			}
			if err := checkModelFormat(cfg.Generate.ModelFormat); err != nil {
				return err
			}

			paths := args
			if len(paths) == 0 {
				paths = []string{"."}
			}

			files, err := analyzer.NewLoader(cfg.Loader.Concurrency).LoadPaths(cmd.Context(), paths)
			if err != nil {
				return err
			}
			if files == nil {
				files = []models.SourceFile{}
			}

			gen, err := generator.NewGenerator(1)
			if err != nil {
				return err
			}
			result, err := gen.Generate(files, cfg.Generate.Type)
			if err != nil {
				return err
			}

			if err := writeDiagram(cmd.OutOrStdout(), cfg.Generate.Output, result.Diagram); err != nil {
				return err
			}
			if modelOutputFlag != "" {
				if err := writeModel(modelOutputFlag, cfg.Generate.ModelFormat, result.Model); err != nil {
					return err
				}
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %d files, %d classes, %d relationships, %d components\n",
				result.Label, len(files), result.Stats.Classes, result.Stats.Relationships, result.Stats.Components)
			return nil
		},
	}

	cmd.Flags().StringVarP(&typeFlag, "type", "t", "class", "diagram type: class, component, sequence, activity, er")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "write the diagram to a file instead of stdout")
	cmd.Flags().StringVar(&modelOutputFlag, "model-output", "", "also write the analysed model to this file")
	cmd.Flags().StringVar(&modelFormatFlag, "model-format", "json", "model file format: json, yaml")
	cmd.Flags().IntVar(&concurrencyFlag, "concurrency", 8, "max parallel file reads")

	return cmd
}

func writeDiagram(stdout io.Writer, path, diagram string) error {
	if path == "" {
		_, err := io.WriteString(stdout, diagram)
		return err
	}
	if err := os.WriteFile(path, []byte(diagram), 0644); err != nil {
		return fmt.Errorf("writing diagram: %w", err)
	}
	return nil
}

func writeModel(path, format string, model *models.DiagramModel) error {
	data, err := encodeModel(format, model)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing model: %w", err)
	}
	return nil
}

func checkModelFormat(format string) error {
	switch format {
	case "json", "", "yaml", "yml":
		return nil
	}
	return fmt.Errorf("unsupported model format %q", format)
}

func encodeModel(format string, model *models.DiagramModel) ([]byte, error) {
	if err := checkModelFormat(format); err != nil {
		return nil, err
	}
	if format == "yaml" || format == "yml" {
		return yaml.Marshal(model)
	}
	return json.MarshalIndent(model, "", "  ")
}
