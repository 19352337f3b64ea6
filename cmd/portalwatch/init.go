package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

//go:embed templates/portalwatch.yml
var configTemplate embed.FS

// configFileName is the default output file name for init.
const configFileName = "portalwatch.yml"

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a sample portalwatch configuration file",
		Long: `Init writes a commented sample configuration file.

The generated file includes:
- The update period for the watch loop
- A credential section for the campus portal handler
- Commented overrides for the vendor constants

Examples:
  # Create portalwatch.yml in the current directory
  portalwatch init

  # Create it at the standard XDG location
  portalwatch init -o ~/.config/portalwatch/portalwatch.yml

  # Force overwrite an existing file
  portalwatch init -f`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", configFileName,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	// Never clobber an existing config: it holds real credentials.
	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := configTemplate.ReadFile("templates/portalwatch.yml")
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// 0600: the file is expected to carry credentials.
	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", outputPath)
	fmt.Fprintln(cmd.OutOrStdout(), "Edit the campus credentials, then run: portalwatch watch")
	return nil
}
