package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/pders01/prlink/internal/config"
	"github.com/spf13/cobra"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the default configuration",
	Long: `Write a default config file and create the preference store directory.

This command:
  - Creates $HOME/.config/prlink/config.toml if it doesn't exist
  - Creates the store directory used for the color scheme preference

Run it once to get a config file you can edit.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath := cfgFile
	if configPath == "" {
		configPath = config.Path()
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	out := outOf(cmd)

	if _, err := os.Stat(configPath); err == nil && !initForce {
		fmt.Fprintf(out, "Config already exists: %s\n", configPath)
	} else {
		if err := writeConfig(configPath, config.Current()); err != nil {
			return err
		}
		fmt.Fprintf(out, "✓ Created default config: %s\n", configPath)
	}

	storePath := config.GetStorePath()
	if err := os.MkdirAll(storePath, 0755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}
	fmt.Fprintf(out, "✓ Store directory: %s\n", storePath)

	fmt.Fprintln(out, "\n✓ prlink initialized successfully!")
	fmt.Fprintln(out, "  You can now use: prlink url, prlink form or prlink serve")

	return nil
}

func writeConfig(path string, cfg config.File) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
