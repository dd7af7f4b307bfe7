package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sprite-ai/vibeguard/internal/policy"
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a starter vibeguard.yaml",
	Long: `Write a starter policy configuration to vibeguard.yaml (or the given
path). Fails if the file already exists.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath := "vibeguard.yaml"
	if len(args) > 0 {
		configPath = args[0]
	}

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("%s already exists", configPath)
	}

	if err := os.WriteFile(configPath, []byte(policy.DefaultConfigYAML), 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Printf("Created %s\n", configPath)
	fmt.Println("Edit this file to customize your AI code policies.")
	return nil
}
