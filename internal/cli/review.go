package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sprite-ai/vibeguard/internal/detect"
	"github.com/sprite-ai/vibeguard/internal/scan"
	"github.com/sprite-ai/vibeguard/internal/tui"
)

var reviewCmd = &cobra.Command{
	Use:   "review [path]",
	Short: "Browse scan results interactively",
	Long: `Scan a directory tree and open an interactive browser over the
per-file results, detection details, and policy outcome.

Examples:
  vibeguard review          # scan and review the current directory
  vibeguard review ./src    # scan and review a subtree`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReview,
}

func init() {
	reviewCmd.Flags().StringP("config", "c", "", "path to vibeguard.yaml")
}

func runReview(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}

	files, err := findFiles(root)
	if err != nil {
		return fmt.Errorf("finding files: %w", err)
	}
	if len(files) == 0 {
		fmt.Println("No files found to review.")
		return nil
	}

	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := loadPolicyConfig(configPath, root)
	if err != nil {
		return err
	}

	var inputs []scan.FileInput
	for _, f := range files {
		content, err := os.ReadFile(f)
		if err != nil {
			continue
		}
		inputs = append(inputs, scan.FileInput{Path: f, Content: string(content)})
	}

	fmt.Fprintf(os.Stderr, "Scanning %d file(s)...\n", len(inputs))
	scanner := scan.New(detect.New(), cfg)
	report := scanner.Run(inputs, nil)

	return tui.Run(&report)
}
