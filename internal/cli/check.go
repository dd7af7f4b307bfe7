package cli

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sprite-ai/vibeguard/internal/detect"
	"github.com/sprite-ai/vibeguard/internal/diff"
	"github.com/sprite-ai/vibeguard/internal/scan"
)

var checkCmd = &cobra.Command{
	Use:   "check [commit-range]",
	Short: "Check a diff against policies (non-interactive)",
	Long: `Scan the added lines of a diff for AI-generated code and evaluate the
policies. Useful for CI and pre-commit hooks.

Exit codes:
  0 — passed
  1 — passed with warnings
  2 — blocked by policy

Examples:
  vibeguard check                  # HEAD vs parent
  vibeguard check main...HEAD      # branch vs main
  git diff | vibeguard check -     # pipe any diff`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringP("config", "c", "", "path to vibeguard.yaml")
	checkCmd.Flags().StringP("format", "f", "text", "output format: text, json, github")
	checkCmd.Flags().Int("review-time", 0, "review duration in seconds, for review_time policies")
}

func runCheck(cmd *cobra.Command, args []string) error {
	raw, err := getDiff(args)
	if err != nil {
		return err
	}
	if strings.TrimSpace(raw) == "" {
		fmt.Println("No changes to check.")
		return nil
	}

	cs, err := diff.Parse(raw)
	if err != nil {
		return fmt.Errorf("parsing diff: %w", err)
	}
	if len(cs.Files) == 0 {
		fmt.Println("No changes to check.")
		return nil
	}

	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := loadPolicyConfig(configPath, ".")
	if err != nil {
		return err
	}

	var inputs []scan.FileInput
	for _, f := range cs.Files {
		if f.IsDeleted || f.IsBinary || f.AddedLines == 0 {
			continue
		}
		inputs = append(inputs, scan.FileInput{Path: f.Name(), Content: f.AddedContent()})
	}

	var reviewTime *int
	if secs, _ := cmd.Flags().GetInt("review-time"); secs > 0 {
		reviewTime = &secs
	}

	scanner := scan.New(detect.New(), cfg)
	report := scanner.Run(inputs, reviewTime)

	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "json":
		if err := outputJSON(&report); err != nil {
			return err
		}
	case "github":
		outputGitHub(&report)
	default:
		outputText(&report)
	}

	if report.Blocked {
		os.Exit(2)
	}
	if len(report.Warnings) > 0 {
		os.Exit(1)
	}
	return nil
}

func getDiff(args []string) (string, error) {
	// Read from stdin if "-" is passed
	if len(args) == 1 && args[0] == "-" {
		data, err := os.ReadFile("/dev/stdin")
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}

	repoDir, err := gitRepoRoot()
	if err != nil {
		return "", fmt.Errorf("not in a git repository (or git not installed): %w", err)
	}

	if len(args) == 1 {
		return diff.GitDiffRange(repoDir, args[0])
	}
	return diff.GitDiffHead(repoDir)
}

func gitRepoRoot() (string, error) {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
