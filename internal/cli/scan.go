package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sprite-ai/vibeguard/internal/detect"
	"github.com/sprite-ai/vibeguard/internal/model"
	"github.com/sprite-ai/vibeguard/internal/scan"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan files or directories for AI-generated code",
	Long: `Scan a directory tree, detect AI-generated code in every source file,
and evaluate the results against the policy configuration.

Examples:
  vibeguard scan
  vibeguard scan --path ./src
  vibeguard scan --format json
  vibeguard scan --fail-on-block`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringP("path", "p", ".", "path to scan")
	scanCmd.Flags().StringP("config", "c", "", "path to vibeguard.yaml")
	scanCmd.Flags().StringP("format", "f", "text", "output format: text, json, github")
	scanCmd.Flags().Bool("fail-on-block", false, "exit with code 1 if blocked")
}

func runScan(cmd *cobra.Command, args []string) error {
	root, _ := cmd.Flags().GetString("path")
	configPath, _ := cmd.Flags().GetString("config")

	files, err := findFiles(root)
	if err != nil {
		return fmt.Errorf("finding files: %w", err)
	}
	if len(files) == 0 {
		fmt.Println("No files found to scan.")
		return nil
	}

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

	scanner := scan.New(detect.New(), cfg)
	report := scanner.Run(inputs, nil)

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

	failOnBlock, _ := cmd.Flags().GetBool("fail-on-block")
	if failOnBlock && report.Blocked {
		os.Exit(1)
	}
	return nil
}

func outputJSON(report *scan.Report) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func outputText(report *scan.Report) {
	fmt.Printf("Scanned %d file(s): %d AI-generated, %d human-written\n",
		report.FilesScanned, report.AIDetected, report.HumanWritten)
	fmt.Printf("AI percentage: %.1f%%  Max AI confidence: %.0f%%\n\n",
		report.AIPercentage, report.MaxAIConfidence*100)

	if report.Security.Total > 0 {
		fmt.Printf("Security: %d issue(s) (%d critical, %d high, %d medium, %d low)\n\n",
			report.Security.Total, report.Security.Critical,
			report.Security.High, report.Security.Medium, report.Security.Low)
	}

	if len(report.Violations) > 0 {
		fmt.Println("POLICY VIOLATIONS")
		for _, v := range report.Violations {
			fmt.Printf("  !! %s: %s\n", v.Policy, v.Message)
			if len(v.Files) > 0 {
				fmt.Printf("     files: %s\n", strings.Join(v.Files, ", "))
			}
		}
		fmt.Println()
	}

	if len(report.Warnings) > 0 {
		fmt.Println("WARNINGS")
		for _, w := range report.Warnings {
			fmt.Printf("  *  %s: %s\n", w.Policy, w.Message)
		}
		fmt.Println()
	}

	if len(report.Policy.RequiredReviewers) > 0 {
		fmt.Printf("Required reviewers: %s\n\n", strings.Join(report.Policy.RequiredReviewers, ", "))
	}

	for _, f := range report.Results {
		marker := "  "
		if f.Status == model.StatusAIGenerated {
			marker = "AI"
		}
		fmt.Printf("  %s %-50s %3.0f%%\n", marker, truncatePath(f.Path, 50), f.AIConfidence*100)
	}
	fmt.Println()

	switch {
	case report.Blocked:
		fmt.Println("BLOCKED - policy violations detected")
	case len(report.Warnings) > 0:
		fmt.Println("PASSED with warnings")
	default:
		fmt.Println("PASSED")
	}
}

func outputGitHub(report *scan.Report) {
	if report.Blocked {
		fmt.Println("::error::vibeguard: policy violations detected")
	}
	for _, v := range report.Violations {
		fmt.Printf("::error file=%s::Policy '%s': %s\n",
			strings.Join(v.Files, ","), v.Policy, v.Message)
	}
	for _, w := range report.Warnings {
		fmt.Printf("::warning::Policy '%s': %s\n", w.Policy, w.Message)
	}
	fmt.Printf("::set-output name=blocked::%t\n", report.Blocked)
	fmt.Printf("::set-output name=ai_percentage::%.1f\n", report.AIPercentage)
	fmt.Printf("::set-output name=files_scanned::%d\n", report.FilesScanned)
}

func truncatePath(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max+3:]
}
