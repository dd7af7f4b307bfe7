package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sprite-ai/vibeguard/internal/detect"
	"github.com/sprite-ai/vibeguard/internal/model"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze a single file for AI-generated code",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolP("json", "j", false, "output the full detection result as JSON")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	filePath := args[0]
	content, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}

	detector := detect.New()
	result := detector.Detect(string(content), detect.LanguageForFile(filePath), "")

	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	status := model.StatusFor(result.Probability)
	fmt.Printf("%s\n", filePath)
	fmt.Printf("  AI confidence: %.0f%% (%s)\n", result.Probability*100, result.Confidence)
	fmt.Printf("  Status:        %s\n", status)
	fmt.Printf("  Stylometry:    %.3f\n", result.StyleScore)
	fmt.Printf("  Signatures:    %.3f (%d matched)\n", result.SignatureScore, result.Details.Signatures.Matched)
	for _, m := range result.Details.Signatures.TopMatches {
		fmt.Printf("    %s (line %s)\n", m.Name, m.LineSpan())
	}
	return nil
}
