// Package cli implements the vibeguard command line interface.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sprite-ai/vibeguard/internal/policy"
)

var rootCmd = &cobra.Command{
	Use:   "vibeguard",
	Short: "Detect AI-generated code and enforce policies on it",
	Long: `vibeguard scans source files and diffs for AI-generated code using
stylometric analysis and signature matching, then evaluates the results
against organization-defined policies.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadPolicyConfig reads the policy file at configPath, falling back to
// <scanRoot>/vibeguard.yaml and then to the built-in policies.
func loadPolicyConfig(configPath, scanRoot string) (*policy.Config, error) {
	if configPath == "" {
		configPath = filepath.Join(scanRoot, "vibeguard.yaml")
		if _, err := os.Stat(configPath); err != nil {
			return policy.DefaultConfig(), nil
		}
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("reading policy config: %w", err)
	}
	cfg, err := policy.Load(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}
	return cfg, nil
}

// Extensions considered source code when walking a directory.
var scanExtensions = map[string]bool{
	".ts": true, ".tsx": true, ".js": true, ".jsx": true,
	".py": true, ".go": true, ".java": true, ".kt": true,
	".rs": true, ".cpp": true, ".c": true, ".h": true,
	".rb": true, ".php": true, ".swift": true, ".cs": true,
}

// Directories never descended into.
var skipDirs = map[string]bool{
	"node_modules": true, ".git": true, "vendor": true,
	"dist": true, "build": true, "__pycache__": true,
	".next": true, ".nuxt": true, "target": true,
}

// findFiles walks root and returns every source file worth scanning.
func findFiles(root string) ([]string, error) {
	var files []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if skipDirs[info.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if scanExtensions[filepath.Ext(path)] {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
