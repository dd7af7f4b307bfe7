package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	cmds := rootCmd.Commands()
	names := make(map[string]bool)
	for _, c := range cmds {
		names[c.Name()] = true
	}

	for _, want := range []string{"scan", "check", "analyze", "init", "review", "serve", "version"} {
		if !names[want] {
			t.Errorf("root command missing subcommand %q", want)
		}
	}
}

func TestVersionOutput(t *testing.T) {
	// version vars are set via ldflags; in tests they have their defaults
	if version != "dev" {
		t.Errorf("expected default version %q, got %q", "dev", version)
	}
}

func TestFindFilesSkipsVendoredDirs(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, dir+"/main.go", "package main\n")
	mustWrite(t, dir+"/notes.txt", "not source\n")
	mustWrite(t, dir+"/node_modules/dep/index.js", "module.exports = 1;\n")
	mustWrite(t, dir+"/src/app.ts", "const a = 1;\n")

	files, err := findFiles(dir)
	if err != nil {
		t.Fatal(err)
	}

	got := make(map[string]bool)
	for _, f := range files {
		got[f] = true
	}
	if len(files) != 2 {
		t.Errorf("files = %v, want main.go and src/app.ts", files)
	}
	if !got[dir+"/main.go"] || !got[dir+"/src/app.ts"] {
		t.Errorf("missing expected files in %v", files)
	}
}

func TestLoadPolicyConfigFallsBack(t *testing.T) {
	dir := t.TempDir()
	cfg, err := loadPolicyConfig("", dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Policies) == 0 {
		t.Error("built-in config has no policies")
	}
}

func TestLoadPolicyConfigReadsFile(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, dir+"/vibeguard.yaml", "org: test-org\npolicies: []\n")

	cfg, err := loadPolicyConfig("", dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Org != "test-org" {
		t.Errorf("org = %q, want test-org", cfg.Org)
	}
}
