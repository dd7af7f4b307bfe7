package scan

import (
	"math"
	"testing"

	"github.com/sprite-ai/vibeguard/internal/detect"
	"github.com/sprite-ai/vibeguard/internal/model"
	"github.com/sprite-ai/vibeguard/internal/policy"
)

const gateOnlyConfig = `
policies:
  - name: secret-gate
    action: block
    message: "Secrets are not allowed"
    trigger:
      checks:
        - hardcoded_secrets
`

func mustConfig(t *testing.T, yaml string) *policy.Config {
	t.Helper()
	cfg, err := policy.Load([]byte(yaml))
	if err != nil {
		t.Fatal(err)
	}
	return cfg
}

func TestRunEmptyInput(t *testing.T) {
	s := New(detect.New(), nil)
	rep := s.Run(nil, nil)

	if rep.Status != "completed" {
		t.Errorf("status = %q", rep.Status)
	}
	if rep.FilesScanned != 0 || rep.TotalLines != 0 || rep.AIPercentage != 0 {
		t.Errorf("unexpected aggregates: %+v", rep)
	}
	if rep.Blocked {
		t.Error("empty scan must not be blocked")
	}
}

func TestRunAggregates(t *testing.T) {
	s := New(detect.New(), nil)
	files := []FileInput{
		{Path: "src/a.ts", Content: "const a = 1;\nconst b = 2;\n"},
		{Path: "src/b.py", Content: "x = 1\n"},
	}
	rep := s.Run(files, nil)

	if rep.FilesScanned != 2 {
		t.Errorf("files scanned = %d", rep.FilesScanned)
	}
	if rep.AIDetected+rep.HumanWritten != rep.FilesScanned {
		t.Errorf("status counts do not add up: %d + %d", rep.AIDetected, rep.HumanWritten)
	}

	wantLines := 0
	aiLines := 0
	for _, r := range rep.Results {
		wantLines += r.LinesChanged
		if r.Status == model.StatusAIGenerated {
			aiLines += r.LinesChanged
		}
		if r.AIConfidence < 0 || r.AIConfidence > 1 {
			t.Errorf("confidence %v out of range for %s", r.AIConfidence, r.Path)
		}
	}
	if rep.TotalLines != wantLines {
		t.Errorf("total lines = %d, want %d", rep.TotalLines, wantLines)
	}
	wantPct := math.Round(float64(aiLines)/float64(wantLines)*1000) / 10
	if rep.AIPercentage != wantPct {
		t.Errorf("ai percentage = %v, want %v", rep.AIPercentage, wantPct)
	}
	if rep.Blocked == rep.Policy.Allowed {
		t.Error("blocked flag must mirror policy result")
	}
}

func TestRunAttachesSecurityIssues(t *testing.T) {
	s := New(detect.New(), mustConfig(t, gateOnlyConfig))
	files := []FileInput{
		{Path: "config.js", Content: `const API_KEY = "supersecretvalue123";` + "\n"},
	}
	rep := s.Run(files, nil)

	if len(rep.Results[0].Issues) == 0 {
		t.Fatal("expected security issues on the file report")
	}
	if rep.Security.Critical == 0 {
		t.Error("summary missing critical count")
	}
	if !rep.Blocked {
		t.Error("secret gate should block")
	}
	if len(rep.Violations) != 1 || rep.Violations[0].Policy != "secret-gate" {
		t.Errorf("violations = %+v", rep.Violations)
	}
}

func TestRunCleanFilePassesGate(t *testing.T) {
	s := New(detect.New(), mustConfig(t, gateOnlyConfig))
	rep := s.Run([]FileInput{{Path: "a.go", Content: "package a\n"}}, nil)

	if rep.Blocked {
		t.Errorf("clean file blocked: %+v", rep.Violations)
	}
	if rep.Security.Total != 0 {
		t.Errorf("unexpected security findings: %+v", rep.Results[0].Issues)
	}
}

func TestRunLineCounting(t *testing.T) {
	s := New(detect.New(), nil)
	rep := s.Run([]FileInput{{Path: "a.txt", Content: "one\ntwo\nthree"}}, nil)
	if rep.Results[0].LinesChanged != 3 {
		t.Errorf("lines = %d, want 3", rep.Results[0].LinesChanged)
	}

	rep = s.Run([]FileInput{{Path: "b.txt", Content: ""}}, nil)
	if rep.Results[0].LinesChanged != 1 {
		t.Errorf("empty content counts as one line, got %d", rep.Results[0].LinesChanged)
	}
}
