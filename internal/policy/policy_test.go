package policy

import (
	"reflect"
	"testing"
)

const exampleConfig = `
version: "1.0"
org: acme-corp

policies:
  - name: no-ai-in-auth
    description: "AI-generated code not allowed in authentication"
    trigger:
      ai_confidence: "> 70%"
    paths:
      - "src/auth/**"
      - "src/security/**"
      - "**/middleware/auth*"
    action: block
    message: "AI-generated code requires senior review in auth modules"

  - name: high-ai-review
    description: "PRs with >50% AI code need senior review"
    trigger:
      ai_percentage: "> 50%"
      lines_changed: "> 100"
    action: require_reviewers
    reviewers:
      teams: ["senior-engineers"]
      min_approvals: 1

  - name: review-quality
    description: "Flag PRs approved too quickly"
    trigger:
      review_time: "< 2 minutes"
      ai_percentage: "> 30%"
    action: warn
    message: "This PR was approved quickly. Please verify AI-generated sections."

  - name: security-gate
    description: "Block on security vulnerabilities"
    trigger:
      ai_confidence: "> 50%"
      checks:
        - hardcoded_secrets
        - sql_injection
        - xss_patterns
    action: block_on_fail
`

func seconds(n int) *int { return &n }

func TestThresholdGrammar(t *testing.T) {
	cases := []struct {
		condition string
		value     float64
		want      bool
	}{
		{"> 70%", 85, true},
		{"> 70%", 70, false},
		{">= 70", 70, true},
		{"< 50", 30, true},
		{"< 50", 50, false},
		{"<= 50", 50, true},
		{"== 10", 10, true},
		{"= 10", 10, true},
		{"== 10", 11, false},
		{"  > 5 ", 6, true},
		{"~~bogus", 100, false},
		{"seventy", 100, false},
	}
	for _, tc := range cases {
		th := ParseThreshold(tc.condition)
		if !th.IsSet() {
			t.Errorf("ParseThreshold(%q) not set", tc.condition)
		}
		if got := th.Matches(tc.value); got != tc.want {
			t.Errorf("%q against %v = %v, want %v", tc.condition, tc.value, got, tc.want)
		}
	}
}

func TestTimeThresholdGrammar(t *testing.T) {
	cases := []struct {
		condition string
		seconds   float64
		want      bool
	}{
		{"< 2 minutes", 90, true},
		{"< 2 minutes", 150, false},
		{"< 90 seconds", 89, true},
		{"> 1 hour", 3601, true},
		{"> 1 hour", 3599, false},
		{"< 2 fortnights", 1, false},
	}
	for _, tc := range cases {
		th := ParseTimeThreshold(tc.condition)
		if got := th.Matches(tc.seconds); got != tc.want {
			t.Errorf("%q against %vs = %v, want %v", tc.condition, tc.seconds, got, tc.want)
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load([]byte("policies:\n  - action: warn\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Version != "1.0" || cfg.Org != "default" {
		t.Errorf("defaults not applied: version=%q org=%q", cfg.Version, cfg.Org)
	}
	if cfg.Policies[0].Name != "unnamed" {
		t.Errorf("policy name = %q, want unnamed", cfg.Policies[0].Name)
	}
}

func TestLoadRejectsUnknownAction(t *testing.T) {
	_, err := Load([]byte("policies:\n  - name: bad\n    action: destroy\n"))
	if err == nil {
		t.Fatal("expected error for unknown action")
	}
}

func TestLoadBlockOnFailAlias(t *testing.T) {
	cfg, err := Load([]byte(exampleConfig))
	if err != nil {
		t.Fatal(err)
	}
	var gate *Policy
	for i := range cfg.Policies {
		if cfg.Policies[i].Name == "security-gate" {
			gate = &cfg.Policies[i]
		}
	}
	if gate == nil {
		t.Fatal("security-gate policy missing")
	}
	if gate.Action != ActionBlock {
		t.Errorf("block_on_fail parsed as %s, want block", gate.Action)
	}
}

func TestPathGlobs(t *testing.T) {
	files := []FileAnalysis{
		{Path: "src/auth/login.ts"},
		{Path: "app/middleware/auth.ts"},
		{Path: "src/utils/helpers.ts"},
	}
	cases := []struct {
		pattern string
		want    []string
	}{
		{"src/auth/**", []string{"src/auth/login.ts"}},
		{"**/middleware/auth*", []string{"app/middleware/auth.ts"}},
		{"src/*/helpers.ts", []string{"src/utils/helpers.ts"}},
		{"docs/**", nil},
		{"[", nil}, // malformed pattern matches nothing
	}
	for _, tc := range cases {
		got := matchPaths([]string{tc.pattern}, files)
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("matchPaths(%q) = %v, want %v", tc.pattern, got, tc.want)
		}
	}
}

func TestEvaluateExampleCommit(t *testing.T) {
	cfg, err := Load([]byte(exampleConfig))
	if err != nil {
		t.Fatal(err)
	}
	engine := NewEngine(cfg)

	result := engine.Evaluate(CommitAnalysis{
		Files: []FileAnalysis{
			{Path: "src/auth/login.ts", AIConfidence: 0.92, LinesChanged: 45},
			{Path: "src/utils/helpers.ts", AIConfidence: 0.35, LinesChanged: 20},
		},
		MaxAIConfidence:   0.92,
		AIPercentage:      69,
		TotalLinesChanged: 65,
		ReviewTimeSeconds: seconds(90),
	})

	if result.Allowed {
		t.Error("commit touching src/auth with 0.92 confidence must be blocked")
	}
	if len(result.Violations) != 1 {
		t.Fatalf("violations = %d, want 1", len(result.Violations))
	}
	v := result.Violations[0]
	if v.Policy != "no-ai-in-auth" {
		t.Errorf("violation policy = %q", v.Policy)
	}
	if !reflect.DeepEqual(v.Files, []string{"src/auth/login.ts"}) {
		t.Errorf("violation files = %v", v.Files)
	}

	// ai_percentage 69 > 50 but lines_changed 65 is not > 100, so the
	// reviewer policy must not fire.
	if len(result.RequiredReviewers) != 0 {
		t.Errorf("required reviewers = %v, want none", result.RequiredReviewers)
	}

	if len(result.Warnings) != 1 || result.Warnings[0].Policy != "review-quality" {
		t.Errorf("warnings = %+v, want review-quality", result.Warnings)
	}
}

func TestEvaluateSecurityGate(t *testing.T) {
	cfg, err := Load([]byte(exampleConfig))
	if err != nil {
		t.Fatal(err)
	}
	engine := NewEngine(cfg)

	clean := CommitAnalysis{
		Files:           []FileAnalysis{{Path: "lib/db.ts", AIConfidence: 0.8, LinesChanged: 10}},
		MaxAIConfidence: 0.8,
	}
	if res := engine.Evaluate(clean); !res.Allowed {
		t.Errorf("clean commit blocked: %+v", res.Violations)
	}

	dirty := clean
	dirty.SecurityIssues = []SecurityIssue{{Type: "hardcoded_secret", Line: 3}}
	res := engine.Evaluate(dirty)
	if res.Allowed {
		t.Error("commit with hardcoded secret must be blocked")
	}
	var gateFired bool
	for _, v := range res.Violations {
		if v.Policy == "security-gate" {
			gateFired = true
		}
	}
	if !gateFired {
		t.Error("security-gate did not fire")
	}
}

func TestEvaluateRequiredReviewers(t *testing.T) {
	cfg, err := Load([]byte(exampleConfig))
	if err != nil {
		t.Fatal(err)
	}
	engine := NewEngine(cfg)

	res := engine.Evaluate(CommitAnalysis{
		Files:             []FileAnalysis{{Path: "src/app.ts", AIConfidence: 0.6, LinesChanged: 200}},
		MaxAIConfidence:   0.6,
		AIPercentage:      80,
		TotalLinesChanged: 200,
	})
	if !reflect.DeepEqual(res.RequiredReviewers, []string{"senior-engineers"}) {
		t.Errorf("required reviewers = %v", res.RequiredReviewers)
	}
	if !res.Allowed {
		t.Error("require_reviewers must not block")
	}
}

func TestEvaluateAbsentReviewTime(t *testing.T) {
	cfg, err := Load([]byte(exampleConfig))
	if err != nil {
		t.Fatal(err)
	}
	engine := NewEngine(cfg)

	// Without timing data the review_time condition is skipped and the
	// remaining conditions decide.
	res := engine.Evaluate(CommitAnalysis{
		Files:           []FileAnalysis{{Path: "src/app.ts", AIConfidence: 0.4, LinesChanged: 10}},
		MaxAIConfidence: 0.4,
		AIPercentage:    40,
	})
	var warned bool
	for _, w := range res.Warnings {
		if w.Policy == "review-quality" {
			warned = true
		}
	}
	if !warned {
		t.Error("review-quality should fire when timing data is absent")
	}
}

func TestEvaluateEmptyTriggerFires(t *testing.T) {
	cfg, err := Load([]byte("policies:\n  - name: always\n    action: warn\n    message: hi\n"))
	if err != nil {
		t.Fatal(err)
	}
	res := NewEngine(cfg).Evaluate(CommitAnalysis{
		Files: []FileAnalysis{{Path: "a.go"}},
	})
	if len(res.Warnings) != 1 {
		t.Errorf("warnings = %+v, want one", res.Warnings)
	}
}

func TestEvaluateAIConfidenceScaling(t *testing.T) {
	cfg, err := Load([]byte("policies:\n  - name: gate\n    action: block\n    trigger:\n      ai_confidence: \"> 70%\"\n"))
	if err != nil {
		t.Fatal(err)
	}
	engine := NewEngine(cfg)

	// Confidence is a 0..1 fraction compared against a percentage.
	low := engine.Evaluate(CommitAnalysis{MaxAIConfidence: 0.70, Files: []FileAnalysis{{Path: "a.go"}}})
	if !low.Allowed {
		t.Error("0.70 should not exceed > 70%")
	}
	high := engine.Evaluate(CommitAnalysis{MaxAIConfidence: 0.71, Files: []FileAnalysis{{Path: "a.go"}}})
	if high.Allowed {
		t.Error("0.71 should exceed > 70%")
	}
}
