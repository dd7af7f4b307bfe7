// Package policy loads organization rule configurations and evaluates
// commit analyses against them.
package policy

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Action is what a triggered policy does. Unknown values fail config load.
type Action int

const (
	ActionAllow Action = iota
	ActionBlock
	ActionWarn
	ActionRequireReviewers
)

func (a Action) String() string {
	switch a {
	case ActionBlock:
		return "block"
	case ActionWarn:
		return "warn"
	case ActionRequireReviewers:
		return "require_reviewers"
	default:
		return "allow"
	}
}

// UnmarshalYAML parses the action name. block_on_fail is a legacy alias
// for block.
func (a *Action) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	switch raw {
	case "allow":
		*a = ActionAllow
	case "block", "block_on_fail":
		*a = ActionBlock
	case "warn":
		*a = ActionWarn
	case "require_reviewers":
		*a = ActionRequireReviewers
	default:
		return fmt.Errorf("unknown action %q", raw)
	}
	return nil
}

// Trigger holds the AND-combined conditions of a policy. Unset conditions
// are skipped.
type Trigger struct {
	AIConfidence Threshold     `yaml:"ai_confidence"`
	AIPercentage Threshold     `yaml:"ai_percentage"`
	LinesChanged Threshold     `yaml:"lines_changed"`
	ReviewTime   TimeThreshold `yaml:"review_time"`
	Checks       []string      `yaml:"checks"`
}

// Reviewers names who must approve when a require_reviewers policy fires.
type Reviewers struct {
	Teams        []string `yaml:"teams"`
	MinApprovals int      `yaml:"min_approvals"`
}

// Override describes how a blocked commit can still land.
type Override struct {
	RequireApprovalFrom []map[string]interface{} `yaml:"require_approval_from"`
}

// Policy is one named rule.
type Policy struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Trigger     Trigger    `yaml:"trigger"`
	Paths       []string   `yaml:"paths"`
	Action      Action     `yaml:"action"`
	Message     string     `yaml:"message"`
	Reviewers   *Reviewers `yaml:"reviewers"`
	Override    *Override  `yaml:"override"`
}

// Config is a parsed policy file.
type Config struct {
	Version  string   `yaml:"version"`
	Org      string   `yaml:"org"`
	Policies []Policy `yaml:"policies"`
}

// DefaultConfigYAML is the built-in policy set used when no vibeguard.yaml
// is supplied. It is also the starting point written by `vibeguard init`.
const DefaultConfigYAML = `version: "1.0"
org: default

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
    action: block
`

// DefaultConfig loads the built-in policy set.
func DefaultConfig() *Config {
	cfg, err := Load([]byte(DefaultConfigYAML))
	if err != nil {
		panic("built-in policy config invalid: " + err.Error())
	}
	return cfg
}

// Load parses a YAML policy configuration. Thresholds are parsed here,
// once, so evaluation never sees raw condition strings. An unknown action
// fails the whole load.
func Load(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing policy config: %w", err)
	}
	if cfg.Version == "" {
		cfg.Version = "1.0"
	}
	if cfg.Org == "" {
		cfg.Org = "default"
	}
	for i := range cfg.Policies {
		if cfg.Policies[i].Name == "" {
			cfg.Policies[i].Name = "unnamed"
		}
	}
	return &cfg, nil
}
