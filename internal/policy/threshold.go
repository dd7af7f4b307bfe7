package policy

import (
	"regexp"
	"strconv"
	"strings"
)

// Threshold is a comparison parsed from a condition string like "> 70%".
// The percent sign is cosmetic. A zero Threshold is unset and never matches;
// an unset condition is skipped by the trigger, not compared.
type Threshold struct {
	Op    string
	Value float64
	set   bool
}

var thresholdPattern = regexp.MustCompile(`^([<>=]+)\s*(\d+(?:\.\d+)?)\s*%?`)

// ParseThreshold parses a condition string. Malformed input yields a
// Threshold that is set but matches nothing.
func ParseThreshold(condition string) Threshold {
	m := thresholdPattern.FindStringSubmatch(strings.TrimSpace(condition))
	if m == nil {
		return Threshold{set: true}
	}
	value, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return Threshold{set: true}
	}
	return Threshold{Op: m[1], Value: value, set: true}
}

// IsSet reports whether a condition string was supplied, valid or not.
func (t Threshold) IsSet() bool { return t.set }

// Matches compares the value against the threshold.
func (t Threshold) Matches(value float64) bool {
	switch t.Op {
	case ">":
		return value > t.Value
	case ">=":
		return value >= t.Value
	case "<":
		return value < t.Value
	case "<=":
		return value <= t.Value
	case "==", "=":
		return value == t.Value
	}
	return false
}

// UnmarshalYAML parses the condition at config load time.
func (t *Threshold) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	*t = ParseThreshold(raw)
	return nil
}

var timePattern = regexp.MustCompile(`^([<>=]+)\s*(\d+)\s*(second|minute|hour)s?`)

var timeUnits = map[string]float64{
	"second": 1,
	"minute": 60,
	"hour":   3600,
}

// ParseTimeThreshold parses a duration condition like "< 2 minutes" into a
// threshold over seconds.
func ParseTimeThreshold(condition string) Threshold {
	m := timePattern.FindStringSubmatch(strings.TrimSpace(condition))
	if m == nil {
		return Threshold{set: true}
	}
	amount, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return Threshold{set: true}
	}
	return Threshold{Op: m[1], Value: amount * timeUnits[m[3]], set: true}
}

// TimeThreshold wraps Threshold with duration-aware YAML parsing.
type TimeThreshold struct {
	Threshold
}

// UnmarshalYAML parses the duration condition at config load time.
func (t *TimeThreshold) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	t.Threshold = ParseTimeThreshold(raw)
	return nil
}
