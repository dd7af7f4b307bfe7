// Package model defines the core data types shared across vibeguard.
package model

import (
	"encoding/json"
	"fmt"
)

// Confidence labels how sure the detector is about a probability.
type Confidence int

const (
	ConfidenceVeryLow Confidence = iota
	ConfidenceLow
	ConfidenceMedium
	ConfidenceHigh
	ConfidenceVeryHigh
)

func (c Confidence) String() string {
	switch c {
	case ConfidenceVeryLow:
		return "very_low"
	case ConfidenceLow:
		return "low"
	case ConfidenceMedium:
		return "medium"
	case ConfidenceHigh:
		return "high"
	case ConfidenceVeryHigh:
		return "very_high"
	default:
		return "unknown"
	}
}

// MarshalJSON renders the tier as its string label.
func (c Confidence) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON parses the string label produced by MarshalJSON.
func (c *Confidence) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err != nil {
		return err
	}
	switch label {
	case "very_low":
		*c = ConfidenceVeryLow
	case "low":
		*c = ConfidenceLow
	case "medium":
		*c = ConfidenceMedium
	case "high":
		*c = ConfidenceHigh
	case "very_high":
		*c = ConfidenceVeryHigh
	default:
		return fmt.Errorf("unknown confidence %q", label)
	}
	return nil
}

// ConfidenceFor maps a probability to its confidence tier.
// Breakpoints are fixed: >0.85 very_high, >0.70 high, >0.50 medium, >0.30 low.
func ConfidenceFor(probability float64) Confidence {
	switch {
	case probability > 0.85:
		return ConfidenceVeryHigh
	case probability > 0.70:
		return ConfidenceHigh
	case probability > 0.50:
		return ConfidenceMedium
	case probability > 0.30:
		return ConfidenceLow
	default:
		return ConfidenceVeryLow
	}
}

// Severity categorizes a security issue.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "critical"
	case SeverityHigh:
		return "high"
	case SeverityMedium:
		return "medium"
	default:
		return "low"
	}
}

// MarshalJSON renders the severity as its string label.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// FileStatus classifies a scanned file.
type FileStatus int

const (
	StatusHumanWritten FileStatus = iota
	StatusAIGenerated
)

func (s FileStatus) String() string {
	if s == StatusAIGenerated {
		return "ai-generated"
	}
	return "human-written"
}

// MarshalJSON renders the status as its string label.
func (s FileStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON parses the string label produced by MarshalJSON.
func (s *FileStatus) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err != nil {
		return err
	}
	switch label {
	case "ai-generated":
		*s = StatusAIGenerated
	case "human-written":
		*s = StatusHumanWritten
	default:
		return fmt.Errorf("unknown file status %q", label)
	}
	return nil
}

// AIThreshold is the probability above which a file is classified ai-generated.
const AIThreshold = 0.7

// StatusFor classifies a file by its detection probability.
func StatusFor(probability float64) FileStatus {
	if probability > AIThreshold {
		return StatusAIGenerated
	}
	return StatusHumanWritten
}
