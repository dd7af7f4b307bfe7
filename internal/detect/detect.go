// Package detect combines stylometry and signature matching into one
// AI-generation probability with a confidence tier.
package detect

import (
	"math"

	"github.com/sprite-ai/vibeguard/internal/model"
	"github.com/sprite-ai/vibeguard/internal/signature"
	"github.com/sprite-ai/vibeguard/internal/stylometry"
)

// Blend weights. Without corroboration the style and signature scores split
// the probability evenly; a confirmed telemetry match dominates the blend.
const (
	weightStyle      = 0.45
	weightSignatures = 0.45

	corroboratedStyle      = 0.30
	corroboratedSignatures = 0.30
	corroboratedTelemetry  = 0.40
)

// TelemetryStore answers whether a content hash is known to originate from an
// AI coding tool. Implementations must be safe for concurrent use.
type TelemetryStore interface {
	Matches(hash string) bool
}

// noTelemetry is the default store: no persistence layer is wired in, so no
// hash ever corroborates.
type noTelemetry struct{}

func (noTelemetry) Matches(string) bool { return false }

// Result is the combined detection outcome for one source text.
type Result struct {
	Probability    float64          `json:"ai_probability"`
	Confidence     model.Confidence `json:"confidence"`
	StyleScore     float64          `json:"stylometry_score"`
	SignatureScore float64          `json:"pattern_score"`
	MethodsUsed    []string         `json:"methods_used"`
	Details        Details          `json:"details"`
}

// Details is the per-method breakdown attached to a Result.
type Details struct {
	Stylometry StyleDetail      `json:"stylometry"`
	Signatures SignatureDetail  `json:"patterns"`
	Telemetry  *TelemetryDetail `json:"telemetry,omitempty"`
}

type StyleDetail struct {
	Score    float64                  `json:"score"`
	Features stylometry.StyleFeatures `json:"features"`
}

type SignatureDetail struct {
	Score      float64           `json:"score"`
	Matched    int               `json:"patterns_matched"`
	TopMatches []signature.Match `json:"top_patterns"`
}

type TelemetryDetail struct {
	Matched bool   `json:"matched"`
	Hash    string `json:"hash"`
}

// topMatchCount caps how many match records a Result carries.
const topMatchCount = 5

// Detector runs the combined detection pipeline. Construct once with New and
// share freely; Detect is a pure function of its inputs.
type Detector struct {
	style      *stylometry.Analyzer
	signatures *signature.Library
	telemetry  TelemetryStore
}

// New creates a Detector with the built-in signature library and no
// telemetry store.
func New() *Detector {
	return &Detector{
		style:      stylometry.NewAnalyzer(),
		signatures: signature.NewLibrary(),
		telemetry:  noTelemetry{},
	}
}

// WithTelemetry returns a copy of the detector using the given store.
func (d *Detector) WithTelemetry(store TelemetryStore) *Detector {
	dd := *d
	dd.telemetry = store
	return &dd
}

// Detect analyzes code and returns the combined result. The language hint
// selects comment markers for stylometry ("auto" if unknown). A non-empty
// telemetryHash requests corroboration against the telemetry store.
func (d *Detector) Detect(code, language, telemetryHash string) Result {
	methods := []string{"stylometry", "pattern_matching"}

	features := d.style.Analyze(code, language)
	styleScore := stylometry.Probability(features)

	sigResult := d.signatures.Scan(code)

	corroborated := false
	if telemetryHash != "" {
		corroborated = d.telemetry.Matches(telemetryHash)
		if corroborated {
			methods = append(methods, "telemetry")
		}
	}

	var combined float64
	if corroborated {
		combined = styleScore*corroboratedStyle +
			sigResult.Score*corroboratedSignatures +
			corroboratedTelemetry // telemetry score is 1.0 when matched
	} else {
		combined = (styleScore*weightStyle + sigResult.Score*weightSignatures) /
			(weightStyle + weightSignatures)
	}
	combined = clamp01(combined)

	top := sigResult.Matches
	if len(top) > topMatchCount {
		top = top[:topMatchCount]
	}

	res := Result{
		Probability:    Round3(combined),
		Confidence:     model.ConfidenceFor(combined),
		StyleScore:     Round3(styleScore),
		SignatureScore: Round3(sigResult.Score),
		MethodsUsed:    methods,
		Details: Details{
			Stylometry: StyleDetail{Score: Round3(styleScore), Features: roundFeatures(features)},
			Signatures: SignatureDetail{Score: Round3(sigResult.Score), Matched: sigResult.Matched, TopMatches: top},
		},
	}

	if telemetryHash != "" {
		res.Details.Telemetry = &TelemetryDetail{Matched: corroborated, Hash: telemetryHash}
	}

	return res
}

// Round3 rounds to 3 decimal places for presentation. Callers needing exact
// threshold comparisons should compare before rounding.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func roundFeatures(f stylometry.StyleFeatures) stylometry.StyleFeatures {
	f.NamingConsistency = Round3(f.NamingConsistency)
	f.CommentDensity = Round3(f.CommentDensity)
	f.AvgLineLength = math.Round(f.AvgLineLength*10) / 10
	f.LineLengthVariance = math.Round(f.LineLengthVariance*10) / 10
	f.IndentationConsistency = Round3(f.IndentationConsistency)
	f.BoilerplateRatio = Round3(f.BoilerplateRatio)
	f.EmptyLineRatio = Round3(f.EmptyLineRatio)
	return f
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
