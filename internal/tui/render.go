package tui

import (
	"fmt"

	"github.com/sprite-ai/vibeguard/internal/model"
	"github.com/sprite-ai/vibeguard/internal/scan"
)

// renderDetail builds the styled detail lines for one file report.
func renderDetail(f *scan.FileReport) []string {
	var lines []string

	statusStyle := humanStatusStyle
	if f.Status == model.StatusAIGenerated {
		statusStyle = aiStatusStyle
	}

	det := f.Detection
	lines = append(lines,
		sectionStyle.Render("Detection"),
		kv("AI probability", fmt.Sprintf("%.1f%% (%s)", det.Probability*100, det.Confidence)),
		labelStyle.Render("  Status         ")+statusStyle.Render(f.Status.String()),
		kv("Stylometry", fmt.Sprintf("%.3f", det.StyleScore)),
		kv("Signatures", fmt.Sprintf("%.3f (%d matched)", det.SignatureScore, det.Details.Signatures.Matched)),
		kv("Lines", fmt.Sprintf("%d", f.LinesChanged)),
		"",
	)

	feat := det.Details.Stylometry.Features
	lines = append(lines,
		sectionStyle.Render("Style features"),
		kv("Naming", fmt.Sprintf("%.3f", feat.NamingConsistency)),
		kv("Comments", fmt.Sprintf("%.3f", feat.CommentDensity)),
		kv("Indentation", fmt.Sprintf("%.3f", feat.IndentationConsistency)),
		kv("Boilerplate", fmt.Sprintf("%.3f", feat.BoilerplateRatio)),
		kv("Line length", fmt.Sprintf("%.1f avg, %.1f var", feat.AvgLineLength, feat.LineLengthVariance)),
		kv("Empty lines", fmt.Sprintf("%.3f", feat.EmptyLineRatio)),
		kv("Max nesting", fmt.Sprintf("%d", feat.MaxNestingDepth)),
		"",
	)

	if len(det.Details.Signatures.TopMatches) > 0 {
		lines = append(lines, sectionStyle.Render("Signature matches"))
		for _, match := range det.Details.Signatures.TopMatches {
			lines = append(lines, matchStyle.Render(fmt.Sprintf("  %s", match.Name))+
				labelStyle.Render(fmt.Sprintf("  line %s", match.LineSpan())))
		}
		lines = append(lines, "")
	}

	if len(f.Issues) > 0 {
		lines = append(lines, sectionStyle.Render("Security issues"))
		for _, issue := range f.Issues {
			style := warnStyle
			if issue.Severity >= model.SeverityCritical {
				style = criticalStyle
			}
			lines = append(lines,
				style.Render(fmt.Sprintf("  [%s] %s", issue.Severity, issue.Message))+
					labelStyle.Render(fmt.Sprintf("  line %d", issue.Line)))
		}
	}

	return lines
}

func kv(label, value string) string {
	return labelStyle.Render(fmt.Sprintf("  %-15s", label)) + valueStyle.Render(value)
}
