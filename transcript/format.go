package transcript

import (
	"fmt"
	"strings"

	"github.com/tailored-agentic-units/coach/core/schema"
)

// Text renders the report as the plain-text feedback shown at the end of a
// terminal session.
func Text(r schema.ReportOutput) string {
	var b strings.Builder

	b.WriteString("=== INTERVIEW RESULTS ===\n")

	b.WriteString("\n1. Decision\n")
	fmt.Fprintf(&b, "Grade: %s\n", orDefault(string(r.Grade), "not assessed"))
	fmt.Fprintf(&b, "Recommendation: %s\n", orDefault(string(r.HiringRecommendation), "not given"))
	fmt.Fprintf(&b, "Confidence: %g%%\n", r.ConfidenceScore)

	b.WriteString("\n2. Technical Review\n")
	b.WriteString("Confirmed skills:\n")
	writeList(&b, "  - ", r.ConfirmedSkills, "  (no confirmed skills)")
	b.WriteString("\nKnowledge gaps:\n")
	writeList(&b, "  - ", r.KnowledgeGaps, "  (no clear gaps found)")
	if len(r.GapSolutions) > 0 {
		b.WriteString("\nHow to close them:\n")
		writeList(&b, "  - ", r.GapSolutions, "")
	}

	b.WriteString("\n3. Soft Skills\n")
	fmt.Fprintf(&b, "Clarity: %s\n", orDefault(r.SoftSkillsClarity, "no data"))
	fmt.Fprintf(&b, "Honesty: %s\n", orDefault(r.SoftSkillsHonesty, "no data"))
	fmt.Fprintf(&b, "Engagement: %s\n", orDefault(r.SoftSkillsEngagement, "no data"))

	b.WriteString("\n4. Personal Roadmap\n")
	if len(r.PersonalRoadmap) == 0 {
		b.WriteString("No roadmap produced.\n")
	}
	for i, item := range r.PersonalRoadmap {
		fmt.Fprintf(&b, "\n%d. %s\n", i+1, item.Topic)
		fmt.Fprintf(&b, "   Goal: %s\n", item.Goal)
		fmt.Fprintf(&b, "   Plan: %s\n", item.Plan)
		if item.ResourceLink != "" {
			fmt.Fprintf(&b, "   Resource: %s\n", item.ResourceLink)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// Markdown renders the report as a markdown document.
func Markdown(r schema.ReportOutput) string {
	var b strings.Builder

	b.WriteString("# Interview Results\n\n")

	b.WriteString("## Decision\n\n")
	b.WriteString("| Grade | Recommendation | Confidence |\n|---|---|---|\n")
	fmt.Fprintf(&b, "| %s | %s | %g%% |\n\n", r.Grade, r.HiringRecommendation, r.ConfidenceScore)

	b.WriteString("## Technical Review\n\n### Confirmed skills\n\n")
	writeList(&b, "- ", r.ConfirmedSkills, "_No confirmed skills._")
	b.WriteString("\n### Knowledge gaps\n\n")
	writeList(&b, "- ", r.KnowledgeGaps, "_No clear gaps found._")
	if len(r.GapSolutions) > 0 {
		b.WriteString("\n### How to close them\n\n")
		writeList(&b, "- ", r.GapSolutions, "")
	}

	b.WriteString("\n## Soft Skills\n\n")
	fmt.Fprintf(&b, "- **Clarity:** %s\n", orDefault(r.SoftSkillsClarity, "no data"))
	fmt.Fprintf(&b, "- **Honesty:** %s\n", orDefault(r.SoftSkillsHonesty, "no data"))
	fmt.Fprintf(&b, "- **Engagement:** %s\n", orDefault(r.SoftSkillsEngagement, "no data"))

	b.WriteString("\n## Personal Roadmap\n\n")
	if len(r.PersonalRoadmap) == 0 {
		b.WriteString("_No roadmap produced._\n")
	}
	for i, item := range r.PersonalRoadmap {
		fmt.Fprintf(&b, "%d. **%s**\n", i+1, item.Topic)
		fmt.Fprintf(&b, "   - Goal: %s\n", item.Goal)
		fmt.Fprintf(&b, "   - Plan: %s\n", item.Plan)
		if item.ResourceLink != "" {
			fmt.Fprintf(&b, "   - Resource: %s\n", markdownLink(item.ResourceLink))
		}
	}

	return b.String()
}

func writeList(b *strings.Builder, bullet string, items []string, empty string) {
	if len(items) == 0 {
		if empty != "" {
			b.WriteString(empty + "\n")
		}
		return
	}
	for _, item := range items {
		b.WriteString(bullet + item + "\n")
	}
}

// markdownLink links URLs and leaves fallback or error text as-is.
func markdownLink(s string) string {
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		return "<" + s + ">"
	}
	return s
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
