package aiqc

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/go-shiori/go-readability"

	"github.com/ShayCichocki/reportqc/internal/validation"
	"github.com/ShayCichocki/reportqc/pkg/models"
)

const systemPrompt = "You are a strict quality reviewer for personalised marketing reports sent to law firms. Reply with JSON only."

const instructions = `Review the report excerpt below for the law firm described in the context block.
Look for: wrong city, state or country; amounts in the wrong currency; legal terminology from
another country; awkward or robotic phrasing; claims a lawyer would find implausible; anything
that would stop the recipient from acting on the report.

Reply with a single JSON object and nothing else:
{
  "issues": [
    {"severity": "CRITICAL|IMPORTANT|WARNING",
     "category": "GEOGRAPHIC|CURRENCY|TERMINOLOGY|PHRASING|CREDIBILITY|CONTENT|FINAL",
     "message": "what is wrong",
     "evidence": "the offending text",
     "fix": "how to fix it"}
  ],
  "wouldAct": true,
  "biggestIssue": "the single biggest problem, or empty"
}
Use CRITICAL only for errors that make the report factually wrong for this firm.`

// Excerpt returns the readable text of a report, cut to at most limit runes.
// Readability extraction is tried first; plain visible text is the fallback.
func Excerpt(html string, pageURL string, limit int) string {
	text := ""
	u, err := url.Parse(pageURL)
	if err != nil || u.Host == "" {
		u = &url.URL{Scheme: "https", Host: "report.invalid", Path: "/"}
	}
	if article, err := readability.FromReader(strings.NewReader(html), u); err == nil {
		text = strings.Join(strings.Fields(article.TextContent), " ")
	}
	if visible := validation.VisibleText(html); len(text) < len(visible)/2 {
		text = visible
	}
	return truncate(text, limit)
}

func truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

// BuildPrompt assembles the analysis prompt: a context block describing the
// firm and its locale, followed by the report excerpt.
func BuildPrompt(rec *models.ResearchRecord, excerpt string) string {
	profile := validation.ProfileFor(rec.Location.Country)

	var sb strings.Builder
	sb.WriteString(instructions)
	sb.WriteString("\n\n## Context\n")
	fmt.Fprintf(&sb, "Firm: %s\n", rec.FirmName)
	if rec.Website != "" {
		fmt.Fprintf(&sb, "Website: %s\n", rec.Website)
	}
	fmt.Fprintf(&sb, "Location: %s\n", formatLocation(rec.Location, profile))
	if profile.CurrencySymbol != "" {
		fmt.Fprintf(&sb, "Expected currency: %s (%s)\n", profile.CurrencySymbol, profile.CurrencyCode)
	}
	if profile.Register != "" {
		fmt.Fprintf(&sb, "Expected terminology: %s\n", profile.Register)
	}
	if len(rec.PracticeAreas) > 0 {
		fmt.Fprintf(&sb, "Practice areas: %s\n", strings.Join(rec.PracticeAreas, ", "))
	}
	if len(rec.Competitors) > 0 {
		names := make([]string, 0, len(rec.Competitors))
		for _, c := range rec.Competitors {
			names = append(names, c.Name)
		}
		fmt.Fprintf(&sb, "Competitors: %s\n", strings.Join(names, ", "))
	}

	sb.WriteString("\n## Report excerpt\n")
	sb.WriteString(excerpt)
	sb.WriteString("\n")
	return sb.String()
}

func formatLocation(loc models.Location, profile validation.CountryProfile) string {
	parts := []string{}
	for _, p := range []string{loc.City, loc.State} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, p)
		}
	}
	country := loc.Country
	if country == "" {
		country = profile.Name
	}
	if country != "" {
		parts = append(parts, country)
	}
	return strings.Join(parts, ", ")
}
