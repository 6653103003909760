package validation

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/ShayCichocki/reportqc/pkg/models"
)

var reportChecks = []Check{
	{ID: "placeholders", Category: models.CategoryBroken, Severity: models.SeverityCritical, run: checkPlaceholders},
	{ID: "broken_tokens", Category: models.CategoryBroken, Severity: models.SeverityCritical, run: checkBrokenTokens},
	{ID: "gap_math", Category: models.CategoryMath, Severity: models.SeverityCritical, run: checkGapMath},
	{ID: "round_figures", Category: models.CategoryCredibility, Severity: models.SeverityWarning, run: checkRoundFigures},
	{ID: "unrealistic_claims", Category: models.CategoryCredibility, Severity: models.SeverityImportant, run: checkUnrealisticClaims},
	{ID: "gap_sections", Category: models.CategoryStructure, Severity: models.SeverityImportant, run: checkGapSections},
	{ID: "competitor_table", Category: models.CategoryStructure, Severity: models.SeverityImportant, run: checkCompetitorTable},
	{ID: "flow_markers", Category: models.CategoryStructure, Severity: models.SeverityWarning, run: checkFlowMarkers},
	{ID: "emphasis", Category: models.CategoryStructure, Severity: models.SeverityWarning, run: checkEmphasis},
	{ID: "firm_mentions", Category: models.CategoryContent, Severity: models.SeverityImportant, run: checkFirmMentions},
	{ID: "city_mentions", Category: models.CategoryContent, Severity: models.SeverityImportant, run: checkCityMentions},
	{ID: "word_count", Category: models.CategoryContent, Severity: models.SeverityImportant, run: checkWordCount},
	{ID: "banned_phrases", Category: models.CategoryLanguage, Severity: models.SeverityImportant, run: checkBannedPhrases},
	{ID: "em_dash", Category: models.CategoryLanguage, Severity: models.SeverityImportant, run: checkEmDash},
	{ID: "weasel_words", Category: models.CategoryLanguage, Severity: models.SeverityWarning, run: checkWeaselWords},
	{ID: "exclamations", Category: models.CategoryLanguage, Severity: models.SeverityWarning, run: checkExclamations},
	{ID: "generic_phrases", Category: models.CategoryPhrasing, Severity: models.SeverityWarning, run: checkGenericPhrases},
	{ID: "currency", Category: models.CategoryCurrency, Severity: models.SeverityCritical, run: checkCurrency},
	{ID: "terminology", Category: models.CategoryTerminology, Severity: models.SeverityWarning, run: checkTerminology},
	{ID: "style_block", Category: models.CategoryVisual, Severity: models.SeverityWarning, run: checkStyleBlock},
	{ID: "font_family", Category: models.CategoryVisual, Severity: models.SeverityWarning, run: checkFontFamily},
	{ID: "responsive", Category: models.CategoryVisual, Severity: models.SeverityWarning, run: checkResponsive},
}

func checkPlaceholders(c *Check, in *Input) []models.Finding {
	found := matchedPhrases(in.HTML, in.Rules.Placeholders)
	if len(found) == 0 {
		return nil
	}
	return []models.Finding{
		c.finding("Unfilled template markers in report").
			WithEvidence(strings.Join(found, ", ")).
			WithFix("Regenerate the report from complete data"),
	}
}

func checkBrokenTokens(c *Check, in *Input) []models.Finding {
	if in.Rules.broken == nil {
		return nil
	}
	found := uniqueMatches(in.Rules.broken.FindAllString(in.Text, -1))
	if len(found) == 0 {
		return nil
	}
	return []models.Finding{
		c.finding("Rendering artifacts visible in report").WithEvidence(strings.Join(found, ", ")),
	}
}

func checkGapMath(c *Check, in *Input) []models.Finding {
	hero, ok := HeroTotal(in.HTML)
	if !ok || hero.Value <= 0 {
		return nil
	}
	costs, ok := GapCosts(in.HTML, in.Policy.Content.GapSections)
	if !ok {
		return nil
	}
	parts := make([]float64, len(costs))
	raw := make([]string, len(costs))
	for i, a := range costs {
		parts[i] = a.Value
		raw[i] = a.Raw
	}
	sum, ok := SumMatches(hero.Value, parts, in.Policy.Content.MathTolerance)
	if ok {
		return nil
	}
	return []models.Finding{
		c.finding(fmt.Sprintf("Gap costs add up to %s but the headline total is %s", formatMoney(hero.Symbol, sum), hero.Raw)).
			WithEvidence(strings.Join(raw, " + ")).
			WithFix("Make the headline total equal the sum of the gap costs"),
	}
}

func checkRoundFigures(c *Check, in *Input) []models.Finding {
	var round []string
	seen := make(map[string]bool)
	for _, a := range ExtractAmounts(in.Text) {
		if IsRound(a.Value, in.Policy.Content.RoundUnit) && !seen[a.Raw] {
			seen[a.Raw] = true
			round = append(round, a.Raw)
		}
	}
	if len(round) == 0 {
		return nil
	}
	return []models.Finding{
		c.finding("Suspiciously round figures look invented").
			WithEvidence(strings.Join(round, ", ")).
			WithFix("Use the calculated figures rather than rounded ones"),
	}
}

func checkUnrealisticClaims(c *Check, in *Input) []models.Finding {
	var found []string
	for _, re := range in.Rules.claims {
		if m := re.FindString(in.Text); m != "" {
			found = append(found, m)
		}
	}
	if len(found) == 0 {
		return nil
	}
	return []models.Finding{
		c.finding("Unrealistic claims undermine credibility").
			WithEvidence(strings.Join(found, ", ")).
			WithFix("Remove guarantees and outsized multipliers"),
	}
}

func checkGapSections(c *Check, in *Input) []models.Finding {
	seen := GapNumbers(in.Text)
	var missing []string
	for i := 1; i <= in.Policy.Content.GapSections; i++ {
		if !seen[i] {
			missing = append(missing, "#"+strconv.Itoa(i))
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return []models.Finding{
		c.finding(fmt.Sprintf("Missing gap sections: %s", strings.Join(missing, ", "))),
	}
}

var tableBlock = regexp.MustCompile(`(?is)<table\b.*?</table>`)

func checkCompetitorTable(c *Check, in *Input) []models.Finding {
	for _, t := range tableBlock.FindAllString(in.HTML, -1) {
		if strings.Contains(strings.ToLower(t), "competitor") {
			return nil
		}
	}
	return []models.Finding{c.finding("No competitor comparison table")}
}

func checkFlowMarkers(c *Check, in *Input) []models.Finding {
	n := strings.Count(in.Text, "→")
	if n < in.Policy.Content.MinFlowMarkers {
		return []models.Finding{
			c.finding(fmt.Sprintf("Only %d flow arrows, expected at least %d", n, in.Policy.Content.MinFlowMarkers)),
		}
	}
	return nil
}

var emphasisTag = regexp.MustCompile(`(?i)<(?:strong|b)\b[^>]*>`)

func checkEmphasis(c *Check, in *Input) []models.Finding {
	n := len(emphasisTag.FindAllString(in.HTML, -1))
	if n < in.Policy.Content.MinEmphasis {
		return []models.Finding{
			c.finding(fmt.Sprintf("Only %d emphasized phrases, expected at least %d", n, in.Policy.Content.MinEmphasis)),
		}
	}
	return nil
}

func checkFirmMentions(c *Check, in *Input) []models.Finding {
	name := strings.TrimSpace(in.Record.FirmName)
	if name == "" {
		return nil
	}
	n := CountFold(in.Text, name)
	if n < in.Policy.Content.MinFirmMentions {
		return []models.Finding{
			c.finding(fmt.Sprintf("Firm name appears %d times, expected at least %d", n, in.Policy.Content.MinFirmMentions)).
				WithEvidence(name),
		}
	}
	return nil
}

func checkCityMentions(c *Check, in *Input) []models.Finding {
	city := strings.TrimSpace(in.Record.Location.City)
	if city == "" {
		return nil
	}
	n := CountFold(in.Text, city)
	if n < in.Policy.Content.MinCityMentions {
		return []models.Finding{
			c.finding(fmt.Sprintf("City appears %d times, expected at least %d", n, in.Policy.Content.MinCityMentions)).
				WithEvidence(city),
		}
	}
	return nil
}

func checkWordCount(c *Check, in *Input) []models.Finding {
	n := WordCount(in.Text)
	p := in.Policy.Content
	if n < p.MinWords || n > p.MaxWords {
		return []models.Finding{
			c.finding(fmt.Sprintf("Word count %d is outside %d-%d", n, p.MinWords, p.MaxWords)),
		}
	}
	return nil
}

func checkBannedPhrases(c *Check, in *Input) []models.Finding {
	found := matchedPhrases(in.Text, in.Rules.BannedPhrases)
	if len(found) == 0 {
		return nil
	}
	return []models.Finding{
		c.finding("Boilerplate phrases in report").
			WithEvidence(strings.Join(found, "; ")).
			WithFix("Rewrite these sentences in plain, specific language"),
	}
}

func checkEmDash(c *Check, in *Input) []models.Finding {
	n := strings.Count(in.Text, "—")
	if n == 0 {
		return nil
	}
	return []models.Finding{
		c.finding(fmt.Sprintf("Report uses %d em dashes", n)).
			WithEvidence(excerpt(in.Text, "—", 80)).
			WithFix("Replace em dashes with commas or periods"),
	}
}

func checkWeaselWords(c *Check, in *Input) []models.Finding {
	if in.Rules.weasel == nil {
		return nil
	}
	found := in.Rules.weasel.FindAllString(in.Text, -1)
	if len(found) > in.Policy.Language.MaxWeaselWords {
		return []models.Finding{
			c.finding(fmt.Sprintf("%d hedge words, at most %d allowed", len(found), in.Policy.Language.MaxWeaselWords)).
				WithEvidence(strings.Join(uniqueMatches(found), ", ")),
		}
	}
	return nil
}

func checkExclamations(c *Check, in *Input) []models.Finding {
	n := strings.Count(in.Text, "!")
	if n > in.Policy.Language.MaxExclamations {
		return []models.Finding{
			c.finding(fmt.Sprintf("%d exclamation marks, at most %d allowed", n, in.Policy.Language.MaxExclamations)),
		}
	}
	return nil
}

func checkGenericPhrases(c *Check, in *Input) []models.Finding {
	total := 0
	var found []string
	for _, p := range in.Rules.GenericPhrases {
		if n := CountFold(in.Text, p); n > 0 {
			total += n
			found = append(found, p)
		}
	}
	if total > in.Policy.Language.MaxGenericPhrases {
		return []models.Finding{
			c.finding(fmt.Sprintf("%d stock marketing phrases, at most %d allowed", total, in.Policy.Language.MaxGenericPhrases)).
				WithEvidence(strings.Join(found, "; ")),
		}
	}
	return nil
}

func checkCurrency(c *Check, in *Input) []models.Finding {
	want := in.Profile.CurrencySymbol
	if want == "" {
		return nil
	}
	var foreign []string
	for _, a := range ExtractAmounts(in.Text) {
		if a.Symbol != want {
			foreign = append(foreign, a.Raw)
		}
	}
	if len(foreign) == 0 {
		return nil
	}
	return []models.Finding{
		c.finding(fmt.Sprintf("Amounts use the wrong currency for %s", in.Profile.Name)).
			WithEvidence(strings.Join(uniqueMatches(foreign), ", ")).
			WithFix(fmt.Sprintf("Express every amount in %s (%s)", in.Profile.CurrencyCode, want)),
	}
}

func checkTerminology(c *Check, in *Input) []models.Finding {
	found := matchedPhrases(in.Text, in.Profile.DiscouragedTerms)
	if len(found) == 0 {
		return nil
	}
	return []models.Finding{
		c.finding(fmt.Sprintf("Terminology does not match %s usage", in.Profile.Name)).
			WithEvidence(strings.Join(found, ", ")).
			WithFix(in.Profile.Register),
	}
}

func checkStyleBlock(c *Check, in *Input) []models.Finding {
	if !strings.Contains(strings.ToLower(in.HTML), "<style") {
		return []models.Finding{c.finding("Report has no style block")}
	}
	return nil
}

func checkFontFamily(c *Check, in *Input) []models.Finding {
	if !strings.Contains(strings.ToLower(in.HTML), "font-family") {
		return []models.Finding{c.finding("Report does not set a font family")}
	}
	return nil
}

func checkResponsive(c *Check, in *Input) []models.Finding {
	lower := strings.ToLower(in.HTML)
	if !strings.Contains(lower, "@media") && !strings.Contains(lower, `name="viewport"`) {
		return []models.Finding{c.finding("Report has no responsive layout")}
	}
	return nil
}

func uniqueMatches(in []string) []string {
	seen := make(map[string]bool, len(in))
	var out []string
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

func formatMoney(symbol string, v float64) string {
	whole := strconv.FormatFloat(v, 'f', 0, 64)
	var sb strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(r)
	}
	return symbol + sb.String()
}
