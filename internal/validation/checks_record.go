package validation

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/ShayCichocki/reportqc/pkg/models"
)

// placeholderNames are values scrapers emit when a field was not found.
var placeholderNames = map[string]bool{
	"unknown":      true,
	"unknown firm": true,
	"null":         true,
	"n/a":          true,
	"none":         true,
	"undefined":    true,
	"tbd":          true,
}

func isPlaceholder(s string) bool {
	return placeholderNames[strings.ToLower(strings.TrimSpace(s))]
}

// stateCode is matched against the upper-cased state, so "tx" passes.
var stateCode = regexp.MustCompile(`^[A-Z]{2}$`)

var recordChecks = []Check{
	{ID: "firm_name", Category: models.CategoryDataExistence, Severity: models.SeverityCritical, Gate: true, run: checkFirmName},
	{ID: "city", Category: models.CategoryDataExistence, Severity: models.SeverityCritical, Gate: true, run: checkCity},
	{ID: "state_present", Category: models.CategoryDataExistence, Severity: models.SeverityCritical, Gate: true, run: checkStatePresent},
	{ID: "state_format", Category: models.CategoryDataSanity, Severity: models.SeverityImportant, Gate: true, run: checkStateFormat},
	{ID: "practice_areas", Category: models.CategoryDataExistence, Severity: models.SeverityImportant, run: checkPracticeAreas},
	{ID: "practice_area_generic", Category: models.CategoryDataSanity, Severity: models.SeverityImportant, run: checkGenericPracticeArea},
	{ID: "competitor_count", Category: models.CategoryDataExistence, Severity: models.SeverityCritical, run: checkCompetitorCount},
	{ID: "competitor_fields", Category: models.CategoryDataExistence, Severity: models.SeverityImportant, run: checkCompetitorFields},
	{ID: "competitor_names", Category: models.CategoryDataSanity, Severity: models.SeverityImportant, run: checkCompetitorNames},
	{ID: "review_counts", Category: models.CategoryDataSanity, Severity: models.SeverityImportant, run: checkReviewCounts},
	{ID: "ratings", Category: models.CategoryDataSanity, Severity: models.SeverityImportant, run: checkRatings},
	{ID: "rating_consistency", Category: models.CategoryLogic, Severity: models.SeverityWarning, run: checkRatingConsistency},
	{ID: "record_gap_math", Category: models.CategoryMath, Severity: models.SeverityCritical, run: checkRecordGapMath},
}

func checkFirmName(c *Check, in *Input) []models.Finding {
	name := strings.TrimSpace(in.Record.FirmName)
	switch {
	case name == "":
		return []models.Finding{c.finding("Firm name is missing")}
	case isPlaceholder(name):
		return []models.Finding{c.finding("Firm name is a placeholder").WithEvidence(name)}
	case len([]rune(name)) < in.Policy.Data.MinFirmNameLength:
		return []models.Finding{c.finding("Firm name is too short").WithEvidence(name)}
	}
	return nil
}

func checkCity(c *Check, in *Input) []models.Finding {
	city := strings.TrimSpace(in.Record.Location.City)
	if city == "" {
		return []models.Finding{c.finding("City is missing")}
	}
	if isPlaceholder(city) {
		return []models.Finding{c.finding("City is a placeholder").WithEvidence(city)}
	}
	return nil
}

func checkStatePresent(c *Check, in *Input) []models.Finding {
	if !in.Profile.RequiresState {
		return nil
	}
	state := strings.TrimSpace(in.Record.Location.State)
	if state == "" || isPlaceholder(state) {
		return []models.Finding{c.finding("State is missing").WithEvidence(state)}
	}
	return nil
}

func checkStateFormat(c *Check, in *Input) []models.Finding {
	state := strings.TrimSpace(in.Record.Location.State)
	if !in.Profile.RequiresState || state == "" || isPlaceholder(state) {
		return nil
	}
	if !stateCode.MatchString(strings.ToUpper(state)) {
		return []models.Finding{
			c.finding("State is not a two-letter code").
				WithEvidence(state).
				WithFix("Use the two-letter postal abbreviation"),
		}
	}
	return nil
}

func checkPracticeAreas(c *Check, in *Input) []models.Finding {
	for _, a := range in.Record.PracticeAreas {
		if strings.TrimSpace(a) != "" {
			return nil
		}
	}
	return []models.Finding{c.finding("No practice areas listed")}
}

func checkGenericPracticeArea(c *Check, in *Input) []models.Finding {
	for _, a := range in.Record.PracticeAreas {
		if strings.EqualFold(strings.TrimSpace(a), "legal services") {
			return []models.Finding{
				c.finding("Practice area is too generic").
					WithEvidence(a).
					WithFix("Name the firm's actual specialties"),
			}
		}
	}
	return nil
}

func checkCompetitorCount(c *Check, in *Input) []models.Finding {
	n := len(in.Record.Competitors)
	if n < in.Policy.Data.MinCompetitors {
		return []models.Finding{
			c.finding(fmt.Sprintf("Only %d competitors, need at least %d", n, in.Policy.Data.MinCompetitors)),
		}
	}
	return nil
}

func checkCompetitorFields(c *Check, in *Input) []models.Finding {
	var bad []string
	for i, comp := range in.Record.Competitors {
		var missing []string
		if strings.TrimSpace(comp.Name) == "" {
			missing = append(missing, "name")
		}
		if comp.Reviews == nil {
			missing = append(missing, "reviews")
		}
		if comp.Rating == nil {
			missing = append(missing, "rating")
		}
		if len(missing) > 0 {
			bad = append(bad, fmt.Sprintf("%s: %s", competitorRef(i, comp), strings.Join(missing, ", ")))
		}
	}
	return competitorFinding(c, bad, "is missing name, review count or rating")
}

func checkCompetitorNames(c *Check, in *Input) []models.Finding {
	var bad []string
	for i, comp := range in.Record.Competitors {
		name := strings.TrimSpace(comp.Name)
		if name == "" {
			continue
		}
		var problem string
		switch {
		case isPlaceholder(name):
			problem = "placeholder"
		case len([]rune(name)) < in.Policy.Data.MinCompetitorNameLength:
			problem = "too short"
		case len(strings.Fields(name)) == 1 && !strings.Contains(name, "&"):
			problem = "single word"
		}
		if problem != "" {
			bad = append(bad, fmt.Sprintf("%s (%s)", competitorRef(i, comp), problem))
		}
	}
	return competitorFinding(c, bad, "has an implausible name")
}

func checkReviewCounts(c *Check, in *Input) []models.Finding {
	var bad []string
	limit := float64(in.Policy.Data.MaxReviewCount)
	for i, comp := range in.Record.Competitors {
		if comp.Reviews == nil {
			continue
		}
		r := *comp.Reviews
		if r < 0 || r != math.Trunc(r) || r > limit {
			bad = append(bad, fmt.Sprintf("%s: %g", competitorRef(i, comp), r))
		}
	}
	return competitorFinding(c, bad,
		fmt.Sprintf("has a review count that is not a whole number between 0 and %d", in.Policy.Data.MaxReviewCount))
}

func checkRatings(c *Check, in *Input) []models.Finding {
	var bad []string
	for i, comp := range in.Record.Competitors {
		if comp.Rating == nil {
			continue
		}
		if r := *comp.Rating; r < 0 || r > in.Policy.Data.MaxRating {
			bad = append(bad, fmt.Sprintf("%s: %g", competitorRef(i, comp), r))
		}
	}
	return competitorFinding(c, bad, fmt.Sprintf("has a rating outside 0-%g", in.Policy.Data.MaxRating))
}

func checkRatingConsistency(c *Check, in *Input) []models.Finding {
	var bad []string
	for i, comp := range in.Record.Competitors {
		if comp.Reviews == nil || comp.Rating == nil {
			continue
		}
		if *comp.Reviews == 0 && *comp.Rating > 0 {
			bad = append(bad, fmt.Sprintf("%s: rating %g, 0 reviews", competitorRef(i, comp), *comp.Rating))
		}
	}
	return competitorFinding(c, bad, "has a rating but no reviews")
}

// competitorFinding folds every offending competitor into the check's one
// finding.
func competitorFinding(c *Check, bad []string, problem string) []models.Finding {
	switch len(bad) {
	case 0:
		return nil
	case 1:
		return []models.Finding{c.finding("1 competitor " + problem).WithEvidence(bad[0])}
	}
	return []models.Finding{
		c.finding(fmt.Sprintf("%d competitors %s", len(bad), strings.Replace(problem, "has ", "have ", 1))).
			WithEvidence(strings.Join(bad, "; ")),
	}
}

// competitorRef names a competitor by position and name.
func competitorRef(i int, comp models.Competitor) string {
	if strings.TrimSpace(comp.Name) == "" {
		return fmt.Sprintf("Competitor %d", i+1)
	}
	return fmt.Sprintf("Competitor %d '%s'", i+1, comp.Name)
}

// checkRecordGapMath applies the report's gap-sum rule to the record's own
// estimates, when it carries both a total and per-gap losses.
func checkRecordGapMath(c *Check, in *Input) []models.Finding {
	rec := in.Record
	if rec.HeroTotal <= 0 || len(rec.Gaps) == 0 {
		return nil
	}
	parts := make([]float64, len(rec.Gaps))
	for i, g := range rec.Gaps {
		if g.MonthlyLoss < 0 {
			return []models.Finding{c.finding("Gap estimate is negative").
				WithEvidence(fmt.Sprintf("%s: %v", g.Category, g.MonthlyLoss))}
		}
		parts[i] = g.MonthlyLoss
	}
	sum, ok := SumMatches(rec.HeroTotal, parts, in.Policy.Content.MathTolerance)
	if ok {
		return nil
	}
	symbol := in.Profile.CurrencySymbol
	return []models.Finding{c.finding("Research gap estimates do not add up to the headline total").
		WithEvidence(fmt.Sprintf("gaps sum to %s, heroTotal is %s", formatMoney(symbol, sum), formatMoney(symbol, rec.HeroTotal))).
		WithFix("Recompute heroTotal from the gap estimates")}
}
