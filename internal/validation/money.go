package validation

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Amount is a currency figure found in report text.
type Amount struct {
	Symbol string
	Value  float64
	Raw    string
}

// amountPattern only takes commas that group thousands, so a figure ending a
// list keeps its trailing comma out of Raw.
var amountPattern = regexp.MustCompile(`([$£€])\s?((?:\d{1,3}(?:,\d{3})+|\d+)(?:\.\d+)?)(?:\s?((?i:million|thousand|mm|m|k))\b)?`)

// ParseAmount parses a single figure such as "$8,000", "$8.5k", "£2M" or
// "$2.5 million".
func ParseAmount(s string) (Amount, bool) {
	m := amountPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Amount{}, false
	}
	return toAmount(m)
}

func toAmount(m []string) (Amount, bool) {
	digits := strings.ReplaceAll(m[2], ",", "")
	v, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return Amount{}, false
	}
	switch strings.ToLower(m[3]) {
	case "k", "thousand":
		v *= 1000
	case "m", "mm", "million":
		v *= 1000000
	}
	return Amount{Symbol: m[1], Value: v, Raw: strings.TrimSpace(m[0])}, true
}

// ExtractAmounts returns every currency figure in text, in order.
func ExtractAmounts(text string) []Amount {
	var out []Amount
	for _, m := range amountPattern.FindAllStringSubmatch(text, -1) {
		if a, ok := toAmount(m); ok {
			out = append(out, a)
		}
	}
	return out
}

// IsRound reports whether v is a non-zero exact multiple of unit.
func IsRound(v, unit float64) bool {
	if v <= 0 || unit <= 0 || v < unit {
		return false
	}
	return math.Mod(v, unit) == 0
}

var heroPattern = regexp.MustCompile(`(?is)<[a-z][a-z0-9]*[^>]*\b(?:class|id)="[^"]*hero[^"]*"[^>]*>`)

// heroWindow bounds how far past the hero element the total is searched for.
const heroWindow = 1500

// HeroTotal finds the headline loss figure: the first amount inside the
// element marked with a "hero" class or id.
func HeroTotal(doc string) (Amount, bool) {
	loc := heroPattern.FindStringIndex(doc)
	if loc == nil {
		return Amount{}, false
	}
	end := loc[1] + heroWindow
	if end > len(doc) {
		end = len(doc)
	}
	amounts := ExtractAmounts(VisibleText(doc[loc[1]:end]))
	if len(amounts) == 0 {
		return Amount{}, false
	}
	return amounts[0], true
}

var gapHeading = regexp.MustCompile(`(?i)\bgap\s*#?\s*(\d+)\b`)

// gapWindow bounds how far past a gap heading its cost is searched for.
const gapWindow = 400

// GapNumbers returns the distinct gap section numbers mentioned in text.
func GapNumbers(text string) map[int]bool {
	seen := make(map[int]bool)
	for _, m := range gapHeading.FindAllStringSubmatch(text, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil {
			seen[n] = true
		}
	}
	return seen
}

var headingElement = regexp.MustCompile(`(?is)<h[1-6]\b[^>]*>(.*?)</h[1-6]\s*>`)

// gapAnchor is one "Gap N" mention and the span its cost is read from.
type gapAnchor struct {
	num        int
	start, end int
}

// GapCosts returns the first amount in each numbered gap section 1..n of
// doc. Sections are taken from heading elements when every one of them has
// a figure; otherwise from "Gap N" mentions in the visible text. Each
// section ends where the next heading starts. The second result is false
// when any section has no figure.
func GapCosts(doc string, n int) ([]Amount, bool) {
	if costs, ok := gapCostsFromHeadings(doc, n); ok {
		return costs, true
	}
	return gapCostsFromText(VisibleText(doc), n)
}

func gapCostsFromHeadings(doc string, n int) ([]Amount, bool) {
	locs := headingElement.FindAllStringSubmatchIndex(doc, -1)
	var anchors []gapAnchor
	for i, loc := range locs {
		m := gapHeading.FindStringSubmatch(VisibleText(doc[loc[2]:loc[3]]))
		if m == nil {
			continue
		}
		num, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		end := len(doc)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		anchors = append(anchors, gapAnchor{num: num, start: loc[2], end: end})
	}
	return costsFor(anchors, n, func(a gapAnchor) string {
		return VisibleText(doc[a.start:a.end])
	})
}

func gapCostsFromText(text string, n int) ([]Amount, bool) {
	locs := gapHeading.FindAllStringSubmatchIndex(text, -1)
	anchors := make([]gapAnchor, 0, len(locs))
	for i, loc := range locs {
		num, err := strconv.Atoi(text[loc[2]:loc[3]])
		if err != nil {
			continue
		}
		end := loc[1] + gapWindow
		if i+1 < len(locs) && locs[i+1][0] < end {
			end = locs[i+1][0]
		}
		if end > len(text) {
			end = len(text)
		}
		anchors = append(anchors, gapAnchor{num: num, start: loc[1], end: end})
	}
	return costsFor(anchors, n, func(a gapAnchor) string {
		return text[a.start:a.end]
	})
}

// costsFor picks, for each section 1..n, the last mention whose span holds a
// figure. Summary lines listing the gaps come before the sections they name.
func costsFor(anchors []gapAnchor, n int, span func(gapAnchor) string) ([]Amount, bool) {
	found := make(map[int]Amount)
	for _, a := range anchors {
		if a.num < 1 || a.num > n {
			continue
		}
		if amounts := ExtractAmounts(span(a)); len(amounts) > 0 {
			found[a.num] = amounts[0]
		}
	}
	costs := make([]Amount, 0, n)
	for i := 1; i <= n; i++ {
		a, ok := found[i]
		if !ok {
			return costs, false
		}
		costs = append(costs, a)
	}
	return costs, true
}

// SumMatches reports whether the parts add up to total within tolerance,
// a fraction of total.
func SumMatches(total float64, parts []float64, tolerance float64) (float64, bool) {
	var sum float64
	for _, p := range parts {
		sum += p
	}
	return sum, math.Abs(total-sum) <= total*tolerance
}
