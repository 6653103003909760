package validation

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// RuleSet holds the phrase tables used by the language and content checks.
type RuleSet struct {
	BannedPhrases  []string
	WeaselWords    []string
	GenericPhrases []string
	Placeholders   []string
	BrokenTokens   []string

	claimSources []string
	claims       []*regexp.Regexp
	weasel       *regexp.Regexp
	broken       *regexp.Regexp
}

// RuleFile is the on-disk form of rule overrides. Lists are appended to the
// defaults.
type RuleFile struct {
	BannedPhrases     []string `yaml:"banned_phrases"`
	WeaselWords       []string `yaml:"weasel_words"`
	GenericPhrases    []string `yaml:"generic_phrases"`
	Placeholders      []string `yaml:"placeholders"`
	UnrealisticClaims []string `yaml:"unrealistic_claims"`
}

var defaultRuleFile = RuleFile{
	BannedPhrases: []string{
		"in today's digital landscape",
		"in today's competitive landscape",
		"it's important to note",
		"hope this finds you well",
		"unlock your potential",
		"take your practice to the next level",
		"game-changer",
		"leverage synergies",
		"cutting-edge solutions",
		"delve into",
		"navigate the complexities",
		"at the end of the day",
	},
	WeaselWords: []string{
		"very", "really", "quite", "somewhat", "perhaps",
		"possibly", "arguably", "basically", "essentially", "virtually",
	},
	GenericPhrases: []string{
		"grow your business",
		"best-in-class",
		"world-class",
		"industry-leading",
		"top-notch",
		"state-of-the-art",
		"results-driven",
		"one-stop shop",
		"trusted partner",
		"proven track record",
	},
	Placeholders: []string{
		"{{", "[TODO]", "[PLACEHOLDER]", "[INSERT", "lorem ipsum", "[object Object]",
	},
	UnrealisticClaims: []string{
		`(?i)\bguarantee[ds]?\b`,
		`(?i)\b100%\s+(?:success|guaranteed|results|of cases)`,
		`(?i)\b\d{2,}x\b`,
		`(?i)\b(?:triple|quadruple)\s+your\b`,
		`(?i)\bnever\s+lose\b`,
		`(?i)\bovernight\b`,
	},
}

// brokenTokens are rendering artifacts that leak into visible text.
var brokenTokens = []string{"undefined", "NaN", "null"}

// DefaultRules returns the built-in rule tables.
func DefaultRules() *RuleSet {
	r := &RuleSet{}
	if err := r.Merge(defaultRuleFile); err != nil {
		panic(fmt.Sprintf("validation: default rules: %v", err))
	}
	return r
}

// LoadRules reads a YAML override file and merges it over the defaults.
func LoadRules(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}
	var file RuleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse rules file %s: %w", path, err)
	}
	r := DefaultRules()
	if err := r.Merge(file); err != nil {
		return nil, fmt.Errorf("rules file %s: %w", path, err)
	}
	return r, nil
}

// Merge appends the lists in file to the rule set and recompiles patterns.
func (r *RuleSet) Merge(file RuleFile) error {
	r.BannedPhrases = appendUnique(r.BannedPhrases, file.BannedPhrases)
	r.WeaselWords = appendUnique(r.WeaselWords, file.WeaselWords)
	r.GenericPhrases = appendUnique(r.GenericPhrases, file.GenericPhrases)
	r.Placeholders = appendUnique(r.Placeholders, file.Placeholders)
	if len(r.BrokenTokens) == 0 {
		r.BrokenTokens = append([]string(nil), brokenTokens...)
	}

	for _, src := range file.UnrealisticClaims {
		re, err := regexp.Compile(src)
		if err != nil {
			return fmt.Errorf("unrealistic claim pattern %q: %w", src, err)
		}
		if contains(r.claimSources, src) {
			continue
		}
		r.claimSources = append(r.claimSources, src)
		r.claims = append(r.claims, re)
	}

	r.weasel = wordAlternation(r.WeaselWords, true)
	r.broken = wordAlternation(r.BrokenTokens, false)
	return nil
}

// wordAlternation builds a whole-word pattern matching any of words.
func wordAlternation(words []string, fold bool) *regexp.Regexp {
	if len(words) == 0 {
		return nil
	}
	src := `\b(?:`
	for i, w := range words {
		if i > 0 {
			src += "|"
		}
		src += regexp.QuoteMeta(w)
	}
	src += `)\b`
	if fold {
		src = "(?i)" + src
	}
	return regexp.MustCompile(src)
}

func appendUnique(dst, src []string) []string {
	for _, s := range src {
		if s != "" && !contains(dst, s) {
			dst = append(dst, s)
		}
	}
	return dst
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
