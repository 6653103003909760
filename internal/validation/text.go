package validation

import (
	"strings"

	"golang.org/x/net/html"
)

// skippedElements hold text that is never shown to a reader.
var skippedElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
}

// VisibleText returns the reader-visible text of an HTML document with
// entities decoded and whitespace collapsed. Plain text passes through.
func VisibleText(doc string) string {
	z := html.NewTokenizer(strings.NewReader(doc))
	var sb strings.Builder
	skipDepth := 0

	for {
		switch z.Next() {
		case html.ErrorToken:
			return collapseSpace(sb.String())
		case html.StartTagToken:
			name, _ := z.TagName()
			if skippedElements[string(name)] {
				skipDepth++
			}
			sb.WriteByte(' ')
		case html.EndTagToken:
			name, _ := z.TagName()
			if skippedElements[string(name)] && skipDepth > 0 {
				skipDepth--
			}
			sb.WriteByte(' ')
		case html.SelfClosingTagToken:
			sb.WriteByte(' ')
		case html.TextToken:
			if skipDepth == 0 {
				sb.Write(z.Text())
			}
		}
	}
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// WordCount returns the number of whitespace-separated words in text.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// CountFold counts non-overlapping, case-insensitive occurrences of needle.
func CountFold(haystack, needle string) int {
	needle = strings.TrimSpace(needle)
	if needle == "" {
		return 0
	}
	return strings.Count(strings.ToLower(haystack), strings.ToLower(needle))
}

// matchedPhrases returns the phrases found in text, in list order.
func matchedPhrases(text string, phrases []string) []string {
	lower := strings.ToLower(text)
	var found []string
	for _, p := range phrases {
		if p != "" && strings.Contains(lower, strings.ToLower(p)) {
			found = append(found, p)
		}
	}
	return found
}

// excerpt returns up to n runes around the first match of needle.
func excerpt(text, needle string, n int) string {
	idx := strings.Index(strings.ToLower(text), strings.ToLower(needle))
	if idx < 0 {
		return ""
	}
	start := idx - n/2
	if start < 0 {
		start = 0
	}
	end := start + n
	if end > len(text) {
		end = len(text)
	}
	return strings.ToValidUTF8(strings.TrimSpace(text[start:end]), "")
}
