package protect

import (
	"path"
	"strings"
)

// matchFieldPattern matches a dotted field path against a pattern. A "*"
// segment matches one field, "**" matches any run of fields, and other
// segments use path.Match syntax.
func matchFieldPattern(field, pattern string) bool {
	return matchSegments(strings.Split(field, "."), strings.Split(pattern, "."))
}

func matchSegments(field, pattern []string) bool {
	for len(pattern) > 0 {
		head := pattern[0]
		pattern = pattern[1:]

		if head == "**" {
			if len(pattern) == 0 {
				return true
			}
			for i := range field {
				if matchSegments(field[i:], pattern) {
					return true
				}
			}
			return false
		}

		if len(field) == 0 {
			return false
		}
		if ok, err := path.Match(head, field[0]); err != nil || !ok {
			return false
		}
		field = field[1:]
	}
	return len(field) == 0
}
