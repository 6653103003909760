// Package protect guards research record fields that automated fixes must
// not rewrite.
package protect

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"sync"

	"go.yaml.in/yaml/v3"

	"github.com/ShayCichocki/reportqc/pkg/models"
)

// ErrProtectedField is returned when a fix changes a protected field.
var ErrProtectedField = errors.New("fix changes a protected field")

// DefaultFields are the record paths a fix may fill but never change.
// Paths are dotted JSON keys; list elements are addressed by index.
var DefaultFields = []string{
	"website",
	"contactName",
	"location.country",
}

// Violation is one protected field a fix changed.
type Violation struct {
	Field   string `json:"field"`
	Pattern string `json:"pattern"`
	Before  string `json:"before"`
	After   string `json:"after"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s -> %s (protected by %q)", v.Field, v.Before, v.After, v.Pattern)
}

// Guard checks record changes against protected field patterns.
// Patterns support * for one path segment and ** for any number.
type Guard struct {
	patterns []string
	mu       sync.RWMutex
}

// NewGuard creates a guard with DefaultFields plus the given patterns.
func NewGuard(patterns ...string) *Guard {
	g := &Guard{patterns: append([]string(nil), DefaultFields...)}
	for _, p := range patterns {
		g.AddPattern(p)
	}
	return g
}

// AddPattern protects another field pattern.
func (g *Guard) AddPattern(pattern string) {
	if pattern == "" {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, p := range g.patterns {
		if p == pattern {
			return
		}
	}
	g.patterns = append(g.patterns, pattern)
}

// guardFile is the part of a rules file read by LoadConfig.
type guardFile struct {
	ProtectedFields []string `yaml:"protected_fields"`
}

// LoadConfig adds the protected_fields list from a YAML rules file.
func (g *Guard) LoadConfig(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var file guardFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	for _, p := range file.ProtectedFields {
		g.AddPattern(p)
	}
	return nil
}

// IsProtected reports whether field matches a protected pattern, and which.
func (g *Guard) IsProtected(field string) (bool, string) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, p := range g.patterns {
		if matchFieldPattern(field, p) {
			return true, p
		}
	}
	return false, ""
}

// Violations lists protected fields that held a value in before and differ
// in after. Filling an empty field is allowed.
func (g *Guard) Violations(before, after *models.ResearchRecord) ([]Violation, error) {
	old, err := flatten(before)
	if err != nil {
		return nil, err
	}
	changed, err := flatten(after)
	if err != nil {
		return nil, err
	}

	var out []Violation
	for field, was := range old {
		if isEmpty(was) {
			continue
		}
		now, ok := changed[field]
		if ok && now == was {
			continue
		}
		protected, pattern := g.IsProtected(field)
		if !protected {
			continue
		}
		if !ok {
			now = "(removed)"
		}
		out = append(out, Violation{Field: field, Pattern: pattern, Before: was, After: now})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Field < out[j].Field })
	return out, nil
}

// Check returns ErrProtectedField describing every violation, or nil.
func (g *Guard) Check(before, after *models.ResearchRecord) error {
	vs, err := g.Violations(before, after)
	if err != nil {
		return err
	}
	if len(vs) == 0 {
		return nil
	}
	errs := make([]error, 0, len(vs))
	for _, v := range vs {
		errs = append(errs, errors.New(v.String()))
	}
	return fmt.Errorf("%w: %w", ErrProtectedField, errors.Join(errs...))
}

// flatten maps every leaf of the record's JSON form to its encoded value.
func flatten(rec *models.ResearchRecord) (map[string]string, error) {
	out := make(map[string]string)
	if rec == nil {
		return out, nil
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	walk("", doc, out)
	return out, nil
}

func walk(prefix string, v interface{}, out map[string]string) {
	switch t := v.(type) {
	case map[string]interface{}:
		for k, child := range t {
			walk(join(prefix, k), child, out)
		}
	case []interface{}:
		for i, child := range t {
			walk(join(prefix, strconv.Itoa(i)), child, out)
		}
	default:
		enc, _ := json.Marshal(t)
		out[prefix] = string(enc)
	}
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

func isEmpty(encoded string) bool {
	return encoded == `""` || encoded == "null"
}
