// Package validation runs the deterministic checks of the QC pipeline.
//
// # Overview
//
// Checks are rows in a table: an ID, the category and severity of the
// finding they produce, and a function that inspects one Input. Two tables
// exist:
//
//  1. Record checks - the research record: identity, competitors, numbers
//  2. Report checks - the rendered HTML: math, structure, language, visuals
//
// The identity checks (firm name, city, state) form the gate. When any of
// them fails, later phases that need a trustworthy identity are skipped.
//
// # Usage
//
//	v := validation.New(policy.Default(), validation.DefaultRules())
//	findings := v.Validate(record, html)
//	if gate := v.Gate(record); len(gate) > 0 {
//		// identity broken, skip the AI phase
//	}
//
// Phrase lists live in a RuleSet so that deployments can extend them from a
// YAML file without recompiling; see LoadRules.
//
// # Country Profiles
//
// The record's country selects a CountryProfile that drives the currency
// and terminology checks. Unknown countries get a neutral profile that
// skips both.
package validation
