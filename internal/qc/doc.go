// Package qc runs quality control over rendered gap-analysis reports.
//
// # Single pass
//
// A Pipeline loads a research record and its rendered report, runs the
// basic validators, runs the AI analysis when the identity gate passes and
// a language model is configured, and folds every finding into one
// QCResult through the decision policy. Input that cannot be read yields a
// FAILED result holding a single FILE_LOAD finding and nothing else.
//
// # Iteration
//
// A Controller drives the state machine
//
//	VALIDATING -> PASSED
//	VALIDATING -> ANALYZING_FAILURE -> REGENERATING -> VALIDATING
//	VALIDATING -> REJECTED            (failed on the last round)
//
// for at most MaxIterations validation rounds. Fix guidance and fix
// application are best effort: a failed or malformed fix keeps the prior
// record. A failed regeneration aborts the run with ErrRegenerate.
package qc
