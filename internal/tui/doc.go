// Package tui provides the manual review screen for QC results.
//
// A rejected report is never sent automatically. The review screen lists
// the last round's findings grouped by category and lets a reviewer
// approve the report anyway or reject it with a note.
//
// # Keys
//
//	j/k, up/down, pgup/pgdown   scroll
//	a                           approve
//	r                           reject (then type a note, enter to confirm)
//	q, ctrl+c                   quit without a decision
package tui
