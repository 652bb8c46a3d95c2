// Package policy provides context hygiene policies that watch a store and
// recommend when the working context should be compressed into a note.
// Policies are advisory. An Engine aggregates several policies and reports
// the most severe action, leaving enforcement to the caller.
package policy
