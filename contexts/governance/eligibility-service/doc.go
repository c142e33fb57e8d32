// Package eligibilityservice decides whether a member may vote on a target or
// run for an office, combining the derived membership status with tenure,
// verification flags, ballot history, and oversight-commission rosters.
//
// Decisions enumerate every failing condition, matching how a bylaws
// compliance review is read by humans: a complete checklist, not the first
// error encountered.
package eligibilityservice
