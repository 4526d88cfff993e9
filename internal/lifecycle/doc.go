// Package lifecycle holds the project workflow rules: how reviews and teacher
// decisions move a project between statuses, and how ratings and scores are
// derived. Everything here is pure; callers load and persist entities.
package lifecycle
