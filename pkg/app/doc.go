// Package app ties the builder and tester views together: it tracks the active
// view, guards navigation away from unsaved builder edits, and runs the
// interactive loop over a UI implementation.
package app
