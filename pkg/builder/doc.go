// Package builder maintains the form being authored. Edits are expressed as
// Command values and applied by Reduce, a pure function from one document to
// the next. Store wraps the reducer with id assignment, persistence to a
// storage.Slot on SaveForm, and an unsaved-changes signal derived by deep
// comparison against the stored copy after every edit.
package builder
