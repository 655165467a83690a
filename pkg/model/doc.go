// Package model defines the form document shared by the builder and the
// tester: a Form is an ordered list of Questions, each carrying a type (Text,
// Number, True/False) and at most one Validation per rule kind (Required,
// StartsWith, Contains, FromTo). Rule payloads are typed in Go but encode to
// the {"type", "value"} JSON shape used by the storage slot, so documents
// written by other tools round-trip unchanged.
package model
