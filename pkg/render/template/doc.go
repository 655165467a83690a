// Package template wraps a pongo2 template set behind a small renderer
// contract so HTML output can be produced from embedded or on-disk templates.
package template
