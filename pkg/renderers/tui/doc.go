// Package tui runs the form builder and form tester as terminal sessions.
//
// The builder session is a menu over the questions of a builder.Store: add,
// edit text, type and rules, remove, save, switch to the tester or quit.
// The tester session walks the fields of a tester.View, validates the whole
// submission and asks again for the answers that failed. Prompts go through
// a PromptDriver; NewSurveyDriver talks to a real terminal and tests script
// the answers.
package tui
