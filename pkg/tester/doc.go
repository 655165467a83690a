// Package tester renders a stored form as something fillable and checks
// entered values against each question's rules. Evaluation is short-circuit:
// a field reports the message of its first failing rule in rule order.
package tester
