package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-formbuilder/pkg/app"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/tester"
)

var testerExits = []string{"Test again", "Back to Form Builder", "Quit"}

// Test walks the fields of view, then validates the whole submission. Fields
// that fail are reported and asked again, keeping previous entries as
// defaults, until the submission passes.
func (r *Renderer) Test(ctx context.Context, view tester.View) (tester.Answers, app.Exit, error) {
	if r.driver == nil {
		return nil, app.ExitQuit, ErrNoDriver
	}

	if view.NoData {
		if err := r.info(ctx, tester.NoDataMessage); err != nil {
			return nil, app.ExitQuit, err
		}
		exit, err := r.chooseExit(ctx)
		if err != nil {
			return nil, app.ExitQuit, err
		}
		return nil, exit, tester.ErrNoData
	}

	answers, err := r.Fill(ctx, view)
	if err != nil {
		return nil, app.ExitQuit, err
	}
	exit, err := r.chooseExit(ctx)
	if err != nil {
		return answers, app.ExitQuit, err
	}
	return answers, exit, nil
}

// Fill collects answers for view until they validate and reports the success
// message.
func (r *Renderer) Fill(ctx context.Context, view tester.View) (tester.Answers, error) {
	if view.NoData {
		return nil, tester.ErrNoData
	}

	answers := make(tester.Answers, len(view.Fields))
	pending := view.Fields
	for attempt := 1; ; attempt++ {
		for _, field := range pending {
			answer, err := r.promptField(ctx, field, answers[field.ID])
			if err != nil {
				return nil, err
			}
			answers[field.ID] = answer
		}

		var failed []tester.Field
		for _, field := range view.Fields {
			msg := field.Evaluate(answers[field.ID])
			if msg == "" {
				continue
			}
			failed = append(failed, field)
			if err := r.warn(ctx, fmt.Sprintf("%s: %s", field.Label, msg)); err != nil {
				return nil, err
			}
		}
		if len(failed) == 0 {
			r.logger.Debug("submission accepted", zap.Int("attempts", attempt))
			return answers, r.info(ctx, tester.SubmittedMessage)
		}
		r.logger.Debug("submission rejected",
			zap.Int("attempt", attempt),
			zap.Int("failed", len(failed)),
		)
		pending = failed
	}
}

func (r *Renderer) promptField(ctx context.Context, field tester.Field, prev tester.Answer) (tester.Answer, error) {
	help := describeRules(field.Rules)

	switch field.Type {
	case model.QuestionTypeTrueFalse:
		checked, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: field.Label,
			Default: prev.Checked,
			Help:    help,
		})
		if err != nil {
			return tester.Answer{}, err
		}
		return tester.BoolAnswer(checked), nil

	case model.QuestionTypeNumber:
		def := ""
		if prev.HasNumber {
			def = formatNumber(prev.Number)
		}
		for {
			raw, err := r.driver.Input(ctx, InputConfig{
				Message: field.Label,
				Default: def,
				Help:    help,
			})
			if err != nil {
				return tester.Answer{}, err
			}
			answer, err := tester.ParseAnswer(field.Type, raw)
			if errors.Is(err, tester.ErrNotANumber) {
				if err := r.warn(ctx, "Please enter a number"); err != nil {
					return tester.Answer{}, err
				}
				continue
			}
			if err != nil {
				return tester.Answer{}, err
			}
			return answer, nil
		}

	default:
		raw, err := r.driver.Input(ctx, InputConfig{
			Message: field.Label,
			Default: prev.Text,
			Help:    help,
		})
		if err != nil {
			return tester.Answer{}, err
		}
		return tester.TextAnswer(raw), nil
	}
}

func (r *Renderer) chooseExit(ctx context.Context) (app.Exit, error) {
	idx, err := r.driver.Select(ctx, SelectConfig{
		Message: "What next?",
		Options: testerExits,
	})
	if err != nil {
		return app.ExitQuit, err
	}
	switch idx {
	case 0:
		return app.ExitRepeat, nil
	case 1:
		return app.ExitSwitch, nil
	default:
		return app.ExitQuit, nil
	}
}

func describeRules(rules []model.Validation) string {
	if len(rules) == 0 {
		return ""
	}
	parts := make([]string, 0, len(rules))
	for _, v := range rules {
		parts = append(parts, describeRule(v))
	}
	return strings.Join(parts, "; ")
}

func describeRule(v model.Validation) string {
	switch v.Type {
	case model.ValidationStartsWith:
		return `starts with "` + v.Pattern + `"`
	case model.ValidationContains:
		return `contains "` + v.Pattern + `"`
	case model.ValidationFromTo:
		return "between " + formatNumber(v.Range.From) + " and " + formatNumber(v.Range.To)
	default:
		return "required"
	}
}
