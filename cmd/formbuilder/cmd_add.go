package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

func newAddCmd(opts *cliOptions) *cobra.Command {
	var (
		text  string
		qtype string
		rules []string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append a question to the stored form and save it",
		Long: `Appends one question without opening the builder. Rules are given as
<kind> or <kind>=<value>:

  --rule required
  --rule startswith=PRJ-
  --rule contains=@
  --rule fromto=1:10

Rules go through the same checks as in the builder; a rejected range
leaves the stored form untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			questionType, err := model.ParseQuestionType(qtype)
			if err != nil {
				return err
			}
			parsed := make([]model.Validation, 0, len(rules))
			for _, raw := range rules {
				rule, err := parseRule(raw)
				if err != nil {
					return err
				}
				if !rule.Type.AppliesTo(questionType) {
					return fmt.Errorf("rule %s does not apply to %s questions", rule.Type, questionType)
				}
				parsed = append(parsed, rule)
			}

			ctx := cmd.Context()
			session, err := opts.openSession(ctx, nil)
			if err != nil {
				return err
			}
			defer session.Close()

			store := session.Store
			id, err := store.AddQuestion(ctx)
			if err != nil {
				return err
			}
			if err := store.SetText(ctx, id, text); err != nil {
				return err
			}
			if err := store.SetType(ctx, id, questionType); err != nil {
				return err
			}
			for _, rule := range parsed {
				if err := store.ToggleValidation(ctx, id, rule.Type, true); err != nil {
					return err
				}
				var err error
				switch rule.Type {
				case model.ValidationStartsWith, model.ValidationContains:
					err = store.SetPattern(ctx, id, rule.Type, rule.Pattern)
				case model.ValidationFromTo:
					err = store.SetRange(ctx, id, rule.Range)
				}
				if err != nil {
					return err
				}
			}
			if err := store.Save(ctx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added question %d\n", id)
			return nil
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "question text")
	cmd.Flags().StringVar(&qtype, "type", string(model.QuestionTypeText), "question type (text, number, true/false)")
	cmd.Flags().StringArrayVar(&rules, "rule", nil, "validation rule, repeatable")
	return cmd
}

// parseRule reads "<kind>" or "<kind>=<value>". FromTo values are "<from>:<to>".
func parseRule(raw string) (model.Validation, error) {
	kind, value, _ := strings.Cut(raw, "=")
	t, err := model.ParseValidationType(kind)
	if err != nil {
		return model.Validation{}, err
	}

	rule := model.DefaultValidation(t)
	switch t {
	case model.ValidationStartsWith, model.ValidationContains:
		rule.Pattern = value
	case model.ValidationFromTo:
		from, to, ok := strings.Cut(value, ":")
		if !ok {
			return model.Validation{}, fmt.Errorf("rule %s needs <from>:<to>, got %q", t, value)
		}
		if rule.Range.From, err = strconv.ParseFloat(strings.TrimSpace(from), 64); err != nil {
			return model.Validation{}, fmt.Errorf("rule %s: bad from %q", t, from)
		}
		if rule.Range.To, err = strconv.ParseFloat(strings.TrimSpace(to), 64); err != nil {
			return model.Validation{}, fmt.Errorf("rule %s: bad to %q", t, to)
		}
	}
	return rule, nil
}
