package main

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formbuilder/pkg/export"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/renderers/html"
	"github.com/goliatone/go-formbuilder/pkg/tester"
)

func newRenderCmd(opts *cliOptions) *cobra.Command {
	var (
		answersPath  string
		submission   string
		templatesDir string
		out          string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the tester view of the stored form as HTML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			session, err := opts.openSession(ctx, nil)
			if err != nil {
				return err
			}
			defer session.Close()

			form, err := tester.Load(ctx, session.Slot)
			if err != nil {
				return err
			}

			var htmlOpts []html.Option
			if templatesDir != "" {
				htmlOpts = append(htmlOpts, html.WithTemplatesDir(templatesDir))
			}
			renderer, err := html.New(htmlOpts...)
			if err != nil {
				return err
			}

			if submission != "" {
				values, err := url.ParseQuery(submission)
				if err != nil {
					return fmt.Errorf("parse --submit: %w", err)
				}
				page, _, err := renderer.RenderSubmission(ctx, form, values)
				if err != nil {
					return err
				}
				return writeOutput(cmd, out, page)
			}

			var state html.State
			if answersPath != "" && !form.Empty() {
				answers, err := readAnswers(answersPath, form)
				if err != nil {
					return err
				}
				result := tester.Validate(form, answers)
				state = html.State{Answers: answers, Result: &result}
			}

			page, err := renderer.Render(ctx, tester.Prepare(form), state)
			if err != nil {
				return err
			}
			return writeOutput(cmd, out, page)
		},
	}
	cmd.Flags().StringVar(&answersPath, "answers", "", "JSON or YAML answers rendered as a submission")
	cmd.Flags().StringVar(&submission, "submit", "", "form-encoded submission (question_<id>=value&...) rendered with its outcome")
	cmd.Flags().StringVar(&templatesDir, "templates", "", "directory overriding the embedded templates")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (stdout if empty)")
	return cmd
}

func newExportCmd(opts *cliOptions) *cobra.Command {
	var (
		format  string
		title   string
		version string
		path    string
		out     string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the stored form as an OpenAPI document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			session, err := opts.openSession(ctx, nil)
			if err != nil {
				return err
			}
			defer session.Close()

			form, err := tester.Load(ctx, session.Slot)
			if err != nil {
				return err
			}
			payload, err := export.Encode(export.Document(form,
				export.WithTitle(title),
				export.WithVersion(version),
				export.WithPath(path),
			), f)
			if err != nil {
				return err
			}
			return writeOutput(cmd, out, payload)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "document format (json, yaml)")
	cmd.Flags().StringVar(&title, "title", "", "info.title of the document")
	cmd.Flags().StringVar(&version, "version", "", "info.version of the document")
	cmd.Flags().StringVar(&path, "route", "", "path of the submit operation")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (stdout if empty)")
	return cmd
}

func newShowCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the stored form document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			session, err := opts.openSession(ctx, nil)
			if err != nil {
				return err
			}
			defer session.Close()

			raw, ok, err := session.Slot.Raw(ctx)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), tester.NoDataMessage)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), raw)
			return nil
		},
	}
}

func newResetCmd(opts *cliOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Remove the stored form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errors.New("reset removes the stored form; pass --yes to confirm")
			}
			ctx := cmd.Context()
			session, err := opts.openSession(ctx, nil)
			if err != nil {
				return err
			}
			defer session.Close()

			if err := session.Slot.Clear(ctx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed form %q\n", session.Slot.Key())
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm removal")
	return cmd
}

// readAnswers decodes a JSON or YAML object of answers for form.
func readAnswers(path string, form model.Form) (tester.Answers, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read answers: %w", err)
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse answers %q: %w", path, err)
	}
	return tester.DecodeAnswers(form, raw)
}

// reportResult prints the failing answers, or the success message when
// there are none.
func reportResult(w io.Writer, form model.Form, result tester.Result) error {
	if result.Valid() {
		fmt.Fprintln(w, tester.SubmittedMessage)
		return nil
	}
	view := tester.Prepare(form)
	var failed []string
	for _, field := range view.Fields {
		if msg := result.Message(field.ID); msg != "" {
			fmt.Fprintf(w, "%s: %s\n", field.Label, msg)
			failed = append(failed, field.Name)
		}
	}
	return fmt.Errorf("submission rejected: %s", strings.Join(failed, ", "))
}

func writeOutput(cmd *cobra.Command, path string, payload []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(payload)
		return err
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Written to %s\n", path)
	return nil
}
