package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbuilder/pkg/app"
	"github.com/goliatone/go-formbuilder/pkg/renderers/tui"
	"github.com/goliatone/go-formbuilder/pkg/tester"
)

func newRunCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Open the builder and tester views (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runApp(cmd, opts)
		},
	}
}

func runApp(cmd *cobra.Command, opts *cliOptions) error {
	ctx := cmd.Context()
	ui, err := tui.New(tui.WithLogger(opts.logger.Named("tui")))
	if err != nil {
		return err
	}

	session, err := opts.openSession(ctx, ui)
	if err != nil {
		return err
	}
	defer session.Close()

	a, err := app.New(session.Store, session.Slot, session.Navigator, ui,
		app.WithLogger(opts.logger.Named("app")),
	)
	if err != nil {
		return err
	}
	return ignoreAbort(a.Run(ctx))
}

func newBuildCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Edit the stored form without the tester view",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			ui, err := tui.New(tui.WithLogger(opts.logger.Named("tui")))
			if err != nil {
				return err
			}
			session, err := opts.openSession(ctx, ui)
			if err != nil {
				return err
			}
			defer session.Close()

			for {
				if _, err := ui.Build(ctx, session.Store); err != nil {
					return ignoreAbort(err)
				}
				if !session.Store.HasUnsavedChanges() {
					return nil
				}
				leave, err := ui.Confirm(ctx, app.UnsavedChangesPrompt)
				if err != nil {
					return ignoreAbort(err)
				}
				if leave {
					return nil
				}
			}
		},
	}
}

func newTestCmd(opts *cliOptions) *cobra.Command {
	var answersPath string

	cmd := &cobra.Command{
		Use:   "test",
		Short: "Fill in the stored form and validate the answers",
		Long: `Without --answers the saved form is filled in interactively, asking again
for every answer that fails its rules. With --answers the values are read
from a JSON or YAML object keyed by question id or field name (question_<id>)
and validated once; the command fails when any answer is rejected.`,
		Args: cobra.NoArgs,
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

			if answersPath == "" {
				ui, err := tui.New(tui.WithLogger(opts.logger.Named("tui")))
				if err != nil {
					return err
				}
				_, err = ui.Fill(ctx, tester.Prepare(form))
				if errors.Is(err, tester.ErrNoData) {
					fmt.Fprintln(cmd.OutOrStdout(), tester.NoDataMessage)
					return nil
				}
				return ignoreAbort(err)
			}

			answers, err := readAnswers(answersPath, form)
			if err != nil {
				return err
			}
			result, err := tester.Submit(form, answers)
			if errors.Is(err, tester.ErrNoData) {
				fmt.Fprintln(cmd.OutOrStdout(), tester.NoDataMessage)
				return nil
			}
			if err != nil {
				return err
			}
			return reportResult(cmd.OutOrStdout(), form, result)
		},
	}
	cmd.Flags().StringVar(&answersPath, "answers", "", "JSON or YAML file with answers to validate")
	return cmd
}

func ignoreAbort(err error) error {
	if errors.Is(err, tui.ErrAborted) {
		return nil
	}
	return err
}
