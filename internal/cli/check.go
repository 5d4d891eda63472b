package cli

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/roach88/sqlgen/internal/sqlcheck"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
}

// CheckSummary holds per-query verification outcomes.
type CheckSummary struct {
	Queries []QueryCheck `json:"queries"`
	Failed  int          `json:"failed"`
}

// QueryCheck reports one query's verification outcome.
type QueryCheck struct {
	Name   string `json:"name"`
	OK     bool   `json:"ok"`
	SQL    string `json:"sql,omitempty"`
	Error  string `json:"error,omitempty"`
	Tables int    `json:"tables"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check <queries-dir>",
		Short: "Prepare compiled queries against an in-memory SQLite database",
		Long: `Check compiled queries against a real database engine.

Each query is generated with the sqlite dialect, stub tables are derived
from the statement tree, and the text is prepared in a throwaway
in-memory database. Queries that fail to prepare are reported.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, args[0], cmd)
		},
	}

	return cmd
}

func runCheck(opts *CheckOptions, queriesDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
		TraceID:   uuid.NewString(),
	}

	loadResult, loadErrors := LoadQueries(queriesDir, LoadModeCollectAll)
	if loadResult == nil && len(loadErrors) > 0 {
		var loadErr *LoadError
		if errors.As(loadErrors[0], &loadErr) {
			return outputCommandError(formatter, loadErr.Code, loadErr.Message, nil)
		}
		return outputCommandError(formatter, ErrCodeGeneric, loadErrors[0].Error(), nil)
	}
	if len(loadErrors) > 0 {
		return outputCompileErrors(formatter, loadErrors)
	}

	checker, err := sqlcheck.Open()
	if err != nil {
		return outputCommandError(formatter, ErrCodeCheckFailed, fmt.Sprintf("opening checker: %v", err), nil)
	}
	defer checker.Close()

	summary := &CheckSummary{}
	for _, named := range loadResult.Statements {
		formatter.VerboseLog("Checking query: %s", named.Name)
		outcome := QueryCheck{Name: named.Name, OK: true}
		result, checkErr := checker.Check(cmd.Context(), named.Statement)
		if checkErr != nil {
			outcome.OK = false
			outcome.Error = checkErr.Error()
			summary.Failed++
		} else {
			outcome.SQL = result.Command.Text
			outcome.Tables = len(result.Tables)
		}
		summary.Queries = append(summary.Queries, outcome)
	}

	if formatter.Format == "json" {
		if err := formatter.Success(summary); err != nil {
			return err
		}
	} else {
		for _, q := range summary.Queries {
			if q.OK {
				fmt.Fprintf(formatter.Writer, "✓ %s (%d stub table(s))\n", q.Name, q.Tables)
			} else {
				fmt.Fprintf(formatter.Writer, "✗ %s: %s\n", q.Name, q.Error)
			}
		}
		fmt.Fprintf(formatter.Writer, "\n%d quer%s, %d failed\n",
			len(summary.Queries), pluralYies(len(summary.Queries)), summary.Failed)
	}

	if summary.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d quer%s failed verification", summary.Failed, pluralYies(summary.Failed)))
	}
	return nil
}
