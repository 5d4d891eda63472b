package cli

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/roach88/sqlgen/internal/querysql"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
}

// ValidationSummary holds per-query validation outcomes.
type ValidationSummary struct {
	Queries []QueryValidation `json:"queries"`
	Failed  int               `json:"failed"`
}

// QueryValidation reports one query's outcome.
type QueryValidation struct {
	Name  string `json:"name"`
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <queries-dir>",
		Short: "Validate CUE query definitions without emitting SQL",
		Long: `Validate CUE query definitions.

Each query is compiled to a statement tree and dry-run through the
generator, so both malformed CUE and statement shapes the generator
rejects (outer-join update targets, paginated delete sources, ...) are
reported.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *ValidateOptions, queriesDir string, cmd *cobra.Command) error {
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

	summary := &ValidationSummary{}
	for _, named := range loadResult.Statements {
		outcome := QueryValidation{Name: named.Name, Valid: true}
		if _, err := querysql.Generate(querysql.Standard{}, named.Statement); err != nil {
			outcome.Valid = false
			outcome.Error = err.Error()
			summary.Failed++
		}
		summary.Queries = append(summary.Queries, outcome)
	}

	if formatter.Format == "json" {
		if err := formatter.Success(summary); err != nil {
			return err
		}
	} else {
		for _, q := range summary.Queries {
			if q.Valid {
				fmt.Fprintf(formatter.Writer, "✓ %s\n", q.Name)
			} else {
				fmt.Fprintf(formatter.Writer, "✗ %s: %s\n", q.Name, q.Error)
			}
		}
		fmt.Fprintf(formatter.Writer, "\n%d quer%s, %d failed\n",
			len(summary.Queries), pluralYies(len(summary.Queries)), summary.Failed)
	}

	if summary.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d quer%s failed validation", summary.Failed, pluralYies(summary.Failed)))
	}
	return nil
}
