package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/roach88/sqlgen/internal/compiler"
	"github.com/roach88/sqlgen/internal/querysql"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Dialect string // target dialect name
	Output  string // output directory for .sql files
}

// CompiledQuery is one generated statement in the compilation result.
type CompiledQuery struct {
	Name   string           `json:"name"`
	SQL    string           `json:"sql"`
	Params []querysql.Param `json:"params,omitempty"`
}

// CompilationResult holds the generated statements.
type CompilationResult struct {
	Dialect string          `json:"dialect"`
	Queries []CompiledQuery `json:"queries"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <queries-dir>",
		Short: "Compile CUE query definitions to SQL",
		Long: `Compile CUE query definitions to SQL text with parameter bindings.

The compiler parses CUE files, builds statement trees, and generates
dialect-specific SQL. Each statement's parameters are listed in
first-use order.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Dialect, "dialect", "d", "standard", "target dialect (standard|sqlite)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "directory to write one .sql file per query")

	return cmd
}

func runCompile(opts *CompileOptions, queriesDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
		TraceID:   uuid.NewString(),
	}

	newDialect, ok := querysql.Dialects[opts.Dialect]
	if !ok {
		return outputCommandError(formatter, ErrCodeUnknownDialect,
			fmt.Sprintf("unknown dialect %q", opts.Dialect), nil)
	}
	dialect := newDialect()

	// Use shared loader with collect-all mode
	loadResult, loadErrors := LoadQueries(queriesDir, LoadModeCollectAll)

	// Handle load errors (directory not found, no files, etc.)
	if loadResult == nil && len(loadErrors) > 0 {
		var loadErr *LoadError
		if errors.As(loadErrors[0], &loadErr) {
			return outputCommandError(formatter, loadErr.Code, loadErr.Message, nil)
		}
		return outputCommandError(formatter, ErrCodeGeneric, loadErrors[0].Error(), nil)
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, queriesDir)

	// Handle compilation errors
	if len(loadErrors) > 0 {
		return outputCompileErrors(formatter, loadErrors)
	}

	result := &CompilationResult{Dialect: dialect.Name()}
	for _, named := range loadResult.Statements {
		formatter.VerboseLog("Generating SQL for query: %s", named.Name)
		command, err := querysql.Generate(dialect, named.Statement)
		if err != nil {
			return outputCommandError(formatter, ErrCodeGenerateFailed,
				fmt.Sprintf("query %s: %v", named.Name, err), nil)
		}
		result.Queries = append(result.Queries, CompiledQuery{
			Name:   named.Name,
			SQL:    command.Text,
			Params: command.Params,
		})
	}

	// Write to directory if --output specified
	if opts.Output != "" {
		if err := writeSQLFiles(result, opts.Output); err != nil {
			return outputCommandError(formatter, ErrCodeWriteFailed, fmt.Sprintf("writing output: %v", err), nil)
		}
	}

	// Output success
	return outputCompileSuccess(formatter, result, opts.Output)
}

// outputCompileSuccess outputs successful compilation results.
func outputCompileSuccess(formatter *OutputFormatter, result *CompilationResult, outputDir string) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	// Human-readable text output
	fmt.Fprintf(formatter.Writer, "✓ Compiled %d quer%s for dialect %s\n\n",
		len(result.Queries), pluralYies(len(result.Queries)), result.Dialect)

	for _, q := range result.Queries {
		fmt.Fprintf(formatter.Writer, "-- %s (%d param(s))\n%s\n\n", q.Name, len(q.Params), q.SQL)
	}

	if outputDir != "" {
		fmt.Fprintf(formatter.Writer, "Wrote %d .sql file(s) to %s\n", len(result.Queries), outputDir)
	}

	return nil
}

func pluralYies(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}

// outputCommandError outputs a single command-level error.
func outputCommandError(formatter *OutputFormatter, code, message string, details interface{}) error {
	_ = formatter.Error(code, message, details)
	return WrapExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message), nil)
}

// outputCompileErrors outputs multiple compilation errors.
func outputCompileErrors(formatter *OutputFormatter, errs []error) error {
	if formatter.Format == "json" {
		// JSON format - use CLIResponse with first error
		cliErrors := make([]CLIError, len(errs))
		for i, err := range errs {
			code, message := parseCompileError(err)
			cliErrors[i] = CLIError{
				Code:    code,
				Message: message,
			}
		}

		response := CLIResponse{
			Status:  "error",
			Error:   &cliErrors[0],
			Data:    cliErrors, // Include all errors in data
			TraceID: formatter.TraceID,
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		return NewExitError(ExitCommandError, fmt.Sprintf("compilation failed with %d error(s)", len(errs)))
	}

	// Text format
	fmt.Fprintln(formatter.Writer, "✗ Compilation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		code, message := parseCompileError(err)
		var compileErr *compiler.CompileError
		if errors.As(err, &compileErr) && compileErr.Pos.IsValid() {
			fmt.Fprintf(formatter.Writer, "%s:%d:%d\n",
				compileErr.Pos.Filename(),
				compileErr.Pos.Line(),
				compileErr.Pos.Column())
		}
		var loadErr *LoadError
		if errors.As(err, &loadErr) && loadErr.Pos.IsValid() {
			fmt.Fprintf(formatter.Writer, "%s:%d:%d\n",
				loadErr.Pos.Filename(),
				loadErr.Pos.Line(),
				loadErr.Pos.Column())
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", code, message)
	}

	return NewExitError(ExitCommandError, fmt.Sprintf("compilation failed with %d error(s)", len(errs)))
}

// parseCompileError extracts error code and message from an error.
func parseCompileError(err error) (string, string) {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		code := MapFieldToErrorCode(compileErr.Field)
		return code, compileErr.Message
	}
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Code, loadErr.Message
	}
	return ErrCodeGeneric, err.Error()
}

// writeSQLFiles writes one .sql file per query into the output directory.
func writeSQLFiles(result *CompilationResult, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	for _, q := range result.Queries {
		path := filepath.Join(dir, q.Name+".sql")
		if err := os.WriteFile(path, []byte(q.SQL+"\n"), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return nil
}
