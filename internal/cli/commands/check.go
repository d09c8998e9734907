package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/tikey/internal/cli/config"
	"github.com/leapstack-labs/tikey/internal/cli/output"
	"github.com/leapstack-labs/tikey/pkg/ast"
	"github.com/leapstack-labs/tikey/pkg/compat"
)

// ErrFindings is returned when findings reach the --fail-on threshold.
var ErrFindings = errors.New("compatibility findings")

// Target is what the check input names.
type Target int

// Check targets.
const (
	TargetStatement Target = iota
	TargetFile
	TargetDir
)

func (t Target) String() string {
	switch t {
	case TargetStatement:
		return "statement"
	case TargetFile:
		return "file"
	case TargetDir:
		return "dir"
	default:
		return fmt.Sprintf("Target(%d)", int(t))
	}
}

// CheckOptions holds options for the check command.
type CheckOptions struct {
	Input    string // SQL text, file path or directory path
	Watch    bool
	DumpTree bool
}

// NewCheckCommand creates the check command with its statement, file and
// dir subcommands.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check MySQL SQL for TiDB compatibility",
		Long: `Check SQL text, a file or a directory of .sql files and report
constructs TiDB does not support.

The report is a summary table followed by one table per finding. It goes
to stdout unless -o is given; a bare -o writes report.txt.`,
		Example: `  # Check one statement
  tikey check statement -i "create procedure p() select 1;"

  # Check a dump and save the report
  tikey check file -i dump.sql -o

  # Check every .sql file under a directory as JSON
  tikey check dir -i ./schema --format json

  # Re-check on every change
  tikey check dir -i ./schema --watch`,
	}

	cmd.PersistentFlags().StringVarP(&opts.Input, "input", "i", "", "SQL text, file path or directory path (required)")
	cmd.PersistentFlags().StringP("out", "o", "", "Write the report to a file (bare -o: "+config.DefaultReportFile+")")
	cmd.PersistentFlags().Lookup("out").NoOptDefVal = config.DefaultReportFile
	cmd.PersistentFlags().StringP("format", "f", "", "Report format: text, markdown, json, yaml")
	cmd.PersistentFlags().String("fail-on", "", "Exit non-zero on findings: none, warning, error")
	cmd.PersistentFlags().StringSlice("disable", nil, "Rule uids to disable")
	cmd.PersistentFlags().BoolVar(&opts.DumpTree, "dump-tree", false, "Print each statement's tree as JSON")
	_ = cmd.MarkPersistentFlagRequired("input")

	cmd.AddCommand(newCheckTargetCommand(TargetStatement, opts))
	cmd.AddCommand(newCheckTargetCommand(TargetFile, opts))
	cmd.AddCommand(newCheckTargetCommand(TargetDir, opts))

	return cmd
}

func newCheckTargetCommand(target Target, opts *CheckOptions) *cobra.Command {
	short := map[Target]string{
		TargetStatement: "Check SQL statements given as text",
		TargetFile:      "Check one SQL file",
		TargetDir:       "Check every .sql file under a directory",
	}
	cmd := &cobra.Command{
		Use:   target.String(),
		Short: short[target],
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(cmd, target, opts)
		},
	}
	if target != TargetStatement {
		cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-check when files change")
		cmd.Flags().Duration("debounce", config.DefaultDebounce, "Delay before re-checking after a change")
	}
	return cmd
}

func runCheck(cmd *cobra.Command, target Target, opts *CheckOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	if opts.Watch {
		return runWatch(cmd.Context(), cmdCtx, target, opts)
	}

	summary, infos, err := checkTarget(cmd.Context(), cmdCtx.Checker, target, opts.Input)
	if err != nil {
		return err
	}
	if opts.DumpTree {
		if err := dumpTrees(cmdCtx, target, opts.Input); err != nil {
			return err
		}
	}
	if err := writeReport(cmdCtx, summary, infos); err != nil {
		return err
	}
	return failOn(cmdCtx.Cfg.FailOn, summary)
}

// checkTarget resolves the input to one of the orchestrator entry points.
func checkTarget(ctx context.Context, c *compat.Checker, target Target, input string) (compat.Summary, []compat.OnceInfo, error) {
	switch target {
	case TargetStatement:
		return c.CheckStatements(input)
	case TargetFile:
		return c.CheckFile(input)
	case TargetDir:
		files, err := compat.CollectSQLFiles(input)
		if err != nil {
			return compat.Summary{}, nil, err
		}
		return c.CheckFiles(ctx, files)
	default:
		return compat.Summary{}, nil, fmt.Errorf("unknown check target %s", target)
	}
}

// writeReport writes to the configured report file, or through the
// renderer when none is set. Files get text tables unless a format is set.
func writeReport(cmdCtx *CommandContext, summary compat.Summary, infos []compat.OnceInfo) error {
	rep := output.NewReport(summary, infos)
	path := cmdCtx.Cfg.Out
	if path == "" {
		return cmdCtx.Renderer.Report(rep)
	}

	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return fmt.Errorf("report path %s is a directory", path)
	}
	mode, err := output.ParseMode(cmdCtx.Cfg.Output)
	if err != nil {
		return err
	}
	if mode == output.ModeAuto {
		mode = output.ModeText
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	if err := output.WriteReport(f, mode, rep); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	cmdCtx.Logger.Debug("report written", "path", path, "findings", len(rep.Findings))
	return nil
}

// failOn applies the exit policy to a finished run.
func failOn(policy string, summary compat.Summary) error {
	fail := false
	switch strings.ToLower(policy) {
	case config.FailOnError:
		fail = summary.Errors > 0
	case config.FailOnWarning:
		fail = summary.Findings() > 0
	}
	if fail {
		return fmt.Errorf("%w: %d errors, %d warnings", ErrFindings, summary.Errors, summary.Warnings)
	}
	return nil
}

// dumpTrees prints the serialized tree of every statement of the input.
func dumpTrees(cmdCtx *CommandContext, target Target, input string) error {
	sources := map[string]string{}
	var order []string
	switch target {
	case TargetStatement:
		order = []string{""}
		sources[""] = input
	default:
		files, err := compat.CollectSQLFiles(input)
		if err != nil {
			return err
		}
		for _, path := range files {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("at file: %s: %w", path, err)
			}
			order = append(order, path)
			sources[path] = string(data)
		}
	}

	r := cmdCtx.Renderer
	for _, name := range order {
		stmts, err := cmdCtx.Checker.Parse(sources[name])
		if err != nil {
			return err
		}
		for i, stmt := range stmts {
			v, err := ast.ToTree(stmt)
			if err != nil {
				return fmt.Errorf("statement %d: %w", i+1, err)
			}
			if name != "" {
				r.Muted(fmt.Sprintf("-- %s #%d", name, i+1))
			}
			if err := r.JSON(v); err != nil {
				return err
			}
		}
	}
	return nil
}
