package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/tikey/internal/cli/output"
)

const (
	replPrompt         = "tikey> "
	replContinuePrompt = "  ...> "
)

// lineReader is the part of *readline.Instance the REPL loop uses.
type lineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
}

// NewReplCommand creates the repl command.
func NewReplCommand() *cobra.Command {
	var historyFile string
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Check statements interactively",
		Long: `Start an interactive session that checks each statement as it is
entered. Statements end with a semicolon and may span lines.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			if historyFile == "" {
				historyFile = defaultHistoryFile()
			}

			rl, err := readline.NewEx(&readline.Config{
				Prompt:          replPrompt,
				HistoryFile:     historyFile,
				AutoComplete:    replCompleter(),
				InterruptPrompt: "^C",
				EOFPrompt:       ".quit",
			})
			if err != nil {
				return fmt.Errorf("failed to initialize REPL: %w", err)
			}
			defer func() { _ = rl.Close() }()

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "tikey REPL (dialect: %s)\n", cmdCtx.Checker.Dialect().Name())
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Type .help for commands, .quit to exit")
			_, _ = fmt.Fprintln(cmd.OutOrStdout())

			return replLoop(rl, cmdCtx)
		},
	}
	cmd.Flags().StringVar(&historyFile, "history", "", "History file (default: user cache dir)")
	return cmd
}

func defaultHistoryFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	dir = filepath.Join(dir, "tikey")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return ""
	}
	return filepath.Join(dir, "history")
}

// replLoop reads statements until EOF or .quit and reports each one as it
// completes. Check errors are printed and the loop continues.
func replLoop(rl lineReader, cmdCtx *CommandContext) error {
	r := cmdCtx.Renderer
	var buf strings.Builder
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			buf.Reset()
			rl.SetPrompt(replPrompt)
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if buf.Len() == 0 && strings.HasPrefix(line, ".") {
			if quit := handleDotCommand(r, line); quit {
				return nil
			}
			continue
		}

		buf.WriteString(line)
		if !statementComplete(buf.String(), line) {
			buf.WriteString("\n")
			rl.SetPrompt(replContinuePrompt)
			continue
		}
		rl.SetPrompt(replPrompt)

		sql := buf.String()
		buf.Reset()

		summary, infos, err := cmdCtx.Checker.CheckStatements(sql)
		if err != nil {
			r.Error(err.Error())
			continue
		}
		if len(infos) == 0 {
			r.Success(fmt.Sprintf("%d statement(s), no findings", summary.SQLCount))
			continue
		}
		if err := output.WriteReport(r.Writer(), output.ModeText, output.NewReport(summary, infos)); err != nil {
			return err
		}
	}
}

// statementComplete reports whether the buffered input ends a statement.
// A DELIMITER block only ends with the line restoring the delimiter.
func statementComplete(buffered, line string) bool {
	if strings.HasPrefix(strings.ToLower(buffered), "delimiter") {
		return strings.EqualFold(strings.Join(strings.Fields(line), " "), "delimiter ;")
	}
	return strings.HasSuffix(line, ";")
}

// handleDotCommand runs a dot-command and reports whether the REPL should
// exit.
func handleDotCommand(r *output.Renderer, line string) bool {
	command := strings.ToLower(strings.Fields(line)[0])
	switch command {
	case ".quit", ".exit":
		return true
	case ".help":
		printREPLHelp(r.Writer())
	default:
		r.Error(fmt.Sprintf("Unknown command: %s (type .help for commands)", command))
	}
	return false
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help           Show this help message
  .quit / .exit   Exit the REPL

Tips:
  - Statements must end with a semicolon (;)
  - DELIMITER blocks are checked once the closing "delimiter ;" line ends
  - Use arrow keys to navigate history
`
	_, _ = fmt.Fprintln(w, help)
}

func replCompleter() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem(".help"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
}
