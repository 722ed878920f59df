package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/pflag"
)

type command struct {
	summary string
	run     func(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error
}

var commands = map[string]command{
	"add":        {"Log a solved problem", runAdd},
	"list":       {"List problems, newest first", runList},
	"due":        {"Show problems due for revision", runDue},
	"stats":      {"Show statistics", runStats},
	"show":       {"Show one problem with details: show <id>", runShow},
	"revise":     {"Mark a problem as revised: revise <id>", runRevise},
	"delete":     {"Delete a problem: delete <id> [--yes]", runDelete},
	"quarantine": {"Show or clear the copy of a malformed stored list: quarantine [--clear]", runQuarantine},
	"import":     {"Import markdown problem logs: import <dir|git-url>", runImport},
	"serve":      {"Serve the web UI", runServe},
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "problemlog: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		usage(stdout)
		return nil
	}
	cmd, ok := commands[args[0]]
	if !ok {
		usage(stdout)
		return fmt.Errorf("unknown command %q", args[0])
	}
	err := cmd.run(ctx, args[1:], stdin, stdout)
	if errors.Is(err, pflag.ErrHelp) {
		return nil
	}
	return err
}

func usage(w io.Writer) {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("Usage: problemlog <command> [flags]\n\nCommands:\n")
	for _, name := range names {
		fmt.Fprintf(&b, "  %-10s %s\n", name, commands[name].summary)
	}
	b.WriteString("\nRun 'problemlog <command> --help' for flags.\n")
	io.WriteString(w, b.String())
}
