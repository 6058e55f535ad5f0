// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"
)

// Command is one node of the command tree.
type Command struct {
	// Name is the word that selects this command (e.g. "set").
	Name string

	// Summary is the one-line description listed in the parent's help.
	Summary string

	// Description heads the command's own help. Summary is used when
	// empty.
	Description string

	// Usage overrides the synthesized usage line.
	Usage string

	Examples []Example

	// Flags builds the command's flag set. It is called once per parse
	// and once per help render, so it must bind to the same params
	// struct each time.
	Flags func() *pflag.FlagSet

	Subcommands []*Command

	// Run receives the positional arguments left after flags. A
	// command with both Run and Subcommands runs Run for arguments
	// naming no subcommand.
	Run func(ctx context.Context, args []string) error

	// HelpOutput receives help text. Unset commands use their
	// parent's, and the root defaults to stderr.
	HelpOutput io.Writer

	parent *Command
}

// Example is one entry of the Examples section of help.
type Example struct {
	Description string
	Command     string
}

// UsageError is a command line that could not be dispatched.
type UsageError struct {
	// Command is the full path of the command that rejected the line.
	Command string

	Problem string

	// Suggestion, when set, is the closest valid spelling.
	Suggestion string
}

func (e *UsageError) Error() string {
	var message strings.Builder
	message.WriteString(e.Problem)
	if e.Suggestion != "" {
		fmt.Fprintf(&message, " (did you mean %s?)", e.Suggestion)
	}
	fmt.Fprintf(&message, "\n\nRun '%s --help' for usage.", e.Command)
	return message.String()
}

// Execute runs the command selected by args.
func (c *Command) Execute(ctx context.Context, args []string) error {
	if len(args) > 0 && isHelpFlag(args[0]) {
		c.PrintHelp(c.helpOutput())
		return nil
	}

	if len(c.Subcommands) > 0 {
		if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
			if sub := c.subcommand(args[0]); sub != nil {
				return sub.Execute(ctx, args[1:])
			}
			if c.Run == nil {
				return c.usageError(fmt.Sprintf("unknown command %q", args[0]),
					quoted(suggestCommand(args[0], c.Subcommands)))
			}
		}
		if c.Run == nil {
			c.PrintHelp(c.helpOutput())
			if len(args) == 0 {
				return fmt.Errorf("subcommand required")
			}
			return fmt.Errorf("subcommand required (got flag %q)", args[0])
		}
	}

	positional, err := c.parseFlags(args)
	if errors.Is(err, pflag.ErrHelp) {
		c.PrintHelp(c.helpOutput())
		return nil
	}
	if err != nil {
		return err
	}
	if c.Run == nil {
		c.PrintHelp(c.helpOutput())
		return fmt.Errorf("no action defined for %q", c.fullName())
	}
	return c.Run(ctx, positional)
}

func (c *Command) subcommand(name string) *Command {
	for _, sub := range c.Subcommands {
		if sub.Name == name {
			sub.parent = c
			return sub
		}
	}
	return nil
}

func (c *Command) parseFlags(args []string) ([]string, error) {
	if c.Flags == nil {
		return args, nil
	}
	flagSet := c.Flags()
	flagSet.SetOutput(io.Discard)
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, err
		}
		problem := err.Error()
		var suggestion string
		if strings.HasPrefix(problem, "unknown flag") || strings.HasPrefix(problem, "unknown shorthand flag") {
			suggestion = suggestFlag(args, c.Flags())
		}
		return nil, c.usageError(problem, suggestion)
	}
	return flagSet.Args(), nil
}

func (c *Command) usageError(problem, suggestion string) *UsageError {
	return &UsageError{Command: c.fullName(), Problem: problem, Suggestion: suggestion}
}

func quoted(name string) string {
	if name == "" {
		return ""
	}
	return fmt.Sprintf("%q", name)
}

// PrintHelp writes the command's help to w.
func (c *Command) PrintHelp(w io.Writer) {
	name := c.fullName()

	if heading := cmp.Or(c.Description, c.Summary); heading != "" {
		fmt.Fprintf(w, "%s\n\n", heading)
	}

	usage := c.Usage
	if usage == "" {
		usage = name + " [flags]"
		if len(c.Subcommands) > 0 {
			usage = name + " <command> [flags]"
		}
	}
	fmt.Fprintf(w, "Usage:\n  %s\n", usage)

	if len(c.Subcommands) > 0 {
		fmt.Fprint(w, "\nCommands:\n")
		table := tabwriter.NewWriter(w, 2, 0, 3, ' ', 0)
		for _, sub := range c.Subcommands {
			fmt.Fprintf(table, "  %s\t%s\n", sub.Name, sub.Summary)
		}
		table.Flush()
	}

	if c.Flags != nil {
		if defaults := c.Flags().FlagUsages(); defaults != "" {
			fmt.Fprintf(w, "\nFlags:\n%s", defaults)
		}
	}

	if len(c.Examples) > 0 {
		fmt.Fprint(w, "\nExamples:\n")
		for _, example := range c.Examples {
			if example.Description == "" {
				fmt.Fprintf(w, "  %s\n", example.Command)
				continue
			}
			fmt.Fprintf(w, "  # %s\n  %s\n\n", example.Description, example.Command)
		}
	}

	if len(c.Subcommands) > 0 {
		fmt.Fprintf(w, "\nRun '%s <command> --help' for more information on a command.\n", name)
	}
}

func (c *Command) helpOutput() io.Writer {
	for command := c; command != nil; command = command.parent {
		if command.HelpOutput != nil {
			return command.HelpOutput
		}
	}
	return os.Stderr
}

// fullName is the command path as typed, e.g. "marquee set text".
func (c *Command) fullName() string {
	if c.parent == nil {
		return c.Name
	}
	return c.parent.fullName() + " " + c.Name
}

func isHelpFlag(arg string) bool {
	switch arg {
	case "-h", "--help", "help":
		return true
	}
	return false
}
