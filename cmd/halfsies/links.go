package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"

	"github.com/mmynk/halfsies/internal/models"
	"github.com/mmynk/halfsies/internal/urlstate"
)

type encodeCmd struct {
	out      io.Writer
	people   string
	expenses string
	base     string
}

func (*encodeCmd) Name() string     { return "encode" }
func (*encodeCmd) Synopsis() string { return "build a share link from people and expenses" }
func (*encodeCmd) Usage() string {
	return `halfsies encode -people <json> [-expenses <json>] [-base <url>]

  Prints the fragment encoding the state, or a full link when -base is set.
  Expenses use the short keys: n (name), pb (payer), i (participants),
  a (amount) and optionally s (shares).
`
}

func (c *encodeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.people, "people", "[]", "JSON list of names")
	f.StringVar(&c.expenses, "expenses", "[]", "JSON list of expenses")
	f.StringVar(&c.base, "base", "", "base URL for a full link")
}

func (c *encodeCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	var state models.State
	if err := json.Unmarshal([]byte(c.people), &state.People); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid -people: %v\n", err)
		return subcommands.ExitUsageError
	}
	if err := json.Unmarshal([]byte(c.expenses), &state.Expenses); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid -expenses: %v\n", err)
		return subcommands.ExitUsageError
	}
	if err := state.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	var (
		out string
		err error
	)
	if c.base != "" {
		out, err = urlstate.ShareURL(c.base, state)
	} else {
		out, err = urlstate.Fragment(state)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintln(c.out, out)
	return subcommands.ExitSuccess
}

type decodeCmd struct {
	out io.Writer
}

func (*decodeCmd) Name() string     { return "decode" }
func (*decodeCmd) Synopsis() string { return "print the state held by a share link" }
func (*decodeCmd) Usage() string {
	return `halfsies decode <url-or-fragment>

  Prints people and expenses as indented JSON. Legacy query links are
  decoded too.
`
}

func (*decodeCmd) SetFlags(*flag.FlagSet) {}

func (c *decodeCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: decode takes exactly one link")
		return subcommands.ExitUsageError
	}
	loc, err := locate(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	enc := json.NewEncoder(c.out)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(urlstate.Load(loc)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type migrateCmd struct {
	out io.Writer
}

func (*migrateCmd) Name() string     { return "migrate" }
func (*migrateCmd) Synopsis() string { return "rewrite a legacy query link to the fragment form" }
func (*migrateCmd) Usage() string {
	return `halfsies migrate <url>

  Prints the link a browser would end up on after opening <url>. Links that
  are not in the legacy ?p=&e= form are printed unchanged.
`
}

func (*migrateCmd) SetFlags(*flag.FlagSet) {}

func (c *migrateCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: migrate takes exactly one url")
		return subcommands.ExitUsageError
	}
	loc, err := urlstate.NewURLLocation(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	urlstate.Load(loc)
	fmt.Fprintln(c.out, loc.String())
	return subcommands.ExitSuccess
}
