package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/Rhymond/go-money"
	"github.com/google/subcommands"

	"github.com/mmynk/halfsies/internal/calculator"
	"github.com/mmynk/halfsies/internal/urlstate"
)

type settleCmd struct {
	out      io.Writer
	currency string
}

func (*settleCmd) Name() string     { return "settle" }
func (*settleCmd) Synopsis() string { return "print balances and the transfers that settle them" }
func (*settleCmd) Usage() string {
	return `halfsies settle [-currency <code>] <url-or-fragment>

  Prints each member's paid, owed and net amounts, then the transfers that
  bring everyone to zero. The currency only affects formatting.
`
}

func (c *settleCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.currency, "currency", money.EUR, "ISO 4217 code used to format amounts")
}

func (c *settleCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: settle takes exactly one link")
		return subcommands.ExitUsageError
	}
	code := strings.ToUpper(c.currency)
	if money.GetCurrency(code) == nil {
		fmt.Fprintf(os.Stderr, "Error: unknown currency %q\n", c.currency)
		return subcommands.ExitUsageError
	}
	loc, err := locate(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	state := urlstate.Load(loc)
	if len(state.People) == 0 {
		fmt.Fprintln(os.Stderr, "Error: link holds no people")
		return subcommands.ExitFailure
	}

	display := func(amount float64) string {
		return money.NewFromFloat(amount, code).Display()
	}

	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MEMBER\tPAID\tOWED\tNET")
	for _, m := range calculator.Summarize(state.People, state.Expenses) {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", m.Name, display(m.TotalPaid), display(m.TotalOwed), display(m.NetBalance))
	}
	w.Flush()

	balances := calculator.ComputeBalances(state.People, state.Expenses)
	transfers := calculator.ComputeSettlements(balances, state.People)

	fmt.Fprintln(c.out)
	if len(transfers) == 0 {
		fmt.Fprintln(c.out, "All settled up.")
		return subcommands.ExitSuccess
	}
	for _, t := range transfers {
		fmt.Fprintf(c.out, "%s -> %s: %s\n", t.From, t.To, display(t.Amount))
	}
	return subcommands.ExitSuccess
}
