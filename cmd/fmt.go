package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"slices"

	"github.com/etnz/stocklog"
	"github.com/google/subcommands"
)

type fmtCmd struct{}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and formats the ledger into a canonical form"
}
func (*fmtCmd) Usage() string {
	return `stk fmt

  Validates and formats the ledger. This command reads all transactions,
  normalizes and validates them, matches the lots to report over-sells,
  sorts them by date (keeping the order of same day transactions), and
  writes them back.
`
}

func (*fmtCmd) SetFlags(*flag.FlagSet) {}

func (*fmtCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(ctx, func(a *app) error {
		txs, err := a.journal.List(ctx)
		if err != nil {
			return err
		}
		if len(txs) == 0 {
			fmt.Fprintln(os.Stderr, "Warning: the ledger is empty.")
			return nil
		}
		for i, tx := range txs {
			txs[i] = tx.Normalize()
		}
		book, err := stocklog.Match(txs, stocklog.MatchOptions{TolerateOverSell: a.config.Matching.TolerateOverSell})
		if err != nil {
			return err
		}
		for _, w := range book.Warnings {
			fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
		}

		slices.SortStableFunc(txs, func(a, b stocklog.Transaction) int { return a.Date.Compare(b.Date) })
		if _, err := a.journal.Import(ctx, txs, true); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Formatted %d transactions.\n", len(txs))
		return nil
	})
}
