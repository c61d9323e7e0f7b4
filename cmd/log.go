package cmd

import (
	"context"
	"flag"
	"slices"

	"github.com/etnz/stocklog"
	"github.com/etnz/stocklog/date"
	"github.com/etnz/stocklog/renderer"
	"github.com/google/subcommands"
)

type logCmd struct {
	ticker string
	kind   string
	start  string
	end    string
	head   int
	tail   int
}

func (*logCmd) Name() string     { return "log" }
func (*logCmd) Synopsis() string { return "list the transactions of the ledger" }
func (*logCmd) Usage() string {
	return `stk log [-s <ticker>] [-type <type>] [-from <date>] [-to <date>] [-head <n> | -tail <n>]

  Lists the transactions of the ledger in chronological order, with options
  for filtering and limiting the output.
`
}

func (c *logCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ticker, "s", "", "Only list transactions of this ticker.")
	f.StringVar(&c.kind, "type", "", "Only list transactions of this type (buy, sell, dividend).")
	f.StringVar(&c.start, "from", "", "Only list transactions on or after this date.")
	f.StringVar(&c.end, "to", "", "Only list transactions on or before this date.")
	f.IntVar(&c.head, "head", 0, "Show only the first N transactions.")
	f.IntVar(&c.tail, "tail", 0, "Show only the last N transactions.")
}

func (c *logCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.head > 0 && c.tail > 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return withApp(ctx, func(a *app) error {
		var filters []func(stocklog.Transaction) bool
		if c.ticker != "" {
			filters = append(filters, stocklog.ByTicker(stocklog.Transaction{Ticker: c.ticker}.Normalize().Ticker))
		}
		if c.kind != "" {
			k, err := stocklog.ParseKind(c.kind)
			if err != nil {
				return usageErrorf("%v", err)
			}
			filters = append(filters, stocklog.ByKind(k))
		}
		if c.start != "" || c.end != "" {
			r := date.Range{To: date.Today()}
			var err error
			if c.start != "" {
				if r.From, err = parseDay(c.start); err != nil {
					return err
				}
			}
			if c.end != "" {
				if r.To, err = parseDay(c.end); err != nil {
					return err
				}
			}
			filters = append(filters, stocklog.Within(r))
		}

		txs, err := a.journal.List(ctx, filters...)
		if err != nil {
			return err
		}
		slices.SortStableFunc(txs, func(a, b stocklog.Transaction) int { return a.Date.Compare(b.Date) })
		if c.head > 0 && len(txs) > c.head {
			txs = txs[:c.head]
		}
		if c.tail > 0 && len(txs) > c.tail {
			txs = txs[len(txs)-c.tail:]
		}
		printMarkdown(renderer.TransactionsMarkdown(txs))
		return nil
	})
}
