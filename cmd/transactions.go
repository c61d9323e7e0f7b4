package cmd

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/stocklog"
	"github.com/etnz/stocklog/renderer"
	"github.com/google/subcommands"
)

// --- Buy, Sell and Dividend Commands ---

type addCmd struct {
	kind   stocklog.Kind
	date   string
	ticker string
	shares string
	price  string
	id     string
}

func (c *addCmd) Name() string { return c.kind.String() }
func (c *addCmd) Synopsis() string {
	switch c.kind {
	case stocklog.Buy:
		return "purchase shares to open or add to a position"
	case stocklog.Sell:
		return "sell shares to trim or close a position"
	default:
		return "record a dividend payment for a security"
	}
}
func (c *addCmd) Usage() string {
	return fmt.Sprintf(`stk %s -s <ticker> -q <shares> -p <price> [-d <date>] [-id <id>]

  Records a %s transaction in the ledger. For a dividend, -p is the amount
  paid per share and -q the number of shares held.
`, c.kind, c.kind)
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Transaction date (YYYY-MM-DD), defaults to today")
	f.StringVar(&c.ticker, "s", "", "Security ticker")
	f.StringVar(&c.shares, "q", "", "Number of shares")
	f.StringVar(&c.price, "p", "", "Price per share")
	f.StringVar(&c.id, "id", "", "Transaction id, a new one is generated by default")
}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.ticker == "" || c.shares == "" || c.price == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return withApp(ctx, func(a *app) error {
		tx := stocklog.Transaction{ID: c.id, Ticker: c.ticker, Kind: c.kind}
		if err := setFields(&tx, c.date, c.shares, c.price); err != nil {
			return err
		}
		added, err := a.journal.Add(ctx, tx)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%s (%s)\n", renderer.Transaction(added[0]), added[0].ID)
		return nil
	})
}

// setFields parses the textual fields given on the command line into tx,
// empty fields are left untouched.
func setFields(tx *stocklog.Transaction, day, shares, price string) error {
	var err error
	if day != "" || tx.Date.IsZero() {
		if tx.Date, err = parseDay(day); err != nil {
			return err
		}
	}
	if shares != "" {
		if tx.Shares, err = stocklog.ParseQuantity(shares); err != nil {
			return usageErrorf("invalid shares %q: %v", shares, err)
		}
	}
	if price != "" {
		if tx.Price, err = stocklog.ParseMoney(price); err != nil {
			return usageErrorf("invalid price %q: %v", price, err)
		}
	}
	return nil
}

// --- Edit Command ---

type editCmd struct {
	id     string
	date   string
	ticker string
	kind   string
	shares string
	price  string
}

func (*editCmd) Name() string     { return "edit" }
func (*editCmd) Synopsis() string { return "change a transaction of the ledger" }
func (*editCmd) Usage() string {
	return `stk edit -id <id> [-d <date>] [-s <ticker>] [-type <type>] [-q <shares>] [-p <price>]

  Replaces the given fields of the transaction with id. Use 'stk log' to find
  transaction ids.
`
}

func (c *editCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Id of the transaction to edit")
	f.StringVar(&c.date, "d", "", "New transaction date (YYYY-MM-DD)")
	f.StringVar(&c.ticker, "s", "", "New security ticker")
	f.StringVar(&c.kind, "type", "", "New transaction type (buy, sell, dividend)")
	f.StringVar(&c.shares, "q", "", "New number of shares")
	f.StringVar(&c.price, "p", "", "New price per share")
}

func (c *editCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return withApp(ctx, func(a *app) error {
		tx, err := a.journal.Get(ctx, c.id)
		if err != nil {
			return err
		}
		if c.ticker != "" {
			tx.Ticker = c.ticker
		}
		if c.kind != "" {
			if tx.Kind, err = stocklog.ParseKind(c.kind); err != nil {
				return usageErrorf("%v", err)
			}
		}
		if err := setFields(&tx, c.date, c.shares, c.price); err != nil {
			return err
		}
		if tx, err = a.journal.Replace(ctx, tx); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%s (%s)\n", renderer.Transaction(tx), tx.ID)
		return nil
	})
}

// --- Rm Command ---

type rmCmd struct{}

func (*rmCmd) Name() string     { return "rm" }
func (*rmCmd) Synopsis() string { return "delete transactions from the ledger" }
func (*rmCmd) Usage() string {
	return `stk rm <id>...

  Deletes the transactions with the given ids.
`
}
func (*rmCmd) SetFlags(*flag.FlagSet) {}

func (*rmCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return withApp(ctx, func(a *app) error {
		for _, id := range f.Args() {
			if err := a.journal.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(stdout, "Deleted %s\n", id)
		}
		return nil
	})
}

// --- Clear Command ---

type clearCmd struct {
	yes bool
}

func (*clearCmd) Name() string     { return "clear" }
func (*clearCmd) Synopsis() string { return "delete every transaction of the ledger" }
func (*clearCmd) Usage() string {
	return `stk clear [-y]

  Deletes every transaction of the ledger, after confirmation.
`
}

func (c *clearCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.yes, "y", false, "Do not ask for confirmation")
}

func (c *clearCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !c.yes && !confirm("Delete every transaction of the ledger?") {
		fmt.Fprintln(os.Stderr, "Aborted.")
		return subcommands.ExitFailure
	}
	return withApp(ctx, func(a *app) error {
		if err := a.journal.Clear(ctx); err != nil {
			return err
		}
		fmt.Fprintln(stdout, "Ledger cleared.")
		return nil
	})
}

// confirm asks a yes/no question on the terminal.
func confirm(question string) bool {
	fmt.Fprintf(os.Stderr, "%s [y/N] ", question)
	answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
