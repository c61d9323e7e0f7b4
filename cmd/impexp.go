package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/etnz/stocklog"
	"github.com/google/subcommands"
)

// formatOf returns the format flag, or the file extension when the flag is empty.
func formatOf(format, file string) (string, error) {
	if format == "" {
		format = strings.TrimPrefix(filepath.Ext(file), ".")
	}
	switch format = strings.ToLower(format); format {
	case "json", "csv", "jsonl":
		return format, nil
	case "":
		return "json", nil
	default:
		return "", usageErrorf("unknown format %q, want json, csv or jsonl", format)
	}
}

// --- Import Command ---

type importCmd struct {
	format  string
	replace bool
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import transactions from a JSON or CSV file" }
func (*importCmd) Usage() string {
	return `stk import [-format json|csv|jsonl] [-replace] <file>

  Imports the transactions of file into the ledger. Transactions are appended
  unless -replace is given. The whole file is rejected if one transaction is
  invalid or reuses an existing id.

  JSON files hold an array of {"date","ticker","type","price","shares","id"}
  objects. CSV files have a header row with at least the date, ticker, type,
  price and shares columns. Use - to read standard input.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "format", "", "File format, guessed from the extension by default.")
	f.BoolVar(&c.replace, "replace", false, "Replace the ledger instead of appending to it.")
}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	file := f.Arg(0)
	return withApp(ctx, func(a *app) error {
		format, err := formatOf(c.format, file)
		if err != nil {
			return err
		}
		var r io.Reader = os.Stdin
		if file != "-" {
			in, err := os.Open(file)
			if err != nil {
				return err
			}
			defer in.Close()
			r = in
		}

		var txs []stocklog.Transaction
		switch format {
		case "csv":
			txs, err = stocklog.ImportCSV(r)
		case "jsonl":
			txs, err = stocklog.DecodeLedger(r)
		default:
			txs, err = stocklog.ImportJSON(r)
		}
		if err != nil {
			return fmt.Errorf("cannot import %s: %w", file, err)
		}

		added, err := a.journal.Import(ctx, txs, c.replace)
		if err != nil {
			return fmt.Errorf("cannot import %s: %w", file, err)
		}
		fmt.Fprintf(stdout, "Imported %d transactions.\n", len(added))
		return nil
	})
}

// --- Export Command ---

type exportCmd struct {
	format string
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export the ledger to JSON or CSV" }
func (*exportCmd) Usage() string {
	return `stk export [-format json|csv|jsonl] [-o <file>]

  Writes every transaction of the ledger to standard output or to file.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "format", "", "File format, guessed from the output extension, json by default.")
	f.StringVar(&c.output, "o", "", "Output file, standard output by default.")
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(ctx, func(a *app) error {
		format, err := formatOf(c.format, c.output)
		if err != nil {
			return err
		}
		txs, err := a.journal.List(ctx)
		if err != nil {
			return err
		}

		w := stdout
		if c.output != "" {
			out, err := os.Create(c.output)
			if err != nil {
				return err
			}
			defer out.Close()
			w = out
		}
		switch format {
		case "csv":
			err = stocklog.ExportCSV(w, txs)
		case "jsonl":
			err = stocklog.EncodeLedger(w, txs)
		default:
			err = stocklog.ExportJSON(w, txs)
		}
		return err
	})
}
