package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/stocklog"
	md "github.com/nao1215/markdown"
)

// Transaction renders a transaction to a string.
func Transaction(tx stocklog.Transaction) string {
	switch tx.Kind {
	case stocklog.Buy:
		return fmt.Sprintf("Bought %s of %s at %s", tx.Shares, tx.Ticker, tx.Price)
	case stocklog.Sell:
		return fmt.Sprintf("Sold %s of %s at %s", tx.Shares, tx.Ticker, tx.Price)
	case stocklog.Dividend:
		return fmt.Sprintf("Dividend of %s for %s shares of %s", tx.Price, tx.Shares, tx.Ticker)
	default:
		return tx.Kind.String()
	}
}

// TransactionsMarkdown renders the ledger as a table.
func TransactionsMarkdown(txs []stocklog.Transaction) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Transactions")
	if len(txs) == 0 {
		doc.PlainText("No transactions.")
		return doc.String()
	}
	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft, md.AlignLeft, md.AlignLeft, md.AlignLeft,
			md.AlignRight, md.AlignRight, md.AlignRight,
		},
		Header: []string{"Date", "ID", "Type", "Ticker", "Shares", "Price", "Total"},
	}
	for _, tx := range txs {
		table.Rows = append(table.Rows, []string{
			tx.Date.String(),
			tx.ID,
			tx.Kind.String(),
			tx.Ticker,
			tx.Shares.String(),
			tx.Price.String(),
			tx.Total().String(),
		})
	}
	doc.Table(table)
	return doc.String()
}
