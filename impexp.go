package stocklog

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/etnz/stocklog/date"
)

// this file contains the import/export formats shared with spreadsheets and
// other trackers. Imported transactions are normalized and validated, a
// missing id is replaced by a new one.

// csvColumns are the columns written by ExportCSV. ImportCSV requires the
// first five, in any order, and ignores unknown ones.
var csvColumns = []string{"date", "ticker", "type", "price", "shares", "total", "id"}

// ImportJSON reads a JSON array of transactions.
//
// Each object has the properties "date" (YYYY-MM-DD or an RFC 3339 timestamp),
// "ticker", "type" (buy, sell or dividend), "price", "shares" and an optional
// "id". Scalars may be given as JSON strings or numbers.
func ImportJSON(r io.Reader) ([]Transaction, error) {
	var objects []map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&objects); err != nil {
		return nil, fmt.Errorf("invalid JSON format, expected an array of transactions: %w", err)
	}

	txs := make([]Transaction, 0, len(objects))
	for i, obj := range objects {
		tx, err := parseTransaction(func(name string) string { return jsonScalar(obj[name]) })
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i+1, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// jsonScalar returns the text of a JSON string or number, "" for anything else.
func jsonScalar(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return ""
	}
	return n.String()
}

// ExportJSON writes txs as an indented JSON array.
func ExportJSON(w io.Writer, txs []Transaction) error {
	if txs == nil {
		txs = []Transaction{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(txs); err != nil {
		return fmt.Errorf("cannot write JSON transactions: %w", err)
	}
	return nil
}

// ImportCSV reads transactions from a CSV file with a header row.
func ImportCSV(r io.Reader) ([]Transaction, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read CSV header: %w", err)
	}
	column := make(map[string]int, len(header))
	for i, name := range header {
		column[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range csvColumns[:5] {
		if _, ok := column[required]; !ok {
			return nil, fmt.Errorf("CSV header is missing the %q column", required)
		}
	}

	var txs []Transaction
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("cannot read CSV: %w", err)
		}
		line, _ := reader.FieldPos(0)
		if isBlank(record) {
			continue
		}
		tx, err := parseTransaction(func(name string) string {
			i, ok := column[name]
			if !ok || i >= len(record) {
				return ""
			}
			return record[i]
		})
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// parseTransaction builds a valid transaction from its textual fields.
func parseTransaction(field func(name string) string) (Transaction, error) {
	get := func(name string) string { return strings.TrimSpace(field(name)) }

	tx := Transaction{ID: get("id"), Ticker: get("ticker")}
	if tx.ID == "" {
		tx.ID = NewID()
	}
	invalid := func(name string, err error) error {
		return &InvalidTransactionError{ID: tx.ID, Field: name, Reason: err.Error()}
	}
	var err error
	if tx.Date, err = date.Parse(get("date")); err != nil {
		return Transaction{}, invalid("date", err)
	}
	if tx.Kind, err = ParseKind(get("type")); err != nil {
		return Transaction{}, invalid("type", err)
	}
	if tx.Price, err = ParseMoney(get("price")); err != nil {
		return Transaction{}, invalid("price", err)
	}
	if tx.Shares, err = ParseQuantity(get("shares")); err != nil {
		return Transaction{}, invalid("shares", err)
	}
	return ingest(tx)
}

// ExportCSV writes txs as CSV with a header row and a computed total column.
func ExportCSV(w io.Writer, txs []Transaction) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvColumns); err != nil {
		return fmt.Errorf("cannot write CSV: %w", err)
	}
	for _, tx := range txs {
		record := []string{
			tx.Date.String(),
			tx.Ticker,
			tx.Kind.String(),
			tx.Price.Decimal().String(),
			tx.Shares.String(),
			tx.Total().Decimal().String(),
			tx.ID,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("cannot write CSV: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("cannot write CSV: %w", err)
	}
	return nil
}
