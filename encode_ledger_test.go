package stocklog

import (
	"bytes"
	"strings"
	"testing"
)

func TestDecodeLedger(t *testing.T) {
	// A multi-line string representing a JSONL stream with all transaction types
	jsonlStream := `
{"id":"1","date":"2025-08-01","ticker":"AAPL","type":"buy","price":195.5,"shares":10}

{"id":"2","date":"2025-08-02","ticker":"AAPL","type":"sell","price":"201.25","shares":4}
{"id":"3","date":"2025-08-03","ticker":"AAPL","type":"dividend","price":0.25,"shares":6}
`
	txs, err := DecodeLedger(strings.NewReader(jsonlStream))
	if err != nil {
		t.Fatalf("DecodeLedger() returned an unexpected error: %v", err)
	}

	want := []Transaction{
		buy("1", "2025-08-01", "AAPL", 10, 195.5),
		sell("2", "2025-08-02", "AAPL", 4, 201.25),
		dividend("3", "2025-08-03", "AAPL", 6, 0.25),
	}
	if len(txs) != len(want) {
		t.Fatalf("DecodeLedger() returned %d transactions, want %d", len(txs), len(want))
	}
	for i := range want {
		if !txs[i].Equal(want[i]) {
			t.Errorf("transaction %d = %+v, want %+v", i, txs[i], want[i])
		}
	}
}

func TestDecodeLedger_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{"bad json", `{"id":"1","date":"2025-08-01"` + "\n", "line 1"},
		{"bad type", `{"id":"1"}` + "\n" + `{"id":"2","type":"deposit"}`, "line 2"},
		{"bad date", `{"id":"1","date":"yesterday"}`, "line 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeLedger(strings.NewReader(tt.input))
			if err == nil || !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("DecodeLedger() error = %v, want it to mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestEncodeLedger(t *testing.T) {
	txs := []Transaction{
		buy("1", "2025-08-01", "AAPL", 10, 195.5),
		sell("2", "2025-08-02", "AAPL", 4, 201.25),
	}
	var buf bytes.Buffer
	if err := EncodeLedger(&buf, txs); err != nil {
		t.Fatalf("EncodeLedger() error = %v", err)
	}
	want := `{"id":"1","date":"2025-08-01","ticker":"AAPL","type":"buy","price":195.5,"shares":10}
{"id":"2","date":"2025-08-02","ticker":"AAPL","type":"sell","price":201.25,"shares":4}
`
	if got := buf.String(); got != want {
		t.Errorf("EncodeLedger() =\n%s\nwant\n%s", got, want)
	}

	decoded, err := DecodeLedger(&buf)
	if err != nil {
		t.Fatalf("DecodeLedger() error = %v", err)
	}
	for i := range txs {
		if !decoded[i].Equal(txs[i]) {
			t.Errorf("transaction %d changed through encoding: %+v, want %+v", i, decoded[i], txs[i])
		}
	}
}
