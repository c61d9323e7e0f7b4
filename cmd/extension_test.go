package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestRunExtension(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("extension script requires a posix shell")
	}
	dir := t.TempDir()
	script := "#!/bin/sh\n" +
		"echo \"" + EnvLedgerFile + "=$" + EnvLedgerFile + "\"\n" +
		"echo \"" + EnvVerbose + "=$" + EnvVerbose + "\"\n" +
		"echo \"args=$*\"\n" +
		"exit 3\n"
	if err := os.WriteFile(filepath.Join(dir, "stk-hello"), []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))

	var out bytes.Buffer
	oldLedger, oldVerbose := *ledgerFile, *Verbose
	t.Cleanup(func() { stdout, *ledgerFile, *Verbose = os.Stdout, oldLedger, oldVerbose })
	stdout = &out
	*ledgerFile = "/tmp/ledger.jsonl"
	*Verbose = true

	found, code := RunExtension("hello", []string{"a", "b"})
	if !found {
		t.Fatal("RunExtension(hello) not found")
	}
	if code != 3 {
		t.Errorf("exit code = %d, want 3", code)
	}
	for _, want := range []string{
		EnvLedgerFile + "=/tmp/ledger.jsonl",
		EnvVerbose + "=true",
		"args=a b",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output %q does not contain %q", out.String(), want)
		}
	}
}

func TestRunExtension_NotFound(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	if found, code := RunExtension("missing", nil); found || code != 0 {
		t.Errorf("RunExtension(missing) = %v, %d, want false, 0", found, code)
	}
}
