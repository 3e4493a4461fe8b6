package cli

import (
	"io"
	"os"
	"regexp"
	"strings"
	"testing"
)

var ansiSeq = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// captureStdout returns what f prints to os.Stdout.
func captureStdout(t *testing.T, f func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	f()
	w.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	return ansiSeq.ReplaceAllString(string(out), "")
}

func TestPrintKeyValue(t *testing.T) {
	out := captureStdout(t, func() {
		printKeyValue("Store", "mongo")
		printKeyValue("Cache", "redis")
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("printed %d lines, want 2: %q", len(lines), out)
	}
	for i, want := range [][2]string{{"Store", "mongo"}, {"Cache", "redis"}} {
		key, value, ok := strings.Cut(strings.TrimSpace(lines[i]), " ")
		if !ok || key != want[0] || strings.TrimSpace(value) != want[1] {
			t.Errorf("line %d = %q, want %s followed by %s", i, lines[i], want[0], want[1])
		}
	}
}
