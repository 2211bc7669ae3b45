package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"artwork-helper/internal/database"
)

type testEnv struct {
	data   string
	stdout bytes.Buffer
	stderr bytes.Buffer
}

// newTestEnv creates a data directory with processed files and one row.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	data := t.TempDir()
	t.Setenv("ARTWORK_CONFIG", "")
	t.Setenv("ARTWORK_DATABASE_PATH", "")
	t.Setenv("ARTWORK_DATA_DIR", data)

	for _, f := range []string{"crop/a.png", "crop/b.png", "blur/c.jpg", "temp/d.png"} {
		path := filepath.Join(data, f)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("image"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	store, err := database.New(context.Background(), filepath.Join(data, "artwork.db"))
	if err != nil {
		t.Fatal(err)
	}
	if err := store.AddEntry(context.Background(), &database.Entry{Category: "clearlogo", OriginalURL: "http://host/a.png"}); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	return &testEnv{data: data}
}

func (te *testEnv) run(args []string, stdin string, terminal bool) int {
	return run(context.Background(), args, env{
		stdin:    strings.NewReader(stdin),
		stdout:   &te.stdout,
		stderr:   &te.stderr,
		terminal: terminal,
	})
}

func (te *testEnv) purged(t *testing.T) bool {
	t.Helper()
	_, dbErr := os.Stat(filepath.Join(te.data, "artwork.db"))
	entries, err := os.ReadDir(filepath.Join(te.data, "crop"))
	if err != nil {
		t.Fatalf("crop folder: %v", err)
	}
	return os.IsNotExist(dbErr) && len(entries) == 0
}

func TestPurgeWithYes(t *testing.T) {
	te := newTestEnv(t)

	if code := te.run([]string{"purge", "--yes"}, "", false); code != 0 {
		t.Fatalf("exit = %d, stderr %s", code, te.stderr.String())
	}
	if !te.purged(t) {
		t.Error("cache not purged")
	}
	if !strings.Contains(te.stdout.String(), "Removed 4 files") {
		t.Errorf("stdout = %q", te.stdout.String())
	}
	for _, dir := range []string{"crop", "blur", "temp"} {
		if info, err := os.Stat(filepath.Join(te.data, dir)); err != nil || !info.IsDir() {
			t.Errorf("%s should be recreated empty: %v", dir, err)
		}
	}
}

func TestPurgeConfirmation(t *testing.T) {
	tests := []struct {
		name       string
		stdin      string
		terminal   bool
		wantCode   int
		wantPurged bool
	}{
		{"not a terminal", "y\n", false, 1, false},
		{"declined", "n\n", true, 1, false},
		{"empty answer", "\n", true, 1, false},
		{"accepted", "y\n", true, 0, true},
		{"accepted without newline", "YES", true, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			te := newTestEnv(t)
			if code := te.run([]string{"purge"}, tt.stdin, tt.terminal); code != tt.wantCode {
				t.Errorf("exit = %d, want %d (stderr %s)", code, tt.wantCode, te.stderr.String())
			}
			if got := te.purged(t); got != tt.wantPurged {
				t.Errorf("purged = %v, want %v", got, tt.wantPurged)
			}
		})
	}
}

func TestStatus(t *testing.T) {
	te := newTestEnv(t)

	if code := te.run([]string{"status"}, "", false); code != 0 {
		t.Fatalf("exit = %d, stderr %s", code, te.stderr.String())
	}
	out := te.stdout.String()
	if !strings.Contains(out, "Lookup database: 1 rows") {
		t.Errorf("row count missing:\n%s", out)
	}
	if !strings.Contains(out, "crop        2 files") {
		t.Errorf("crop folder stats missing:\n%s", out)
	}

	te.stdout.Reset()
	if code := te.run([]string{"purge", "-y"}, "", false); code != 0 {
		t.Fatal("purge failed")
	}
	te.stdout.Reset()
	if code := te.run([]string{"status"}, "", false); code != 0 {
		t.Fatalf("status after purge: exit %d", code)
	}
	if !strings.Contains(te.stdout.String(), "not created yet") {
		t.Errorf("status after purge:\n%s", te.stdout.String())
	}
}

func TestUnknownCommand(t *testing.T) {
	te := newTestEnv(t)

	if code := te.run([]string{"wipe\x1b[2J"}, "", false); code != 1 {
		t.Errorf("exit = %d, want 1", code)
	}
	if !strings.Contains(te.stderr.String(), "Unknown command: wipe__2J") {
		t.Errorf("stderr = %q", te.stderr.String())
	}
	if code := te.run(nil, "", false); code != 1 {
		t.Errorf("no args: exit = %d, want 1", code)
	}
}

func TestSanitizeCommand(t *testing.T) {
	tests := []struct{ in, want string }{
		{"purge", "purge"},
		{"status-now_1", "status-now_1"},
		{"rm -rf /", "rm_-rf__"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := sanitizeCommand(tt.in); got != tt.want {
			t.Errorf("sanitizeCommand(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
