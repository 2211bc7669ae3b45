package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"artwork-helper/internal/cache"
	"artwork-helper/internal/database"
	"artwork-helper/internal/memory"
	"artwork-helper/internal/metrics"
	"artwork-helper/internal/startup"

	"golang.org/x/term"
)

// Default timeout for database operations
const defaultTimeout = 30 * time.Second

// env holds the process streams so tests can substitute them.
type env struct {
	stdin    io.Reader
	stdout   io.Writer
	stderr   io.Writer
	terminal bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	e := env{
		stdin:    os.Stdin,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
		terminal: term.IsTerminal(int(os.Stdin.Fd())),
	}
	os.Exit(run(ctx, os.Args[1:], e))
}

func run(ctx context.Context, args []string, e env) int {
	if len(args) < 1 {
		printUsage(e.stderr)
		return 1
	}

	cfg, err := startup.LoadConfig("")
	if err != nil {
		fmt.Fprintf(e.stderr, "Error: %v\n", err)
		return 1
	}

	switch args[0] {
	case "purge":
		yes := len(args) > 1 && (args[1] == "--yes" || args[1] == "-y")
		if !purge(cfg, yes, e) {
			return 1
		}
	case "status":
		if !showStatus(ctx, cfg, e) {
			return 1
		}
	default:
		fmt.Fprintf(e.stderr, "Unknown command: %s\n", sanitizeCommand(args[0]))
		printUsage(e.stderr)
		return 1
	}
	return 0
}

// sanitizeCommand keeps [a-zA-Z0-9_-] and replaces everything else with '_'.
func sanitizeCommand(cmd string) string {
	var b strings.Builder
	b.Grow(len(cmd))
	for _, r := range cmd {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Artwork Cache Management")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Usage: clearcache <command> [--yes]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  purge   - Remove processed artwork and the lookup database")
	fmt.Fprintln(w, "  status  - Show lookup rows and folder sizes")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintf(w, "  ARTWORK_DATA_DIR - Data directory (default: %s)\n", startup.DefaultDataDir)
}

func purgeDirs(cfg *startup.Config) []string {
	dirs := []string{cfg.TempDir()}
	for _, folder := range metrics.Folders {
		dirs = append(dirs, filepath.Join(cfg.OutputDir(), folder))
	}
	return dirs
}

func confirm(e env, prompt string) (bool, error) {
	fmt.Fprintf(e.stdout, "%s [y/N]: ", prompt)
	line, err := bufio.NewReader(e.stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

func purge(cfg *startup.Config, yes bool, e env) bool {
	if !yes {
		if !e.terminal {
			fmt.Fprintln(e.stderr, "Error: stdin is not a terminal; pass --yes to purge")
			return false
		}
		ok, err := confirm(e, fmt.Sprintf("Delete all processed artwork in %s and %s?", cfg.DataDir, cfg.DatabasePath))
		if err != nil {
			fmt.Fprintf(e.stderr, "Error reading answer: %v\n", err)
			return false
		}
		if !ok {
			fmt.Fprintln(e.stdout, "Aborted.")
			return false
		}
	}

	removed, err := cache.Purge(purgeDirs(cfg)...)
	if err != nil {
		fmt.Fprintf(e.stderr, "Error: %v\n", err)
		return false
	}
	if err := database.Remove(cfg.DatabasePath); err != nil {
		fmt.Fprintf(e.stderr, "Error: Failed to remove lookup database: %v\n", err)
		return false
	}

	fmt.Fprintf(e.stdout, "Removed %d files and the lookup database.\n", removed)
	return true
}

func showStatus(ctx context.Context, cfg *startup.Config, e env) bool {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := os.Stat(cfg.DatabasePath); errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(e.stdout, "Lookup database: not created yet (%s)\n", cfg.DatabasePath)
	} else {
		store, err := database.New(ctx, cfg.DatabasePath)
		if err != nil {
			fmt.Fprintf(e.stderr, "Error: Failed to open lookup database: %v\n", err)
			return false
		}
		defer store.Close()

		count, err := store.Count(ctx)
		if err != nil {
			fmt.Fprintf(e.stderr, "Error: Failed to count lookup rows: %v\n", err)
			return false
		}
		var size int64
		for _, s := range store.FileSizes() {
			size += s
		}
		fmt.Fprintf(e.stdout, "Lookup database: %d rows, %s (%s)\n", count, memory.FormatBytes(size), cfg.DatabasePath)
	}

	folders, err := cache.FolderStats(cfg.OutputDir())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(e.stderr, "Error: %v\n", err)
		return false
	}
	names := make([]string, 0, len(folders))
	for name := range folders {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(e.stdout, "  %-6s %6d files  %s\n", name, folders[name].Files, memory.FormatBytes(folders[name].Bytes))
	}
	return true
}
