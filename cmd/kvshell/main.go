// Command kvshell is an interactive shell for a tuplekv node.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"golang.org/x/term"

	apihttp "tuplekv/internal/http"
)

const requestTimeout = 30 * time.Second

var commands = []string{"get", "put", "del", "list", "dump", "restore", "help", "quit"}

func main() {
	addr := flag.String("addr", "http://localhost:8080", "node base URL")
	flag.Parse()

	sh := &shell{client: apihttp.NewClient(*addr), out: os.Stdout}

	// one-shot mode: kvshell get users:1
	if flag.NArg() > 0 {
		if err := sh.exec(strings.Join(flag.Args(), " ")); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
		return
	}

	run := repl
	if !isTerminal() {
		// piped input: kvshell < commands.txt
		run = func(sh *shell) error { return script(sh, os.Stdin) }
	}
	if err := run(sh); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// script runs one command per line and stops at the first failure.
// Blank lines and lines starting with # are skipped.
func script(sh *shell, r io.Reader) error {
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := sh.exec(line); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			return fmt.Errorf("line %d: %w", n, err)
		}
	}
	return sc.Err()
}

func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".tuplekv_history")
}

func completer() *readline.PrefixCompleter {
	items := make([]readline.PrefixCompleterInterface, 0, len(commands))
	for _, c := range commands {
		items = append(items, readline.PcItem(c))
	}
	return readline.NewPrefixCompleter(items...)
}

func repl(sh *shell) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            "tuplekv> ",
		HistoryFile:       historyFile(),
		AutoComplete:      completer(),
		InterruptPrompt:   "^C",
		EOFPrompt:         "quit",
		HistorySearchFold: true,
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	fmt.Fprintf(sh.out, "connected to %s, type help for commands\n", sh.client.BaseURL())
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := sh.exec(line); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			fmt.Fprintln(sh.out, "error:", err)
		}
	}
}

var errQuit = errors.New("quit")

type shell struct {
	client *apihttp.Client
	out    io.Writer
}

const usage = `commands:
  get <key>                      print the value stored under key
  put <key> <json>               store a JSON value
  del <key>                      delete key, printing the old value
  list [prefix=K] [start=K] [end=K]
                                 range query; at most two selectors
  dump <file> [gzip|zstd]        save a dump of the node
  restore <file> [replace]       load a dump, optionally clearing first
  quit
keys use the display form, e.g. users:42 or orders:7i:true`

func (sh *shell) exec(line string) error {
	cmd, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	rest = strings.TrimSpace(rest)

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	switch strings.ToLower(cmd) {
	case "":
		return nil
	case "help", "?":
		fmt.Fprintln(sh.out, usage)
		return nil
	case "quit", "exit", `\q`:
		return errQuit
	case "get":
		return sh.get(ctx, rest)
	case "put", "set":
		return sh.put(ctx, rest)
	case "del", "delete":
		return sh.del(ctx, rest)
	case "list", "ls":
		return sh.list(ctx, rest)
	case "dump":
		return sh.dump(ctx, rest)
	case "restore":
		return sh.restore(ctx, rest)
	default:
		return fmt.Errorf("unknown command %q, try help", cmd)
	}
}

func (sh *shell) get(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("usage: get <key>")
	}
	v, ok, err := sh.client.Get(ctx, key)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(sh.out, "(not found)")
		return nil
	}
	fmt.Fprintln(sh.out, string(v))
	return nil
}

func (sh *shell) put(ctx context.Context, args string) error {
	key, raw, _ := strings.Cut(args, " ")
	raw = strings.TrimSpace(raw)
	if key == "" || raw == "" {
		return errors.New("usage: put <key> <json>")
	}
	if !json.Valid([]byte(raw)) {
		// bare words are stored as strings
		quoted, _ := json.Marshal(raw)
		raw = string(quoted)
	}
	if err := sh.client.Put(ctx, key, json.RawMessage(raw)); err != nil {
		return err
	}
	fmt.Fprintln(sh.out, "OK")
	return nil
}

func (sh *shell) del(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("usage: del <key>")
	}
	old, ok, err := sh.client.Delete(ctx, key)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(sh.out, "(not found)")
		return nil
	}
	fmt.Fprintln(sh.out, "deleted", string(old))
	return nil
}

func parseSelectors(args string) (prefix, start, end string, err error) {
	for _, f := range strings.Fields(args) {
		name, v, ok := strings.Cut(f, "=")
		if !ok {
			// a bare argument is a prefix
			name, v = "prefix", f
		}
		switch name {
		case "prefix":
			prefix = v
		case "start":
			start = v
		case "end":
			end = v
		default:
			return "", "", "", fmt.Errorf("unknown selector %q", name)
		}
	}
	return prefix, start, end, nil
}

func (sh *shell) list(ctx context.Context, args string) error {
	prefix, start, end, err := parseSelectors(args)
	if err != nil {
		return err
	}
	items, err := sh.client.List(ctx, prefix, start, end)
	if err != nil {
		return err
	}
	for _, it := range items {
		v, _ := json.Marshal(it.Value)
		fmt.Fprintf(sh.out, "%s = %s\n", it.Key, v)
	}
	fmt.Fprintf(sh.out, "(%d entries)\n", len(items))
	return nil
}

func (sh *shell) dump(ctx context.Context, args string) error {
	fields := strings.Fields(args)
	if len(fields) == 0 || len(fields) > 2 {
		return errors.New("usage: dump <file> [gzip|zstd]")
	}
	compress := ""
	if len(fields) == 2 {
		compress = fields[1]
	}

	f, err := os.Create(fields[0])
	if err != nil {
		return err
	}
	n, err := sh.client.Dump(ctx, compress, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(sh.out, "wrote %d bytes to %s\n", n, fields[0])
	return nil
}

func (sh *shell) restore(ctx context.Context, args string) error {
	fields := strings.Fields(args)
	if len(fields) == 0 || len(fields) > 2 || (len(fields) == 2 && fields[1] != "replace") {
		return errors.New("usage: restore <file> [replace]")
	}
	data, err := os.ReadFile(fields[0])
	if err != nil {
		return err
	}
	n, err := sh.client.Restore(ctx, data, len(fields) == 2)
	if err != nil {
		return err
	}
	fmt.Fprintf(sh.out, "restored %d entries\n", n)
	return nil
}
