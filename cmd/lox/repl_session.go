package main

import (
	"bufio"
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/mgomes/treelox/lox"
)

// replSession evaluates REPL lines against one engine, capturing what the
// program prints so it can be shown next to the result.
type replSession struct {
	engine *lox.Engine
	out    *bytes.Buffer
}

func newREPLSession(cfg cliConfig) (*replSession, error) {
	out := &bytes.Buffer{}
	engine, err := lox.NewEngine(cfg.engineConfig(out))
	if err != nil {
		return nil, err
	}
	return &replSession{engine: engine, out: out}, nil
}

// evaluate runs one line. A missing trailing semicolon is supplied, and a
// lone expression statement echoes its value after anything it printed.
func (s *replSession) evaluate(input string) (string, bool) {
	source := strings.TrimSpace(input)
	if !strings.HasSuffix(source, ";") && !strings.HasSuffix(source, "}") {
		source += ";"
	}

	s.out.Reset()
	val, ok, err := s.engine.Eval(source)
	printed := strings.TrimRight(s.out.String(), "\n")

	var parts []string
	if printed != "" {
		parts = append(parts, printed)
	}
	if err != nil {
		parts = append(parts, err.Error())
		return strings.Join(parts, "\n"), true
	}
	if ok {
		parts = append(parts, val.String())
	}
	return strings.Join(parts, "\n"), false
}

func (s *replSession) reset() {
	s.engine.Reset()
}

// globalNames returns the defined globals in sorted order.
func (s *replSession) globalNames() []string {
	globals := s.engine.Globals()
	names := make([]string, 0, len(globals))
	for name := range globals {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// completions returns keywords, builtins and globals starting with prefix.
func (s *replSession) completions(prefix string) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(candidate string) {
		if !strings.HasPrefix(candidate, prefix) {
			return
		}
		if _, dup := seen[candidate]; dup {
			return
		}
		seen[candidate] = struct{}{}
		out = append(out, candidate)
	}
	for _, keyword := range lox.Keywords() {
		add(keyword)
	}
	for _, builtin := range lspBuiltins {
		add(builtin)
	}
	for _, name := range s.globalNames() {
		add(name)
	}
	sort.Strings(out)
	return out
}

func replCommand(args []string) error {
	fs := flag.NewFlagSet("repl", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	plain := fs.Bool("plain", false, "read lines from stdin without the terminal UI")
	configPath := fs.String("config", "", "path to a YAML config file")
	if err := fs.Parse(args); err != nil {
		return &exitError{code: exitUsage, err: err}
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *plain {
		return runPlainREPL(os.Stdin, os.Stdout, cfg)
	}
	return runREPL(cfg)
}

// runPlainREPL is the line-oriented REPL used when no terminal UI is wanted.
// It stops at EOF or :quit.
func runPlainREPL(in io.Reader, out io.Writer, cfg cliConfig) error {
	session, err := newREPLSession(cfg)
	if err != nil {
		return err
	}

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, cfg.REPL.Prompt)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case ":quit", ":q":
			return nil
		case ":reset", ":r":
			session.reset()
			fmt.Fprintln(out, "Environment reset")
			continue
		case ":vars", ":v":
			for _, name := range session.globalNames() {
				fmt.Fprintf(out, "%s = %s\n", name, session.engine.Globals()[name])
			}
			continue
		}

		output, _ := session.evaluate(line)
		if output != "" {
			fmt.Fprintln(out, output)
		}
	}
}
