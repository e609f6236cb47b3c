package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mgomes/treelox/lox"
)

// Exit statuses follow sysexits.h.
const (
	exitFailure  = 1
	exitUsage    = 64
	exitDataErr  = 65
	exitNoInput  = 66
	exitSoftware = 70
)

func main() {
	if err := runCLI(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitError pins the process exit status for err.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

func exitCode(err error) int {
	var (
		exitErr    *exitError
		staticErr  *lox.StaticError
		runtimeErr *lox.RuntimeError
	)
	switch {
	case errors.As(err, &exitErr):
		return exitErr.code
	case errors.As(err, &staticErr):
		return exitDataErr
	case errors.As(err, &runtimeErr):
		return exitSoftware
	default:
		return exitFailure
	}
}

func runCLI(args []string) error {
	if len(args) < 2 {
		return replCommand(nil)
	}
	switch args[1] {
	case "run":
		return runCommand(args[2:])
	case "repl":
		return replCommand(args[2:])
	case "check":
		return checkCommand(args[2:])
	case "ast":
		return astCommand(args[2:])
	case "fmt":
		return fmtCommand(args[2:])
	case "lsp":
		return runLSP()
	case "help", "-h", "--help":
		printUsage()
		return nil
	}
	if len(args) == 2 && !strings.HasPrefix(args[1], "-") {
		return runScript(args[1], defaultCLIConfig())
	}
	return usageError()
}

func runCommand(args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	configPath := fs.String("config", "", "path to a YAML config file")
	if err := fs.Parse(args); err != nil {
		return &exitError{code: exitUsage, err: err}
	}
	remaining := fs.Args()
	if len(remaining) != 1 {
		return &exitError{code: exitUsage, err: errors.New("lox run: exactly one script path required")}
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	return runScript(remaining[0], cfg)
}

func runScript(path string, cfg cliConfig) error {
	source, err := readScript(path)
	if err != nil {
		return err
	}
	engine, err := lox.NewEngine(cfg.engineConfig(os.Stdout))
	if err != nil {
		return err
	}
	return engine.Run(source)
}

func astCommand(args []string) error {
	fs := flag.NewFlagSet("ast", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	if err := fs.Parse(args); err != nil {
		return &exitError{code: exitUsage, err: err}
	}
	remaining := fs.Args()
	if len(remaining) == 0 {
		return &exitError{code: exitUsage, err: errors.New("lox ast: script path required")}
	}

	source, err := readScript(remaining[0])
	if err != nil {
		return err
	}
	diags := &lox.Diagnostics{}
	stmts := lox.Parse(lox.Scan(source, diags), diags)
	if err := diags.Err(source); err != nil {
		return err
	}
	fmt.Print(lox.PrintAST(stmts))
	return nil
}

func readScript(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve script path: %w", err)
	}
	input, err := os.ReadFile(abs)
	if err != nil {
		return "", &exitError{code: exitNoInput, err: fmt.Errorf("read script: %w", err)}
	}
	return string(input), nil
}

func usageError() error {
	printUsage()
	return &exitError{code: exitUsage, err: errors.New("invalid command")}
}

func printUsage() {
	prog := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage: %s [script]\n", prog)
	fmt.Fprintf(os.Stderr, "       %s <command> [flags] [args]\n", prog)
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  run [-config file] <script>")
	fmt.Fprintln(os.Stderr, "    execute a script")
	fmt.Fprintln(os.Stderr, "  repl [-plain] [-config file]")
	fmt.Fprintln(os.Stderr, "    start an interactive session (default without arguments)")
	fmt.Fprintln(os.Stderr, "  check <script>")
	fmt.Fprintln(os.Stderr, "    report static errors and lint warnings without executing")
	fmt.Fprintln(os.Stderr, "  ast <script>")
	fmt.Fprintln(os.Stderr, "    print the parsed syntax tree")
	fmt.Fprintln(os.Stderr, "  fmt [-w|-check] <paths...>")
	fmt.Fprintln(os.Stderr, "    normalize whitespace in .lox files")
	fmt.Fprintln(os.Stderr, "  lsp")
	fmt.Fprintln(os.Stderr, "    serve the language server protocol over stdio")
}

type flagErrorSink struct{}

func (flagErrorSink) Write(p []byte) (int, error) {
	return len(p), nil
}
