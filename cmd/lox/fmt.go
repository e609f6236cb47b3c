package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mgomes/treelox/lox"
)

const indentUnit = "  "

func fmtCommand(args []string) error {
	fs := flag.NewFlagSet("fmt", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	write := fs.Bool("w", false, "write result to source files instead of stdout")
	check := fs.Bool("check", false, "fail if any source file needs formatting")
	if err := fs.Parse(args); err != nil {
		return &exitError{code: exitUsage, err: err}
	}

	targets := fs.Args()
	if len(targets) == 0 {
		return &exitError{code: exitUsage, err: errors.New("lox fmt: path required")}
	}

	files, err := collectLoxFiles(targets)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return nil
	}

	changedCount := 0
	for _, path := range files {
		originalBytes, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		original := string(originalBytes)
		formatted := formatLoxSource(original)
		changed := formatted != original
		if changed {
			changedCount++
		}

		switch {
		case *write && changed:
			info, err := os.Stat(path)
			if err != nil {
				return fmt.Errorf("stat %s: %w", path, err)
			}
			if err := os.WriteFile(path, []byte(formatted), info.Mode().Perm()); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
		case !*write && !*check:
			fmt.Print(formatted)
		}
	}

	if *check && changedCount > 0 {
		return fmt.Errorf("lox fmt: %d file(s) need formatting", changedCount)
	}
	return nil
}

func collectLoxFiles(targets []string) ([]string, error) {
	seen := make(map[string]struct{})
	files := make([]string, 0)
	addFile := func(path string) {
		if filepath.Ext(path) != ".lox" {
			return
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return
		}
		if _, ok := seen[abs]; ok {
			return
		}
		seen[abs] = struct{}{}
		files = append(files, abs)
	}

	for _, target := range targets {
		info, err := os.Stat(target)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", target, err)
		}
		if !info.IsDir() {
			addFile(target)
			continue
		}
		err = filepath.WalkDir(target, func(path string, entry fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if entry.IsDir() {
				return nil
			}
			addFile(path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", target, err)
		}
	}

	sort.Strings(files)
	return files, nil
}

// formatLoxSource normalizes line endings and trailing whitespace, then
// re-indents each line by its brace depth. Lines inside multi-line string
// literals are left untouched. Sources that fail to scan only get the
// whitespace pass.
func formatLoxSource(source string) string {
	normalized := strings.ReplaceAll(source, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	lines := strings.Split(normalized, "\n")

	diags := &lox.Diagnostics{}
	tokens := lox.Scan(normalized, diags)
	if diags.HasErrors() {
		for i, line := range lines {
			lines[i] = strings.TrimRight(line, " \t")
		}
		return finishFormatting(lines)
	}

	layout := layoutLines(tokens)
	depth := 0
	for i, line := range lines {
		lineNo := i + 1
		switch {
		case layout.verbatim[lineNo]:
		case layout.openString[lineNo]:
			lines[i] = indentLine(strings.TrimLeft(line, " \t"), depth, layout.first[lineNo])
		default:
			lines[i] = indentLine(strings.TrimSpace(line), depth, layout.first[lineNo])
		}
		depth = max(depth+layout.delta[lineNo], 0)
	}
	return finishFormatting(lines)
}

type lineLayout struct {
	delta      map[int]int
	first      map[int]string
	verbatim   map[int]bool
	openString map[int]bool
}

func layoutLines(tokens []lox.Token) lineLayout {
	layout := lineLayout{
		delta:      make(map[int]int),
		first:      make(map[int]string),
		verbatim:   make(map[int]bool),
		openString: make(map[int]bool),
	}
	for _, tok := range tokens {
		if tok.Lexeme == "" {
			continue
		}
		line := tok.Pos.Line
		if _, ok := layout.first[line]; !ok {
			layout.first[line] = tok.Lexeme
		}
		switch {
		case tok.Lexeme == "{":
			layout.delta[line]++
		case tok.Lexeme == "}":
			layout.delta[line]--
		case strings.HasPrefix(tok.Lexeme, `"`):
			if n := strings.Count(tok.Lexeme, "\n"); n > 0 {
				layout.openString[line] = true
				for k := 1; k <= n; k++ {
					layout.verbatim[line+k] = true
				}
			}
		}
	}
	return layout
}

func indentLine(text string, depth int, first string) string {
	if text == "" {
		return ""
	}
	if first == "}" {
		depth--
	}
	return strings.Repeat(indentUnit, max(depth, 0)) + text
}

func finishFormatting(lines []string) string {
	joined := strings.Join(lines, "\n")
	joined = strings.TrimRight(joined, "\n")
	return joined + "\n"
}
