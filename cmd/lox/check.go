package main

import (
	"errors"
	"flag"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/mgomes/treelox/lox"
)

type lintWarning struct {
	Function string
	Pos      lox.Position
	Message  string
}

func checkCommand(args []string) error {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	configPath := fs.String("config", "", "path to a YAML config file")
	if err := fs.Parse(args); err != nil {
		return &exitError{code: exitUsage, err: err}
	}

	remaining := fs.Args()
	if len(remaining) == 0 {
		return &exitError{code: exitUsage, err: errors.New("lox check: script path required")}
	}

	scriptPath, err := filepath.Abs(remaining[0])
	if err != nil {
		return fmt.Errorf("resolve script path: %w", err)
	}
	source, err := readScript(scriptPath)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	engine, err := lox.NewEngine(cfg.engineConfig(nil))
	if err != nil {
		return err
	}

	if diags := engine.Check(source); len(diags) > 0 {
		for _, diag := range diags {
			fmt.Printf("%s:%d:%d: %s error: %s\n", scriptPath, diag.Pos.Line, max(diag.Pos.Column, 1), diag.Phase, diag.Message)
		}
		return &exitError{code: exitDataErr, err: fmt.Errorf("check found %d error(s)", len(diags))}
	}

	prog, err := engine.Compile(source)
	if err != nil {
		return err
	}
	warnings := lintProgram(prog)
	if len(warnings) == 0 {
		fmt.Println("No issues found")
		return nil
	}

	for _, warning := range warnings {
		fmt.Printf("%s:%d:%d: %s (%s)\n", scriptPath, max(warning.Pos.Line, 1), max(warning.Pos.Column, 1), warning.Message, warning.Function)
	}
	return fmt.Errorf("analysis found %d issue(s)", len(warnings))
}

func lintProgram(prog *lox.Program) []lintWarning {
	warnings := make([]lintWarning, 0)
	lintStatements("<script>", prog.Statements, &warnings)

	sort.SliceStable(warnings, func(i, j int) bool {
		if warnings[i].Pos.Line != warnings[j].Pos.Line {
			return warnings[i].Pos.Line < warnings[j].Pos.Line
		}
		return warnings[i].Pos.Column < warnings[j].Pos.Column
	})
	return warnings
}

// lintStatements flags statements that follow a return in the same block and
// reports whether the block always returns.
func lintStatements(function string, statements []lox.Stmt, warnings *[]lintWarning) bool {
	terminated := false
	for _, stmt := range statements {
		if terminated {
			*warnings = append(*warnings, lintWarning{
				Function: function,
				Pos:      stmt.Pos(),
				Message:  "unreachable statement",
			})
			continue
		}
		if statementTerminates(function, stmt, warnings) {
			terminated = true
		}
	}
	return terminated
}

func statementTerminates(function string, stmt lox.Stmt, warnings *[]lintWarning) bool {
	switch typed := stmt.(type) {
	case *lox.ReturnStmt:
		return true
	case *lox.BlockStmt:
		return lintStatements(function, typed.Statements, warnings)
	case *lox.IfStmt:
		thenTerminated := statementTerminates(function, typed.Then, warnings)
		if typed.Else == nil {
			return false
		}
		elseTerminated := statementTerminates(function, typed.Else, warnings)
		return thenTerminated && elseTerminated
	case *lox.WhileStmt:
		statementTerminates(function, typed.Body, warnings)
		return false
	case *lox.FunctionStmt:
		lintStatements(typed.Name.Lexeme, typed.Body, warnings)
		return false
	case *lox.ClassStmt:
		for _, method := range typed.Methods {
			lintStatements(typed.Name.Lexeme+"."+method.Name.Lexeme, method.Body, warnings)
		}
		return false
	default:
		return false
	}
}
