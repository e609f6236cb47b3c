package lox

import (
	"fmt"
	"io"
	"maps"
	"os"
	"time"
)

const defaultRecursionLimit = 1024

// Config controls interpreter output and execution bounds.
type Config struct {
	// Stdout receives the output of print statements. Defaults to os.Stdout.
	Stdout io.Writer
	// RecursionLimit caps the call depth; exceeding it is the runtime error
	// "Stack overflow.". Defaults to 1024.
	RecursionLimit int
	// StepQuota caps executed statements per run. Zero means unlimited.
	StepQuota int
	// Clock backs the clock native. Defaults to time.Now.
	Clock func() time.Time
}

// Engine runs Lox source through scanning, parsing, resolution and
// interpretation. Global state persists across runs until Reset.
type Engine struct {
	config Config
	interp *Interpreter
}

// Program is source that passed every static phase and is ready to execute.
type Program struct {
	Source     string
	Statements []Stmt
	Locals     Locals
}

// NewEngine constructs an Engine, filling defaults for unset fields.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.RecursionLimit < 0 {
		return nil, fmt.Errorf("recursion limit must be non-negative, got %d", cfg.RecursionLimit)
	}
	if cfg.StepQuota < 0 {
		return nil, fmt.Errorf("step quota must be non-negative, got %d", cfg.StepQuota)
	}
	if cfg.RecursionLimit == 0 {
		cfg.RecursionLimit = defaultRecursionLimit
	}
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}

	return &Engine{config: cfg, interp: newInterpreter(cfg)}, nil
}

// MustNewEngine constructs an Engine or panics if the config is invalid.
func MustNewEngine(cfg Config) *Engine {
	engine, err := NewEngine(cfg)
	if err != nil {
		panic(err)
	}
	return engine
}

// Compile scans, parses and resolves source. Any static diagnostic yields a
// *StaticError and no program.
func (e *Engine) Compile(source string) (*Program, error) {
	diags := &Diagnostics{}
	stmts, locals := analyze(source, diags)
	if err := diags.Err(source); err != nil {
		return nil, err
	}
	return &Program{Source: source, Statements: stmts, Locals: locals}, nil
}

// Check reports the static diagnostics of source without running it.
func (e *Engine) Check(source string) []Diagnostic {
	diags := &Diagnostics{}
	analyze(source, diags)
	return diags.Items()
}

// analyze runs the static phases. Resolution is skipped once the parser has
// reported errors, since the tree is missing the statements that failed.
func analyze(source string, diags *Diagnostics) ([]Stmt, Locals) {
	tokens := Scan(source, diags)
	stmts := Parse(tokens, diags)
	if diags.HasErrors() {
		return stmts, nil
	}
	return stmts, Resolve(stmts, diags)
}

// Execute runs a compiled program against the engine's globals.
func (e *Engine) Execute(prog *Program) error {
	e.interp.source = prog.Source
	return e.interp.Interpret(prog.Statements, prog.Locals)
}

// Run compiles and executes source. It returns a *StaticError, a
// *RuntimeError, or nil.
func (e *Engine) Run(source string) error {
	prog, err := e.Compile(source)
	if err != nil {
		return err
	}
	return e.Execute(prog)
}

// Eval runs source like Run. When source is a single expression statement
// its value is returned with ok set, which is how the REPL echoes results.
func (e *Engine) Eval(source string) (Value, bool, error) {
	prog, err := e.Compile(source)
	if err != nil {
		return Value{}, false, err
	}
	if len(prog.Statements) == 1 {
		if stmt, isExpr := prog.Statements[0].(*ExprStmt); isExpr {
			e.interp.source = prog.Source
			val, err := e.interp.evalTopLevel(stmt.Expr, prog.Locals)
			if err != nil {
				return Value{}, false, err
			}
			return val, true, nil
		}
	}
	return Value{}, false, e.Execute(prog)
}

// Globals returns a snapshot of the global bindings, natives included.
func (e *Engine) Globals() map[string]Value {
	return maps.Clone(e.interp.Globals().values)
}

// Reset discards every global defined by earlier runs.
func (e *Engine) Reset() {
	e.interp = newInterpreter(e.config)
}
