package main

import (
	"bytes"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func newTestREPLModel(t *testing.T) replModel {
	t.Helper()
	m, err := newREPLModel(defaultCLIConfig())
	if err != nil {
		t.Fatalf("new repl model: %v", err)
	}
	return m
}

func submit(t *testing.T, m replModel, input string) (replModel, tea.Cmd) {
	t.Helper()
	m.textInput.SetValue(input)
	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	rm, ok := model.(replModel)
	if !ok {
		t.Fatalf("unexpected model type %T", model)
	}
	return rm, cmd
}

func TestUpdateQuitCommandReturnsQuit(t *testing.T) {
	rm, cmd := submit(t, newTestREPLModel(t), ":quit")

	if !rm.quitting {
		t.Fatalf("quitting flag not set")
	}
	if rm.textInput.Value() != "" {
		t.Fatalf("input not cleared after quit command")
	}
	if cmd == nil {
		t.Fatalf("expected tea.Quit command")
	}
	if msg := cmd(); msg != nil {
		if _, ok := msg.(tea.QuitMsg); !ok {
			t.Fatalf("expected QuitMsg, got %T", msg)
		}
	}
}

func TestUpdateNonQuitCommandDoesNotReturnCmd(t *testing.T) {
	rm, cmd := submit(t, newTestREPLModel(t), ":help")

	if cmd != nil {
		t.Fatalf("expected no command for non-quit input")
	}
	if rm.quitting {
		t.Fatalf("quitting should remain false")
	}
	if !rm.showHelp {
		t.Fatalf("help toggle should be enabled")
	}
	if rm.textInput.Value() != "" {
		t.Fatalf("input not cleared after command")
	}
}

func TestUpdateEvaluatesAndKeepsGlobals(t *testing.T) {
	m := newTestREPLModel(t)
	m, _ = submit(t, m, "var score = 40")
	m, _ = submit(t, m, "score + 2")
	m, _ = submit(t, m, "print score")

	if len(m.history) != 3 {
		t.Fatalf("expected 3 history entries, got %d", len(m.history))
	}
	if got := m.history[1].output; got != "42" {
		t.Fatalf("expected echoed value 42, got %q", got)
	}
	if got := m.history[2].output; got != "40" {
		t.Fatalf("expected printed output 40, got %q", got)
	}
	if len(m.cmdHistory) != 3 {
		t.Fatalf("expected 3 recorded commands, got %d", len(m.cmdHistory))
	}
}

func TestUpdateReportsErrors(t *testing.T) {
	m, _ := submit(t, newTestREPLModel(t), "print missing;")
	entry := m.history[0]
	if !entry.isErr {
		t.Fatalf("expected error entry, got %+v", entry)
	}
	if !strings.Contains(entry.output, "Undefined variable 'missing'.") {
		t.Fatalf("unexpected error output %q", entry.output)
	}
}

func TestResetCommandClearsGlobals(t *testing.T) {
	m := newTestREPLModel(t)
	m, _ = submit(t, m, "var a = 1;")
	m, _ = submit(t, m, ":reset")
	m, _ = submit(t, m, "a")

	last := m.history[len(m.history)-1]
	if !last.isErr || !strings.Contains(last.output, "Undefined variable 'a'.") {
		t.Fatalf("expected a to be undefined after reset, got %+v", last)
	}
}

func TestHistoryNavigation(t *testing.T) {
	m := newTestREPLModel(t)
	m, _ = submit(t, m, "1 + 1")
	m, _ = submit(t, m, "2 + 2")

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = model.(replModel)
	if m.textInput.Value() != "2 + 2" {
		t.Fatalf("expected latest command, got %q", m.textInput.Value())
	}
	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = model.(replModel)
	if m.textInput.Value() != "1 + 1" {
		t.Fatalf("expected previous command, got %q", m.textInput.Value())
	}
	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = model.(replModel)
	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = model.(replModel)
	if m.textInput.Value() != "" || m.historyIdx != -1 {
		t.Fatalf("expected navigation to return to an empty prompt, got %q", m.textInput.Value())
	}
}

func TestAutocompleteCompletesGlobalsAndKeywords(t *testing.T) {
	m := newTestREPLModel(t)
	m, _ = submit(t, m, "fun fibonacci(n) { return n; }")

	m.textInput.SetValue("print fibo")
	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = model.(replModel)
	if m.textInput.Value() != "print fibonacci" {
		t.Fatalf("expected completed global, got %q", m.textInput.Value())
	}

	m.textInput.SetValue("whi")
	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = model.(replModel)
	if m.textInput.Value() != "while" {
		t.Fatalf("expected completed keyword, got %q", m.textInput.Value())
	}

	m.textInput.SetValue("f")
	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = model.(replModel)
	last := m.history[len(m.history)-1]
	if last.output != "Completions: false, fibonacci, for, fun" {
		t.Fatalf("unexpected completions %q", last.output)
	}
}

func TestHistoryLimitDropsOldestEntries(t *testing.T) {
	cfg := defaultCLIConfig()
	cfg.REPL.HistoryLimit = 2
	m, err := newREPLModel(cfg)
	if err != nil {
		t.Fatalf("new repl model: %v", err)
	}
	m, _ = submit(t, m, "1")
	m, _ = submit(t, m, "2")
	m, _ = submit(t, m, "3")

	if len(m.history) != 2 || m.history[0].output != "2" {
		t.Fatalf("expected the two newest entries, got %+v", m.history)
	}
}

func TestPlainREPL(t *testing.T) {
	in := strings.NewReader("var x = 2;\nx * 3\nprint \"hi\";\nprint nope;\n:quit\nprint 99;\n")
	var out bytes.Buffer

	if err := runPlainREPL(in, &out, defaultCLIConfig()); err != nil {
		t.Fatalf("plain repl failed: %v", err)
	}
	got := out.String()
	for _, want := range []string{"lox> ", "6\n", "hi\n", "Undefined variable 'nope'."} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in output:\n%s", want, got)
		}
	}
	if strings.Contains(got, "99") {
		t.Fatalf("expected :quit to stop the session:\n%s", got)
	}
}
