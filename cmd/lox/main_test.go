package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunCLIHelp(t *testing.T) {
	if err := runCLI([]string{"lox", "help"}); err != nil {
		t.Fatalf("runCLI help failed: %v", err)
	}
}

func TestRunCLITooManyArguments(t *testing.T) {
	err := runCLI([]string{"lox", "one.lox", "two.lox"})
	if err == nil {
		t.Fatalf("expected invalid command error")
	}
	if !strings.Contains(err.Error(), "invalid command") {
		t.Fatalf("unexpected error: %v", err)
	}
	if code := exitCode(err); code != exitUsage {
		t.Fatalf("expected exit code %d, got %d", exitUsage, code)
	}
}

func TestRunCLIRunsScriptPath(t *testing.T) {
	scriptPath := writeScript(t, "var greeting = \"hello\";\nprint greeting;")

	out, err := captureStdout(t, func() error {
		return runCLI([]string{"lox", scriptPath})
	})
	if err != nil {
		t.Fatalf("runCLI failed: %v", err)
	}
	if out != "hello\n" {
		t.Fatalf("unexpected stdout: %q", out)
	}
}

func TestRunCommandPrintsOutput(t *testing.T) {
	scriptPath := writeScript(t, `
class Greeter {
  init(name) { this.name = name; }
  greet() { return "hi " + this.name; }
}
print Greeter("lox").greet();
print 1 + 2;
`)

	out, err := captureStdout(t, func() error {
		return runCommand([]string{scriptPath})
	})
	if err != nil {
		t.Fatalf("runCommand failed: %v", err)
	}
	if out != "hi lox\n3\n" {
		t.Fatalf("unexpected stdout: %q", out)
	}
}

func TestRunCommandRequiresScriptPath(t *testing.T) {
	err := runCommand(nil)
	if err == nil {
		t.Fatalf("expected script path error")
	}
	if !strings.Contains(err.Error(), "script path required") {
		t.Fatalf("unexpected error: %v", err)
	}
	if code := exitCode(err); code != exitUsage {
		t.Fatalf("expected exit code %d, got %d", exitUsage, code)
	}
}

func TestRunCommandExitCodes(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		code    int
		message string
	}{
		{"syntax", "print ;", exitDataErr, "Expect expression."},
		{"resolve", "return 1;", exitDataErr, "Can't return from top-level code."},
		{"runtime", "print nil + 1;", exitSoftware, "Operands of '+' must be two numbers or two strings."},
	}
	for _, tc := range tests {
		scriptPath := writeScript(t, tc.source)
		_, err := captureStdout(t, func() error {
			return runCommand([]string{scriptPath})
		})
		if err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		if code := exitCode(err); code != tc.code {
			t.Fatalf("%s: expected exit code %d, got %d", tc.name, tc.code, code)
		}
		if !strings.Contains(err.Error(), tc.message) {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
	}
}

func TestRunCommandMissingFile(t *testing.T) {
	err := runCommand([]string{filepath.Join(t.TempDir(), "missing.lox")})
	if err == nil {
		t.Fatalf("expected read error")
	}
	if code := exitCode(err); code != exitNoInput {
		t.Fatalf("expected exit code %d, got %d", exitNoInput, code)
	}
}

func TestRunCommandAppliesConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "lox.yaml")
	if err := os.WriteFile(configPath, []byte("recursion_limit: 5\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	scriptPath := writeScript(t, "fun down(n) { if (n > 0) down(n - 1); }\ndown(10);")

	err := runCommand([]string{"-config", configPath, scriptPath})
	if err == nil {
		t.Fatalf("expected stack overflow with a recursion limit of 5")
	}
	if !strings.Contains(err.Error(), "Stack overflow.") {
		t.Fatalf("unexpected error: %v", err)
	}
	if code := exitCode(err); code != exitSoftware {
		t.Fatalf("expected exit code %d, got %d", exitSoftware, code)
	}
}

func TestCheckCommandNoIssues(t *testing.T) {
	scriptPath := writeScript(t, "fun add(a, b) { return a + b; }\nprint add(1, 2);")

	out, err := captureStdout(t, func() error {
		return checkCommand([]string{scriptPath})
	})
	if err != nil {
		t.Fatalf("checkCommand failed: %v", err)
	}
	if !strings.Contains(out, "No issues found") {
		t.Fatalf("unexpected check output: %q", out)
	}
}

func TestCheckCommandReportsUnreachableStatements(t *testing.T) {
	scriptPath := writeScript(t, "fun f() {\n  return 1;\n  print 2;\n}")

	out, err := captureStdout(t, func() error {
		return checkCommand([]string{scriptPath})
	})
	if err == nil {
		t.Fatalf("expected check command to report lint failures")
	}
	if !strings.Contains(err.Error(), "analysis found 1 issue(s)") {
		t.Fatalf("unexpected check error: %v", err)
	}
	if !strings.Contains(out, ":3:3: unreachable statement (f)") {
		t.Fatalf("expected unreachable statement warning, got %q", out)
	}
}

func TestCheckCommandReportsStaticErrors(t *testing.T) {
	scriptPath := writeScript(t, "print 1;\n{ var a = a; }\nreturn;")

	out, err := captureStdout(t, func() error {
		return checkCommand([]string{scriptPath})
	})
	if err == nil {
		t.Fatalf("expected static errors")
	}
	if code := exitCode(err); code != exitDataErr {
		t.Fatalf("expected exit code %d, got %d", exitDataErr, code)
	}
	if !strings.Contains(err.Error(), "check found 2 error(s)") {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, ":2:11: resolve error: Can't read local variable in its own initializer.") {
		t.Fatalf("unexpected output: %q", out)
	}
	if strings.Contains(out, "1\n") {
		t.Fatalf("check must not execute the script: %q", out)
	}
}

func TestASTCommandPrintsTree(t *testing.T) {
	scriptPath := writeScript(t, "print 1 + 2 * 3;\nvar x = -1;")

	out, err := captureStdout(t, func() error {
		return astCommand([]string{scriptPath})
	})
	if err != nil {
		t.Fatalf("astCommand failed: %v", err)
	}
	if out != "(print (+ 1 (* 2 3)))\n(var x = (- 1))\n" {
		t.Fatalf("unexpected ast output: %q", out)
	}
}

func TestASTCommandRejectsSyntaxErrors(t *testing.T) {
	scriptPath := writeScript(t, "print (1;")
	err := astCommand([]string{scriptPath})
	if code := exitCode(err); code != exitDataErr {
		t.Fatalf("expected exit code %d, got %d (%v)", exitDataErr, code, err)
	}
}

func writeScript(t *testing.T, source string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.lox")
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w

	runErr := fn()
	_ = w.Close()
	os.Stdout = orig

	var buf bytes.Buffer
	if _, copyErr := io.Copy(&buf, r); copyErr != nil {
		t.Fatalf("read stdout: %v", copyErr)
	}
	_ = r.Close()
	return buf.String(), runErr
}
