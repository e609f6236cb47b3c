package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeLoxFile(t *testing.T, dir, name, source string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestFmtCommandRequiresPath(t *testing.T) {
	err := fmtCommand(nil)
	if err == nil {
		t.Fatalf("expected error")
	}
	var exitErr *exitError
	if !errors.As(err, &exitErr) || exitErr.code != exitUsage {
		t.Fatalf("expected usage exit, got %v", err)
	}
}

func TestFmtCommandCheckDetectsChanges(t *testing.T) {
	dir := t.TempDir()
	path := writeLoxFile(t, dir, "messy.lox", "fun f() {  \nprint 1;\n}")

	err := fmtCommand([]string{"-check", path})
	if err == nil {
		t.Fatalf("expected check failure")
	}
	if !strings.Contains(err.Error(), "1 file(s) need formatting") {
		t.Fatalf("unexpected error: %v", err)
	}

	data, readErr := os.ReadFile(path)
	if readErr != nil {
		t.Fatalf("read: %v", readErr)
	}
	if string(data) != "fun f() {  \nprint 1;\n}" {
		t.Fatalf("check mode modified the file: %q", string(data))
	}
}

func TestFmtCommandCheckPassesFormattedFiles(t *testing.T) {
	dir := t.TempDir()
	path := writeLoxFile(t, dir, "clean.lox", "fun f() {\n  print 1;\n}\n")
	if err := fmtCommand([]string{"-check", path}); err != nil {
		t.Fatalf("expected formatted file to pass: %v", err)
	}
}

func TestFmtCommandWriteReindents(t *testing.T) {
	dir := t.TempDir()
	path := writeLoxFile(t, dir, "messy.lox", "fun f() {  \nprint 1;\t \n}")

	if err := fmtCommand([]string{"-w", path}); err != nil {
		t.Fatalf("fmt -w failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := "fun f() {\n  print 1;\n}\n"
	if string(data) != want {
		t.Fatalf("expected %q, got %q", want, string(data))
	}
}

func TestFmtCommandPrintsToStdout(t *testing.T) {
	dir := t.TempDir()
	path := writeLoxFile(t, dir, "script.lox", "class A {\r\ninit() {\r\nthis.x = 1;\r\n}\r\n}\r\n")

	out, err := captureStdout(t, func() error {
		return fmtCommand([]string{path})
	})
	if err != nil {
		t.Fatalf("fmt failed: %v", err)
	}
	want := "class A {\n  init() {\n    this.x = 1;\n  }\n}\n"
	if out != want {
		t.Fatalf("expected %q, got %q", want, out)
	}
}

func TestFmtCommandWalksDirectories(t *testing.T) {
	dir := t.TempDir()
	first := writeLoxFile(t, dir, "a.lox", "print 1;   \n")
	second := writeLoxFile(t, dir, filepath.Join("nested", "b.lox"), "{\nprint 2;\n}\n")
	other := writeLoxFile(t, dir, "notes.txt", "keep   \n")

	if err := fmtCommand([]string{"-w", dir}); err != nil {
		t.Fatalf("fmt -w failed: %v", err)
	}

	expectFile := func(path, want string) {
		t.Helper()
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read %s: %v", path, err)
		}
		if string(data) != want {
			t.Fatalf("%s: expected %q, got %q", filepath.Base(path), want, string(data))
		}
	}
	expectFile(first, "print 1;\n")
	expectFile(second, "{\n  print 2;\n}\n")
	expectFile(other, "keep   \n")
}

func TestFormatLoxSourceKeepsMultilineStrings(t *testing.T) {
	source := "{\nprint \"a\n   b\";\n}\n"
	got := formatLoxSource(source)
	want := "{\n  print \"a\n   b\";\n}\n"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestFormatLoxSourceLeavesInvalidSourceIndentation(t *testing.T) {
	got := formatLoxSource("{\n    print @;  \n}")
	want := "{\n    print @;\n}\n"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
