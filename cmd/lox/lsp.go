package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"

	"github.com/mgomes/treelox/lox"
)

var lspBuiltins = []string{
	"clock",
}

const (
	completionKindFunction = 3
	completionKindVariable = 6
	completionKindClass    = 7
	completionKindKeyword  = 14
)

type lspInboundMessage struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      *json.RawMessage `json:"id,omitempty"`
	Method  string           `json:"method,omitempty"`
	Params  json.RawMessage  `json:"params,omitempty"`
}

type lspResponseError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type lspOutboundMessage struct {
	JSONRPC string            `json:"jsonrpc"`
	ID      *json.RawMessage  `json:"id,omitempty"`
	Method  string            `json:"method,omitempty"`
	Params  any               `json:"params,omitempty"`
	Result  any               `json:"result,omitempty"`
	Error   *lspResponseError `json:"error,omitempty"`
}

type lspDidOpenParams struct {
	TextDocument struct {
		URI  string `json:"uri"`
		Text string `json:"text"`
	} `json:"textDocument"`
}

type lspDidChangeParams struct {
	TextDocument struct {
		URI string `json:"uri"`
	} `json:"textDocument"`
	ContentChanges []struct {
		Text string `json:"text"`
	} `json:"contentChanges"`
}

type lspTextDocumentPositionParams struct {
	TextDocument struct {
		URI string `json:"uri"`
	} `json:"textDocument"`
	Position struct {
		Line      int `json:"line"`
		Character int `json:"character"`
	} `json:"position"`
}

type lspServer struct {
	reader *bufio.Reader
	writer *bufio.Writer
	engine *lox.Engine
	docs   map[string]string
}

func runLSP() error {
	server := &lspServer{
		reader: bufio.NewReader(os.Stdin),
		writer: bufio.NewWriter(os.Stdout),
		engine: lox.MustNewEngine(lox.Config{Stdout: io.Discard}),
		docs:   make(map[string]string),
	}
	return server.serve()
}

func (s *lspServer) serve() error {
	for {
		payload, err := s.readPayload()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}

		var incoming lspInboundMessage
		if err := json.Unmarshal(payload, &incoming); err != nil {
			continue
		}

		for _, msg := range s.handleMessage(incoming) {
			if err := s.writePayload(msg); err != nil {
				return err
			}
		}

		if incoming.Method == "exit" {
			return nil
		}
	}
}

func (s *lspServer) handleMessage(incoming lspInboundMessage) []lspOutboundMessage {
	switch incoming.Method {
	case "initialize":
		return []lspOutboundMessage{
			{
				JSONRPC: "2.0",
				ID:      incoming.ID,
				Result: map[string]any{
					"capabilities": map[string]any{
						"textDocumentSync": 1,
						"hoverProvider":    true,
						"completionProvider": map[string]any{
							"resolveProvider": false,
						},
					},
					"serverInfo": map[string]any{"name": "lox-lsp"},
				},
			},
		}
	case "initialized", "exit":
		return nil
	case "shutdown":
		if incoming.ID == nil {
			return nil
		}
		return []lspOutboundMessage{{JSONRPC: "2.0", ID: incoming.ID, Result: nil}}
	case "textDocument/didOpen":
		var params lspDidOpenParams
		if err := json.Unmarshal(incoming.Params, &params); err != nil {
			return nil
		}
		s.docs[params.TextDocument.URI] = params.TextDocument.Text
		return []lspOutboundMessage{
			s.publishDiagnostics(params.TextDocument.URI, params.TextDocument.Text),
		}
	case "textDocument/didChange":
		var params lspDidChangeParams
		if err := json.Unmarshal(incoming.Params, &params); err != nil {
			return nil
		}
		if len(params.ContentChanges) == 0 {
			return nil
		}
		latest := params.ContentChanges[len(params.ContentChanges)-1].Text
		s.docs[params.TextDocument.URI] = latest
		return []lspOutboundMessage{
			s.publishDiagnostics(params.TextDocument.URI, latest),
		}
	case "textDocument/completion":
		if incoming.ID == nil {
			return nil
		}
		var params lspTextDocumentPositionParams
		_ = json.Unmarshal(incoming.Params, &params)
		return []lspOutboundMessage{
			{
				JSONRPC: "2.0",
				ID:      incoming.ID,
				Result: map[string]any{
					"isIncomplete": false,
					"items":        completionItems(s.docs[params.TextDocument.URI]),
				},
			},
		}
	case "textDocument/hover":
		if incoming.ID == nil {
			return nil
		}
		var params lspTextDocumentPositionParams
		if err := json.Unmarshal(incoming.Params, &params); err != nil {
			return []lspOutboundMessage{
				{
					JSONRPC: "2.0",
					ID:      incoming.ID,
					Error:   &lspResponseError{Code: -32602, Message: "invalid hover params"},
				},
			}
		}
		source := s.docs[params.TextDocument.URI]
		word := wordAtPosition(source, params.Position.Line, params.Position.Character)
		if word == "" {
			return []lspOutboundMessage{
				{JSONRPC: "2.0", ID: incoming.ID, Result: nil},
			}
		}
		return []lspOutboundMessage{
			{
				JSONRPC: "2.0",
				ID:      incoming.ID,
				Result: map[string]any{
					"contents": map[string]any{
						"kind":  "markdown",
						"value": hoverText(word, source),
					},
				},
			},
		}
	default:
		if incoming.ID == nil {
			return nil
		}
		return []lspOutboundMessage{
			{
				JSONRPC: "2.0",
				ID:      incoming.ID,
				Error: &lspResponseError{
					Code:    -32601,
					Message: "method not found",
				},
			},
		}
	}
}

func (s *lspServer) publishDiagnostics(uri, source string) lspOutboundMessage {
	return lspOutboundMessage{
		JSONRPC: "2.0",
		Method:  "textDocument/publishDiagnostics",
		Params: map[string]any{
			"uri":         uri,
			"diagnostics": diagnosticsForSource(s.engine, source),
		},
	}
}

func diagnosticsForSource(engine *lox.Engine, source string) []map[string]any {
	diags := engine.Check(source)
	out := make([]map[string]any, 0, len(diags))
	lines := strings.Split(source, "\n")
	for _, diag := range diags {
		lineIdx := max(0, diag.Pos.Line-1)
		character := 0
		if lineIdx < len(lines) {
			character = utf16Offset(lines[lineIdx], diag.Pos.Column-1)
		}
		message := diag.Message
		if diag.Where != "" {
			message = fmt.Sprintf("Error %s: %s", diag.Where, diag.Message)
		}
		out = append(out, newDiagnostic(lineIdx, character, message))
	}
	return out
}

func newDiagnostic(line, character int, message string) map[string]any {
	return map[string]any{
		"range": map[string]any{
			"start": map[string]any{
				"line":      line,
				"character": character,
			},
			"end": map[string]any{
				"line":      line,
				"character": character + 1,
			},
		},
		"severity": 1,
		"source":   "lox-lsp",
		"message":  message,
	}
}

type declaredName struct {
	name   string
	kind   int
	detail string
}

// documentDeclarations lists the top-level functions, classes and variables
// of source. Statements that fail to parse are skipped.
func documentDeclarations(source string) []declaredName {
	if source == "" {
		return nil
	}
	diags := &lox.Diagnostics{}
	stmts := lox.Parse(lox.Scan(source, diags), diags)

	out := make([]declaredName, 0)
	for _, stmt := range stmts {
		switch decl := stmt.(type) {
		case *lox.FunctionStmt:
			params := make([]string, 0, len(decl.Params))
			for _, param := range decl.Params {
				params = append(params, param.Lexeme)
			}
			detail := fmt.Sprintf("fun %s(%s)", decl.Name.Lexeme, strings.Join(params, ", "))
			out = append(out, declaredName{name: decl.Name.Lexeme, kind: completionKindFunction, detail: detail})
		case *lox.ClassStmt:
			detail := "class " + decl.Name.Lexeme
			if decl.Superclass != nil {
				detail += " < " + decl.Superclass.Name.Lexeme
			}
			out = append(out, declaredName{name: decl.Name.Lexeme, kind: completionKindClass, detail: detail})
		case *lox.VarStmt:
			out = append(out, declaredName{name: decl.Name.Lexeme, kind: completionKindVariable, detail: "var " + decl.Name.Lexeme})
		}
	}
	return out
}

func completionItems(source string) []map[string]any {
	type entry struct {
		kind   int
		detail string
	}
	entries := make(map[string]entry)
	for _, keyword := range lox.Keywords() {
		entries[keyword] = entry{kind: completionKindKeyword, detail: "keyword"}
	}
	for _, builtin := range lspBuiltins {
		entries[builtin] = entry{kind: completionKindFunction, detail: "builtin"}
	}
	for _, decl := range documentDeclarations(source) {
		if _, taken := entries[decl.name]; !taken {
			entries[decl.name] = entry{kind: decl.kind, detail: decl.detail}
		}
	}

	labels := make([]string, 0, len(entries))
	for label := range entries {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	items := make([]map[string]any, 0, len(labels))
	for _, label := range labels {
		items = append(items, map[string]any{
			"label":  label,
			"kind":   entries[label].kind,
			"detail": entries[label].detail,
		})
	}
	return items
}

func hoverText(word, source string) string {
	for _, keyword := range lox.Keywords() {
		if keyword == word {
			return fmt.Sprintf("`%s`\n\nLox keyword", word)
		}
	}
	for _, builtin := range lspBuiltins {
		if builtin == word {
			return fmt.Sprintf("`%s`\n\nLox builtin", word)
		}
	}
	for _, decl := range documentDeclarations(source) {
		if decl.name == word {
			return fmt.Sprintf("```lox\n%s\n```", decl.detail)
		}
	}
	return fmt.Sprintf("`%s`\n\nLox symbol", word)
}

// wordAtPosition returns the identifier under an LSP position, where
// character counts UTF-16 code units.
func wordAtPosition(source string, line, character int) string {
	lines := strings.Split(source, "\n")
	if line < 0 || line >= len(lines) {
		return ""
	}

	runes := []rune(lines[line])
	if len(runes) == 0 {
		return ""
	}
	cursor := runeIndex(runes, max(character, 0))
	if cursor == len(runes) {
		cursor--
	}
	if !isWordRune(runes[cursor]) {
		if cursor > 0 && isWordRune(runes[cursor-1]) {
			cursor--
		} else {
			return ""
		}
	}

	start := cursor
	for start > 0 && isWordRune(runes[start-1]) {
		start--
	}
	end := cursor
	for end < len(runes) && isWordRune(runes[end]) {
		end++
	}
	return string(runes[start:end])
}

// runeIndex converts a UTF-16 offset into an index into runes.
func runeIndex(runes []rune, units int) int {
	count := 0
	for i, r := range runes {
		if count >= units {
			return i
		}
		count += utf16.RuneLen(r)
	}
	return len(runes)
}

// utf16Offset converts a rune index within line into UTF-16 code units.
func utf16Offset(line string, runeIdx int) int {
	units := 0
	for i, r := range []rune(line) {
		if i >= runeIdx {
			break
		}
		units += utf16.RuneLen(r)
	}
	return units
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func (s *lspServer) readPayload() ([]byte, error) {
	contentLength := -1
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}
		name := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if strings.EqualFold(name, "Content-Length") {
			n, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("invalid Content-Length: %w", err)
			}
			contentLength = n
		}
	}

	if contentLength < 0 {
		return nil, fmt.Errorf("missing Content-Length header")
	}
	payload := make([]byte, contentLength)
	if _, err := io.ReadFull(s.reader, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func (s *lspServer) writePayload(msg lspOutboundMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.writer, "Content-Length: %d\r\n\r\n", len(data)); err != nil {
		return err
	}
	if _, err := s.writer.Write(data); err != nil {
		return err
	}
	return s.writer.Flush()
}
