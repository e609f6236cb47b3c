package lox

import (
	"errors"
	"fmt"
	"strings"
)

type StackFrame struct {
	Function string
	Pos      Position
}

// RuntimeError aborts the current program. Token is the operator, name or
// parenthesis the failure is reported against.
type RuntimeError struct {
	Message   string
	Token     Token
	CodeFrame string
	Frames    []StackFrame
}

const (
	runtimeErrorFrameHead = 8
	runtimeErrorFrameTail = 8
)

var errStepQuotaExceeded = errors.New("step quota exceeded")

func (re *RuntimeError) Error() string {
	var b strings.Builder
	b.WriteString(re.Message)
	fmt.Fprintf(&b, "\n[line %d]", re.Token.Pos.Line)
	if re.CodeFrame != "" {
		b.WriteString("\n")
		b.WriteString(re.CodeFrame)
	}
	renderFrame := func(frame StackFrame) {
		if frame.Pos.Line > 0 && frame.Pos.Column > 0 {
			fmt.Fprintf(&b, "\n  at %s (%d:%d)", frame.Function, frame.Pos.Line, frame.Pos.Column)
		} else if frame.Pos.Line > 0 {
			fmt.Fprintf(&b, "\n  at %s (line %d)", frame.Function, frame.Pos.Line)
		} else {
			fmt.Fprintf(&b, "\n  at %s", frame.Function)
		}
	}

	if len(re.Frames) <= runtimeErrorFrameHead+runtimeErrorFrameTail {
		for _, frame := range re.Frames {
			renderFrame(frame)
		}
		return b.String()
	}

	for _, frame := range re.Frames[:runtimeErrorFrameHead] {
		renderFrame(frame)
	}
	omitted := len(re.Frames) - (runtimeErrorFrameHead + runtimeErrorFrameTail)
	fmt.Fprintf(&b, "\n  ... %d frames omitted ...", omitted)
	for _, frame := range re.Frames[len(re.Frames)-runtimeErrorFrameTail:] {
		renderFrame(frame)
	}
	return b.String()
}

func (in *Interpreter) errorAt(tok Token, format string, args ...any) error {
	return in.newRuntimeError(tok, fmt.Sprintf(format, args...))
}

func (in *Interpreter) newRuntimeError(tok Token, message string) error {
	frames := make([]StackFrame, 0, len(in.callStack)+1)
	if len(in.callStack) > 0 {
		// innermost function at the failure point, then each call site
		current := in.callStack[len(in.callStack)-1]
		frames = append(frames, StackFrame{Function: current.Function, Pos: tok.Pos})
		for i := len(in.callStack) - 1; i >= 0; i-- {
			frames = append(frames, StackFrame(in.callStack[i]))
		}
	} else {
		frames = append(frames, StackFrame{Function: "<script>", Pos: tok.Pos})
	}
	return &RuntimeError{
		Message:   message,
		Token:     tok,
		CodeFrame: formatCodeFrame(in.source, tok.Pos),
		Frames:    frames,
	}
}

// wrapError turns host errors, such as a native failure or a broken writer,
// into runtime errors reported at tok.
func (in *Interpreter) wrapError(err error, tok Token) error {
	if err == nil {
		return nil
	}
	var runtimeErr *RuntimeError
	if errors.As(err, &runtimeErr) {
		return err
	}
	return in.newRuntimeError(tok, err.Error())
}
