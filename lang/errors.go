package lang

import (
	"fmt"

	"github.com/Jogll1/J-JMPL/parser"
)

// RuntimeError is a dynamic diagnostic raised while interpreting a resolved
// program: a type mismatch, an undefined identifier, division by zero, a
// wrong-arity call. It carries the offending token so the driver can report
// a line number, and shares parser.ErrorKind's taxonomy so static and
// dynamic errors render with the same "[line N] KindError: message." shape.
type RuntimeError struct {
	Token   parser.Token
	Kind    parser.ErrorKind
	Message string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("[line %d] %s: %s.", e.Token.Line, e.Kind, e.Message)
}

// returnSignal unwinds the call stack back to the enclosing Function.Call
// when a return statement executes. It is never surfaced to a caller
// outside this package; Function.Call is the only place that inspects it,
// and Interpreter.executeBlock passes it through unchanged.
type returnSignal struct {
	value Value
}

func (returnSignal) Error() string { return "return outside a function call" }
