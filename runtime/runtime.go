// Package runtime wires the parser, resolver, and lang packages together
// into the process-level operations main.go drives: running a whole
// program from source, with intrinsics installed into a fresh global
// environment.
package runtime

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Jogll1/J-JMPL/lang"
	"github.com/Jogll1/J-JMPL/parser"
	"github.com/Jogll1/J-JMPL/resolver"
)

// Session is a persistent interpreter instance: the driver keeps one alive
// across REPL lines so later lines can see earlier definitions, exactly as
// the global environment is meant to behave across a session.
type Session struct {
	interp *lang.Interpreter
}

// NewSession constructs a Session with a fresh global environment bootstrapped
// with JMPL's intrinsics (clock, args), writing `out` statements to stdout.
// scriptPath is what the `args` intrinsic reports; pass "" for REPL mode.
func NewSession(scriptPath string) *Session {
	interp := lang.NewInterpreter(lang.Locals{})
	installIntrinsics(interp, scriptPath)
	return &Session{interp: interp}
}

func installIntrinsics(interp *lang.Interpreter, scriptPath string) {
	interp.Globals.DefineNative("clock", lang.CallableValue(lang.NewNativeFunction(
		"clock", 0,
		func(*lang.Interpreter, []lang.Value) (lang.Value, error) {
			return lang.NumberValue(float64(time.Now().UnixNano()) / 1e9), nil
		},
	)))
	interp.Globals.DefineNative("args", lang.CallableValue(lang.NewNativeFunction(
		"args", 0,
		func(*lang.Interpreter, []lang.Value) (lang.Value, error) {
			return lang.StringValue(scriptPath), nil
		},
	)))
}

// Result reports how a single Run invocation went, so the CLI can pick the
// right exit code without re-deriving it from the error type.
type Result struct {
	HadStaticError  bool
	HadRuntimeError error
}

// Run scans, parses, resolves, and (if no static errors were found)
// interprets src against the session's persistent environment. Diagnostics
// are written to stderr in the spec's wire format; stdout receives `out`
// statement output via the session's interpreter.
func (s *Session) Run(src string, stderr io.Writer) Result {
	lx := parser.NewLexer(src)
	tokens := lx.ScanTokens()

	p := parser.NewParser(tokens)
	statements := p.Parse()

	var hadStatic bool
	for _, e := range lx.Errors() {
		fmt.Fprintln(stderr, e.Error())
		hadStatic = true
	}
	for _, e := range p.Errors() {
		fmt.Fprintln(stderr, e.Error())
		hadStatic = true
	}
	if hadStatic {
		return Result{HadStaticError: true}
	}

	res := resolver.New()
	locals, resErrs := res.Resolve(statements)
	for _, e := range resErrs {
		fmt.Fprintln(stderr, e.Error())
		hadStatic = true
	}
	if hadStatic {
		return Result{HadStaticError: true}
	}

	s.interp.SetLocals(locals)
	if err := s.interp.Interpret(statements); err != nil {
		fmt.Fprintln(stderr, err.Error())
		return Result{HadRuntimeError: err}
	}
	return Result{}
}

// RunFile reads path as UTF-8 and runs it once against a fresh Session. It
// returns the exit code the spec mandates for file mode: 0 on success, 65
// on a static (scan/parse/resolve) error, 70 on a runtime error.
func RunFile(path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 65
	}

	session := NewSession(path)
	result := session.Run(string(data), os.Stderr)
	switch {
	case result.HadStaticError:
		return 65
	case result.HadRuntimeError != nil:
		return 70
	default:
		return 0
	}
}
