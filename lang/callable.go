package lang

import "github.com/Jogll1/J-JMPL/parser"

// Callable is anything JMPL can invoke with `name(args...)`: a
// user-declared Function or a native intrinsic.
type Callable interface {
	Arity() int
	Call(interp *Interpreter, args []Value) (Value, error)
	String() string
}

// Function is a user-declared function together with the environment it
// closed over at the point of its declaration.
type Function struct {
	declaration *parser.FunctionStmt
	closure     *Environment
}

// NewFunction wraps a parsed function declaration with its defining
// environment.
func NewFunction(declaration *parser.FunctionStmt, closure *Environment) *Function {
	return &Function{declaration: declaration, closure: closure}
}

func (f *Function) Arity() int { return len(f.declaration.Params) }

// Call binds each parameter in a fresh environment enclosed by the
// closure (not the caller's environment — that is what makes closures
// work), then runs the body as a block. A return statement surfaces as a
// returnSignal error, which Call unwraps into its value; falling off the
// end of the body yields the block's implicit last-expression value.
func (f *Function) Call(interp *Interpreter, args []Value) (Value, error) {
	env := NewEnvironment(f.closure)
	for i, param := range f.declaration.Params {
		if err := env.Define(param, args[i]); err != nil {
			return Value{}, err
		}
	}

	value, err := interp.executeBlockStmt(f.declaration.Body, env)
	if err != nil {
		if ret, ok := err.(returnSignal); ok {
			return ret.value, nil
		}
		return Value{}, err
	}
	return value, nil
}

func (f *Function) String() string {
	return "<fn " + f.declaration.Name.Lexeme + ">"
}

// NativeFunction is a built-in intrinsic: a bare Go closure exposing a
// fixed arity, used for `clock` and `args`.
type NativeFunction struct {
	name  string
	arity int
	fn    func(interp *Interpreter, args []Value) (Value, error)
}

// NewNativeFunction wraps fn as a Callable named name with the given arity.
func NewNativeFunction(name string, arity int, fn func(interp *Interpreter, args []Value) (Value, error)) *NativeFunction {
	return &NativeFunction{name: name, arity: arity, fn: fn}
}

func (n *NativeFunction) Arity() int { return n.arity }

func (n *NativeFunction) Call(interp *Interpreter, args []Value) (Value, error) {
	return n.fn(interp, args)
}

func (n *NativeFunction) String() string { return "<native fn>" }
