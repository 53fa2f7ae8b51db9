// Package lang implements JMPL's runtime: the dynamically-typed Value
// model, the lexical Environment chain, user and native Callables, and the
// tree-walking Interpreter that executes a resolved program against them.
package lang

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/Jogll1/J-JMPL/parser"
)

// Interpreter walks a resolved program's statements, evaluating each
// against a chain of Environments rooted at Globals. Locals is the
// resolver's side-table: a Variable/Assign node present in it is read or
// written at the recorded distance; absent nodes fall back to Globals.
type Interpreter struct {
	Globals     *Environment
	environment *Environment
	locals      Locals
	Stdout      io.Writer
}

// NewInterpreter constructs an Interpreter with a fresh global environment
// and the given resolved locals table. The caller is expected to install
// intrinsics into Globals afterwards (see runtime.NewSession).
func NewInterpreter(locals Locals) *Interpreter {
	globals := NewEnvironment(nil)
	return &Interpreter{
		Globals:     globals,
		environment: globals,
		locals:      locals,
		Stdout:      os.Stdout,
	}
}

// SetLocals replaces the resolution side-table consulted by variable
// lookups/assignments. The REPL re-resolves and calls this before each
// line, since each line is parsed independently but shares the same
// persistent global environment.
func (in *Interpreter) SetLocals(locals Locals) {
	in.locals = locals
}

// Interpret runs every top-level statement in order. It stops and returns
// the first *RuntimeError encountered, matching the spec's "runtime errors
// abort evaluation" rule.
func (in *Interpreter) Interpret(statements []parser.Stmt) error {
	for _, stmt := range statements {
		if err := in.execute(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (in *Interpreter) execute(stmt parser.Stmt) error {
	switch s := stmt.(type) {
	case *parser.ExpressionStmt:
		_, err := in.evaluate(s.Expression)
		return err
	case *parser.LetStmt:
		return in.executeLet(s)
	case *parser.BlockStmt:
		_, err := in.executeBlock(s.Statements, NewEnvironment(in.environment))
		return err
	case *parser.IfStmt:
		return in.executeIf(s)
	case *parser.WhileStmt:
		return in.executeWhile(s)
	case *parser.FunctionStmt:
		fn := NewFunction(s, in.environment)
		return in.environment.Define(s.Name, CallableValue(fn))
	case *parser.ReturnStmt:
		return in.executeReturn(s)
	case *parser.OutputStmt:
		return in.executeOutput(s)
	}
	return fmt.Errorf("lang: unknown statement type %T", stmt)
}

func (in *Interpreter) executeLet(s *parser.LetStmt) error {
	value := Null
	if s.Initialiser != nil {
		v, err := in.evaluate(s.Initialiser)
		if err != nil {
			return err
		}
		value = v
	}
	return in.environment.Define(s.Name, value)
}

func (in *Interpreter) executeIf(s *parser.IfStmt) error {
	cond, err := in.evaluate(s.Cond)
	if err != nil {
		return err
	}
	if cond.IsTruthy() {
		return in.execute(s.Then)
	}
	if s.Else != nil {
		return in.execute(s.Else)
	}
	return nil
}

func (in *Interpreter) executeWhile(s *parser.WhileStmt) error {
	for {
		cond, err := in.evaluate(s.Cond)
		if err != nil {
			return err
		}
		if !cond.IsTruthy() {
			return nil
		}
		if err := in.execute(s.Body); err != nil {
			return err
		}
	}
}

func (in *Interpreter) executeReturn(s *parser.ReturnStmt) error {
	value := Null
	if s.Value != nil {
		v, err := in.evaluate(s.Value)
		if err != nil {
			return err
		}
		value = v
	}
	return returnSignal{value: value}
}

func (in *Interpreter) executeOutput(s *parser.OutputStmt) error {
	value, err := in.evaluate(s.Expression)
	if err != nil {
		return err
	}
	fmt.Fprintln(in.Stdout, value.String())
	return nil
}

// executeBlock runs statements in env, restoring the interpreter's previous
// environment on every exit path (normal completion, runtime error, or a
// return signal unwinding through it). Per the implicit-last-value rule, if
// the final statement is an ExpressionStmt its value becomes the block's
// value; if it is a nested BlockStmt, that block's own implicit value is
// used (recursively); any other final statement yields Null.
func (in *Interpreter) executeBlock(statements []parser.Stmt, env *Environment) (Value, error) {
	previous := in.environment
	in.environment = env
	defer func() { in.environment = previous }()

	result := Null
	for i, stmt := range statements {
		if i == len(statements)-1 {
			switch s := stmt.(type) {
			case *parser.ExpressionStmt:
				v, err := in.evaluate(s.Expression)
				if err != nil {
					return Value{}, err
				}
				result = v
				continue
			case *parser.BlockStmt:
				v, err := in.executeBlock(s.Statements, NewEnvironment(in.environment))
				if err != nil {
					return Value{}, err
				}
				result = v
				continue
			}
		}
		if err := in.execute(stmt); err != nil {
			return Value{}, err
		}
	}
	return result, nil
}

// executeBlockStmt runs a function body, which the grammar allows to be any
// single statement (not necessarily a BlockStmt) — it is normalized to a
// one-statement block so the implicit-last-value rule still applies.
func (in *Interpreter) executeBlockStmt(body parser.Stmt, env *Environment) (Value, error) {
	if block, ok := body.(*parser.BlockStmt); ok {
		return in.executeBlock(block.Statements, env)
	}
	return in.executeBlock([]parser.Stmt{body}, env)
}

func (in *Interpreter) evaluate(expr parser.Expr) (Value, error) {
	switch e := expr.(type) {
	case *parser.LiteralExpr:
		return literalValue(e.Value), nil
	case *parser.VariableExpr:
		return in.lookUpVariable(e.Name, e)
	case *parser.AssignExpr:
		return in.evalAssign(e)
	case *parser.UnaryExpr:
		return in.evalUnary(e)
	case *parser.BinaryExpr:
		return in.evalBinary(e)
	case *parser.LogicalExpr:
		return in.evalLogical(e)
	case *parser.GroupingExpr:
		return in.evaluate(e.Expression)
	case *parser.CallExpr:
		return in.evalCall(e)
	case *parser.SequenceOpExpr:
		return in.evalSequenceOp(e)
	}
	return Value{}, fmt.Errorf("lang: unknown expression type %T", expr)
}

func literalValue(v any) Value {
	switch val := v.(type) {
	case nil:
		return Null
	case float64:
		return NumberValue(val)
	case string:
		return StringValue(val)
	case bool:
		return BoolValue(val)
	default:
		return Null
	}
}

func (in *Interpreter) lookUpVariable(name parser.Token, expr parser.Expr) (Value, error) {
	if distance, ok := in.locals[expr]; ok {
		return in.environment.GetAt(distance, name.Lexeme), nil
	}
	return in.Globals.Get(name)
}

func (in *Interpreter) evalAssign(e *parser.AssignExpr) (Value, error) {
	value, err := in.evaluate(e.Value)
	if err != nil {
		return Value{}, err
	}

	if distance, ok := in.locals[e]; ok {
		in.environment.AssignAt(distance, e.Name.Lexeme, value)
		return value, nil
	}
	if err := in.Globals.Assign(e.Name, value); err != nil {
		return Value{}, err
	}
	return value, nil
}

func (in *Interpreter) evalUnary(e *parser.UnaryExpr) (Value, error) {
	right, err := in.evaluate(e.Right)
	if err != nil {
		return Value{}, err
	}

	switch e.Op.Kind {
	case parser.Minus:
		if err := in.checkNumberOperand(e.Op, right); err != nil {
			return Value{}, err
		}
		return NumberValue(-right.AsNumber()), nil
	case parser.Not:
		return BoolValue(!right.IsTruthy()), nil
	}
	return Value{}, fmt.Errorf("lang: unknown unary operator %s", e.Op.Kind)
}

func (in *Interpreter) evalLogical(e *parser.LogicalExpr) (Value, error) {
	left, err := in.evaluate(e.Left)
	if err != nil {
		return Value{}, err
	}

	if e.Op.Kind == parser.Or {
		if left.IsTruthy() {
			return left, nil
		}
	} else {
		if !left.IsTruthy() {
			return left, nil
		}
	}
	return in.evaluate(e.Right)
}

func (in *Interpreter) evalBinary(e *parser.BinaryExpr) (Value, error) {
	left, err := in.evaluate(e.Left)
	if err != nil {
		return Value{}, err
	}
	right, err := in.evaluate(e.Right)
	if err != nil {
		return Value{}, err
	}

	switch e.Op.Kind {
	case parser.Greater:
		if err := in.checkNumberOperands(e.Op, left, right); err != nil {
			return Value{}, err
		}
		return BoolValue(left.AsNumber() > right.AsNumber()), nil
	case parser.GreaterEqual:
		if err := in.checkNumberOperands(e.Op, left, right); err != nil {
			return Value{}, err
		}
		return BoolValue(left.AsNumber() >= right.AsNumber()), nil
	case parser.Less:
		if err := in.checkNumberOperands(e.Op, left, right); err != nil {
			return Value{}, err
		}
		return BoolValue(left.AsNumber() < right.AsNumber()), nil
	case parser.LessEqual:
		if err := in.checkNumberOperands(e.Op, left, right); err != nil {
			return Value{}, err
		}
		return BoolValue(left.AsNumber() <= right.AsNumber()), nil
	case parser.Minus:
		if err := in.checkNumberOperands(e.Op, left, right); err != nil {
			return Value{}, err
		}
		return NumberValue(left.AsNumber() - right.AsNumber()), nil
	case parser.Asterisk:
		if err := in.checkNumberOperands(e.Op, left, right); err != nil {
			return Value{}, err
		}
		return NumberValue(left.AsNumber() * right.AsNumber()), nil
	case parser.Caret:
		if err := in.checkNumberOperands(e.Op, left, right); err != nil {
			return Value{}, err
		}
		return NumberValue(math.Pow(left.AsNumber(), right.AsNumber())), nil
	case parser.Slash:
		if err := in.checkNumberOperands(e.Op, left, right); err != nil {
			return Value{}, err
		}
		if right.AsNumber() == 0 {
			return Value{}, &RuntimeError{Token: e.Op, Kind: parser.ZeroDivision, Message: "Division by zero"}
		}
		return NumberValue(left.AsNumber() / right.AsNumber()), nil
	case parser.Plus:
		return in.evalAdd(e.Op, left, right)
	case parser.EqualEqual:
		return BoolValue(left.Equals(right)), nil
	case parser.NotEqual:
		return BoolValue(!left.Equals(right)), nil
	}
	return Value{}, fmt.Errorf("lang: unknown binary operator %s", e.Op.Kind)
}

func (in *Interpreter) evalAdd(op parser.Token, left, right Value) (Value, error) {
	if left.IsNumber() && right.IsNumber() {
		return NumberValue(left.AsNumber() + right.AsNumber()), nil
	}
	if left.IsString() || right.IsString() {
		return StringValue(left.String() + right.String()), nil
	}
	return Value{}, &RuntimeError{Token: op, Kind: parser.Type, Message: "Operands must be two numbers or contain a string"}
}

func (in *Interpreter) evalCall(e *parser.CallExpr) (Value, error) {
	callee, err := in.evaluate(e.Callee)
	if err != nil {
		return Value{}, err
	}

	args := make([]Value, len(e.Args))
	for i, argExpr := range e.Args {
		v, err := in.evaluate(argExpr)
		if err != nil {
			return Value{}, err
		}
		args[i] = v
	}

	if !callee.IsCallable() {
		return Value{}, &RuntimeError{Token: e.Paren, Kind: parser.Syntax, Message: "Only functions can be called"}
	}
	fn := callee.AsCallable()
	if len(args) != fn.Arity() {
		return Value{}, &RuntimeError{
			Token:   e.Paren,
			Kind:    parser.Argument,
			Message: fmt.Sprintf("Expected %d arguments but got %d", fn.Arity(), len(args)),
		}
	}
	return fn.Call(in, args)
}

// evalSequenceOp evaluates ∑(upper, lower) summand: establish the loop
// variable's binding from lower, then repeatedly add/concatenate summand
// into an accumulator while incrementing the loop variable by 1, until it
// exceeds upper. The increment always goes through the summation-local
// environment's chain-walking Assign (see SPEC_FULL.md §3.4), not a
// resolved distance, matching the reference implementation's behaviour for
// an Assign-form lower bound that targets an outer scope.
func (in *Interpreter) evalSequenceOp(e *parser.SequenceOpExpr) (Value, error) {
	upperVal, err := in.evaluate(e.Upper)
	if err != nil {
		return Value{}, err
	}
	if !upperVal.IsNumber() || !isIntegral(upperVal.AsNumber()) {
		return Value{}, &RuntimeError{Token: e.Name, Kind: parser.Syntax, Message: "Upper bound must be an integer"}
	}
	upper := upperVal.AsNumber()

	previous := in.environment
	in.environment = NewEnvironment(previous)
	defer func() { in.environment = previous }()

	var loopVar parser.Token
	switch lower := e.Lower.(type) {
	case *parser.LetStmt:
		loopVar = lower.Name
		if err := in.execute(lower); err != nil {
			return Value{}, err
		}
	case *parser.ExpressionStmt:
		assign, ok := lower.Expression.(*parser.AssignExpr)
		if !ok {
			return Value{}, &RuntimeError{Token: e.Name, Kind: parser.Syntax, Message: "Lower bound must be declaration or assignment"}
		}
		loopVar = assign.Name
		if _, err := in.evaluate(assign); err != nil {
			return Value{}, err
		}
	default:
		return Value{}, &RuntimeError{Token: e.Name, Kind: parser.Syntax, Message: "Lower bound must be declaration or assignment"}
	}

	initial, err := in.environment.Get(loopVar)
	if err != nil {
		return Value{}, err
	}
	if !initial.IsNumber() || !isIntegral(initial.AsNumber()) {
		return Value{}, &RuntimeError{Token: e.Name, Kind: parser.Syntax, Message: "Loop variable must be an integer"}
	}
	if initial.AsNumber() > upper {
		return Value{}, &RuntimeError{Token: e.Name, Kind: parser.Syntax, Message: "Lower bound must be less than or equal to the upper bound"}
	}

	accNumber := 0.0
	accString := ""
	isString := false
	first := true

	for {
		iVal, err := in.environment.Get(loopVar)
		if err != nil {
			return Value{}, err
		}
		if !iVal.IsNumber() || !isIntegral(iVal.AsNumber()) {
			return Value{}, &RuntimeError{Token: e.Name, Kind: parser.Syntax, Message: "Loop variable must be an integer"}
		}
		i := iVal.AsNumber()
		if i > upper {
			break
		}

		summandVal, err := in.evaluate(e.Summand)
		if err != nil {
			return Value{}, err
		}
		switch {
		case summandVal.IsNumber():
			if first {
				isString = false
			}
			accNumber += summandVal.AsNumber()
		case summandVal.IsString():
			if first {
				isString = true
			}
			accString += summandVal.AsString()
		default:
			return Value{}, &RuntimeError{Token: e.Name, Kind: parser.Syntax, Message: "Summand must be a number or a string"}
		}
		first = false

		if err := in.environment.Assign(loopVar, NumberValue(i+1)); err != nil {
			return Value{}, err
		}
	}

	if isString {
		return StringValue(accString), nil
	}
	return NumberValue(accNumber), nil
}

func isIntegral(n float64) bool {
	return n == math.Trunc(n)
}

func (in *Interpreter) checkNumberOperand(op parser.Token, operand Value) error {
	if operand.IsNumber() {
		return nil
	}
	return &RuntimeError{Token: op, Kind: parser.Type, Message: "Operand must be a number"}
}

func (in *Interpreter) checkNumberOperands(op parser.Token, left, right Value) error {
	if left.IsNumber() && right.IsNumber() {
		return nil
	}
	return &RuntimeError{Token: op, Kind: parser.Type, Message: "Operands must be numbers"}
}
