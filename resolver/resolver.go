// Package resolver implements the static second pass over a parsed JMPL
// program: for every variable reference it computes the lexical distance
// (number of enclosing scopes) to the scope that declares it, and rejects a
// handful of statically-detectable mistakes a dynamic interpreter would
// otherwise only catch well after the fact (reading a local in its own
// initialiser, returning from top-level code, redeclaring a name in the
// same scope).
package resolver

import (
	"fmt"

	"github.com/Jogll1/J-JMPL/lang"
	"github.com/Jogll1/J-JMPL/parser"
)

type functionKind int

const (
	noFunction functionKind = iota
	inFunction
)

// Resolver walks a program's AST and populates a lang.Locals side table
// mapping each Variable/Assign expression node to its resolved scope
// distance. Absence from the table means "resolve against globals."
type Resolver struct {
	locals          lang.Locals
	scopes          []map[string]bool
	currentFunction functionKind
	errs            []*ResolutionError
}

// ResolutionError is a static diagnostic raised by the resolver, using the
// same wire format as parser.SyntaxError (they share an ErrorKind domain
// and are reported through the same driver code path).
type ResolutionError struct {
	Line    int
	Kind    parser.ErrorKind
	Where   string
	Message string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("[line %d] %s%s: %s.", e.Line, e.Kind, e.Where, e.Message)
}

// New constructs a Resolver with an empty scope stack and a fresh Locals
// table.
func New() *Resolver {
	return &Resolver{locals: lang.Locals{}}
}

// Resolve walks every top-level statement and returns the resolved Locals
// side table together with any static errors found. The caller (the
// driver) should treat a non-empty error slice as "do not interpret."
func (r *Resolver) Resolve(statements []parser.Stmt) (lang.Locals, []*ResolutionError) {
	r.resolveStatements(statements)
	return r.locals, r.errs
}

func (r *Resolver) resolveStatements(statements []parser.Stmt) {
	for _, stmt := range statements {
		r.resolveStmt(stmt)
	}
}

func (r *Resolver) resolveStmt(stmt parser.Stmt) {
	switch s := stmt.(type) {
	case *parser.BlockStmt:
		r.beginScope()
		r.resolveStatements(s.Statements)
		r.endScope()
	case *parser.ExpressionStmt:
		r.resolveExpr(s.Expression)
	case *parser.FunctionStmt:
		r.declare(s.Name)
		r.define(s.Name)
		r.resolveFunction(s, inFunction)
	case *parser.IfStmt:
		r.resolveExpr(s.Cond)
		r.resolveStmt(s.Then)
		if s.Else != nil {
			r.resolveStmt(s.Else)
		}
	case *parser.OutputStmt:
		r.resolveExpr(s.Expression)
	case *parser.ReturnStmt:
		if r.currentFunction == noFunction {
			r.reportToken(s.Keyword, parser.Return_, "Can't return from top-level code")
		}
		if s.Value != nil {
			r.resolveExpr(s.Value)
		}
	case *parser.LetStmt:
		r.declare(s.Name)
		if s.Initialiser != nil {
			r.resolveExpr(s.Initialiser)
		}
		r.define(s.Name)
	case *parser.WhileStmt:
		r.resolveExpr(s.Cond)
		r.resolveStmt(s.Body)
	}
}

func (r *Resolver) resolveExpr(expr parser.Expr) {
	switch e := expr.(type) {
	case *parser.AssignExpr:
		r.resolveExpr(e.Value)
		r.resolveLocal(e, e.Name)
	case *parser.BinaryExpr:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *parser.CallExpr:
		r.resolveExpr(e.Callee)
		for _, arg := range e.Args {
			r.resolveExpr(arg)
		}
	case *parser.GroupingExpr:
		r.resolveExpr(e.Expression)
	case *parser.LiteralExpr:
		// nothing to resolve
	case *parser.LogicalExpr:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *parser.SequenceOpExpr:
		r.resolveExpr(e.Upper)
		// Lower and Summand share a scope: a `let`-form lower bound declares
		// the loop variable into it, matching the child environment
		// evalSequenceOp creates at runtime, so Summand's reference to it
		// resolves to distance 0 instead of falling through to globals.
		r.beginScope()
		r.resolveStmt(e.Lower)
		r.resolveExpr(e.Summand)
		r.endScope()
	case *parser.UnaryExpr:
		r.resolveExpr(e.Right)
	case *parser.VariableExpr:
		if len(r.scopes) > 0 {
			if ready, declared := r.scopes[len(r.scopes)-1][e.Name.Lexeme]; declared && !ready {
				r.reportToken(e.Name, parser.Variable, "Can't read local variable in its own initialiser")
			}
		}
		r.resolveLocal(e, e.Name)
	}
}

func (r *Resolver) resolveFunction(fn *parser.FunctionStmt, kind functionKind) {
	enclosingFunction := r.currentFunction
	r.currentFunction = kind

	r.beginScope()
	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}
	// A block body runs directly in the call environment that holds the
	// parameters (see Interpreter.executeBlockStmt), so its statements
	// share the parameter scope instead of opening a new one.
	if block, ok := fn.Body.(*parser.BlockStmt); ok {
		r.resolveStatements(block.Statements)
	} else {
		r.resolveStmt(fn.Body)
	}
	r.endScope()

	r.currentFunction = enclosingFunction
}

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, map[string]bool{})
}

func (r *Resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *Resolver) declare(name parser.Token) {
	if len(r.scopes) == 0 {
		return
	}
	scope := r.scopes[len(r.scopes)-1]
	if _, exists := scope[name.Lexeme]; exists {
		r.reportToken(name, parser.Variable, "Already a variable with this name in this scope")
	}
	scope[name.Lexeme] = false
}

func (r *Resolver) define(name parser.Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = true
}

// resolveLocal walks the scope stack from innermost outward; when it finds
// name, it records the distance (0 = innermost) for expr in the locals
// side table. If the name isn't found in any local scope, no entry is
// recorded — the interpreter falls back to globals for it.
func (r *Resolver) resolveLocal(expr parser.Expr, name parser.Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.Lexeme]; ok {
			r.locals[expr] = len(r.scopes) - 1 - i
			return
		}
	}
}

func (r *Resolver) reportToken(tok parser.Token, kind parser.ErrorKind, message string) {
	where := " at '" + tok.Lexeme + "'"
	if tok.Kind == parser.EOF {
		where = " at end"
	}
	r.errs = append(r.errs, &ResolutionError{Line: tok.Line, Kind: kind, Where: where, Message: message})
}
