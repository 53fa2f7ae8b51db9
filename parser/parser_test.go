package parser

import "testing"

func parseSource(t *testing.T, src string) []Stmt {
	t.Helper()
	lx := NewLexer(src)
	tokens := lx.ScanTokens()
	if errs := lx.Errors(); len(errs) > 0 {
		t.Fatalf("unexpected lexer errors: %v", errs)
	}
	p := NewParser(tokens)
	statements := p.Parse()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	return statements
}

func TestParserLetDeclaration(t *testing.T) {
	stmts := parseSource(t, "let a = 1;")
	if len(stmts) != 1 {
		t.Fatalf("got %d statements, want 1", len(stmts))
	}
	let, ok := stmts[0].(*LetStmt)
	if !ok {
		t.Fatalf("got %T, want *LetStmt", stmts[0])
	}
	if let.Name.Lexeme != "a" {
		t.Errorf("got name %q, want %q", let.Name.Lexeme, "a")
	}
	lit, ok := let.Initialiser.(*LiteralExpr)
	if !ok || lit.Value.(float64) != 1 {
		t.Errorf("got initialiser %#v, want Literal(1)", let.Initialiser)
	}
}

func TestParserOperatorPrecedence(t *testing.T) {
	// 1 + 2 * 3 should parse as 1 + (2 * 3)
	stmts := parseSource(t, "out 1 + 2 * 3;")
	out := stmts[0].(*OutputStmt)
	add, ok := out.Expression.(*BinaryExpr)
	if !ok || add.Op.Kind != Plus {
		t.Fatalf("got %#v, want top-level '+'", out.Expression)
	}
	mul, ok := add.Right.(*BinaryExpr)
	if !ok || mul.Op.Kind != Asterisk {
		t.Fatalf("got %#v, want right-hand '*'", add.Right)
	}
}

func TestParserAssignmentTargetMustBeVariable(t *testing.T) {
	lx := NewLexer("1 := 2;")
	tokens := lx.ScanTokens()
	p := NewParser(tokens)
	p.Parse()
	errs := p.Errors()
	if len(errs) == 0 {
		t.Fatal("expected a parse error for assigning to a non-variable")
	}
	if errs[0].Message != "Invalid assignment target" {
		t.Errorf("got message %q, want %q", errs[0].Message, "Invalid assignment target")
	}
}

func TestParserIfElse(t *testing.T) {
	stmts := parseSource(t, "if true then out 1; else out 2;")
	ifStmt, ok := stmts[0].(*IfStmt)
	if !ok {
		t.Fatalf("got %T, want *IfStmt", stmts[0])
	}
	if ifStmt.Else == nil {
		t.Error("expected an else branch")
	}
}

func TestParserFunctionDeclaration(t *testing.T) {
	stmts := parseSource(t, "function add(a, b) = return a + b;")
	fn, ok := stmts[0].(*FunctionStmt)
	if !ok {
		t.Fatalf("got %T, want *FunctionStmt", stmts[0])
	}
	if fn.Name.Lexeme != "add" || len(fn.Params) != 2 {
		t.Errorf("got name=%q params=%d, want add/2", fn.Name.Lexeme, len(fn.Params))
	}
}

func TestParserBlockDelimiters(t *testing.T) {
	stmts := parseSource(t, "( let a = 1; out a; )")
	block, ok := stmts[0].(*BlockStmt)
	if !ok {
		t.Fatalf("got %T, want *BlockStmt", stmts[0])
	}
	if len(block.Statements) != 2 {
		t.Errorf("got %d statements in block, want 2", len(block.Statements))
	}
}

func TestParserSummationExpression(t *testing.T) {
	stmts := parseSource(t, "out ∑(5, let i = 1) i;")
	out := stmts[0].(*OutputStmt)
	seq, ok := out.Expression.(*SequenceOpExpr)
	if !ok {
		t.Fatalf("got %T, want *SequenceOpExpr", out.Expression)
	}
	if _, ok := seq.Lower.(*LetStmt); !ok {
		t.Errorf("got lower %T, want *LetStmt", seq.Lower)
	}
}

func TestParserSummationAssignLowerBound(t *testing.T) {
	stmts := parseSource(t, "let i = 1; out ∑(5, i := 1) i;")
	out := stmts[1].(*OutputStmt)
	seq, ok := out.Expression.(*SequenceOpExpr)
	if !ok {
		t.Fatalf("got %T, want *SequenceOpExpr", out.Expression)
	}
	exprStmt, ok := seq.Lower.(*ExpressionStmt)
	if !ok {
		t.Fatalf("got lower %T, want *ExpressionStmt", seq.Lower)
	}
	if _, ok := exprStmt.Expression.(*AssignExpr); !ok {
		t.Errorf("got %T, want *AssignExpr", exprStmt.Expression)
	}
}

func TestParserTooManyParametersReported(t *testing.T) {
	src := "function f("
	for i := 0; i < 256; i++ {
		if i > 0 {
			src += ","
		}
		src += "p" + string(rune('a'+i%26))
	}
	src += ") = return 1;"

	lx := NewLexer(src)
	tokens := lx.ScanTokens()
	p := NewParser(tokens)
	p.Parse()
	if len(p.Errors()) == 0 {
		t.Fatal("expected an error reporting too many parameters")
	}
}

func TestParserConsumeReportsCallersErrorKind(t *testing.T) {
	lx := NewLexer("function (a) = return 1;")
	tokens := lx.ScanTokens()
	p := NewParser(tokens)
	p.Parse()
	errs := p.Errors()
	if len(errs) == 0 {
		t.Fatal("expected a parse error for a missing function name")
	}
	if errs[0].Kind != Function_ {
		t.Errorf("got kind %s, want Function_", errs[0].Kind)
	}
}

func TestParserSynchronizesAfterError(t *testing.T) {
	src := "let = ; let b = 2;"
	lx := NewLexer(src)
	tokens := lx.ScanTokens()
	p := NewParser(tokens)
	stmts := p.Parse()
	if len(p.Errors()) == 0 {
		t.Fatal("expected at least one parse error")
	}
	found := false
	for _, s := range stmts {
		if let, ok := s.(*LetStmt); ok && let.Name.Lexeme == "b" {
			found = true
		}
	}
	if !found {
		t.Error("expected parser to recover and still parse 'let b = 2;'")
	}
}
