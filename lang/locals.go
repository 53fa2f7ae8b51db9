package lang

import "github.com/Jogll1/J-JMPL/parser"

// Locals is the resolver's output side-table: for each Variable or Assign
// expression node, how many enclosing scopes out (0 = innermost) its
// binding lives. A node absent from the table resolves against globals.
// Keying by the parser.Expr interface value works here because every AST
// node is allocated exactly once as a pointer, so interface equality is
// pointer identity.
type Locals map[parser.Expr]int
