// Package ast defines the abstract syntax tree produced by the parser.
package ast

import "github.com/opela-lang/ptcil/internal/token"

// EntityKind is the value-type lattice identifiers and literals carry.
type EntityKind int

const (
	UNKNOWN EntityKind = iota
	INT
	FLOAT
	STRING
	BOOL
)

func (k EntityKind) String() string {
	switch k {
	case INT:
		return "INT"
	case FLOAT:
		return "FLOAT"
	case STRING:
		return "STRING"
	case BOOL:
		return "BOOL"
	default:
		return "UNKNOWN"
	}
}

// EntityKindOfIdent returns the entity kind implied by an identifier's
// lexeme prefix: i_ -> INT, f_ -> FLOAT, b_ -> BOOL, anything else -> STRING.
// This is a pure function of the lexeme (invariant I4).
func EntityKindOfIdent(lexeme string) EntityKind {
	if len(lexeme) >= 2 && lexeme[1] == '_' {
		switch lexeme[0] {
		case 'i':
			return INT
		case 'f':
			return FLOAT
		case 'b':
			return BOOL
		}
	}
	return STRING
}

// Node is the base interface every AST node satisfies.
type Node interface {
	Pos() token.Position
}

// Stmt is any statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is any expression node.
type Expr interface {
	Node
	exprNode()
	Kind() EntityKind
}

// Main is the root of every program: `main <body> end`.
type Main struct {
	Body      *StmtList
	MainTok   token.Token
	EndTok    token.Token
}

func (m *Main) Pos() token.Position { return m.MainTok.Pos }

// StmtList is an ordered, source-order list of statements.
type StmtList struct {
	Items []Stmt
}

func (s *StmtList) Pos() token.Position {
	if len(s.Items) == 0 {
		return token.Position{}
	}
	return s.Items[0].Pos()
}

// VarDecl is a declaration-only statement: `i_x, i_y;`.
type VarDecl struct {
	Idents []*Ident
}

func (d *VarDecl) Pos() token.Position { return d.Idents[0].Pos() }
func (*VarDecl) stmtNode()             {}

// AssignStmt declares-and-assigns or re-assigns N targets from one
// expression: `i_x, i_y = 1 + 2;`.
type AssignStmt struct {
	Idents []*Ident
	Expr   Expr
}

func (a *AssignStmt) Pos() token.Position { return a.Idents[0].Pos() }
func (*AssignStmt) stmtNode()             {}

// InputArg is one target of a read statement, with an optional prompt.
type InputArg struct {
	Prompt *Literal // nil if no prompt was given
	Ident  *Ident
}

// ReadStmt reads into one or more identifiers: `read(i_x); read("idade: ", i_y);`.
type ReadStmt struct {
	ReadTok token.Token
	Inputs  []InputArg
}

func (r *ReadStmt) Pos() token.Position { return r.ReadTok.Pos }
func (*ReadStmt) stmtNode()             {}

// WriteStmt prints one or more expressions with write or writeln.
type WriteStmt struct {
	KeywordTok token.Token // WRITE or WRITELN
	Exprs      []Expr
}

func (w *WriteStmt) Pos() token.Position { return w.KeywordTok.Pos }
func (*WriteStmt) stmtNode()             {}

// IsWriteln reports whether this statement emits a trailing newline.
func (w *WriteStmt) IsWriteln() bool { return w.KeywordTok.Kind == token.WRITELN }

// IfStmt is one arm of an if/elif/else chain. elif and else reuse this same
// node type, linked through Else; only the root (IsRoot) owns the shared end
// label during code generation. An else arm carries Cond == nil.
type IfStmt struct {
	IfTok   token.Token
	Cond    Expr // nil for a trailing else
	Body    *StmtList
	Else    *IfStmt // nil if this is the last arm
	IsRoot  bool
}

func (i *IfStmt) Pos() token.Position { return i.IfTok.Pos }
func (*IfStmt) stmtNode()             {}

// RepeatKeyword distinguishes repeat...while from repeat...until.
type RepeatKeyword int

const (
	RepeatWhile RepeatKeyword = iota
	RepeatUntil
)

// RepeatStmt is a post-tested loop: `repeat <body> while (<cond>);` or
// `repeat <body> until (<cond>);`.
type RepeatStmt struct {
	RepeatTok token.Token
	Body      *StmtList
	Keyword   RepeatKeyword
	Cond      Expr
}

func (r *RepeatStmt) Pos() token.Position { return r.RepeatTok.Pos }
func (*RepeatStmt) stmtNode()             {}

// BinaryOp enumerates the binary operators.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpLt
	OpGt
	OpEq
	OpNeq
	OpAnd
	OpOr
)

// BinaryExpr is a two-operand expression. After parsing, Left and Right are
// always non-nil (invariant: no dangling placeholder survives the parse).
type BinaryExpr struct {
	OpTok token.Token
	Op    BinaryOp
	Left  Expr
	Right Expr
}

func (b *BinaryExpr) Pos() token.Position { return b.Left.Pos() }
func (*BinaryExpr) exprNode()             {}
func (b *BinaryExpr) Kind() EntityKind    { return inferBinaryKind(b.Op, b.Left, b.Right) }

func inferBinaryKind(op BinaryOp, left, right Expr) EntityKind {
	switch op {
	case OpAnd, OpOr, OpEq, OpNeq, OpLt, OpGt:
		if op == OpEq || op == OpNeq || op == OpLt || op == OpGt {
			return left.Kind()
		}
		return BOOL
	case OpDiv:
		return FLOAT
	case OpAdd, OpSub, OpMul:
		if left.Kind() == INT && right.Kind() == INT {
			return INT
		}
		return FLOAT
	default:
		return FLOAT
	}
}

// UnaryOp enumerates the unary operators.
type UnaryOp int

const (
	UnaryNot UnaryOp = iota
	UnaryNeg
	UnaryPos
)

// UnaryExpr is a single-operand prefix expression: !, -, or +.
type UnaryExpr struct {
	OpTok   token.Token
	Op      UnaryOp
	Operand Expr
}

func (u *UnaryExpr) Pos() token.Position { return u.OpTok.Pos }
func (*UnaryExpr) exprNode()             {}
func (u *UnaryExpr) Kind() EntityKind {
	if u.Op == UnaryNot {
		return BOOL
	}
	return u.Operand.Kind()
}

// ParenExpr wraps a parenthesized expression; it exists so positions and
// pretty-printing reflect the source, and propagates its inner Kind.
type ParenExpr struct {
	LParenTok token.Token
	Inner     Expr
}

func (p *ParenExpr) Pos() token.Position { return p.LParenTok.Pos }
func (*ParenExpr) exprNode()             {}
func (p *ParenExpr) Kind() EntityKind    { return p.Inner.Kind() }

// Ident is an identifier reference. EKind is a pure function of the
// lexeme prefix (invariant I4), computed once at construction.
type Ident struct {
	Tok  token.Token
	EKind EntityKind
}

func (id *Ident) Pos() token.Position { return id.Tok.Pos }
func (*Ident) exprNode()              {}
func (id *Ident) Kind() EntityKind    { return id.EKind }
func (id *Ident) Name() string        { return id.Tok.Slice }

// Literal is an int, float, string, or bool literal.
type Literal struct {
	Tok   token.Token
	EKind EntityKind
	IntV  int64
	FloatV float64
	FloatText string // trimmed decimal text, e.g. "1.25" for source "1,250"
	StrV  string // string literal contents, without the surrounding quotes
	BoolV bool
}

func (l *Literal) Pos() token.Position { return l.Tok.Pos }
func (*Literal) exprNode()             {}
func (l *Literal) Kind() EntityKind    { return l.EKind }
