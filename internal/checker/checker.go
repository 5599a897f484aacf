// Package checker runs the semantic pass over a parsed program: every name
// must be declared before it is read, and no name may be declared twice.
// There is no scoping in this language — one flat table of declared names
// is all a checker for it needs.
package checker

import (
	"github.com/opela-lang/ptcil/internal/ast"
	"github.com/opela-lang/ptcil/internal/token"
)

// ErrorKind enumerates the semantic error categories.
type ErrorKind int

const (
	Redeclared ErrorKind = iota
	Undeclared
)

// Error is the checker's single error value.
type Error struct {
	Kind     ErrorKind
	BadToken token.Token
}

func (e *Error) Error() string {
	verb := "identificador não declarado"
	if e.Kind == Redeclared {
		verb = "identificador já declarado"
	}
	return "semantic error at " + e.BadToken.Pos.String() + ": " + e.BadToken.Slice + " " + verb
}

// Checker walks a program once, front to back, tracking which names have
// been declared so far.
type Checker struct {
	declared map[string]bool
}

// Check runs the semantic pass over prog, returning the first violation
// found in source order, or nil.
func Check(prog *ast.Main) error {
	c := &Checker{declared: map[string]bool{}}
	return c.checkStmtList(prog.Body)
}

func (c *Checker) checkStmtList(list *ast.StmtList) error {
	for _, s := range list.Items {
		if err := c.checkStmt(s); err != nil {
			return err
		}
	}
	return nil
}

func (c *Checker) checkStmt(s ast.Stmt) error {
	switch st := s.(type) {
	case *ast.VarDecl:
		for _, id := range st.Idents {
			if c.declared[id.Name()] {
				return &Error{Kind: Redeclared, BadToken: id.Tok}
			}
			c.declared[id.Name()] = true
		}
	case *ast.AssignStmt:
		if err := c.checkExpr(st.Expr); err != nil {
			return err
		}
		// An assignment declares its targets if they are new, and
		// re-assigns them otherwise; only a bare declaration can collide.
		for _, id := range st.Idents {
			c.declared[id.Name()] = true
		}
	case *ast.ReadStmt:
		for _, in := range st.Inputs {
			c.declared[in.Ident.Name()] = true
		}
	case *ast.WriteStmt:
		for _, e := range st.Exprs {
			if err := c.checkExpr(e); err != nil {
				return err
			}
		}
	case *ast.IfStmt:
		return c.checkIf(st)
	case *ast.RepeatStmt:
		if err := c.checkStmtList(st.Body); err != nil {
			return err
		}
		return c.checkExpr(st.Cond)
	}
	return nil
}

func (c *Checker) checkIf(st *ast.IfStmt) error {
	if st.Cond != nil {
		if err := c.checkExpr(st.Cond); err != nil {
			return err
		}
	}
	if err := c.checkStmtList(st.Body); err != nil {
		return err
	}
	if st.Else != nil {
		return c.checkIf(st.Else)
	}
	return nil
}

func (c *Checker) checkExpr(e ast.Expr) error {
	switch ex := e.(type) {
	case *ast.Ident:
		if !c.declared[ex.Name()] {
			return &Error{Kind: Undeclared, BadToken: ex.Tok}
		}
	case *ast.BinaryExpr:
		if err := c.checkExpr(ex.Left); err != nil {
			return err
		}
		return c.checkExpr(ex.Right)
	case *ast.UnaryExpr:
		return c.checkExpr(ex.Operand)
	case *ast.ParenExpr:
		return c.checkExpr(ex.Inner)
	}
	return nil
}
