// Package codegen lowers a checked *ast.Main into CIL text targeting the
// CLR: a single static main method, one .locals line per identifier, and
// stack-machine arithmetic performed uniformly on float64 — every loaded
// int operand is widened with conv.r8, and a result narrows back to int64
// with conv.i8 only at the point it is actually stored or written.
package codegen

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/opela-lang/ptcil/internal/alloc"
	"github.com/opela-lang/ptcil/internal/ast"
)

// Generator accumulates CIL text for one program. Its label stack is an
// alloc.Stack rather than a plain slice so the code generator can only ever
// unwind labels in the reverse order it opened them — the same nesting
// discipline the parser's grammar already enforces structurally.
type Generator struct {
	buf          strings.Builder
	locals       map[string]ast.EntityKind
	labelStack   *alloc.Stack[string]
	labelCounter int
}

// Generate lowers prog into a complete CIL source text. prog is assumed to
// have already passed internal/checker; code generation itself cannot fail.
func Generate(prog *ast.Main) string {
	g := &Generator{locals: map[string]ast.EntityKind{}, labelStack: alloc.NewStack[string]()}
	g.collectLocals(prog.Body)
	g.emitPrologue()
	g.genStmtList(prog.Body)
	g.emitEpilogue()
	return g.buf.String()
}

func (g *Generator) emit(line string) {
	g.buf.WriteString(line)
	g.buf.WriteString("\r\n")
}

// instr emits one method-body instruction, indented two tabs per line.
func (g *Generator) instr(s string) {
	g.emit("\t\t" + s)
}

func (g *Generator) newLabel(prefix string) string {
	g.labelCounter++
	return fmt.Sprintf("%s_%d", prefix, g.labelCounter)
}

func cilType(k ast.EntityKind) string {
	switch k {
	case ast.INT:
		return "int64"
	case ast.FLOAT:
		return "float64"
	case ast.BOOL:
		return "bool"
	default:
		return "string"
	}
}

func (g *Generator) collectLocals(list *ast.StmtList) {
	for _, s := range list.Items {
		switch st := s.(type) {
		case *ast.VarDecl:
			for _, id := range st.Idents {
				g.locals[id.Name()] = id.Kind()
			}
		case *ast.AssignStmt:
			for _, id := range st.Idents {
				g.locals[id.Name()] = id.Kind()
			}
		case *ast.ReadStmt:
			for _, in := range st.Inputs {
				g.locals[in.Ident.Name()] = in.Ident.Kind()
			}
		case *ast.IfStmt:
			g.collectLocalsIf(st)
		case *ast.RepeatStmt:
			g.collectLocals(st.Body)
		}
	}
}

func (g *Generator) collectLocalsIf(st *ast.IfStmt) {
	g.collectLocals(st.Body)
	if st.Else != nil {
		g.collectLocalsIf(st.Else)
	}
}

func (g *Generator) emitPrologue() {
	g.emit(".assembly extern mscorlib {}")
	g.emit(".assembly _obj_code {}")
	g.emit(".module _obj_code.exe")
	g.emit(".class public Main extends [mscorlib]System.Object")
	g.emit("{")
	g.emit("\t.method public static void main() cil managed")
	g.emit("\t{")
	g.instr(".entrypoint")
	g.emitLocalsDecl()
}

// emitLocalsDecl emits one .locals line per identifier, in a fixed
// (sorted) order so repeated compilations of the same source agree
// byte-for-byte. A program with no locals emits none at all.
func (g *Generator) emitLocalsDecl() {
	names := make([]string, 0, len(g.locals))
	for n := range g.locals {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		g.instr(".locals (" + cilType(g.locals[n]) + " " + n + ")")
	}
}

func (g *Generator) emitEpilogue() {
	g.instr("ret")
	g.emit("\t}")
	g.emit("}")
}

func (g *Generator) genStmtList(list *ast.StmtList) {
	for _, s := range list.Items {
		g.genStmt(s)
	}
}

func (g *Generator) genStmt(s ast.Stmt) {
	switch st := s.(type) {
	case *ast.VarDecl:
		// A bare declaration reserves a slot in .locals but emits no code;
		// the CLR zero-initializes every local declared there.
	case *ast.AssignStmt:
		g.genAssign(st)
	case *ast.ReadStmt:
		g.genRead(st)
	case *ast.WriteStmt:
		g.genWrite(st)
	case *ast.IfStmt:
		endLabel := g.newLabel("IF_END")
		g.labelStack.Push(endLabel)
		g.genIfArm(st)
		g.emit(endLabel + ":")
		g.labelStack.Pop()
	case *ast.RepeatStmt:
		g.genRepeat(st)
	}
}

// genAssign evaluates the right-hand side once, narrows it to int64 if the
// expression's inferred kind is INT, then stores the resulting value into
// every target, duplicating it on the stack for every target but the last.
func (g *Generator) genAssign(st *ast.AssignStmt) {
	g.genExpr(st.Expr)
	g.materialize(st.Expr.Kind())
	for i, id := range st.Idents {
		if i < len(st.Idents)-1 {
			g.instr("dup")
		}
		g.instr("stloc " + id.Name())
	}
}

func (g *Generator) genRead(st *ast.ReadStmt) {
	for _, in := range st.Inputs {
		if in.Prompt != nil {
			g.instr("ldstr " + quoteCIL(in.Prompt.StrV))
			g.instr("call void [mscorlib]System.Console::Write(string)")
		}
		g.instr("call string [mscorlib]System.Console::ReadLine()")
		switch in.Ident.Kind() {
		case ast.INT:
			g.instr("call int64 [mscorlib]System.Int64::Parse(string)")
		case ast.FLOAT:
			g.instr("call float64 [mscorlib]System.Double::Parse(string)")
		case ast.BOOL:
			g.instr("call bool [mscorlib]System.Boolean::Parse(string)")
		}
		g.instr("stloc " + in.Ident.Name())
	}
}

// genWrite evaluates and writes each expression, narrowing any INT-kinded
// result back to int64 immediately before the Write call that consumes it.
func (g *Generator) genWrite(st *ast.WriteStmt) {
	for _, e := range st.Exprs {
		g.genExpr(e)
		g.materialize(e.Kind())
		g.instr("call void [mscorlib]System.Console::Write(" + cilType(e.Kind()) + ")")
	}
	if st.IsWriteln() {
		g.instr("call void [mscorlib]System.Console::WriteLine()")
	}
}

// genIfArm emits one arm of an if/elif/else chain. endLabel (the top of the
// label stack) is shared by every arm; each non-trailing arm branches past
// its own body on a false condition and then jumps straight to endLabel
// after running its body, so only one arm's body ever executes.
func (g *Generator) genIfArm(st *ast.IfStmt) {
	endLabel, _ := g.labelStack.Peek()
	if st.Cond == nil {
		g.genStmtList(st.Body)
		return
	}
	nextLabel := g.newLabel("IF_NEXT")
	g.genExpr(st.Cond)
	g.instr("brfalse " + nextLabel)
	g.genStmtList(st.Body)
	g.instr("br " + endLabel)
	g.emit(nextLabel + ":")
	if st.Else != nil {
		g.genIfArm(st.Else)
	}
}

// genRepeat lowers a post-tested loop. repeat...while re-enters the loop
// while the condition holds; repeat...until re-enters while it does not,
// i.e. stops as soon as it holds.
func (g *Generator) genRepeat(st *ast.RepeatStmt) {
	loopLabel := g.newLabel("REPEAT_LOOP")
	g.emit(loopLabel + ":")
	g.genStmtList(st.Body)
	g.genExpr(st.Cond)
	switch st.Keyword {
	case ast.RepeatWhile:
		g.instr("brtrue " + loopLabel)
	case ast.RepeatUntil:
		g.instr("brfalse " + loopLabel)
	}
}

// materialize narrows the value on top of the stack back to int64 when k is
// INT. Every numeric load leaves a float64 behind (see genLiteral/genExpr);
// this is the one place that value is brought back down to its declared
// width, right before it is stored or handed to I/O.
func (g *Generator) materialize(k ast.EntityKind) {
	if k == ast.INT {
		g.instr("conv.i8")
	}
}

func (g *Generator) genExpr(e ast.Expr) {
	switch ex := e.(type) {
	case *ast.Literal:
		g.genLiteral(ex)
	case *ast.Ident:
		g.instr("ldloc " + ex.Name())
		if ex.Kind() == ast.INT {
			g.instr("conv.r8")
		}
	case *ast.ParenExpr:
		g.genExpr(ex.Inner)
	case *ast.UnaryExpr:
		g.genUnary(ex)
	case *ast.BinaryExpr:
		g.genBinary(ex)
	}
}

// genLiteral loads a literal's value. Numeric and boolean literals are
// widened to float64 immediately, matching the uniform arithmetic
// representation every load feeds into.
func (g *Generator) genLiteral(l *ast.Literal) {
	switch l.EKind {
	case ast.INT:
		g.instr("ldc.i8 " + strconv.FormatInt(l.IntV, 10))
		g.instr("conv.r8")
	case ast.FLOAT:
		g.instr("ldc.r8 " + l.FloatText)
	case ast.STRING:
		g.instr("ldstr " + quoteCIL(l.StrV))
	case ast.BOOL:
		if l.BoolV {
			g.instr("ldc.i4.1")
		} else {
			g.instr("ldc.i4.0")
		}
		g.instr("conv.r8")
	}
}

func (g *Generator) genUnary(u *ast.UnaryExpr) {
	g.genExpr(u.Operand)
	switch u.Op {
	case ast.UnaryNot:
		g.instr("not")
	case ast.UnaryNeg:
		g.instr("ldc.r8 -1.0")
		g.instr("mul")
	case ast.UnaryPos:
		// unary plus changes nothing on the stack.
	}
}

// genBinary emits both operands, each already widened to float64 by
// genExpr/genLiteral, followed by the opcode the operator maps to (!= is
// the one exception: ceq, then a second ceq against 0).
// No further promotion is needed here: the uniform float64 representation
// is established at every leaf load, not at the operator.
func (g *Generator) genBinary(b *ast.BinaryExpr) {
	g.genExpr(b.Left)
	g.genExpr(b.Right)
	switch b.Op {
	case ast.OpAdd:
		g.instr("add")
	case ast.OpSub:
		g.instr("sub")
	case ast.OpMul:
		g.instr("mul")
	case ast.OpDiv:
		g.instr("div")
	case ast.OpLt:
		g.instr("clt")
	case ast.OpGt:
		g.instr("cgt")
	case ast.OpEq:
		g.instr("ceq")
	case ast.OpNeq:
		g.instr("ceq")
		g.instr("ldc.i4.0")
		g.instr("ceq")
	case ast.OpAnd:
		g.instr("and")
	case ast.OpOr:
		g.instr("or")
	}
}

// quoteCIL renders s as a CIL string literal using Go's quoting, which
// backslash-escapes quotes, backslashes and non-printable characters and
// leaves printable characters, non-ASCII ones included, as they are.
func quoteCIL(s string) string {
	return strconv.Quote(s)
}
