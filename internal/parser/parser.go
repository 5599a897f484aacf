// Package parser builds an *ast.Main from a token stream via a table-driven
// descent over the grammar in table.go: every non-terminal still asks the
// precomputed table which rule fires before doing anything else, the same
// discipline as the reference's stack-driven automaton, but each rule is an
// ordinary Go function building its own slice of the tree rather than a
// generic reduction over a symbol stack.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/opela-lang/ptcil/internal/ast"
	"github.com/opela-lang/ptcil/internal/token"
)

// Error is the parser's single error value: what the grammar expected at
// this point, and what token actually appeared.
type Error struct {
	Expected string
	Found    token.Token
}

func (e *Error) Error() string {
	return fmt.Sprintf("parser error at %s: esperado %s, encontrado %s",
		e.Found.Pos, e.Expected, foundDescription(e.Found))
}

func foundDescription(tok token.Token) string {
	if tok.Kind == token.EOF {
		return "fim de arquivo"
	}
	if tok.Slice != "" {
		return tok.Slice
	}
	return string(tok.Kind)
}

func renderExpected(kinds []token.Kind) string {
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = string(k)
	}
	return strings.Join(parts, " ou ")
}

// Parse consumes a full token stream (as produced by internal/lexer) and
// returns the program's AST, or the first syntax error encountered.
// Comment tokens are dropped before parsing begins; the grammar has no
// production that mentions them.
func Parse(toks []token.Token) (*ast.Main, error) {
	p := &Parser{toks: dropComments(toks)}
	return p.parseProgram()
}

func dropComments(toks []token.Token) []token.Token {
	out := make([]token.Token, 0, len(toks))
	for _, t := range toks {
		if t.Kind != token.COMMENT {
			out = append(out, t)
		}
	}
	return out
}

// Parser walks a fixed token slice with a single read cursor; there is no
// backtracking, as the grammar is LL(1) by construction.
type Parser struct {
	toks []token.Token
	pos  int
}

func (p *Parser) cur() token.Token {
	if p.pos >= len(p.toks) {
		return token.Token{Kind: token.EOF}
	}
	return p.toks[p.pos]
}

func (p *Parser) advance() token.Token {
	tok := p.cur()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return tok
}

func (p *Parser) expect(k token.Kind) (token.Token, error) {
	tok := p.cur()
	if tok.Kind != k {
		return token.Token{}, &Error{Expected: string(k), Found: tok}
	}
	return p.advance(), nil
}

// errAt builds the NONE-cell error for non-terminal nt at the current token:
// the literal "expressão" for the expression family, otherwise the sorted
// list of terminals nt's table row actually accepts.
func (p *Parser) errAt(nt string, found token.Token) error {
	if exprFamily[nt] {
		return &Error{Expected: "expressão", Found: found}
	}
	return &Error{Expected: renderExpected(expectedFor(nt)), Found: found}
}

func identFromToken(tok token.Token) *ast.Ident {
	return &ast.Ident{Tok: tok, EKind: ast.EntityKindOfIdent(tok.Slice)}
}

func stringLiteralFromToken(tok token.Token) *ast.Literal {
	raw := tok.Slice
	var s string
	if len(raw) >= 2 {
		s = raw[1 : len(raw)-1]
	}
	return &ast.Literal{Tok: tok, EKind: ast.STRING, StrV: s}
}

func intLiteralFromToken(tok token.Token) *ast.Literal {
	iv, _ := strconv.ParseInt(tok.Slice, 10, 64)
	return &ast.Literal{Tok: tok, EKind: ast.INT, IntV: iv}
}

// floatLiteralFromToken rebuilds the literal's decimal text from the source
// comma notation, trimming trailing fractional zeros but keeping at least
// one digit, so `1,250` becomes FloatText "1.25" rather than whatever
// strconv's shortest round-trip would print.
func floatLiteralFromToken(tok token.Token) *ast.Literal {
	whole, frac, _ := strings.Cut(tok.Slice, ",")
	frac = strings.TrimRight(frac, "0")
	if frac == "" {
		frac = "0"
	}
	text := whole + "." + frac
	fv, _ := strconv.ParseFloat(text, 64)
	return &ast.Literal{Tok: tok, EKind: ast.FLOAT, FloatV: fv, FloatText: text}
}

func (p *Parser) parseProgram() (*ast.Main, error) {
	if _, ok := lookup(symProgram, p.cur().Kind); !ok {
		return nil, p.errAt(symProgram, p.cur())
	}
	mainTok, err := p.expect(token.MAIN)
	if err != nil {
		return nil, err
	}
	body, err := p.parseStmtList()
	if err != nil {
		return nil, err
	}
	endTok, err := p.expect(token.END)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.EOF); err != nil {
		return nil, err
	}
	return &ast.Main{Body: body, MainTok: mainTok, EndTok: endTok}, nil
}

func (p *Parser) parseStmtList() (*ast.StmtList, error) {
	var items []ast.Stmt
	for {
		id, ok := lookup(symStmtList, p.cur().Kind)
		if !ok {
			return nil, p.errAt(symStmtList, p.cur())
		}
		if id == rStmtListEps {
			return &ast.StmtList{Items: items}, nil
		}
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		items = append(items, stmt)
	}
}

func (p *Parser) parseStmt() (ast.Stmt, error) {
	id, ok := lookup(symStmt, p.cur().Kind)
	if !ok {
		return nil, p.errAt(symStmt, p.cur())
	}
	switch id {
	case rStmtDecl:
		s, err := p.parseVarDeclOrAssign()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.SEMI); err != nil {
			return nil, err
		}
		return s, nil
	case rStmtRead:
		s, err := p.parseReadStmt()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.SEMI); err != nil {
			return nil, err
		}
		return s, nil
	case rStmtWrite:
		s, err := p.parseWriteStmt()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.SEMI); err != nil {
			return nil, err
		}
		return s, nil
	case rStmtIf:
		return p.parseIfStmt()
	case rStmtRepeat:
		return p.parseRepeatStmt()
	}
	panic("parser: unreachable Stmt rule")
}

func (p *Parser) parseVarDeclOrAssign() (ast.Stmt, error) {
	idents, err := p.parseIdentList()
	if err != nil {
		return nil, err
	}
	id, ok := lookup(symOptAssign, p.cur().Kind)
	if !ok {
		return nil, p.errAt(symOptAssign, p.cur())
	}
	if id == rOptAssignEps {
		return &ast.VarDecl{Idents: idents}, nil
	}
	if _, err := p.expect(token.ASSIGN); err != nil {
		return nil, err
	}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.AssignStmt{Idents: idents, Expr: expr}, nil
}

func (p *Parser) parseIdentList() ([]*ast.Ident, error) {
	tok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	idents := []*ast.Ident{identFromToken(tok)}
	rest, err := p.parseIdentListTail()
	if err != nil {
		return nil, err
	}
	return append(idents, rest...), nil
}

func (p *Parser) parseIdentListTail() ([]*ast.Ident, error) {
	id, ok := lookup(symIdentListTail, p.cur().Kind)
	if !ok {
		return nil, p.errAt(symIdentListTail, p.cur())
	}
	if id == rIdentListTailEps {
		return nil, nil
	}
	if _, err := p.expect(token.COMMA); err != nil {
		return nil, err
	}
	tok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	rest, err := p.parseIdentListTail()
	if err != nil {
		return nil, err
	}
	return append([]*ast.Ident{identFromToken(tok)}, rest...), nil
}

func (p *Parser) parseReadStmt() (ast.Stmt, error) {
	readTok, err := p.expect(token.READ)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	inputs, err := p.parseInputArgList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return &ast.ReadStmt{ReadTok: readTok, Inputs: inputs}, nil
}

func (p *Parser) parseInputArgList() ([]ast.InputArg, error) {
	first, err := p.parseInputArg()
	if err != nil {
		return nil, err
	}
	rest, err := p.parseInputArgListTail()
	if err != nil {
		return nil, err
	}
	return append([]ast.InputArg{first}, rest...), nil
}

func (p *Parser) parseInputArgListTail() ([]ast.InputArg, error) {
	id, ok := lookup(symInputArgListTail, p.cur().Kind)
	if !ok {
		return nil, p.errAt(symInputArgListTail, p.cur())
	}
	if id == rInputArgListTailEps {
		return nil, nil
	}
	if _, err := p.expect(token.COMMA); err != nil {
		return nil, err
	}
	arg, err := p.parseInputArg()
	if err != nil {
		return nil, err
	}
	rest, err := p.parseInputArgListTail()
	if err != nil {
		return nil, err
	}
	return append([]ast.InputArg{arg}, rest...), nil
}

func (p *Parser) parseInputArg() (ast.InputArg, error) {
	id, ok := lookup(symInputArg, p.cur().Kind)
	if !ok {
		return ast.InputArg{}, p.errAt(symInputArg, p.cur())
	}
	switch id {
	case rInputArgPrompted:
		strTok, err := p.expect(token.STRING)
		if err != nil {
			return ast.InputArg{}, err
		}
		if _, err := p.expect(token.COMMA); err != nil {
			return ast.InputArg{}, err
		}
		identTok, err := p.expect(token.IDENT)
		if err != nil {
			return ast.InputArg{}, err
		}
		return ast.InputArg{Prompt: stringLiteralFromToken(strTok), Ident: identFromToken(identTok)}, nil
	case rInputArgBare:
		identTok, err := p.expect(token.IDENT)
		if err != nil {
			return ast.InputArg{}, err
		}
		return ast.InputArg{Ident: identFromToken(identTok)}, nil
	}
	panic("parser: unreachable InputArg rule")
}

func (p *Parser) parseWriteStmt() (ast.Stmt, error) {
	kwTok, err := p.parseWriteKeyword()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	exprs, err := p.parseExprList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return &ast.WriteStmt{KeywordTok: kwTok, Exprs: exprs}, nil
}

func (p *Parser) parseWriteKeyword() (token.Token, error) {
	id, ok := lookup(symWriteKeyword, p.cur().Kind)
	if !ok {
		return token.Token{}, p.errAt(symWriteKeyword, p.cur())
	}
	switch id {
	case rWriteKeywordWrite:
		return p.expect(token.WRITE)
	case rWriteKeywordWriteln:
		return p.expect(token.WRITELN)
	}
	panic("parser: unreachable WriteKeyword rule")
}

func (p *Parser) parseExprList() ([]ast.Expr, error) {
	first, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	rest, err := p.parseExprListTail()
	if err != nil {
		return nil, err
	}
	return append([]ast.Expr{first}, rest...), nil
}

func (p *Parser) parseExprListTail() ([]ast.Expr, error) {
	id, ok := lookup(symExprListTail, p.cur().Kind)
	if !ok {
		return nil, p.errAt(symExprListTail, p.cur())
	}
	if id == rExprListTailEps {
		return nil, nil
	}
	if _, err := p.expect(token.COMMA); err != nil {
		return nil, err
	}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	rest, err := p.parseExprListTail()
	if err != nil {
		return nil, err
	}
	return append([]ast.Expr{expr}, rest...), nil
}

// parseIfStmt parses the root `if (...) ... elif/else... end` chain. elif
// and else arms are parsed by parseElseTail and linked through Else; only
// this root consumes the single trailing END that closes the whole chain.
func (p *Parser) parseIfStmt() (ast.Stmt, error) {
	ifTok, err := p.expect(token.IF)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	body, err := p.parseStmtList()
	if err != nil {
		return nil, err
	}
	elseArm, err := p.parseElseTail()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.END); err != nil {
		return nil, err
	}
	return &ast.IfStmt{IfTok: ifTok, Cond: cond, Body: body, Else: elseArm, IsRoot: true}, nil
}

func (p *Parser) parseElseTail() (*ast.IfStmt, error) {
	id, ok := lookup(symElseTail, p.cur().Kind)
	if !ok {
		return nil, p.errAt(symElseTail, p.cur())
	}
	switch id {
	case rElseTailEps:
		return nil, nil
	case rElseTailElif:
		elifTok, err := p.expect(token.ELIF)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.LPAREN); err != nil {
			return nil, err
		}
		cond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		body, err := p.parseStmtList()
		if err != nil {
			return nil, err
		}
		rest, err := p.parseElseTail()
		if err != nil {
			return nil, err
		}
		return &ast.IfStmt{IfTok: elifTok, Cond: cond, Body: body, Else: rest, IsRoot: false}, nil
	case rElseTailElse:
		elseTok, err := p.expect(token.ELSE)
		if err != nil {
			return nil, err
		}
		body, err := p.parseStmtList()
		if err != nil {
			return nil, err
		}
		return &ast.IfStmt{IfTok: elseTok, Cond: nil, Body: body, Else: nil, IsRoot: false}, nil
	}
	panic("parser: unreachable ElseTail rule")
}

func (p *Parser) parseRepeatStmt() (ast.Stmt, error) {
	repeatTok, err := p.expect(token.REPEAT)
	if err != nil {
		return nil, err
	}
	body, err := p.parseStmtList()
	if err != nil {
		return nil, err
	}
	kw, err := p.parseRepeatKeyword()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}
	return &ast.RepeatStmt{RepeatTok: repeatTok, Body: body, Keyword: kw, Cond: cond}, nil
}

func (p *Parser) parseRepeatKeyword() (ast.RepeatKeyword, error) {
	id, ok := lookup(symRepeatKeyword, p.cur().Kind)
	if !ok {
		return 0, p.errAt(symRepeatKeyword, p.cur())
	}
	switch id {
	case rRepeatKeywordWhile:
		if _, err := p.expect(token.WHILE); err != nil {
			return 0, err
		}
		return ast.RepeatWhile, nil
	case rRepeatKeywordUntil:
		if _, err := p.expect(token.UNTIL); err != nil {
			return 0, err
		}
		return ast.RepeatUntil, nil
	}
	panic("parser: unreachable RepeatKeyword rule")
}

func (p *Parser) parseExpr() (ast.Expr, error) {
	if _, ok := lookup(symExpr, p.cur().Kind); !ok {
		return nil, p.errAt(symExpr, p.cur())
	}
	return p.parseExprLog()
}

func (p *Parser) parseExprLog() (ast.Expr, error) {
	left, err := p.parseExprRel()
	if err != nil {
		return nil, err
	}
	for {
		id, ok := lookup(symExprLogTail, p.cur().Kind)
		if !ok {
			return nil, p.errAt(symExprLogTail, p.cur())
		}
		if id == rExprLogTailEps {
			return left, nil
		}
		opTok := p.advance()
		op := ast.OpAnd
		if opTok.Kind == token.OR {
			op = ast.OpOr
		}
		right, err := p.parseExprRel()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{OpTok: opTok, Op: op, Left: left, Right: right}
	}
}

func (p *Parser) parseExprRel() (ast.Expr, error) {
	left, err := p.parseExprAdd()
	if err != nil {
		return nil, err
	}
	for {
		id, ok := lookup(symExprRelTail, p.cur().Kind)
		if !ok {
			return nil, p.errAt(symExprRelTail, p.cur())
		}
		if id == rExprRelTailEps {
			return left, nil
		}
		opTok := p.advance()
		var op ast.BinaryOp
		switch opTok.Kind {
		case token.LESS:
			op = ast.OpLt
		case token.GREATER:
			op = ast.OpGt
		case token.EQ:
			op = ast.OpEq
		case token.NEQ:
			op = ast.OpNeq
		}
		right, err := p.parseExprAdd()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{OpTok: opTok, Op: op, Left: left, Right: right}
	}
}

func (p *Parser) parseExprAdd() (ast.Expr, error) {
	left, err := p.parseExprMul()
	if err != nil {
		return nil, err
	}
	for {
		id, ok := lookup(symExprAddTail, p.cur().Kind)
		if !ok {
			return nil, p.errAt(symExprAddTail, p.cur())
		}
		if id == rExprAddTailEps {
			return left, nil
		}
		opTok := p.advance()
		op := ast.OpAdd
		if opTok.Kind == token.MINUS {
			op = ast.OpSub
		}
		right, err := p.parseExprMul()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{OpTok: opTok, Op: op, Left: left, Right: right}
	}
}

func (p *Parser) parseExprMul() (ast.Expr, error) {
	left, err := p.parseExprUnary()
	if err != nil {
		return nil, err
	}
	for {
		id, ok := lookup(symExprMulTail, p.cur().Kind)
		if !ok {
			return nil, p.errAt(symExprMulTail, p.cur())
		}
		if id == rExprMulTailEps {
			return left, nil
		}
		opTok := p.advance()
		op := ast.OpMul
		if opTok.Kind == token.SLASH {
			op = ast.OpDiv
		}
		right, err := p.parseExprUnary()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{OpTok: opTok, Op: op, Left: left, Right: right}
	}
}

func (p *Parser) parseExprUnary() (ast.Expr, error) {
	id, ok := lookup(symExprUnary, p.cur().Kind)
	if !ok {
		return nil, p.errAt(symExprUnary, p.cur())
	}
	switch id {
	case rExprUnaryNot, rExprUnaryNeg, rExprUnaryPos:
		opTok := p.advance()
		operand, err := p.parseExprUnary()
		if err != nil {
			return nil, err
		}
		op := ast.UnaryNot
		switch opTok.Kind {
		case token.MINUS:
			op = ast.UnaryNeg
		case token.PLUS:
			op = ast.UnaryPos
		}
		return &ast.UnaryExpr{OpTok: opTok, Op: op, Operand: operand}, nil
	case rExprUnaryPrimary:
		return p.parseExprPrimary()
	}
	panic("parser: unreachable ExprUnary rule")
}

func (p *Parser) parseExprPrimary() (ast.Expr, error) {
	id, ok := lookup(symExprPrimary, p.cur().Kind)
	if !ok {
		return nil, p.errAt(symExprPrimary, p.cur())
	}
	switch id {
	case rExprPrimaryParen:
		lp, err := p.expect(token.LPAREN)
		if err != nil {
			return nil, err
		}
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return &ast.ParenExpr{LParenTok: lp, Inner: inner}, nil
	case rExprPrimaryIdent:
		return identFromToken(p.advance()), nil
	case rExprPrimaryInt:
		return intLiteralFromToken(p.advance()), nil
	case rExprPrimaryFloat:
		return floatLiteralFromToken(p.advance()), nil
	case rExprPrimaryString:
		return stringLiteralFromToken(p.advance()), nil
	case rExprPrimaryTrue:
		return &ast.Literal{Tok: p.advance(), EKind: ast.BOOL, BoolV: true}, nil
	case rExprPrimaryFalse:
		return &ast.Literal{Tok: p.advance(), EKind: ast.BOOL, BoolV: false}, nil
	}
	panic("parser: unreachable ExprPrimary rule")
}
