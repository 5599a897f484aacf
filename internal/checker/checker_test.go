package checker

import (
	"testing"

	"github.com/opela-lang/ptcil/internal/lexer"
	"github.com/opela-lang/ptcil/internal/parser"
)

func checkSource(t *testing.T, src string) error {
	t.Helper()
	toks, err := lexer.Tokenize(src)
	if err != nil {
		t.Fatalf("unexpected lexer error: %v", err)
	}
	prog, err := parser.Parse(toks)
	if err != nil {
		t.Fatalf("unexpected parser error: %v", err)
	}
	return Check(prog)
}

func TestCheckDeclareThenUseIsValid(t *testing.T) {
	if err := checkSource(t, `main i_x = 1; write(i_x); end`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCheckUndeclaredUse(t *testing.T) {
	err := checkSource(t, `main write(i_x); end`)
	if err == nil {
		t.Fatal("expected an error")
	}
	cerr := err.(*Error)
	if cerr.Kind != Undeclared {
		t.Fatalf("expected Undeclared, got %v", cerr.Kind)
	}
}

func TestCheckRedeclaration(t *testing.T) {
	err := checkSource(t, `main i_x; i_x; end`)
	if err == nil {
		t.Fatal("expected an error")
	}
	cerr := err.(*Error)
	if cerr.Kind != Redeclared {
		t.Fatalf("expected Redeclared, got %v", cerr.Kind)
	}
}

func TestCheckReassignAfterDeclareIsNotRedeclaration(t *testing.T) {
	if err := checkSource(t, `main i_x; i_x = 5; i_x = 6; end`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCheckReadDeclaresItsTargets(t *testing.T) {
	if err := checkSource(t, `main read(i_x); write(i_x); end`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCheckRepeatBodyDeclarationVisibleInCondition(t *testing.T) {
	if err := checkSource(t, `main repeat i_x = 1; until (i_x == 1); end`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCheckIfConditionMustBeDeclared(t *testing.T) {
	err := checkSource(t, `main if (b_flag) write(1); end end`)
	if err == nil {
		t.Fatal("expected an error")
	}
	if err.(*Error).Kind != Undeclared {
		t.Fatalf("expected Undeclared, got %v", err.(*Error).Kind)
	}
}
