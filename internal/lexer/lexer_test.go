package lexer

import (
	"testing"

	"github.com/opela-lang/ptcil/internal/token"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestTokenizeEndsInExactlyOneEOF(t *testing.T) {
	toks, err := Tokenize("main end")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(toks) == 0 || toks[len(toks)-1].Kind != token.EOF {
		t.Fatalf("expected trailing EOF, got %v", kinds(toks))
	}
	for _, tok := range toks[:len(toks)-1] {
		if tok.Kind == token.EOF {
			t.Fatalf("EOF appeared before the end of the stream: %v", kinds(toks))
		}
	}
}

func TestTokenizeIsIdempotent(t *testing.T) {
	src := `main
		i_x = 1 + 2;
		write("ok");
	end`
	toks1, err1 := Tokenize(src)
	toks2, err2 := Tokenize(src)
	if err1 != nil || err2 != nil {
		t.Fatalf("unexpected errors: %v, %v", err1, err2)
	}
	if len(toks1) != len(toks2) {
		t.Fatalf("re-tokenizing the same source produced different lengths: %d vs %d", len(toks1), len(toks2))
	}
	for i := range toks1 {
		if toks1[i] != toks2[i] {
			t.Fatalf("token %d differs: %v vs %v", i, toks1[i], toks2[i])
		}
	}
}

func TestScanMalformedIdentifierReportsInvalidIdent(t *testing.T) {
	_, err := Tokenize("main iBad; end")
	if err == nil {
		t.Fatal("expected an error")
	}
	lerr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T", err)
	}
	if lerr.Kind != InvalidIdent {
		t.Fatalf("expected InvalidIdent, got %v", lerr.Kind)
	}
	if lerr.BadToken.Slice != "iBad" {
		t.Fatalf("expected bad lexeme %q, got %q", "iBad", lerr.BadToken.Slice)
	}
}

func TestScanUnknownWordReportsInvalidKeyword(t *testing.T) {
	_, err := Tokenize("main xyzzy; end")
	if err == nil {
		t.Fatal("expected an error")
	}
	lerr := err.(*Error)
	if lerr.Kind != InvalidKeyword {
		t.Fatalf("expected InvalidKeyword, got %v", lerr.Kind)
	}
}

func TestScanUnterminatedStringReportsInvalidString(t *testing.T) {
	_, err := Tokenize(`main writeln("hi); end`)
	if err == nil {
		t.Fatal("expected an error")
	}
	lerr := err.(*Error)
	if lerr.Kind != InvalidString {
		t.Fatalf("expected InvalidString, got %v", lerr.Kind)
	}
}

func TestScanFloatLiteralSplitsOnComma(t *testing.T) {
	toks, err := Tokenize("1,250")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(toks) != 2 || toks[0].Kind != token.FLOAT {
		t.Fatalf("expected a single FLOAT token then EOF, got %v", kinds(toks))
	}
	if toks[0].Slice != "1,250" {
		t.Fatalf("expected slice %q, got %q", "1,250", toks[0].Slice)
	}
}

func TestScanLeadingZeroIsASingleDigit(t *testing.T) {
	toks, err := Tokenize("007")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := kinds(toks)
	want := []token.Kind{token.INT, token.INT, token.INT, token.EOF}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestScanBlockCommentRequiresLineEndAfterOpener(t *testing.T) {
	_, err := Tokenize(">@ not a line ending right after @<")
	if err == nil {
		t.Fatal("expected an error")
	}
	if err.(*Error).Kind != InvalidComment {
		t.Fatalf("expected InvalidComment, got %v", err.(*Error).Kind)
	}
}

func TestScanBlockCommentValid(t *testing.T) {
	toks, err := Tokenize(">@\nhidden\n@<main end")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := kinds(toks)
	want := []token.Kind{token.COMMENT, token.MAIN, token.END, token.EOF}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestScanTwoCharOperators(t *testing.T) {
	toks, err := Tokenize("== != && ||")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := kinds(toks)
	want := []token.Kind{token.EQ, token.NEQ, token.AND, token.OR, token.EOF}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}
