package token

import "testing"

func TestKeywordHashHasNoCollisions(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("keyword table construction panicked: %v", r)
		}
	}()
	buildKeywordTable()
}

func TestLookupFindsEveryKeyword(t *testing.T) {
	for word, kind := range keywords {
		got, ok := Lookup(word)
		if !ok {
			t.Fatalf("Lookup(%q) = not found, want %v", word, kind)
		}
		if got != kind {
			t.Fatalf("Lookup(%q) = %v, want %v", word, got, kind)
		}
	}
}

func TestLookupRejectsNonKeywords(t *testing.T) {
	for _, word := range []string{"i_x", "f_valor", "s_nome", "b_flag", "nao_existe"} {
		if _, ok := Lookup(word); ok {
			t.Fatalf("Lookup(%q) unexpectedly found a keyword", word)
		}
	}
}
