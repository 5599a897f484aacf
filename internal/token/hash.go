package token

import "sync"

// keywordTable is a process-wide, perfect-hash-like lookup built once at the
// first call to Lookup. The hash function deliberately looks at only the
// first byte and the second-to-last byte of the candidate lexeme (not the
// last byte) — an unusual choice, preserved here rather than "fixed", per the
// reference implementation's own insistence that this is intentional.
type keywordTable struct {
	slots []keywordSlot
}

type keywordSlot struct {
	occupied bool
	word     string
	kind     Kind
}

// keywordTableSize must not be a power of two: first<<8 contributes nothing
// mod any power of two up to 256, collapsing the hash to secondToLast*len
// alone, which collides for this keyword set (e.g. "main"/"elif" at 64). 97
// is prime and was checked by hand against all 13 keywords.
const keywordTableSize = 97

var (
	kwTable     keywordTable
	kwTableOnce sync.Once
)

// keywordHash combines the first byte and the second-to-last byte of s,
// scaled by the lexeme's length, modulo the table size.
//
// s must have length >= 2; callers only ever hash candidate keyword lexemes,
// and every real keyword is at least two bytes long ("if").
func keywordHash(s string) int {
	first := int(s[0])
	secondToLast := int(s[len(s)-2])
	h := (first<<8 | secondToLast) * len(s)
	if h < 0 {
		h = -h
	}
	return h % keywordTableSize
}

func buildKeywordTable() {
	kwTable.slots = make([]keywordSlot, keywordTableSize)
	for word, kind := range keywords {
		idx := keywordHash(word)
		if kwTable.slots[idx].occupied {
			// The keyword set is fixed at build time; a collision here means
			// the table needs to grow or the hash needs to change, not
			// something a production binary should paper over.
			panic("token: keyword hash collision between " +
				kwTable.slots[idx].word + " and " + word)
		}
		kwTable.slots[idx] = keywordSlot{occupied: true, word: word, kind: kind}
	}
}

// Lookup returns the Kind for a keyword lexeme and true, or ("", false) if
// lexeme is not one of the reserved words. A lexeme shorter than two bytes is
// never a keyword and returns ("", false); the tokenizer only calls Lookup on
// candidates it has already judged keyword-shaped (see lexer's validKeyword).
func Lookup(lexeme string) (Kind, bool) {
	kwTableOnce.Do(buildKeywordTable)
	if len(lexeme) < 2 {
		return "", false
	}
	idx := keywordHash(lexeme)
	slot := kwTable.slots[idx]
	if !slot.occupied || slot.word != lexeme {
		return "", false
	}
	return slot.kind, true
}
