package embedding

import "testing"

func TestSimpleTokenizerShape(t *testing.T) {
	tok := &SimpleTokenizer{}
	inputIDs, attentionMask, tokenTypeIDs := tok.Tokenize("vitamin d supports bones", 16)

	if len(inputIDs) != 16 || len(attentionMask) != 16 || len(tokenTypeIDs) != 16 {
		t.Fatalf("lengths: %d %d %d, want 16", len(inputIDs), len(attentionMask), len(tokenTypeIDs))
	}
	if inputIDs[0] != 101 {
		t.Errorf("first token: got %d, want 101 ([CLS])", inputIDs[0])
	}
	// 4 words + CLS + SEP attended
	var attended int
	for _, m := range attentionMask {
		if m == 1 {
			attended++
		}
	}
	if attended != 6 {
		t.Errorf("attended tokens: got %d, want 6", attended)
	}
}

func TestSimpleTokenizerTruncates(t *testing.T) {
	tok := &SimpleTokenizer{}
	long := ""
	for i := 0; i < 100; i++ {
		long += "word "
	}
	inputIDs, _, _ := tok.Tokenize(long, 8)
	if len(inputIDs) != 8 {
		t.Errorf("length: got %d, want 8", len(inputIDs))
	}
}

func TestSplitWords(t *testing.T) {
	words := SplitWords("  a\tb\nc  d ")
	if len(words) != 4 {
		t.Fatalf("got %d words: %v", len(words), words)
	}
}

func TestHashStringNonNegative(t *testing.T) {
	for _, s := range []string{"", "a", "nutrition", "a longer string with spaces"} {
		if HashString(s) < 0 {
			t.Errorf("HashString(%q) negative", s)
		}
	}
}
