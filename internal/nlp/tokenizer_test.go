package nlp

import (
	"testing"
	"unicode/utf8"

	"github.com/ChaiyasitZ/nlp-project/internal/domain"
	"github.com/ChaiyasitZ/nlp-project/internal/lexicon"
)

func newTestTokenizer(t *testing.T) *Tokenizer {
	t.Helper()
	lex, err := lexicon.Load()
	if err != nil {
		t.Fatalf("lexicon load failed: %v", err)
	}
	return NewTokenizer(lex)
}

func TestTokenizeEnglish(t *testing.T) {
	tok := newTestTokenizer(t)
	tokens := tok.Tokenize("The Prime Minister announced new economic policies.", domain.LangEnglish)

	for _, tk := range tokens {
		if tk == "the" {
			t.Fatalf("stopword survived filtering: %q", tokens)
		}
		if utf8.RuneCountInString(tk) <= 2 {
			t.Fatalf("short token survived filtering: %q", tk)
		}
	}
	if !containsToken(tokens, "minister") || !containsToken(tokens, "announced") {
		t.Fatalf("expected lower-cased content words, got %q", tokens)
	}
}

func TestTokenizeThaiDictionaryWords(t *testing.T) {
	tok := newTestTokenizer(t)
	tokens := tok.Tokenize("รัฐบาลประกาศแถลงข่าว", domain.LangThai)

	want := []string{"รัฐบาล", "ประกาศ", "แถลงข่าว"}
	if len(tokens) != len(want) {
		t.Fatalf("expected %d tokens, got %q", len(want), tokens)
	}
	for i, w := range want {
		if tokens[i] != w {
			t.Fatalf("expected %q at %d, got %q", w, i, tokens)
		}
	}
}

func TestTokenizeThaiDropsStopwords(t *testing.T) {
	tok := newTestTokenizer(t)
	// "และ" is a stopword sitting between two dictionary words.
	tokens := tok.Tokenize("รัฐบาลและตำรวจ", domain.LangThai)
	if len(tokens) != 2 || tokens[0] != "รัฐบาล" || tokens[1] != "ตำรวจ" {
		t.Fatalf("expected stopword dropped, got %q", tokens)
	}
}

func TestTokenizeThaiLongestMatch(t *testing.T) {
	tok := newTestTokenizer(t)
	// "นายกรัฐมนตรี" must win over its prefix matches.
	tokens := tok.Tokenize("นายกรัฐมนตรีประชุม", domain.LangThai)
	if len(tokens) != 2 || tokens[0] != "นายกรัฐมนตรี" || tokens[1] != "ประชุม" {
		t.Fatalf("expected longest match first, got %q", tokens)
	}
}

func TestTokenizeMixedKeepsLatinWords(t *testing.T) {
	tok := newTestTokenizer(t)
	tokens := tok.Tokenize("รัฐบาลจัดงาน Expo 2024 ที่กรุงเทพ", domain.LangMixed)

	if !containsToken(tokens, "Expo") || !containsToken(tokens, "2024") {
		t.Fatalf("expected latin run tokens retained, got %q", tokens)
	}
	if !containsToken(tokens, "รัฐบาล") || !containsToken(tokens, "กรุงเทพ") {
		t.Fatalf("expected thai dictionary tokens retained, got %q", tokens)
	}
	if containsToken(tokens, "ที่") {
		t.Fatalf("thai stopword survived filtering: %q", tokens)
	}
}

func TestTokenizeDeterministic(t *testing.T) {
	tok := newTestTokenizer(t)
	text := "รัฐบาลประกาศมาตรการเศรษฐกิจใหม่ในกรุงเทพ"
	first := tok.Tokenize(text, domain.LangThai)
	for i := 0; i < 5; i++ {
		again := tok.Tokenize(text, domain.LangThai)
		if len(again) != len(first) {
			t.Fatalf("run %d changed token count: %q vs %q", i, first, again)
		}
		for j := range first {
			if first[j] != again[j] {
				t.Fatalf("run %d changed token %d: %q vs %q", i, j, first, again)
			}
		}
	}
}

func containsToken(tokens []string, want string) bool {
	for _, tk := range tokens {
		if tk == want {
			return true
		}
	}
	return false
}
