package nlp

import (
	"testing"

	"github.com/ChaiyasitZ/nlp-project/internal/domain"
)

func TestDetectLanguage(t *testing.T) {
	cases := []struct {
		name string
		text string
		want domain.Language
	}{
		{"thai", "รัฐบาลประกาศมาตรการใหม่", domain.LangThai},
		{"english", "The government announced new measures", domain.LangEnglish},
		{"thai dominant", "ประชุมด่วนที่ Bangkok วันนี้มีมติสำคัญ", domain.LangThai},
		{"empty is mixed", "", domain.LangMixed},
		{"digits only is mixed", "12345 678", domain.LangMixed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DetectLanguage(tc.text); got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestDetectLanguageTieIsMixed(t *testing.T) {
	// Two Thai consonants against two Latin letters.
	if got := DetectLanguage("กข ab"); got != domain.LangMixed {
		t.Fatalf("expected mixed on a tie, got %s", got)
	}
}
