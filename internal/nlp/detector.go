package nlp

import "github.com/ChaiyasitZ/nlp-project/internal/domain"

// DetectLanguage classifies text by counting Thai-script letters against
// Latin letters. Ties, including empty input, are reported as mixed.
func DetectLanguage(text string) domain.Language {
	var thai, latin int
	for _, r := range text {
		switch {
		case r >= 'ก' && r <= 'ฮ':
			thai++
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			latin++
		}
	}
	switch {
	case thai > latin:
		return domain.LangThai
	case latin > thai:
		return domain.LangEnglish
	default:
		return domain.LangMixed
	}
}
