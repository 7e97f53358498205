package nlp

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ChaiyasitZ/nlp-project/internal/domain"
)

const (
	eventConfidence = 0.7
	maxEvents       = 5
	contextWindow   = 50 // runes on each side of the match
)

// EventExtractor scans content with fixed Thai and English phrase patterns
// (announcements, casualties, signings, meetings). Every match carries the
// same heuristic confidence.
type EventExtractor struct {
	thai    []*regexp.Regexp
	english []*regexp.Regexp
}

// NewEventExtractor compiles the fixed pattern lists.
func NewEventExtractor() *EventExtractor {
	compile := func(exprs ...string) []*regexp.Regexp {
		out := make([]*regexp.Regexp, 0, len(exprs))
		for _, expr := range exprs {
			out = append(out, regexp.MustCompile(expr))
		}
		return out
	}
	return &EventExtractor{
		thai: compile(
			`เกิดเหตุ[ก-ฮ\s]+`,
			`เสียชีวิต[ก-ฮ\s]*`,
			`ได้รับบาดเจ็บ[ก-ฮ\s]*`,
			`ประกาศ[ก-ฮ\s]+`,
			`เปิดเผย[ก-ฮ\s]+`,
			`ลงนาม[ก-ฮ\s]+`,
			`ประชุม[ก-ฮ\s]+`,
			`แถลงข่าว[ก-ฮ\s]*`,
		),
		english: compile(
			`(?i)announced\s+\w+`,
			`(?i)declared\s+\w+`,
			`(?i)signed\s+\w+`,
			`(?i)meeting\s+\w+`,
			`(?i)conference\s+\w+`,
			`(?i)died\s+\w*`,
			`(?i)injured\s+\w*`,
		),
	}
}

// Extract returns at most five events in scan order, each with a ±50 rune
// context window and its rune offset in the content.
func (e *EventExtractor) Extract(content string, lang domain.Language) []domain.Event {
	patterns := e.thai
	if lang == domain.LangEnglish {
		patterns = e.english
	}

	runes := []rune(content)
	var events []domain.Event
	for _, re := range patterns {
		for _, loc := range re.FindAllStringIndex(content, -1) {
			start := utf8.RuneCountInString(content[:loc[0]])
			end := start + utf8.RuneCountInString(content[loc[0]:loc[1]])
			ctxStart := start - contextWindow
			if ctxStart < 0 {
				ctxStart = 0
			}
			ctxEnd := end + contextWindow
			if ctxEnd > len(runes) {
				ctxEnd = len(runes)
			}
			events = append(events, domain.Event{
				EventText:  content[loc[0]:loc[1]],
				Context:    strings.TrimSpace(string(runes[ctxStart:ctxEnd])),
				Position:   start,
				Confidence: eventConfidence,
			})
		}
	}
	if len(events) > maxEvents {
		events = events[:maxEvents]
	}
	return events
}
