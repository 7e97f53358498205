package nlp

import (
	"regexp"
	"sort"
	"strings"

	"github.com/ChaiyasitZ/nlp-project/internal/domain"
)

// EntityExtractor is the pattern-based NER stage. Patterns exist for Thai
// honorifics (PERSON), institutional prefixes (ORGANIZATION) and
// administrative divisions (LOCATION); English text yields empty sets. This
// is a known limitation, kept so that a statistical model can later replace
// the extractor behind the same signature.
type EntityExtractor struct {
	patterns map[domain.EntityType][]*regexp.Regexp
}

// NewEntityExtractor compiles the fixed Thai pattern set.
func NewEntityExtractor() *EntityExtractor {
	compile := func(exprs ...string) []*regexp.Regexp {
		out := make([]*regexp.Regexp, 0, len(exprs))
		for _, expr := range exprs {
			out = append(out, regexp.MustCompile(expr))
		}
		return out
	}
	return &EntityExtractor{patterns: map[domain.EntityType][]*regexp.Regexp{
		domain.EntityPerson: compile(
			`นาย[ก-ฮ][ก-ฮ\s]+`,
			`นาง[ก-ฮ][ก-ฮ\s]+`,
			`น\.ส\.[ก-ฮ][ก-ฮ\s]+`,
			`ดร\.[ก-ฮ][ก-ฮ\s]+`,
			`ศ\.[ก-ฮ][ก-ฮ\s]+`,
			`รศ\.[ก-ฮ][ก-ฮ\s]+`,
			`ผศ\.[ก-ฮ][ก-ฮ\s]+`,
		),
		domain.EntityOrganization: compile(
			`กระทรวง[ก-ฮ\s]+`,
			`กรม[ก-ฮ\s]+`,
			`องค์การ[ก-ฮ\s]+`,
			`บริษัท[ก-ฮ\s]+`,
			`มหาวิทยาลัย[ก-ฮ\s]+`,
			`โรงเรียน[ก-ฮ\s]+`,
			`พรรค[ก-ฮ\s]+`,
		),
		domain.EntityLocation: compile(
			`จังหวัด[ก-ฮ\s]+`,
			`อำเภอ[ก-ฮ\s]+`,
			`ตำบล[ก-ฮ\s]+`,
			`กรุงเทพ[ก-ฮ]*`,
			`เมือง[ก-ฮ\s]+`,
			`ประเทศ[ก-ฮ\s]+`,
		),
	}}
}

// Extract returns the deduplicated entity mentions per type. All four types
// are always present in the result; order within a type is not significant
// (sorted here for stable output).
func (e *EntityExtractor) Extract(text string, lang domain.Language) map[domain.EntityType][]string {
	entities := make(map[domain.EntityType][]string, len(domain.EntityTypes))
	for _, entityType := range domain.EntityTypes {
		entities[entityType] = []string{}
	}
	if lang == domain.LangEnglish {
		return entities
	}

	for entityType, patterns := range e.patterns {
		seen := make(map[string]struct{})
		for _, re := range patterns {
			for _, match := range re.FindAllString(text, -1) {
				trimmed := strings.TrimSpace(match)
				if trimmed == "" {
					continue
				}
				if _, ok := seen[trimmed]; ok {
					continue
				}
				seen[trimmed] = struct{}{}
				entities[entityType] = append(entities[entityType], trimmed)
			}
		}
		sort.Strings(entities[entityType])
	}
	return entities
}
