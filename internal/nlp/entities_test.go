package nlp

import (
	"strings"
	"testing"

	"github.com/ChaiyasitZ/nlp-project/internal/domain"
)

func TestExtractEntitiesThai(t *testing.T) {
	e := NewEntityExtractor()
	text := "นายสมชน เดินทางไปพบตัวแทน กระทรวงกลาโหม ที่จังหวัดนนทบรี"
	entities := e.Extract(text, domain.LangThai)

	for _, entityType := range domain.EntityTypes {
		if _, ok := entities[entityType]; !ok {
			t.Fatalf("expected type %s present in result", entityType)
		}
	}

	if len(entities[domain.EntityPerson]) != 1 || entities[domain.EntityPerson][0] != "นายสมชน" {
		t.Fatalf("expected person นายสมชน, got %q", entities[domain.EntityPerson])
	}
	if len(entities[domain.EntityOrganization]) == 0 || !strings.HasPrefix(entities[domain.EntityOrganization][0], "กระทรวง") {
		t.Fatalf("expected ministry organization, got %q", entities[domain.EntityOrganization])
	}
	if len(entities[domain.EntityLocation]) == 0 || !strings.HasPrefix(entities[domain.EntityLocation][0], "จังหวัด") {
		t.Fatalf("expected province location, got %q", entities[domain.EntityLocation])
	}
	if len(entities[domain.EntityMisc]) != 0 {
		t.Fatalf("expected no misc entities, got %q", entities[domain.EntityMisc])
	}
}

func TestExtractEntitiesEnglishIsEmpty(t *testing.T) {
	e := NewEntityExtractor()
	entities := e.Extract("Mr Somchai visited the Ministry of Defence in Bangkok", domain.LangEnglish)
	for _, entityType := range domain.EntityTypes {
		list, ok := entities[entityType]
		if !ok {
			t.Fatalf("expected type %s present", entityType)
		}
		if len(list) != 0 {
			t.Fatalf("expected empty %s for english text, got %q", entityType, list)
		}
	}
}

func TestExtractEntitiesDeduplicates(t *testing.T) {
	e := NewEntityExtractor()
	entities := e.Extract("นายสมชน และนายสมชน เจรจา", domain.LangThai)
	if len(entities[domain.EntityPerson]) != 1 {
		t.Fatalf("expected duplicate mention collapsed, got %q", entities[domain.EntityPerson])
	}
}
