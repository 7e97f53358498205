package domain

import "time"

// Language is the detected primary script of an article.
type Language string

const (
	LangThai    Language = "th"
	LangEnglish Language = "en"
	LangMixed   Language = "mixed"
)

// EntityType is a coarse named-entity category.
type EntityType string

const (
	EntityPerson       EntityType = "PERSON"
	EntityOrganization EntityType = "ORGANIZATION"
	EntityLocation     EntityType = "LOCATION"
	EntityMisc         EntityType = "MISC"
)

// EntityTypes lists all categories in a fixed order.
var EntityTypes = []EntityType{EntityPerson, EntityOrganization, EntityLocation, EntityMisc}

// RawArticle is the immutable record produced by the scraper.
type RawArticle struct {
	URL           string     `json:"url"`
	Source        string     `json:"source"`
	Title         string     `json:"title"`
	Content       string     `json:"content"`
	PublishedDate *time.Time `json:"published_date,omitempty"`
	Author        string     `json:"author,omitempty"`
	Tags          []string   `json:"tags,omitempty"`
	ScrapedAt     time.Time  `json:"scraped_at"`
}

// Keyword is a TF-IDF ranked term.
type Keyword struct {
	Keyword string  `json:"keyword"`
	Score   float64 `json:"score"`
}

// Event is a phrase matched by an event pattern, with its surrounding context.
type Event struct {
	EventText  string  `json:"event_text"`
	Context    string  `json:"context"`
	Position   int     `json:"position"`
	Confidence float64 `json:"confidence"`
}

// ContentDate is a date mention found inside article content.
type ContentDate struct {
	DateString string    `json:"date_string"`
	ParsedDate time.Time `json:"parsed_date"`
	Position   int       `json:"position"`
}

// EnrichedArticle is a RawArticle plus the NLP enrichment. It is created once
// by the enricher and never mutated afterwards.
type EnrichedArticle struct {
	ID string `json:"id,omitempty"`
	RawArticle
	Language      Language                `json:"language"`
	Tokens        []string                `json:"tokens"`
	Entities      map[EntityType][]string `json:"entities"`
	Keywords      []Keyword               `json:"keywords"`
	Events        []Event                 `json:"events"`
	ContentDates  []ContentDate           `json:"content_dates"`
	WordCount     int                     `json:"word_count"`
	SentenceCount int                     `json:"sentence_count"`
	ProcessedAt   time.Time               `json:"processed_at"`
	// Degraded names the enrichment fields that fell back to their empty
	// default because a sub-extractor failed.
	Degraded []string `json:"degraded,omitempty"`
}

// EntityCount returns the number of extracted entities across all types.
func (a EnrichedArticle) EntityCount() int {
	n := 0
	for _, list := range a.Entities {
		n += len(list)
	}
	return n
}
