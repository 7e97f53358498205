// Package timeline groups enriched articles by calendar day and scores each
// day's newsworthiness.
package timeline

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ChaiyasitZ/nlp-project/internal/domain"
	"github.com/ChaiyasitZ/nlp-project/internal/lexicon"
)

// Intensity weights; the per-article score is doubled and capped at 10 after
// averaging across the day's group.
const (
	entityCountWeight   = 0.3
	keywordCountWeight  = 0.2
	contentLengthWeight = 0.2
	credibilityWeight   = 0.3

	defaultCredibility = 0.5
	wordCountCap       = 1000
	maxIntensity       = 10.0

	maxEventEntities       = 15
	maxEventKeywords       = 10
	maxDescriptionKeywords = 5
	maxTopStats            = 10

	dateLayout = "2006-01-02"
)

// Aggregator implements domain.TimelineBuilder over a fixed per-source
// credibility table.
type Aggregator struct {
	credibility map[string]float64
	now         func() time.Time
}

var _ domain.TimelineBuilder = (*Aggregator)(nil)

// NewAggregator builds an aggregator over the lexicon's credibility scores.
func NewAggregator(lex lexicon.Lexicon) *Aggregator {
	return &Aggregator{credibility: lex.SourceCredibility, now: time.Now}
}

type datedArticle struct {
	article domain.EnrichedArticle
	date    time.Time
}

// Generate buckets articles by calendar day and emits the event sequence
// sorted by date ascending, plus chart series and corpus statistics.
// Articles with no resolvable date are excluded from events but still count
// toward statistics.
func (a *Aggregator) Generate(articles []domain.EnrichedArticle) domain.TimelineResult {
	var dated []datedArticle
	for _, article := range articles {
		if date, ok := resolveDate(article); ok {
			dated = append(dated, datedArticle{article: article, date: date})
		}
	}
	sort.SliceStable(dated, func(i, j int) bool { return dated[i].date.Before(dated[j].date) })

	var order []string
	groups := make(map[string][]domain.EnrichedArticle)
	for _, da := range dated {
		key := da.date.Format(dateLayout)
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], da.article)
	}

	events := make([]domain.TimelineEvent, 0, len(order))
	for i, key := range order {
		events = append(events, a.buildEvent(i+1, key, groups[key]))
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].Date < events[j].Date })

	return domain.TimelineResult{
		Events:        events,
		ChartData:     chartData(events),
		Statistics:    a.statistics(articles, events),
		DateRange:     dateRange(dated),
		TotalArticles: len(articles),
		GeneratedAt:   a.now().UTC(),
	}
}

// resolveDate picks the representative date: published date, else first
// content date, else scrape time.
func resolveDate(a domain.EnrichedArticle) (time.Time, bool) {
	if a.PublishedDate != nil && !a.PublishedDate.IsZero() {
		return *a.PublishedDate, true
	}
	if len(a.ContentDates) > 0 {
		return a.ContentDates[0].ParsedDate, true
	}
	if !a.ScrapedAt.IsZero() {
		return a.ScrapedAt, true
	}
	return time.Time{}, false
}

func (a *Aggregator) buildEvent(id int, date string, group []domain.EnrichedArticle) domain.TimelineEvent {
	entities := mergeEntities(group)
	keywords := mergeKeywords(group)

	var sources []string
	seenSources := make(map[string]struct{})
	refs := make([]domain.ArticleRef, 0, len(group))
	for _, article := range group {
		if _, ok := seenSources[article.Source]; !ok {
			seenSources[article.Source] = struct{}{}
			sources = append(sources, article.Source)
		}
		refs = append(refs, domain.ArticleRef{
			ID:     article.ID,
			Title:  article.Title,
			Source: article.Source,
			URL:    article.URL,
		})
	}

	eventKeywords := keywords
	if len(eventKeywords) > maxEventKeywords {
		eventKeywords = eventKeywords[:maxEventKeywords]
	}

	return domain.TimelineEvent{
		ID:           id,
		Date:         date,
		Title:        eventTitle(group, entities),
		Description:  eventDescription(group, keywords, sources),
		Intensity:    a.intensity(group),
		Entities:     entities,
		Keywords:     eventKeywords,
		Sources:      sources,
		ArticleCount: len(group),
		Articles:     refs,
	}
}

// intensity averages the weighted per-article score across the group, then
// doubles and caps it at 10.
func (a *Aggregator) intensity(group []domain.EnrichedArticle) float64 {
	if len(group) == 0 {
		return 0.0
	}
	var total float64
	for _, article := range group {
		score := float64(article.EntityCount()) * entityCountWeight
		score += float64(len(article.Keywords)) * keywordCountWeight

		length := float64(article.WordCount) / wordCountCap
		if length > 1 {
			length = 1
		}
		score += length * contentLengthWeight

		credibility, ok := a.credibility[article.Source]
		if !ok {
			credibility = defaultCredibility
		}
		score += credibility * credibilityWeight

		total += score
	}
	average := total / float64(len(group))
	if scaled := average * 2; scaled < maxIntensity {
		return scaled
	}
	return maxIntensity
}

// mergeEntities counts raw entity frequency across the group and keeps the
// top entities; ties break alphabetically.
func mergeEntities(group []domain.EnrichedArticle) []string {
	counts := make(map[string]int)
	for _, article := range group {
		for _, entityType := range domain.EntityTypes {
			for _, entity := range article.Entities[entityType] {
				counts[entity]++
			}
		}
	}
	entities := make([]string, 0, len(counts))
	for entity := range counts {
		entities = append(entities, entity)
	}
	sort.Slice(entities, func(i, j int) bool {
		if counts[entities[i]] != counts[entities[j]] {
			return counts[entities[i]] > counts[entities[j]]
		}
		return entities[i] < entities[j]
	})
	if len(entities) > maxEventEntities {
		entities = entities[:maxEventEntities]
	}
	return entities
}

// mergeKeywords sums keyword scores across the group; the full sorted list is
// returned, callers truncate for display.
func mergeKeywords(group []domain.EnrichedArticle) []domain.Keyword {
	scores := make(map[string]float64)
	for _, article := range group {
		for _, kw := range article.Keywords {
			scores[kw.Keyword] += kw.Score
		}
	}
	keywords := make([]domain.Keyword, 0, len(scores))
	for keyword, score := range scores {
		keywords = append(keywords, domain.Keyword{Keyword: keyword, Score: score})
	}
	sort.Slice(keywords, func(i, j int) bool {
		if keywords[i].Score != keywords[j].Score {
			return keywords[i].Score > keywords[j].Score
		}
		return keywords[i].Keyword < keywords[j].Keyword
	})
	return keywords
}

func eventTitle(group []domain.EnrichedArticle, entities []string) string {
	if len(group) == 1 {
		return group[0].Title
	}
	if len(entities) > 0 {
		return fmt.Sprintf("News about %s (%d articles)", entities[0], len(group))
	}
	return fmt.Sprintf("Multiple news events (%d articles)", len(group))
}

func eventDescription(group []domain.EnrichedArticle, keywords []domain.Keyword, sources []string) string {
	var parts []string
	if len(group) > 1 {
		parts = append(parts, fmt.Sprintf("%d articles from %d source(s)", len(group), len(sources)))
	}
	if len(keywords) > 0 {
		top := keywords
		if len(top) > maxDescriptionKeywords {
			top = top[:maxDescriptionKeywords]
		}
		names := make([]string, 0, len(top))
		for _, kw := range top {
			names = append(names, kw.Keyword)
		}
		parts = append(parts, "Key topics: "+strings.Join(names, ", "))
	}
	if len(sources) > 0 {
		parts = append(parts, "Sources: "+strings.Join(sources, ", "))
	}
	return strings.Join(parts, ". ")
}

func chartData(events []domain.TimelineEvent) domain.ChartData {
	chart := domain.ChartData{
		Labels:        make([]string, 0, len(events)),
		Intensities:   make([]float64, 0, len(events)),
		ArticleCounts: make([]int, 0, len(events)),
	}
	for _, event := range events {
		chart.Labels = append(chart.Labels, event.Date)
		chart.Intensities = append(chart.Intensities, event.Intensity)
		chart.ArticleCounts = append(chart.ArticleCounts, event.ArticleCount)
	}
	return chart
}

func (a *Aggregator) statistics(articles []domain.EnrichedArticle, events []domain.TimelineEvent) domain.TimelineStatistics {
	entityCounts := make(map[string]int)
	keywordScores := make(map[string]float64)
	sourceCounts := make(map[string]int)
	for _, article := range articles {
		for _, entityType := range domain.EntityTypes {
			for _, entity := range article.Entities[entityType] {
				entityCounts[entity]++
			}
		}
		for _, kw := range article.Keywords {
			keywordScores[kw.Keyword] += kw.Score
		}
		source := article.Source
		if source == "" {
			source = "Unknown"
		}
		sourceCounts[source]++
	}

	topEntities := make([]domain.EntityFrequency, 0, len(entityCounts))
	for entity, count := range entityCounts {
		topEntities = append(topEntities, domain.EntityFrequency{Entity: entity, Count: count})
	}
	sort.Slice(topEntities, func(i, j int) bool {
		if topEntities[i].Count != topEntities[j].Count {
			return topEntities[i].Count > topEntities[j].Count
		}
		return topEntities[i].Entity < topEntities[j].Entity
	})
	if len(topEntities) > maxTopStats {
		topEntities = topEntities[:maxTopStats]
	}

	topKeywords := make([]domain.Keyword, 0, len(keywordScores))
	for keyword, score := range keywordScores {
		topKeywords = append(topKeywords, domain.Keyword{Keyword: keyword, Score: score})
	}
	sort.Slice(topKeywords, func(i, j int) bool {
		if topKeywords[i].Score != topKeywords[j].Score {
			return topKeywords[i].Score > topKeywords[j].Score
		}
		return topKeywords[i].Keyword < topKeywords[j].Keyword
	})
	if len(topKeywords) > maxTopStats {
		topKeywords = topKeywords[:maxTopStats]
	}

	var avgIntensity float64
	if len(events) > 0 {
		for _, event := range events {
			avgIntensity += event.Intensity
		}
		avgIntensity /= float64(len(events))
	}

	return domain.TimelineStatistics{
		TotalEvents:        len(events),
		TotalArticles:      len(articles),
		UniqueSources:      len(sourceCounts),
		TopEntities:        topEntities,
		TopKeywords:        topKeywords,
		SourceDistribution: sourceCounts,
		AverageIntensity:   avgIntensity,
	}
}

func dateRange(dated []datedArticle) domain.DateRange {
	if len(dated) == 0 {
		return domain.DateRange{}
	}
	minDate, maxDate := dated[0].date, dated[0].date
	for _, da := range dated[1:] {
		if da.date.Before(minDate) {
			minDate = da.date
		}
		if da.date.After(maxDate) {
			maxDate = da.date
		}
	}
	return domain.DateRange{Start: minDate.Format(dateLayout), End: maxDate.Format(dateLayout)}
}
