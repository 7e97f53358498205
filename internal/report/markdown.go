// Package report renders analysis results as markdown documents.
package report

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/ChaiyasitZ/nlp-project/internal/domain"
)

const maxReportKeywords = 5

// RenderTimeline produces a markdown report for one analysis run: the
// summary numbers, a per-day event table and the top entities.
func RenderTimeline(analysis domain.Analysis) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Timeline Report %s\n\n", analysis.ID))
	sb.WriteString(fmt.Sprintf("Generated at %s.\n\n", analysis.Timeline.GeneratedAt.Format("2006-01-02 15:04:05 MST")))

	stats := analysis.Timeline.Statistics
	sb.WriteString("## Summary\n\n")
	sb.WriteString(fmt.Sprintf("- Articles analyzed: %d\n", stats.TotalArticles))
	sb.WriteString(fmt.Sprintf("- Timeline events: %d\n", stats.TotalEvents))
	sb.WriteString(fmt.Sprintf("- Unique sources: %d\n", stats.UniqueSources))
	sb.WriteString(fmt.Sprintf("- Average intensity: %.2f\n", stats.AverageIntensity))
	if analysis.Timeline.DateRange.Start != "" {
		sb.WriteString(fmt.Sprintf("- Covered days: %s to %s\n", analysis.Timeline.DateRange.Start, analysis.Timeline.DateRange.End))
	}
	sb.WriteString("\n")

	sb.WriteString("## Events\n\n")
	if len(analysis.Timeline.Events) == 0 {
		sb.WriteString("No dated events.\n")
	} else {
		writeEventTable(&sb, analysis.Timeline.Events)
	}

	if len(stats.TopEntities) > 0 {
		sb.WriteString("\n## Top Entities\n\n")
		for _, entity := range stats.TopEntities {
			sb.WriteString(fmt.Sprintf("- %s (%d)\n", entity.Entity, entity.Count))
		}
	}

	return sb.String()
}

func writeEventTable(sb *strings.Builder, events []domain.TimelineEvent) {
	header := []string{"Date", "Intensity", "Articles", "Key topics", "Sources"}
	rows := [][]string{header}
	for _, event := range events {
		rows = append(rows, []string{
			event.Date,
			fmt.Sprintf("%.1f", event.Intensity),
			fmt.Sprintf("%d", event.ArticleCount),
			joinKeywords(event.Keywords),
			strings.Join(event.Sources, ", "),
		})
	}

	// Column widths follow display width so Thai text stays aligned.
	widths := make([]int, len(header))
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	for i := range widths {
		if widths[i] < 3 {
			widths[i] = 3
		}
	}

	writeRow := func(row []string) {
		sb.WriteString("|")
		for i, cell := range row {
			sb.WriteString(" ")
			sb.WriteString(cell)
			if pad := widths[i] - runewidth.StringWidth(cell); pad > 0 {
				sb.WriteString(strings.Repeat(" ", pad))
			}
			sb.WriteString(" |")
		}
		sb.WriteString("\n")
	}

	writeRow(header)
	sb.WriteString("|")
	for i := range header {
		sb.WriteString(" " + strings.Repeat("-", widths[i]) + " |")
	}
	sb.WriteString("\n")
	for _, row := range rows[1:] {
		writeRow(row)
	}
}

func joinKeywords(keywords []domain.Keyword) string {
	limit := maxReportKeywords
	if len(keywords) < limit {
		limit = len(keywords)
	}
	terms := make([]string, 0, limit)
	for _, keyword := range keywords[:limit] {
		terms = append(terms, keyword.Keyword)
	}
	return strings.Join(terms, ", ")
}
