package nlp

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ChaiyasitZ/nlp-project/internal/domain"
)

// thaiMonths maps Thai month names to calendar months.
var thaiMonths = map[string]time.Month{
	"มกราคม":     time.January,
	"กุมภาพันธ์": time.February,
	"มีนาคม":     time.March,
	"เมษายน":     time.April,
	"พฤษภาคม":    time.May,
	"มิถุนายน":   time.June,
	"กรกฎาคม":    time.July,
	"สิงหาคม":    time.August,
	"กันยายน":    time.September,
	"ตุลาคม":     time.October,
	"พฤศจิกายน":  time.November,
	"ธันวาคม":    time.December,
}

// DateExtractor finds date mentions in three Thai-oriented surface forms:
// "D <month name> YYYY", "D/M/YYYY" and "D-M-YYYY". Years above 2400 are
// Buddhist era and converted by subtracting 543. Unparseable matches are
// silently dropped.
type DateExtractor struct {
	patterns []*regexp.Regexp
}

// NewDateExtractor compiles the surface-form patterns.
func NewDateExtractor() *DateExtractor {
	return &DateExtractor{patterns: []*regexp.Regexp{
		regexp.MustCompile(`\d{1,2}\s+[\x{0E00}-\x{0E7F}]+\s+\d{4}`),
		regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{4}`),
		regexp.MustCompile(`\d{1,2}-\d{1,2}-\d{4}`),
	}}
}

// Extract returns the parseable date mentions with their rune offsets.
func (e *DateExtractor) Extract(text string) []domain.ContentDate {
	var dates []domain.ContentDate
	for _, re := range e.patterns {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			raw := text[loc[0]:loc[1]]
			parsed, ok := parseThaiDate(raw)
			if !ok {
				continue
			}
			dates = append(dates, domain.ContentDate{
				DateString: raw,
				ParsedDate: parsed,
				Position:   utf8.RuneCountInString(text[:loc[0]]),
			})
		}
	}
	return dates
}

func parseThaiDate(raw string) (time.Time, bool) {
	var sep string
	switch {
	case strings.Contains(raw, "/"):
		sep = "/"
	case strings.Contains(raw, "-"):
		sep = "-"
	}

	if sep != "" {
		parts := strings.Split(raw, sep)
		if len(parts) != 3 {
			return time.Time{}, false
		}
		day, err1 := strconv.Atoi(parts[0])
		month, err2 := strconv.Atoi(parts[1])
		year, err3 := strconv.Atoi(parts[2])
		if err1 != nil || err2 != nil || err3 != nil {
			return time.Time{}, false
		}
		return makeDate(day, time.Month(month), year)
	}

	fields := strings.Fields(raw)
	if len(fields) != 3 {
		return time.Time{}, false
	}
	day, err1 := strconv.Atoi(fields[0])
	year, err2 := strconv.Atoi(fields[2])
	if err1 != nil || err2 != nil {
		return time.Time{}, false
	}
	month, ok := thaiMonths[fields[1]]
	if !ok {
		return time.Time{}, false
	}
	return makeDate(day, month, year)
}

func makeDate(day int, month time.Month, year int) (time.Time, bool) {
	if year > 2400 {
		year -= 543 // Buddhist era
	}
	if month < time.January || month > time.December || day < 1 || day > 31 {
		return time.Time{}, false
	}
	date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if date.Day() != day || date.Month() != month {
		return time.Time{}, false // e.g. 31/02 normalised away
	}
	return date, true
}
