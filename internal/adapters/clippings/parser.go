// Package clippings translates an e-reader "My Clippings.txt" export into
// domain quotes. It is an anti-corruption layer: nothing outside this package
// knows the export's line format.
package clippings

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jsamuelsen/daily-quote/internal/domain"
	"github.com/jsamuelsen/daily-quote/internal/platform/logging"
)

// Separator is the line that terminates every highlight record.
const Separator = "=========="

// minRecordLines is the book line, the metadata line and at least one content line.
const minRecordLines = 3

var errInvalidDate = errors.New("invalid date")

// highlightNamespace scopes the name-based UUIDs derived for each highlight.
var highlightNamespace = uuid.MustParse("9b1f3c52-8e4d-5a07-b6c1-2f0d7e8a4c19")

var (
	// bookLinePattern captures "<title> (<author>)"; the last parenthesised group is the author.
	bookLinePattern = regexp.MustCompile(`^(.*\S)\s*\(([^()]*)\)$`)

	// metadataPattern captures the optional page, the location range and the raw date text.
	metadataPattern = regexp.MustCompile(
		`^-\s*Your Highlight\s+(?:on\s+)?(?:(?i:page)\s+(\d+)\s*\|\s*)?(?:at\s+)?(?i:location)\s+(\d+(?:-\d+)?)\s*\|\s*Added on\s+(.+)$`,
	)

	// weekdayPrefix is stripped before the date itself is matched.
	weekdayPrefix = regexp.MustCompile(`^[A-Za-z]+,\s*`)

	// datePattern captures "<Month> <Day>[,] <Year> <H>:<MM>:<SS> <AM|PM>".
	datePattern = regexp.MustCompile(`^([A-Za-z]+)\s+(\d{1,2}),?\s+(\d{4})\s+(\d{1,2}):(\d{2}):(\d{2})\s+(AM|PM)$`)
)

// months is matched case-sensitively; there is no default month.
var months = map[string]time.Month{
	"January":   time.January,
	"February":  time.February,
	"March":     time.March,
	"April":     time.April,
	"May":       time.May,
	"June":      time.June,
	"July":      time.July,
	"August":    time.August,
	"September": time.September,
	"October":   time.October,
	"November":  time.November,
	"December":  time.December,
}

// ParserConfig contains configuration for the highlights parser.
type ParserConfig struct {
	// Location is the calendar the export's timestamps are read in.
	// Defaults to time.Local.
	Location *time.Location
}

// Parser converts clippings exports into quotes. It is safe for concurrent use.
type Parser struct {
	loc *time.Location
}

// NewParser creates a parser with the given configuration.
func NewParser(cfg ParserConfig) *Parser {
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}

	return &Parser{loc: loc}
}

// Parse converts raw export text into quotes in source order.
// Any malformed record fails the whole input with a *domain.ParseError
// naming the 1-based record ordinal.
func (p *Parser) Parse(ctx context.Context, raw string) ([]domain.Quote, error) {
	logger := logging.FromContext(ctx)

	records := splitRecords(raw)
	if len(records) == 0 {
		return nil, domain.NewParseError(0, "", "empty input")
	}

	quotes := make([]domain.Quote, 0, len(records))

	for i, lines := range records {
		ordinal := i + 1

		q, err := p.parseRecord(ordinal, lines)
		if err != nil {
			logger.DebugContext(ctx, "rejected highlight record",
				slog.Int("record", ordinal),
				slog.Any("error", err),
			)

			return nil, err
		}

		logger.Log(ctx, logging.LevelTrace, "parsed highlight record",
			slog.Int("record", ordinal),
			slog.String("quote_id", q.ID),
		)

		quotes = append(quotes, q)
	}

	return quotes, nil
}

// splitRecords splits the export on separator lines and returns the
// non-blank lines of every non-blank record.
func splitRecords(raw string) [][]string {
	var (
		records [][]string
		current []string
	)

	flush := func() {
		if len(current) > 0 {
			records = append(records, current)
		}

		current = nil
	}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(strings.TrimPrefix(line, "\ufeff"))

		if line == Separator {
			flush()

			continue
		}

		if line != "" {
			current = append(current, line)
		}
	}

	flush()

	return records
}

func (p *Parser) parseRecord(ordinal int, lines []string) (domain.Quote, error) {
	if len(lines) < minRecordLines {
		return domain.Quote{}, domain.NewParseError(ordinal, "",
			"expected a book line, a metadata line and content")
	}

	title, author, ok := parseBookLine(lines[0])
	if !ok {
		return domain.Quote{}, domain.NewParseError(ordinal, "book", "invalid book line")
	}

	meta := metadataPattern.FindStringSubmatch(lines[1])
	if meta == nil {
		return domain.Quote{}, domain.NewParseError(ordinal, "metadata", "invalid metadata line")
	}

	var page *int

	if meta[1] != "" {
		n, err := strconv.Atoi(meta[1])
		if err != nil {
			return domain.Quote{}, domain.NewParseError(ordinal, "metadata", "invalid metadata line")
		}

		page = &n
	}

	location := meta[2]

	createdAt, err := p.parseDate(meta[3])
	if err != nil {
		return domain.Quote{}, domain.NewParseError(ordinal, "date", "invalid date")
	}

	content := strings.TrimSpace(strings.Join(lines[2:], "\n"))
	if content == "" {
		return domain.Quote{}, domain.NewParseError(ordinal, "content", "empty content")
	}

	q := domain.Quote{
		ID:             quoteID(title, location, createdAt),
		Content:        content,
		BookTitle:      title,
		BookAuthor:     author,
		Location:       location,
		Page:           page,
		CreatedAt:      createdAt,
		AnnotationType: domain.AnnotationHighlight,
	}

	if err := q.Validate(); err != nil {
		return domain.Quote{}, domain.NewParseError(ordinal, "", err.Error())
	}

	return q, nil
}

func parseBookLine(line string) (title, author string, ok bool) {
	m := bookLinePattern.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}

	title = strings.TrimSpace(m[1])
	author = strings.TrimSpace(m[2])

	if title == "" || author == "" {
		return "", "", false
	}

	return title, author, true
}

// parseDate reads "<Weekday>, <Month> <Day>[,] <Year> <H>:<MM>:<SS> <AM|PM>".
// 12 AM is hour 0 and 12 PM is hour 12.
func (p *Parser) parseDate(s string) (time.Time, error) {
	s = weekdayPrefix.ReplaceAllString(strings.TrimSpace(s), "")

	m := datePattern.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, errInvalidDate
	}

	month, ok := months[m[1]]
	if !ok {
		return time.Time{}, errInvalidDate
	}

	day, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	hour, _ := strconv.Atoi(m[4])
	minute, _ := strconv.Atoi(m[5])
	second, _ := strconv.Atoi(m[6])

	if hour < 1 || hour > 12 || minute > 59 || second > 59 {
		return time.Time{}, errInvalidDate
	}

	switch {
	case m[7] == "AM" && hour == 12:
		hour = 0
	case m[7] == "PM" && hour != 12:
		hour += 12
	}

	t := time.Date(year, month, day, hour, minute, second, 0, p.loc)

	// time.Date normalises overflow, so February 30 comes back as March 2.
	if t.Day() != day || t.Month() != month {
		return time.Time{}, errInvalidDate
	}

	return t, nil
}

// quoteID derives a stable identifier from title, location and the
// timestamp's wall clock, so the zone the export is read in does not matter.
func quoteID(title, location string, createdAt time.Time) string {
	name := strings.Join([]string{title, location, createdAt.Format("2006-01-02T15:04:05")}, "\x1f")

	return uuid.NewSHA1(highlightNamespace, []byte(name)).String()
}
