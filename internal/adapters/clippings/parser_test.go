package clippings

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/daily-quote/internal/domain"
)

const exampleRecord = "My Book (Jane Author)\n" +
	"- Your Highlight on page 12 | Location 100-105 | Added on Monday, January 5 2023 2:30:00 PM\n" +
	"A fine sentence.\n" +
	"=========="

func newTestParser() *Parser {
	return NewParser(ParserConfig{Location: time.UTC})
}

func record(book, meta string, content ...string) string {
	return book + "\n" + meta + "\n" + strings.Join(content, "\n") + "\n" + Separator + "\n"
}

func TestParser_Parse_Example(t *testing.T) {
	quotes, err := newTestParser().Parse(context.Background(), exampleRecord)
	require.NoError(t, err)
	require.Len(t, quotes, 1)

	q := quotes[0]
	assert.Equal(t, "My Book", q.BookTitle)
	assert.Equal(t, "Jane Author", q.BookAuthor)
	assert.Equal(t, "A fine sentence.", q.Content)
	assert.Equal(t, "100-105", q.Location)
	require.NotNil(t, q.Page)
	assert.Equal(t, 12, *q.Page)
	assert.Equal(t, time.Date(2023, time.January, 5, 14, 30, 0, 0, time.UTC), q.CreatedAt)
	assert.Equal(t, domain.AnnotationHighlight, q.AnnotationType)
	assert.NotEmpty(t, q.ID)
	assert.NoError(t, q.Validate())
}

func TestParser_Parse_UsesLocalCalendar(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)

	quotes, err := NewParser(ParserConfig{Location: loc}).Parse(context.Background(), exampleRecord)
	require.NoError(t, err)

	assert.Equal(t, "2023-01-05T14:30:00-05:00", quotes[0].CreatedAt.Format(time.RFC3339))
}

func TestParser_Parse_MultipleRecordsInOrder(t *testing.T) {
	raw := record("First (A One)", "- Your Highlight on Location 1-2 | Added on Tuesday, March 7, 2023 9:05:01 AM", "one") +
		"\n\n" +
		record("Second (B Two)", "- Your Highlight at location 30-31 | Added on Friday, December 1, 2023 11:59:59 PM",
			"two, first line", "two, second line") +
		record("Third (C Three)", "- Your Highlight on page 4 | Location 40 | Added on Sunday, July 9 2023 12:00:00 PM", "three")

	quotes, err := newTestParser().Parse(context.Background(), raw)
	require.NoError(t, err)
	require.Len(t, quotes, 3)

	assert.Equal(t, "one", quotes[0].Content)
	assert.Nil(t, quotes[0].Page)
	assert.Equal(t, "two, first line\ntwo, second line", quotes[1].Content)
	assert.Equal(t, "30-31", quotes[1].Location)
	assert.Equal(t, 23, quotes[1].CreatedAt.Hour())
	assert.Equal(t, "40", quotes[2].Location)
	assert.Equal(t, "C Three", quotes[2].BookAuthor)
}

func TestParser_Parse_TwelveHourClock(t *testing.T) {
	tests := []struct {
		clock string
		hour  int
	}{
		{"12:00:00 AM", 0},
		{"12:30:00 AM", 0},
		{"1:00:00 AM", 1},
		{"11:59:59 AM", 11},
		{"12:00:00 PM", 12},
		{"12:45:00 PM", 12},
		{"1:00:00 PM", 13},
		{"11:00:00 PM", 23},
	}

	for _, tt := range tests {
		t.Run(tt.clock, func(t *testing.T) {
			raw := record("Book (Author)", "- Your Highlight on Location 1-2 | Added on Monday, January 2, 2023 "+tt.clock, "text")

			quotes, err := newTestParser().Parse(context.Background(), raw)
			require.NoError(t, err)
			assert.Equal(t, tt.hour, quotes[0].CreatedAt.Hour())
			assert.Equal(t, 2, quotes[0].CreatedAt.Day(), "hour conversion must never roll the day")
		})
	}
}

func TestParser_Parse_BookLine(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		title  string
		author string
	}{
		{"simple", "Dune (Frank Herbert)", "Dune", "Frank Herbert"},
		{"parentheses in title", "The Stand (Unabridged) (Stephen King)", "The Stand (Unabridged)", "Stephen King"},
		{"surname first", "Meditations (Aurelius, Marcus)", "Meditations", "Aurelius, Marcus"},
		{"byte order mark", "\ufeffWalden (Henry David Thoreau)", "Walden", "Henry David Thoreau"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := record(tt.line, "- Your Highlight on Location 5-6 | Added on Monday, May 1, 2023 8:00:00 AM", "text")

			quotes, err := newTestParser().Parse(context.Background(), raw)
			require.NoError(t, err)
			assert.Equal(t, tt.title, quotes[0].BookTitle)
			assert.Equal(t, tt.author, quotes[0].BookAuthor)
		})
	}
}

func TestParser_Parse_WindowsLineEndings(t *testing.T) {
	raw := strings.ReplaceAll(exampleRecord, "\n", "\r\n")

	quotes, err := newTestParser().Parse(context.Background(), raw)
	require.NoError(t, err)
	require.Len(t, quotes, 1)
	assert.Equal(t, "A fine sentence.", quotes[0].Content)
}

func TestParser_Parse_Errors(t *testing.T) {
	good := record("Good (Author)", "- Your Highlight on Location 1-2 | Added on Monday, January 2, 2023 1:00:00 PM", "ok")

	tests := []struct {
		name   string
		raw    string
		record int
		reason string
	}{
		{
			name:   "empty input",
			raw:    "",
			record: 0,
			reason: "empty input",
		},
		{
			name:   "only separators and whitespace",
			raw:    "==========\n   \n==========\n",
			record: 0,
			reason: "empty input",
		},
		{
			name:   "too few lines",
			raw:    good + "Book (Author)\n- Your Highlight on Location 1 | Added on Monday, January 2, 2023 1:00:00 PM\n==========",
			record: 2,
		},
		{
			name:   "book line without author",
			raw:    record("Just A Title", "- Your Highlight on Location 1-2 | Added on Monday, January 2, 2023 1:00:00 PM", "x"),
			record: 1,
			reason: "invalid book line",
		},
		{
			name:   "empty author",
			raw:    record("Title ( )", "- Your Highlight on Location 1-2 | Added on Monday, January 2, 2023 1:00:00 PM", "x"),
			record: 1,
			reason: "invalid book line",
		},
		{
			name:   "missing metadata line",
			raw:    good + record("Book (Author)", "just some text", "more text"),
			record: 2,
			reason: "invalid metadata line",
		},
		{
			name:   "bookmark is not a highlight",
			raw:    record("Book (Author)", "- Your Bookmark on Location 1 | Added on Monday, January 2, 2023 1:00:00 PM", "x"),
			record: 1,
			reason: "invalid metadata line",
		},
		{
			name:   "lowercase month",
			raw:    record("Book (Author)", "- Your Highlight on Location 1-2 | Added on Monday, january 2, 2023 1:00:00 PM", "x"),
			record: 1,
			reason: "invalid date",
		},
		{
			name:   "unknown month",
			raw:    good + good + record("Book (Author)", "- Your Highlight on Location 1-2 | Added on Monday, Smarch 2, 2023 1:00:00 PM", "x"),
			record: 3,
			reason: "invalid date",
		},
		{
			name:   "day out of range",
			raw:    record("Book (Author)", "- Your Highlight on Location 1-2 | Added on Monday, February 30, 2023 1:00:00 PM", "x"),
			record: 1,
			reason: "invalid date",
		},
		{
			name:   "hour out of range",
			raw:    record("Book (Author)", "- Your Highlight on Location 1-2 | Added on Monday, February 3, 2023 13:00:00 PM", "x"),
			record: 1,
			reason: "invalid date",
		},
		{
			name:   "missing meridiem",
			raw:    record("Book (Author)", "- Your Highlight on Location 1-2 | Added on Monday, February 3, 2023 13:00:00", "x"),
			record: 1,
			reason: "invalid date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quotes, err := newTestParser().Parse(context.Background(), tt.raw)
			require.Error(t, err)
			assert.Nil(t, quotes, "a malformed record fails the whole input")

			var parseErr *domain.ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, tt.record, parseErr.Record)

			if tt.reason != "" {
				assert.Equal(t, tt.reason, parseErr.Reason)
			}
		})
	}
}

func TestParser_Parse_StableIDs(t *testing.T) {
	p := newTestParser()

	first, err := p.Parse(context.Background(), exampleRecord)
	require.NoError(t, err)

	second, err := p.Parse(context.Background(), exampleRecord)
	require.NoError(t, err)

	assert.Equal(t, first[0].ID, second[0].ID)

	other, err := NewParser(ParserConfig{Location: time.FixedZone("X", 3600)}).Parse(context.Background(), exampleRecord)
	require.NoError(t, err)
	assert.Equal(t, first[0].ID, other[0].ID, "id must not depend on the reading zone")

	moved, err := p.Parse(context.Background(), strings.Replace(exampleRecord, "100-105", "100-106", 1))
	require.NoError(t, err)
	assert.NotEqual(t, first[0].ID, moved[0].ID)
}

func TestParser_Parse_DuplicateHighlightsKept(t *testing.T) {
	quotes, err := newTestParser().Parse(context.Background(), exampleRecord+"\n"+exampleRecord)
	require.NoError(t, err)
	require.Len(t, quotes, 2)
	assert.Equal(t, quotes[0].ID, quotes[1].ID)
}
