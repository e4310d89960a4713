package scraper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "strips english boilerplate",
			input: "The minister spoke today. Advertisement Read more: latest updates",
			want:  "The minister spoke today. latest updates",
		},
		{
			name:  "strips bengali boilerplate",
			input: "সরকার নতুন নীতি ঘোষণা করেছে। বিজ্ঞাপন আরও পড়ুন: বিস্তারিত",
			want:  "সরকার নতুন নীতি ঘোষণা করেছে। বিস্তারিত",
		},
		{
			name:  "removes urls and emails",
			input: "Contact reporter@example.com or visit https://example.com/page for details",
			want:  "Contact or visit for details",
		},
		{
			name:  "collapses whitespace",
			input: "word1   word2\n\nword3\tword4",
			want:  "word1 word2 word3 word4",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanText(tt.input))
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{
			name:  "rfc3339",
			input: "2026-08-20T14:30:00+06:00",
			want:  time.Date(2026, 8, 20, 14, 30, 0, 0, time.FixedZone("", 6*3600)),
		},
		{
			name:  "iso without zone",
			input: "2026-08-20T14:30:00",
			want:  time.Date(2026, 8, 20, 14, 30, 0, 0, time.UTC),
		},
		{
			name:  "date only",
			input: "2026-08-20",
			want:  time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "day first slash",
			input: "20/08/2026",
			want:  time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "long form",
			input: "August 20, 2026",
			want:  time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseDate(tt.input)
			assert.True(t, got.Equal(tt.want), "got %v want %v", got, tt.want)
		})
	}
}

func TestParseDateFallsBackToNow(t *testing.T) {
	before := time.Now().UTC()
	got := parseDate("not a date at all")
	after := time.Now().UTC()

	assert.False(t, got.Before(before))
	assert.False(t, got.After(after))
}
