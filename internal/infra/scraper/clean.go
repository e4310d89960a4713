package scraper

import (
	"regexp"
	"strings"
	"time"
)

// boilerplatePhrases are navigation and promotion fragments that the
// target sites inject into article bodies, in both English and Bengali.
var boilerplatePhrases = []string{
	"Advertisement", "বিজ্ঞাপন",
	"Click here to", "এখানে ক্লিক করুন",
	"Read more:", "আরও পড়ুন:",
	"Subscribe to", "সাবস্ক্রাইব করুন",
	"Follow us on", "আমাদের ফলো করুন",
	"Share this:", "শেয়ার করুন:",
	"Loading...", "Comments", "মন্তব্য",
	"Related News", "সংশ্লিষ্ট সংবাদ",
	"More News", "আরও সংবাদ",
	"Breaking News", "জরুরি সংবাদ",
	"Live Updates", "সরাসরি আপডেট",
}

var (
	urlPattern        = regexp.MustCompile(`https?://\S+`)
	emailPattern      = regexp.MustCompile(`\S+@\S+`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// CleanText strips boilerplate phrases, inline URLs and email addresses
// from extracted article text and collapses whitespace.
func CleanText(text string) string {
	for _, phrase := range boilerplatePhrases {
		text = strings.ReplaceAll(text, phrase, " ")
	}
	text = urlPattern.ReplaceAllString(text, " ")
	text = emailPattern.ReplaceAllString(text, " ")
	text = whitespacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// dateFormats are tried in order when parsing publication dates scraped
// from article pages. Day-first formats match the Bangladeshi sites.
var dateFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"January 2, 2006",
	"2 January 2006",
}

// parseDate parses a scraped date string, falling back to now when no
// format matches. Articles without a parseable date still get stored.
func parseDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Now().UTC()
	}
	for _, layout := range dateFormats {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed
		}
	}
	return time.Now().UTC()
}
