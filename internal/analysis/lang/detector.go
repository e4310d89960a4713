// Package lang detects whether article text is written in Bengali or
// English. Detection combines a character-range ratio with a marker-word
// ratio so that short headlines and transliterated fragments still resolve
// to a sensible language.
package lang

import (
	"strings"
	"unicode"

	"github.com/perashanid/Media-bias/internal/domain/entity"
)

const (
	charWeight = 0.7
	wordWeight = 0.3

	// dominanceThreshold is the combined score above which a language is
	// accepted outright without comparing against the other candidate.
	dominanceThreshold = 0.6
)

// bengaliRanges covers the Bengali Unicode block plus the zero-width
// joiner/non-joiner used in Bengali orthography.
var bengaliRanges = [][2]rune{
	{0x0980, 0x09FF},
	{0x200C, 0x200D},
}

var bengaliWords = map[string]struct{}{
	"এবং": {}, "যে": {}, "এই": {}, "তার": {}, "সে": {}, "হয়": {}, "না": {},
	"আছে": {}, "করে": {}, "দিয়ে": {}, "থেকে": {}, "হবে": {}, "বলে": {},
	"যা": {}, "কিন্তু": {}, "আর": {}, "তাই": {}, "এর": {}, "সব": {}, "কোন": {},
	"বাংলাদেশ": {}, "ঢাকা": {}, "সরকার": {}, "প্রধানমন্ত্রী": {}, "মন্ত্রী": {},
	"দেশ": {}, "জনগণ": {},
}

var englishWords = map[string]struct{}{
	"the": {}, "and": {}, "is": {}, "in": {}, "to": {}, "of": {}, "a": {},
	"that": {}, "it": {}, "with": {}, "for": {}, "as": {}, "was": {}, "on": {},
	"are": {}, "you": {}, "all": {}, "be": {}, "at": {}, "have": {},
	"bangladesh": {}, "dhaka": {}, "government": {}, "minister": {},
	"prime": {}, "country": {},
}

// Detector classifies text as bengali, english, mixed or unknown.
type Detector struct{}

// NewDetector returns a ready-to-use language detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Detect returns the canonical language identifier for text.
// Empty or whitespace-only input yields entity.LanguageUnknown; equal
// evidence for both languages yields entity.LanguageMixed.
func (d *Detector) Detect(text string) string {
	if strings.TrimSpace(text) == "" {
		return entity.LanguageUnknown
	}

	bengali, english := d.scores(text)

	switch {
	case bengali > dominanceThreshold:
		return entity.LanguageBengali
	case english > dominanceThreshold:
		return entity.LanguageEnglish
	case bengali > english:
		return entity.LanguageBengali
	case english > bengali:
		return entity.LanguageEnglish
	default:
		return entity.LanguageMixed
	}
}

// Confidence returns the stronger language candidate and its combined score.
func (d *Detector) Confidence(text string) (string, float64) {
	bengali, english := d.scores(text)
	if bengali > english {
		return entity.LanguageBengali, bengali
	}
	return entity.LanguageEnglish, english
}

// IsMixed reports whether both scripts have significant presence in text.
func (d *Detector) IsMixed(text string, threshold float64) bool {
	bn, en := charRatios(text)
	return bn > threshold && en > threshold
}

func (d *Detector) scores(text string) (bengali, english float64) {
	charBN, charEN := charRatios(text)
	wordBN, wordEN := wordRatios(text)

	bengali = charBN*charWeight + wordBN*wordWeight
	english = charEN*charWeight + wordEN*wordWeight
	return bengali, english
}

func isBengaliRune(r rune) bool {
	for _, rng := range bengaliRanges {
		if r >= rng[0] && r <= rng[1] {
			return true
		}
	}
	return false
}

func charRatios(text string) (bengali, english float64) {
	var total, bn, en int
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		total++
		switch {
		case isBengaliRune(r):
			bn++
		case r < 128:
			en++
		}
	}
	if total == 0 {
		return 0, 0
	}
	return float64(bn) / float64(total), float64(en) / float64(total)
}

func wordRatios(text string) (bengali, english float64) {
	var bn, en int
	for _, word := range tokenize(text) {
		if _, ok := bengaliWords[word]; ok {
			bn++
		} else if _, ok := englishWords[word]; ok {
			en++
		}
	}
	recognized := bn + en
	if recognized == 0 {
		return 0, 0
	}
	return float64(bn) / float64(recognized), float64(en) / float64(recognized)
}

// tokenize splits text on anything that is not a letter, digit or the
// joiners Bengali uses inside words, lowercasing ASCII as it goes.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != 0x200C && r != 0x200D
	})
}
