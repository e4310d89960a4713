// Package textproc provides language-specific text normalization,
// tokenization and feature extraction for the analysis pipeline.
// Bengali and English get separate preprocessors because their digit
// systems, sentence terminators and stopword inventories differ.
package textproc

import (
	"regexp"
	"strings"
)

var bengaliDigits = map[rune]rune{
	'০': '0', '১': '1', '২': '2', '৩': '3', '৪': '4',
	'৫': '5', '৬': '6', '৭': '7', '৮': '8', '৯': '9',
}

var bengaliStopwords = map[string]struct{}{
	"এবং": {}, "বা": {}, "কিন্তু": {}, "তবে": {}, "যদি": {}, "তাহলে": {},
	"কারণ": {}, "যেহেতু": {}, "এই": {}, "সেই": {}, "ওই": {}, "যে": {},
	"যা": {}, "যার": {}, "যাকে": {}, "যাদের": {}, "আমি": {}, "তুমি": {},
	"সে": {}, "তার": {}, "তাদের": {}, "আমার": {}, "তোমার": {}, "হয়": {},
	"হবে": {}, "হয়েছে": {}, "হচ্ছে": {}, "ছিল": {}, "থাকে": {}, "আছে": {},
	"না": {}, "নয়": {}, "নেই": {}, "নাই": {}, "কোন": {}, "কোনো": {},
	"সব": {}, "সকল": {}, "দিয়ে": {}, "থেকে": {}, "পর্যন্ত": {}, "মধ্যে": {},
	"ভিতরে": {}, "বাইরে": {}, "উপর": {}, "নিচে": {}, "সামনে": {},
	"পিছনে": {}, "পাশে": {}, "কাছে": {},
}

var (
	whitespaceRe      = regexp.MustCompile(`\s+`)
	dashRe            = regexp.MustCompile(`[—–−]`)
	quoteRe           = regexp.MustCompile("[“”‘’`´]")
	bengaliPeriodRe   = regexp.MustCompile(`।{2,}`)
	exclamationRunRe  = regexp.MustCompile(`!{2,}`)
	questionRunRe     = regexp.MustCompile(`\?{2,}`)
	bengaliTerminator = regexp.MustCompile(`([।!?])`)
	bengaliTokenRe    = regexp.MustCompile(`[^\s।,;:!?()\[\]{}“”‘’—–\-"']+`)
	bengaliSentenceRe = regexp.MustCompile(`[।!?]+`)
)

// TextFeatures summarizes the lexical shape of a piece of text.
type TextFeatures struct {
	TotalTokens      int
	UniqueTokens     int
	ContentTokens    int
	SentenceCount    int
	AvgWordLength    float64
	StopwordRatio    float64
	BengaliCharRatio float64
	SyllableCount    int
}

// BengaliPreprocessor normalizes and tokenizes Bengali text.
type BengaliPreprocessor struct{}

// NewBengaliPreprocessor returns a Bengali text preprocessor.
func NewBengaliPreprocessor() *BengaliPreprocessor {
	return &BengaliPreprocessor{}
}

// Normalize cleans Bengali text: collapses whitespace, maps Bengali
// digits to ASCII, normalizes dashes and quotes, and collapses repeated
// sentence terminators.
func (p *BengaliPreprocessor) Normalize(text string) string {
	if text == "" {
		return ""
	}

	text = whitespaceRe.ReplaceAllString(strings.TrimSpace(text), " ")
	text = convertBengaliDigits(text)
	text = dashRe.ReplaceAllString(text, "-")
	text = quoteRe.ReplaceAllString(text, `"`)

	text = bengaliPeriodRe.ReplaceAllString(text, "।")
	text = exclamationRunRe.ReplaceAllString(text, "!")
	text = questionRunRe.ReplaceAllString(text, "?")

	text = bengaliTerminator.ReplaceAllString(text, "$1 ")
	text = whitespaceRe.ReplaceAllString(text, " ")

	return strings.TrimSpace(text)
}

// Tokenize splits Bengali text into word tokens, dropping tokens of one
// character or less.
func (p *BengaliPreprocessor) Tokenize(text string) []string {
	normalized := p.Normalize(text)
	raw := bengaliTokenRe.FindAllString(normalized, -1)

	tokens := make([]string, 0, len(raw))
	for _, tok := range raw {
		tok = strings.TrimSpace(tok)
		if len([]rune(tok)) > 1 {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// RemoveStopwords filters Bengali stopwords out of tokens.
func (p *BengaliPreprocessor) RemoveStopwords(tokens []string) []string {
	kept := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if _, ok := bengaliStopwords[tok]; !ok {
			kept = append(kept, tok)
		}
	}
	return kept
}

// Features extracts lexical statistics from Bengali text.
func (p *BengaliPreprocessor) Features(text string) TextFeatures {
	tokens := p.Tokenize(text)
	content := p.RemoveStopwords(tokens)

	var bengaliChars, totalChars int
	for _, r := range text {
		if isLetter(r) {
			totalChars++
			if r >= 0x0980 && r <= 0x09FF {
				bengaliChars++
			}
		}
	}

	f := TextFeatures{
		TotalTokens:   len(tokens),
		UniqueTokens:  countUnique(tokens),
		ContentTokens: len(content),
		SentenceCount: len(bengaliSentenceRe.Split(text, -1)),
	}
	if len(tokens) > 0 {
		var total int
		for _, tok := range tokens {
			total += len([]rune(tok))
		}
		f.AvgWordLength = float64(total) / float64(len(tokens))
		f.StopwordRatio = float64(len(tokens)-len(content)) / float64(len(tokens))
	}
	if totalChars > 0 {
		f.BengaliCharRatio = float64(bengaliChars) / float64(totalChars)
	}
	return f
}

func convertBengaliDigits(text string) string {
	return strings.Map(func(r rune) rune {
		if d, ok := bengaliDigits[r]; ok {
			return d
		}
		return r
	}, text)
}

func countUnique(tokens []string) int {
	seen := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		seen[tok] = struct{}{}
	}
	return len(seen)
}
