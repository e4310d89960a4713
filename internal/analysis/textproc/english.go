package textproc

import (
	"regexp"
	"strings"
	"unicode"
)

var englishStopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"by": {}, "for": {}, "from": {}, "has": {}, "he": {}, "in": {}, "is": {},
	"it": {}, "its": {}, "of": {}, "on": {}, "that": {}, "the": {}, "to": {},
	"was": {}, "will": {}, "with": {}, "would": {}, "you": {}, "your": {},
	"this": {}, "they": {}, "we": {}, "been": {}, "have": {}, "their": {},
	"said": {}, "each": {}, "which": {}, "she": {}, "do": {}, "how": {},
	"if": {}, "not": {}, "what": {}, "all": {}, "any": {}, "can": {},
	"had": {}, "her": {}, "his": {}, "but": {}, "or": {}, "so": {}, "up": {},
	"out": {}, "who": {}, "get": {}, "use": {}, "man": {}, "new": {},
	"now": {}, "old": {}, "see": {}, "him": {}, "two": {}, "way": {},
	"may": {}, "say": {}, "come": {}, "could": {}, "time": {}, "very": {},
	"when": {}, "much": {}, "go": {}, "well": {}, "were": {}, "than": {},
}

var (
	periodRunRe       = regexp.MustCompile(`\.{2,}`)
	englishWordRe     = regexp.MustCompile(`\b[a-zA-Z]+\b`)
	englishSentenceRe = regexp.MustCompile(`[.!?]+`)
)

// EnglishPreprocessor normalizes and tokenizes English text.
type EnglishPreprocessor struct{}

// NewEnglishPreprocessor returns an English text preprocessor.
func NewEnglishPreprocessor() *EnglishPreprocessor {
	return &EnglishPreprocessor{}
}

// Normalize lowercases English text, collapses whitespace and repeated
// terminal punctuation, and normalizes quote and dash variants.
func (p *EnglishPreprocessor) Normalize(text string) string {
	if text == "" {
		return ""
	}

	text = strings.ToLower(text)
	text = whitespaceRe.ReplaceAllString(strings.TrimSpace(text), " ")
	text = quoteRe.ReplaceAllString(text, `"`)
	text = dashRe.ReplaceAllString(text, "-")

	text = periodRunRe.ReplaceAllString(text, ".")
	text = exclamationRunRe.ReplaceAllString(text, "!")
	text = questionRunRe.ReplaceAllString(text, "?")

	return strings.TrimSpace(text)
}

// Tokenize splits English text into lowercase alphabetic tokens of at
// least two characters.
func (p *EnglishPreprocessor) Tokenize(text string) []string {
	normalized := p.Normalize(text)
	raw := englishWordRe.FindAllString(normalized, -1)

	tokens := make([]string, 0, len(raw))
	for _, tok := range raw {
		if len(tok) > 1 {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// RemoveStopwords filters English stopwords out of tokens.
func (p *EnglishPreprocessor) RemoveStopwords(tokens []string) []string {
	kept := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if _, ok := englishStopwords[strings.ToLower(tok)]; !ok {
			kept = append(kept, tok)
		}
	}
	return kept
}

// Features extracts lexical statistics from English text, including a
// rough syllable count used by readability heuristics.
func (p *EnglishPreprocessor) Features(text string) TextFeatures {
	tokens := p.Tokenize(text)
	content := p.RemoveStopwords(tokens)

	f := TextFeatures{
		TotalTokens:   len(tokens),
		UniqueTokens:  countUnique(tokens),
		ContentTokens: len(content),
		SentenceCount: len(englishSentenceRe.Split(text, -1)),
	}
	if len(tokens) > 0 {
		var total int
		for _, tok := range tokens {
			total += len(tok)
			f.SyllableCount += countSyllables(tok)
		}
		f.AvgWordLength = float64(total) / float64(len(tokens))
		f.StopwordRatio = float64(len(tokens)-len(content)) / float64(len(tokens))
	}
	return f
}

// countSyllables approximates syllables by counting vowel groups, with a
// silent-e adjustment. Every word counts as at least one syllable.
func countSyllables(word string) int {
	word = strings.ToLower(word)
	count := 0
	prevVowel := false
	for _, r := range word {
		isVowel := strings.ContainsRune("aeiouy", r)
		if isVowel && !prevVowel {
			count++
		}
		prevVowel = isVowel
	}
	if strings.HasSuffix(word, "e") && count > 1 {
		count--
	}
	if count < 1 {
		count = 1
	}
	return count
}

func isLetter(r rune) bool {
	return unicode.IsLetter(r)
}
