// Package sentiment scores article text on a -1 (negative) to 1
// (positive) scale using per-language lexicons with intensity modifiers
// and negation handling.
package sentiment

import (
	"strings"

	"github.com/perashanid/Media-bias/internal/analysis/textproc"
	"github.com/perashanid/Media-bias/internal/domain/entity"
)

var bengaliPositive = map[string]struct{}{
	"ভালো": {}, "সুন্দর": {}, "চমৎকার": {}, "দুর্দান্ত": {}, "অসাধারণ": {},
	"উৎকৃষ্ট": {}, "সফল": {}, "জয়": {}, "বিজয়": {}, "সাফল্য": {},
	"উন্নতি": {}, "প্রগতি": {}, "সমৃদ্ধি": {}, "খুশি": {}, "আনন্দ": {},
	"হাসি": {}, "প্রশংসা": {}, "স্বাগত": {}, "ধন্যবাদ": {}, "কৃতজ্ঞতা": {},
	"শান্তি": {}, "স্বস্তি": {}, "আশা": {}, "আশাবাদী": {}, "ইতিবাচক": {},
	"গর্ব": {}, "গর্বিত": {}, "সম্মান": {}, "সম্মানিত": {}, "প্রিয়": {},
	"ভালোবাসা": {}, "স্নেহ": {}, "মমতা": {},
}

var bengaliNegative = map[string]struct{}{
	"খারাপ": {}, "বাজে": {}, "ভয়ানক": {}, "জঘন্য": {}, "নিকৃষ্ট": {},
	"অসহ্য": {}, "বিরক্তিকর": {}, "ব্যর্থ": {}, "পরাজয়": {}, "হার": {},
	"ক্ষতি": {}, "ধ্বংস": {}, "বিপর্যয়": {}, "সমস্যা": {}, "দুঃখ": {},
	"কষ্ট": {}, "ব্যথা": {}, "যন্ত্রণা": {}, "কান্না": {}, "রাগ": {},
	"ক্রোধ": {}, "ভয়": {}, "আতঙ্ক": {}, "চিন্তা": {}, "দুশ্চিন্তা": {},
	"নিরাশ": {}, "হতাশা": {}, "বিষাদ": {}, "অপমান": {}, "লজ্জা": {},
	"ঘৃণা": {}, "বিদ্বেষ": {}, "শত্রুতা": {}, "অবিচার": {}, "অন্যায়": {},
}

var englishPositive = map[string]struct{}{
	"good": {}, "great": {}, "excellent": {}, "amazing": {}, "wonderful": {},
	"fantastic": {}, "outstanding": {}, "success": {}, "successful": {},
	"win": {}, "victory": {}, "achievement": {}, "progress": {},
	"improvement": {}, "happy": {}, "joy": {}, "smile": {}, "laugh": {},
	"praise": {}, "welcome": {}, "thank": {}, "grateful": {}, "peace": {},
	"calm": {}, "hope": {}, "optimistic": {}, "positive": {}, "proud": {},
	"pride": {}, "honor": {}, "respect": {}, "love": {}, "care": {},
	"support": {}, "help": {}, "benefit": {},
}

var englishNegative = map[string]struct{}{
	"bad": {}, "terrible": {}, "awful": {}, "horrible": {}, "worst": {},
	"poor": {}, "disappointing": {}, "fail": {}, "failure": {}, "lose": {},
	"loss": {}, "defeat": {}, "damage": {}, "destroy": {}, "problem": {},
	"sad": {}, "pain": {}, "hurt": {}, "suffer": {}, "cry": {}, "angry": {},
	"rage": {}, "mad": {}, "fear": {}, "scared": {}, "worry": {},
	"concern": {}, "disappointed": {}, "frustrated": {}, "upset": {},
	"shame": {}, "hate": {}, "dislike": {}, "enemy": {}, "unfair": {},
	"wrong": {}, "injustice": {},
}

var bengaliIntensity = map[string]float64{
	"খুব": 1.5, "অত্যন্ত": 2.0, "অনেক": 1.3, "বেশ": 1.2, "যথেষ্ট": 1.1,
	"সামান্য": 0.5, "কিছুটা": 0.7, "একটু": 0.6, "সম্পূর্ণ": 1.8, "পুরোপুরি": 1.9,
}

var englishIntensity = map[string]float64{
	"very": 1.5, "extremely": 2.0, "quite": 1.3, "rather": 1.2, "fairly": 1.1,
	"slightly": 0.5, "somewhat": 0.7, "completely": 1.8, "totally": 1.9,
}

var bengaliNegation = map[string]struct{}{
	"না": {}, "নয়": {}, "নেই": {}, "নাই": {}, "ছাড়া": {}, "বিনা": {}, "অভাবে": {},
}

var englishNegation = map[string]struct{}{
	"not": {}, "no": {}, "never": {}, "nothing": {}, "nobody": {},
	"nowhere": {}, "neither": {}, "nor": {}, "without": {},
}

// Analyzer scores sentiment and emotional intensity per language.
type Analyzer struct {
	bengali *textproc.BengaliPreprocessor
	english *textproc.EnglishPreprocessor
}

// NewAnalyzer returns a sentiment analyzer backed by the shared
// preprocessors.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		bengali: textproc.NewBengaliPreprocessor(),
		english: textproc.NewEnglishPreprocessor(),
	}
}

// Score returns a sentiment score in [-1, 1] for text in the given
// language. Text with no lexicon hits scores 0. Languages other than
// bengali/english run both pipelines and average the results.
func (a *Analyzer) Score(text, language string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0.0
	}

	switch language {
	case entity.LanguageBengali:
		return a.scoreTokens(a.bengali.Tokenize(text), bengaliPositive, bengaliNegative, bengaliIntensity, bengaliNegation)
	case entity.LanguageEnglish:
		return a.scoreTokens(a.english.Tokenize(text), englishPositive, englishNegative, englishIntensity, englishNegation)
	default:
		bn := a.scoreTokens(a.bengali.Tokenize(text), bengaliPositive, bengaliNegative, bengaliIntensity, bengaliNegation)
		en := a.scoreTokens(a.english.Tokenize(text), englishPositive, englishNegative, englishIntensity, englishNegation)
		return (bn + en) / 2
	}
}

// scoreTokens walks the token stream tracking intensity modifiers and
// negation. A modifier applies to the token that follows it; a negation
// immediately before a sentiment word flips its polarity bucket.
func (a *Analyzer) scoreTokens(tokens []string, positive, negative map[string]struct{}, intensity map[string]float64, negation map[string]struct{}) float64 {
	var positiveScore, negativeScore float64

	for i := 0; i < len(tokens); i++ {
		token := tokens[i]

		weight := 1.0
		if w, ok := intensity[token]; ok {
			weight = w
			i++
			if i >= len(tokens) {
				break
			}
			token = tokens[i]
		}

		negated := false
		if i > 0 {
			if _, ok := negation[tokens[i-1]]; ok {
				negated = true
			}
		}

		if _, ok := positive[token]; ok {
			if negated {
				negativeScore += weight
			} else {
				positiveScore += weight
			}
		} else if _, ok := negative[token]; ok {
			if negated {
				positiveScore += weight
			} else {
				negativeScore += weight
			}
		}
	}

	total := positiveScore + negativeScore
	if total == 0 {
		return 0.0
	}

	net := (positiveScore - negativeScore) / total
	return clamp(net, -1.0, 1.0)
}

// EmotionalIntensity measures how loaded the text is with sentiment
// vocabulary regardless of polarity, on a 0-1 scale. The raw hit ratio
// is amplified fivefold and capped at 1.
func (a *Analyzer) EmotionalIntensity(text, language string) float64 {
	var tokens []string
	var emotional map[string]struct{}

	switch language {
	case entity.LanguageBengali:
		tokens = a.bengali.Tokenize(text)
		emotional = union(bengaliPositive, bengaliNegative)
	default:
		tokens = a.english.Tokenize(text)
		emotional = union(englishPositive, englishNegative)
	}

	if len(tokens) == 0 {
		return 0.0
	}

	hits := 0
	for _, tok := range tokens {
		if _, ok := emotional[strings.ToLower(tok)]; ok {
			hits++
		}
	}

	ratio := float64(hits) / float64(len(tokens))
	return clamp(ratio*5, 0.0, 1.0)
}

// Label classifies a score as positive, negative or neutral.
func Label(score float64) string {
	switch {
	case score > 0.1:
		return "positive"
	case score < -0.1:
		return "negative"
	default:
		return "neutral"
	}
}

func union(a, b map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		out[k] = struct{}{}
	}
	for k := range b {
		out[k] = struct{}{}
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
