// Package political estimates the political lean of Bangladeshi news
// coverage on a -1 (left/pro-government) to 1 (right/opposition) scale,
// combining keyword hits with weighted loaded-phrase matches.
package political

import (
	"regexp"
	"strings"

	"github.com/perashanid/Media-bias/internal/analysis/textproc"
	"github.com/perashanid/Media-bias/internal/domain/entity"
)

const (
	keywordWeight = 1.0
	neutralWeight = 0.5
	patternWeight = 2.0
)

var bengaliLeft = map[string]struct{}{
	"সরকার": {}, "প্রধানমন্ত্রী": {}, "মাননীয়": {}, "উন্নয়ন": {}, "অগ্রগতি": {},
	"সাফল্য": {}, "জনগণের সেবা": {}, "গণতন্ত্র": {}, "মুক্তিযুদ্ধ": {},
	"স্বাধীনতা": {}, "বঙ্গবন্ধু": {}, "আওয়ামী লীগ": {}, "নৌকা": {},
	"শেখ হাসিনা": {}, "জয় বাংলা": {}, "সোনার বাংলা": {},
}

var bengaliRight = map[string]struct{}{
	"বিরোধী দল": {}, "প্রতিবাদ": {}, "আন্দোলন": {}, "দুর্নীতি": {},
	"স্বৈরাচার": {}, "অন্যায়": {}, "জামায়াত": {}, "বিএনপি": {},
	"ধানের শীষ": {}, "খালেদা জিয়া": {}, "তারেক রহমান": {}, "হরতাল": {},
	"অবরোধ": {}, "গণতন্ত্র পুনরুদ্ধার": {}, "নির্বাচন": {}, "ভোট": {},
}

var bengaliNeutral = map[string]struct{}{
	"সংবাদ": {}, "প্রতিবেদন": {}, "তথ্য": {}, "ঘটনা": {}, "বিষয়": {},
	"পরিস্থিতি": {}, "জানানো হয়েছে": {}, "বলা হয়েছে": {}, "উল্লেখ করা হয়েছে": {},
}

var englishLeft = map[string]struct{}{
	"government": {}, "prime minister": {}, "development": {}, "progress": {},
	"success": {}, "democracy": {}, "liberation war": {}, "independence": {},
	"bangabandhu": {}, "awami league": {}, "sheikh hasina": {},
	"ruling party": {}, "achievement": {},
}

var englishRight = map[string]struct{}{
	"opposition": {}, "protest": {}, "movement": {}, "corruption": {},
	"autocracy": {}, "injustice": {}, "bnp": {}, "jamaat": {},
	"khaleda zia": {}, "tarique rahman": {}, "hartal": {}, "blockade": {},
	"election": {}, "vote": {}, "democracy restoration": {}, "human rights": {},
}

var englishNeutral = map[string]struct{}{
	"news": {}, "report": {}, "information": {}, "event": {}, "situation": {},
	"according to": {}, "it was reported": {}, "sources said": {},
	"officials said": {},
}

// Loaded-phrase patterns. Positive phrasing favors the governing side,
// negative phrasing favors the critical side.
var (
	bengaliPositivePatterns = compilePatterns([]string{
		`অসাধারণ\s+সাফল্য`, `চমৎকার\s+উদ্যোগ`, `প্রশংসনীয়\s+কাজ`,
		`যুগান্তকারী\s+সিদ্ধান্ত`, `ঐতিহাসিক\s+অর্জন`,
	})
	bengaliNegativePatterns = compilePatterns([]string{
		`চরম\s+ব্যর্থতা`, `জঘন্য\s+কাজ`, `নিন্দনীয়\s+আচরণ`,
		`ভয়াবহ\s+পরিস্থিতি`, `অগ্রহণযোগ্য\s+সিদ্ধান্ত`,
	})
	englishPositivePatterns = compilePatterns([]string{
		`remarkable\s+success`, `outstanding\s+achievement`,
		`excellent\s+initiative`, `groundbreaking\s+decision`,
		`historic\s+accomplishment`,
	})
	englishNegativePatterns = compilePatterns([]string{
		`complete\s+failure`, `terrible\s+decision`, `outrageous\s+behavior`,
		`devastating\s+situation`, `unacceptable\s+action`,
	})
)

var bengaliHighEmotion = map[string]struct{}{
	"ভয়াবহ": {}, "জঘন্য": {}, "চরম": {}, "অসহনীয়": {}, "অগ্রহণযোগ্য": {},
	"নিন্দনীয়": {}, "অসাধারণ": {}, "চমৎকার": {}, "যুগান্তকারী": {},
	"ঐতিহাসিক": {}, "অভূতপূর্ব": {},
}

var bengaliMediumEmotion = map[string]struct{}{
	"গুরুতর": {}, "উদ্বেগজনক": {}, "আশাব্যঞ্জক": {}, "প্রশংসনীয়": {},
	"সন্তোষজনক": {},
}

var englishHighEmotion = map[string]struct{}{
	"devastating": {}, "outrageous": {}, "terrible": {}, "shocking": {},
	"unacceptable": {}, "remarkable": {}, "outstanding": {},
	"groundbreaking": {}, "historic": {}, "unprecedented": {},
}

var englishMediumEmotion = map[string]struct{}{
	"serious": {}, "concerning": {}, "promising": {}, "commendable": {},
	"satisfactory": {},
}

// Detector scores political lean and loaded-language density.
type Detector struct {
	bengali *textproc.BengaliPreprocessor
	english *textproc.EnglishPreprocessor
}

// NewDetector returns a political bias detector.
func NewDetector() *Detector {
	return &Detector{
		bengali: textproc.NewBengaliPreprocessor(),
		english: textproc.NewEnglishPreprocessor(),
	}
}

// Score returns the political bias score in [-1, 1] for text in the
// given language. Text without political vocabulary scores 0. Other
// languages run both pipelines and average.
func (d *Detector) Score(text, language string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0.0
	}

	switch language {
	case entity.LanguageBengali:
		return d.score(d.bengali.Tokenize(text), text, bengaliLeft, bengaliRight, bengaliNeutral, bengaliPositivePatterns, bengaliNegativePatterns)
	case entity.LanguageEnglish:
		return d.score(d.english.Tokenize(text), text, englishLeft, englishRight, englishNeutral, englishPositivePatterns, englishNegativePatterns)
	default:
		bn := d.score(d.bengali.Tokenize(text), text, bengaliLeft, bengaliRight, bengaliNeutral, bengaliPositivePatterns, bengaliNegativePatterns)
		en := d.score(d.english.Tokenize(text), text, englishLeft, englishRight, englishNeutral, englishPositivePatterns, englishNegativePatterns)
		return (bn + en) / 2
	}
}

func (d *Detector) score(tokens []string, text string, left, right, neutral map[string]struct{}, positivePatterns, negativePatterns []*regexp.Regexp) float64 {
	textLower := strings.ToLower(text)

	var leftScore, rightScore, neutralScore float64
	for _, tok := range tokens {
		tok = strings.ToLower(tok)
		if _, ok := left[tok]; ok {
			leftScore += keywordWeight
		} else if _, ok := right[tok]; ok {
			rightScore += keywordWeight
		} else if _, ok := neutral[tok]; ok {
			neutralScore += neutralWeight
		}
	}

	for _, re := range positivePatterns {
		leftScore += float64(len(re.FindAllString(textLower, -1))) * patternWeight
	}
	for _, re := range negativePatterns {
		rightScore += float64(len(re.FindAllString(textLower, -1))) * patternWeight
	}

	total := leftScore + rightScore + neutralScore
	if total == 0 {
		return 0.0
	}

	bias := rightScore/total - leftScore/total
	return clamp(bias, -1.0, 1.0)
}

// LoadedLanguage measures emotionally loaded vocabulary density on a 0-1
// scale: high-emotion terms count double, and the ratio is amplified
// tenfold before capping.
func (d *Detector) LoadedLanguage(text, language string) float64 {
	var tokens []string
	var high, medium map[string]struct{}

	switch language {
	case entity.LanguageBengali:
		tokens = d.bengali.Tokenize(text)
		high, medium = bengaliHighEmotion, bengaliMediumEmotion
	default:
		tokens = d.english.Tokenize(text)
		high, medium = englishHighEmotion, englishMediumEmotion
	}

	if len(tokens) == 0 {
		return 0.0
	}

	var highCount, mediumCount int
	for _, tok := range tokens {
		tok = strings.ToLower(tok)
		if _, ok := high[tok]; ok {
			highCount++
		} else if _, ok := medium[tok]; ok {
			mediumCount++
		}
	}

	score := (float64(highCount)*2.0 + float64(mediumCount)) / float64(len(tokens))
	return clamp(score*10, 0.0, 1.0)
}

// Direction classifies a bias score as left_leaning, right_leaning or
// neutral.
func Direction(score float64) string {
	switch {
	case score > 0.2:
		return "right_leaning"
	case score < -0.2:
		return "left_leaning"
	default:
		return "neutral"
	}
}

func compilePatterns(raw []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(raw))
	for _, p := range raw {
		out = append(out, regexp.MustCompile(p))
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
