// Package factual classifies article text on a 0 (opinion) to 1
// (factual) scale using weighted indicator phrases, numeric-pattern
// matches and first-person pronoun checks.
package factual

import (
	"regexp"
	"strings"

	"github.com/perashanid/Media-bias/internal/analysis/textproc"
	"github.com/perashanid/Media-bias/internal/domain/entity"
)

// Indicator category weights. Source attribution is the strongest
// factual signal; opinion verbs the strongest opinion signal.
const (
	reportingVerbWeight     = 2.0
	sourceAttributionWeight = 3.0
	plainIndicatorWeight    = 1.0
	opinionVerbWeight       = 3.0
	evaluationPhraseWeight  = 2.0
	numericMatchWeight      = 1.5
	firstPersonWeight       = 1.0
)

// indicatorSet pairs a phrase list with the weight each hit contributes.
type indicatorSet struct {
	phrases []string
	weight  float64
}

var bengaliFactual = []indicatorSet{
	{weight: reportingVerbWeight, phrases: []string{
		"জানানো হয়েছে", "বলা হয়েছে", "উল্লেখ করা হয়েছে", "প্রকাশ করা হয়েছে",
		"ঘোষণা করা হয়েছে", "নিশ্চিত করা হয়েছে", "তথ্য দেওয়া হয়েছে",
	}},
	{weight: sourceAttributionWeight, phrases: []string{
		"সূত্র জানিয়েছে", "কর্মকর্তারা জানিয়েছেন", "মন্ত্রী বলেছেন",
		"প্রধানমন্ত্রী বলেছেন", "পুলিশ জানিয়েছে", "সরকারি সূত্র",
	}},
	{weight: plainIndicatorWeight, phrases: []string{
		"তথ্য অনুযায়ী", "পরিসংখ্যান অনুযায়ী", "রিপোর্ট অনুযায়ী",
		"গবেষণায় দেখা গেছে", "জরিপে দেখা গেছে", "তদন্তে প্রমাণিত",
	}},
	{weight: plainIndicatorWeight, phrases: []string{
		"গতকাল", "আজ", "গত সপ্তাহে", "গত মাসে", "এ বছর", "গত বছর",
		"সকালে", "দুপুরে", "বিকেলে", "সন্ধ্যায়", "রাতে",
	}},
}

var bengaliOpinion = []indicatorSet{
	{weight: opinionVerbWeight, phrases: []string{
		"মনে করি", "বিশ্বাস করি", "ভাবি", "মতামত", "অভিমত", "দৃষ্টিভঙ্গি",
		"আমার মতে", "আমি মনে করি", "আমার বিশ্বাস", "আমার ধারণা",
	}},
	{weight: evaluationPhraseWeight, phrases: []string{
		"উচিত", "উচিত নয়", "করা দরকার", "করা উচিত নয়", "ভুল সিদ্ধান্ত",
		"সঠিক সিদ্ধান্ত", "প্রয়োজনীয়", "অপ্রয়োজনীয়",
	}},
	{weight: plainIndicatorWeight, phrases: []string{
		"সুন্দর", "খারাপ", "ভালো", "চমৎকার", "জঘন্য", "অসাধারণ",
		"বিরক্তিকর", "আকর্ষণীয়", "অপ্রয়োজনীয়", "গুরুত্বপূর্ণ",
	}},
	{weight: plainIndicatorWeight, phrases: []string{
		"সম্ভবত", "হয়তো", "বোধহয়", "মনে হচ্ছে", "দেখে মনে হচ্ছে",
		"অনুমান করা যায়", "ধারণা করা হচ্ছে",
	}},
}

var englishFactual = []indicatorSet{
	{weight: reportingVerbWeight, phrases: []string{
		"reported", "stated", "announced", "confirmed", "revealed",
		"disclosed", "said", "told", "informed", "declared", "mentioned",
	}},
	{weight: sourceAttributionWeight, phrases: []string{
		"according to", "sources said", "officials said", "minister said",
		"prime minister said", "police said", "government sources",
	}},
	{weight: plainIndicatorWeight, phrases: []string{
		"according to data", "statistics show", "report shows", "study found",
		"research indicates", "survey reveals", "investigation proved",
	}},
	{weight: plainIndicatorWeight, phrases: []string{
		"yesterday", "today", "last week", "last month", "this year",
		"last year", "morning", "afternoon", "evening", "night",
		"on monday", "on tuesday",
	}},
}

var englishOpinion = []indicatorSet{
	{weight: opinionVerbWeight, phrases: []string{
		"think", "believe", "feel", "opinion", "view", "perspective",
		"i think", "i believe", "i feel", "in my opinion", "my view",
	}},
	{weight: evaluationPhraseWeight, phrases: []string{
		"should", "should not", "ought to", "must", "need to",
		"wrong decision", "right decision", "necessary", "unnecessary",
		"appropriate",
	}},
	{weight: plainIndicatorWeight, phrases: []string{
		"beautiful", "ugly", "good", "bad", "excellent", "terrible",
		"amazing", "boring", "interesting", "unnecessary", "important",
	}},
	{weight: plainIndicatorWeight, phrases: []string{
		"probably", "possibly", "maybe", "perhaps", "seems", "appears",
		"likely", "unlikely", "presumably", "supposedly",
	}},
}

var englishSpeculation = []string{
	"probably", "possibly", "maybe", "perhaps", "seems", "appears",
	"likely", "unlikely", "presumably", "supposedly",
}

var bengaliSpeculation = []string{
	"সম্ভবত", "হয়তো", "বোধহয়", "মনে হচ্ছে", "দেখে মনে হচ্ছে",
	"অনুমান করা যায়", "ধারণা করা হচ্ছে",
}

// numericalPatterns mark statistical content, a factual signal.
var numericalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d+%`),
	regexp.MustCompile(`\d+\.\d+`),
	regexp.MustCompile(`\d+,\d+`),
	regexp.MustCompile(`\d+\s*(million|billion|thousand|crore|lakh)`),
	regexp.MustCompile(`\d+\s*(টাকা|dollar|taka|rupee)`),
}

var englishFirstPerson = []string{"i ", "my ", "we ", "our ", "me "}
var bengaliFirstPerson = []string{"আমি", "আমার", "আমাদের", "আমরা"}

// Classifier scores text on the factual-vs-opinion axis.
type Classifier struct {
	bengali *textproc.BengaliPreprocessor
	english *textproc.EnglishPreprocessor
}

// NewClassifier returns a factual/opinion classifier.
func NewClassifier() *Classifier {
	return &Classifier{
		bengali: textproc.NewBengaliPreprocessor(),
		english: textproc.NewEnglishPreprocessor(),
	}
}

// Score returns the factual ratio in [0, 1]. Empty text or text with no
// indicators scores the neutral 0.5. Other languages run both pipelines
// and average.
func (c *Classifier) Score(text, language string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0.5
	}

	switch language {
	case entity.LanguageBengali:
		return c.score(text, bengaliFactual, bengaliOpinion, bengaliFirstPerson)
	case entity.LanguageEnglish:
		return c.score(text, englishFactual, englishOpinion, englishFirstPerson)
	default:
		bn := c.score(text, bengaliFactual, bengaliOpinion, bengaliFirstPerson)
		en := c.score(text, englishFactual, englishOpinion, englishFirstPerson)
		return (bn + en) / 2
	}
}

// score counts each indicator phrase at most once (presence, not
// frequency), then adds per-occurrence numeric matches and first-person
// pronoun hits.
func (c *Classifier) score(text string, factual, opinion []indicatorSet, firstPerson []string) float64 {
	textLower := strings.ToLower(text)

	var factualScore, opinionScore float64
	for _, set := range factual {
		for _, phrase := range set.phrases {
			if strings.Contains(textLower, phrase) {
				factualScore += set.weight
			}
		}
	}
	for _, set := range opinion {
		for _, phrase := range set.phrases {
			if strings.Contains(textLower, phrase) {
				opinionScore += set.weight
			}
		}
	}

	for _, re := range numericalPatterns {
		factualScore += float64(len(re.FindAllString(textLower, -1))) * numericMatchWeight
	}

	for _, pronoun := range firstPerson {
		if strings.Contains(textLower, pronoun) {
			opinionScore += firstPersonWeight
		}
	}

	total := factualScore + opinionScore
	if total == 0 {
		return 0.5
	}
	return clamp(factualScore/total, 0.0, 1.0)
}

// Speculation measures speculative language density on a 0-1 scale.
func (c *Classifier) Speculation(text, language string) float64 {
	var words []string
	var tokens []string

	switch language {
	case entity.LanguageBengali:
		words = bengaliSpeculation
		tokens = c.bengali.Tokenize(text)
	default:
		words = englishSpeculation
		tokens = c.english.Tokenize(text)
	}

	if len(tokens) == 0 {
		return 0.0
	}

	textLower := strings.ToLower(text)
	hits := 0
	for _, w := range words {
		if strings.Contains(textLower, w) {
			hits++
		}
	}

	return clamp(float64(hits)/float64(len(tokens))*20, 0.0, 1.0)
}

// ContentType classifies a factual score as factual, opinion or mixed.
func ContentType(score float64) string {
	switch {
	case score > 0.7:
		return "factual"
	case score < 0.3:
		return "opinion"
	default:
		return "mixed"
	}
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
