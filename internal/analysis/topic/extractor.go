// Package topic assigns coarse topic categories to articles by matching
// category keyword lexicons against title and body text.
package topic

import (
	"regexp"
	"sort"
	"strings"
)

// maxTopicsPerArticle caps how many categories one article can carry.
const maxTopicsPerArticle = 5

// categoryOrder keeps extraction deterministic across runs.
var categoryOrder = []string{
	"politics", "economy", "sports", "education", "health",
	"technology", "international", "crime", "entertainment", "weather",
}

var categories = map[string][]string{
	"politics": {
		"রাজনীতি", "সরকার", "মন্ত্রী", "প্রধানমন্ত্রী", "রাষ্ট্রপতি", "নির্বাচন",
		"ভোট", "দল", "politics", "government", "minister", "election", "vote", "party",
	},
	"economy": {
		"অর্থনীতি", "ব্যাংক", "টাকা", "দাম", "বাজার", "ব্যবসা", "শিল্প",
		"economy", "bank", "money", "price", "market", "business", "industry",
	},
	"sports": {
		"খেলা", "ক্রিকেট", "ফুটবল", "খেলোয়াড়", "ম্যাচ", "টুর্নামেন্ট",
		"sports", "cricket", "football", "player", "match", "tournament",
	},
	"education": {
		"শিক্ষা", "স্কুল", "কলেজ", "বিশ্ববিদ্যালয়", "ছাত্র", "পরীক্ষা",
		"education", "school", "college", "university", "student", "exam",
	},
	"health": {
		"স্বাস্থ্য", "হাসপাতাল", "ডাক্তার", "চিকিৎসা", "রোগ", "ওষুধ",
		"health", "hospital", "doctor", "treatment", "disease", "medicine",
	},
	"technology": {
		"প্রযুক্তি", "কম্পিউটার", "ইন্টারনেট", "মোবাইল", "সফটওয়্যার",
		"technology", "computer", "internet", "mobile", "software",
	},
	"international": {
		"আন্তর্জাতিক", "বিদেশ", "দেশ", "যুক্তরাষ্ট্র", "ভারত", "চীন",
		"international", "foreign", "country", "usa", "india", "china",
	},
	"crime": {
		"অপরাধ", "পুলিশ", "গ্রেফতার", "চুরি", "ডাকাতি", "হত্যা",
		"crime", "police", "arrest", "theft", "robbery", "murder",
	},
	"entertainment": {
		"বিনোদন", "সিনেমা", "নাটক", "গান", "শিল্পী", "অভিনেতা",
		"entertainment", "movie", "drama", "song", "artist", "actor",
	},
	"weather": {
		"আবহাওয়া", "বৃষ্টি", "ঝড়", "গরম", "ঠান্ডা",
		"weather", "rain", "storm", "hot", "cold",
	},
}

var nonWordRe = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)

// Extractor maps article text to topic categories.
type Extractor struct{}

// NewExtractor returns a topic extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns up to five topic categories matched in title or
// content, in stable category order.
func (e *Extractor) Extract(title, content string) []string {
	text := strings.ToLower(title + " " + content)
	text = nonWordRe.ReplaceAllString(text, " ")

	var topics []string
	for _, category := range categoryOrder {
		for _, keyword := range categories[category] {
			if strings.Contains(text, keyword) {
				topics = append(topics, category)
				break
			}
		}
		if len(topics) >= maxTopicsPerArticle {
			break
		}
	}
	return topics
}

// Available lists every topic category the extractor knows, sorted.
func (e *Extractor) Available() []string {
	out := make([]string, len(categoryOrder))
	copy(out, categoryOrder)
	sort.Strings(out)
	return out
}
