package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/perashanid/Media-bias/internal/domain/entity"
)

func TestDetector_Detect(t *testing.T) {
	d := NewDetector()

	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "empty text",
			text: "",
			want: entity.LanguageUnknown,
		},
		{
			name: "whitespace only",
			text: "   \n\t ",
			want: entity.LanguageUnknown,
		},
		{
			name: "pure english sentence",
			text: "The government of Bangladesh announced a new policy for the country.",
			want: entity.LanguageEnglish,
		},
		{
			name: "pure bengali sentence",
			text: "বাংলাদেশ সরকার এবং প্রধানমন্ত্রী দেশ নিয়ে আলোচনা করেছেন।",
			want: entity.LanguageBengali,
		},
		{
			name: "bengali dominant over sparse english",
			text: "ঢাকা শহরে আজ বৃষ্টি হয়েছে এবং সরকার সতর্কতা জারি করেছে।",
			want: entity.LanguageBengali,
		},
		{
			name: "numbers and punctuation only",
			text: "1234 5678 !!!",
			want: entity.LanguageMixed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, d.Detect(tt.text))
		})
	}
}

func TestDetector_Confidence(t *testing.T) {
	d := NewDetector()

	langName, score := d.Confidence("The minister said the government will act.")
	assert.Equal(t, entity.LanguageEnglish, langName)
	assert.Greater(t, score, 0.6)

	langName, score = d.Confidence("সরকার এবং জনগণ একসাথে কাজ করবে।")
	assert.Equal(t, entity.LanguageBengali, langName)
	assert.Greater(t, score, 0.6)
}

func TestDetector_IsMixed(t *testing.T) {
	d := NewDetector()

	mixed := "The সরকার এবং প্রধানমন্ত্রী announced ঢাকা উন্নয়ন plans আজ"
	assert.True(t, d.IsMixed(mixed, 0.3))
	assert.False(t, d.IsMixed("Entirely english text here.", 0.3))
	assert.False(t, d.IsMixed("সম্পূর্ণ বাংলা লেখা এখানে।", 0.3))
}
