package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSource_Validate(t *testing.T) {
	tests := []struct {
		name    string
		source  Source
		wantErr bool
	}{
		{
			name: "valid HTML source",
			source: Source{
				Key:        "prothom_alo",
				Name:       "Prothom Alo",
				BaseURL:    "https://www.prothomalo.com",
				Language:   LanguageBengali,
				SourceType: SourceTypeHTML,
			},
			wantErr: false,
		},
		{
			name: "valid RSS source",
			source: Source{
				Key:        "somoy_news",
				Name:       "Somoy News",
				BaseURL:    "https://www.somoynews.tv",
				FeedURL:    "https://www.somoynews.tv/feed",
				SourceType: SourceTypeRSS,
			},
			wantErr: false,
		},
		{
			name: "empty type defaults to HTML",
			source: Source{
				Key:     "daily_star",
				Name:    "The Daily Star",
				BaseURL: "https://www.thedailystar.net",
			},
			wantErr: false,
		},
		{
			name: "invalid source type",
			source: Source{
				Key:        "x",
				BaseURL:    "https://example.com",
				SourceType: "Atom",
			},
			wantErr: true,
		},
		{
			name: "RSS without feed URL",
			source: Source{
				Key:        "x",
				BaseURL:    "https://example.com",
				SourceType: SourceTypeRSS,
			},
			wantErr: true,
		},
		{
			name: "missing key",
			source: Source{
				BaseURL: "https://example.com",
			},
			wantErr: true,
		},
		{
			name:    "missing base URL",
			source:  Source{Key: "x"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.source.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSource_Validate_DefaultsType(t *testing.T) {
	s := Source{Key: "atn_news", BaseURL: "https://www.atnnewstv.com"}
	assert.NoError(t, s.Validate())
	assert.Equal(t, SourceTypeHTML, s.SourceType)
}
