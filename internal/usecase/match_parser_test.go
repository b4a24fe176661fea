package usecase

import (
	"testing"

	"github.com/rfpdesk/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bareMatches = `[
  {"sku": "REF-5STAR-450", "name": "5-Star Frost-Free Refrigerator 450L", "matchScore": 95, "matchReason": "5-star, frost-free", "gapAnalysis": "none", "recommended": true},
  {"sku": "REF-4STAR-350", "name": "4-Star Double Door Refrigerator 350L", "matchScore": 60, "matchReason": "capacity close", "gapAnalysis": "4-star only", "recommended": false}
]`

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare array", `[1,2]`, `[1,2]`},
		{"json fence", "```json\n[1,2]\n```", `[1,2]`},
		{"plain fence", "```\n[1,2]\n```", `[1,2]`},
		{"fence without newlines", "```json[1,2]```", `[1,2]`},
		{"surrounding whitespace", "\n  ```JSON\n[1,2]\n```  \n", `[1,2]`},
		{"only trailing fence", "[1,2]\n```", `[1,2]`},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := stripCodeFence(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, stripCodeFence(got), "stripping must be idempotent")
		})
	}
}

func TestParseMatchResults_FencedAndBareAreIdentical(t *testing.T) {
	bare, err := parseMatchResults(bareMatches)
	require.NoError(t, err)

	fenced, err := parseMatchResults("```json\n" + bareMatches + "\n```")
	require.NoError(t, err)

	assert.Equal(t, bare, fenced)
	require.Len(t, bare, 2)
	assert.Equal(t, domain.MatchResult{
		SKU:         "REF-5STAR-450",
		Name:        "5-Star Frost-Free Refrigerator 450L",
		MatchScore:  95,
		MatchReason: "5-star, frost-free",
		GapAnalysis: "none",
		Recommended: true,
	}, bare[0])
}

func TestParseMatchResults_EmptyArray(t *testing.T) {
	matches, err := parseMatchResults("[]")
	require.NoError(t, err)
	assert.NotNil(t, matches)
	assert.Empty(t, matches)
}

func TestParseMatchResults_OptionalFields(t *testing.T) {
	matches, err := parseMatchResults(`[{"sku":"TV-4K-55","name":"4K Smart LED TV 55 inch","matchScore":70}]`)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, 70, matches[0].MatchScore)
	assert.False(t, matches[0].Recommended)
	assert.Empty(t, matches[0].GapAnalysis)
}

func TestParseMatchResults_FormatErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"prose", "Here are the best matches for your RFP."},
		{"empty", "   "},
		{"truncated json", `[{"sku": "REF-5STAR-450", "name": "x", "matchScore": 9`},
		{"object instead of array", `{"matches": []}`},
		{"score above range", `[{"sku":"A","name":"x","matchScore":101}]`},
		{"negative score", `[{"sku":"A","name":"x","matchScore":-1}]`},
		{"fractional score", `[{"sku":"A","name":"x","matchScore":85.5}]`},
		{"score as string", `[{"sku":"A","name":"x","matchScore":"90"}]`},
		{"missing sku", `[{"name":"x","matchScore":90}]`},
		{"empty sku", `[{"sku":"","name":"x","matchScore":90}]`},
		{"recommended as string", `[{"sku":"A","name":"x","matchScore":90,"recommended":"yes"}]`},
		{"element not an object", `["REF-5STAR-450"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches, err := parseMatchResults(tt.text)
			assert.Nil(t, matches)
			assert.ErrorIs(t, err, domain.ErrResponseFormat)
		})
	}
}
