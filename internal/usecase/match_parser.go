package usecase

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/rfpdesk/backend/internal/domain"
	"github.com/xeipuuv/gojsonschema"
)

const codeFence = "```"

// matchResultsSchema is the contract the model's reply must satisfy before
// any field is trusted.
const matchResultsSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["sku", "name", "matchScore"],
    "properties": {
      "sku":         {"type": "string", "minLength": 1},
      "name":        {"type": "string"},
      "matchScore":  {"type": "integer", "minimum": 0, "maximum": 100},
      "matchReason": {"type": "string"},
      "gapAnalysis": {"type": "string"},
      "recommended": {"type": "boolean"}
    }
  }
}`

var matchSchema = mustCompileSchema(matchResultsSchema)

func mustCompileSchema(schema string) *gojsonschema.Schema {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schema))
	if err != nil {
		panic(fmt.Sprintf("invalid embedded schema: %v", err))
	}
	return compiled
}

// wireMatchResult mirrors the reply shape; matchScore may arrive as 85.0
type wireMatchResult struct {
	SKU         string  `json:"sku"`
	Name        string  `json:"name"`
	MatchScore  float64 `json:"matchScore"`
	MatchReason string  `json:"matchReason"`
	GapAnalysis string  `json:"gapAnalysis"`
	Recommended bool    `json:"recommended"`
}

// stripCodeFence removes a leading ``` (with optional language tag) and a
// trailing ``` around the completion text. Text without fences is returned
// trimmed, so applying it twice is a no-op.
func stripCodeFence(text string) string {
	s := strings.TrimSpace(text)

	if strings.HasPrefix(s, codeFence) {
		s = strings.TrimPrefix(s, codeFence)
		s = strings.TrimLeftFunc(s, func(r rune) bool {
			return unicode.IsLetter(r) || unicode.IsDigit(r)
		})
		s = strings.TrimSpace(s)
	}

	if strings.HasSuffix(s, codeFence) {
		s = strings.TrimSpace(strings.TrimSuffix(s, codeFence))
	}

	return s
}

// parseMatchResults validates the completion text against the match schema
// and decodes it. Any failure is reported as domain.ErrResponseFormat.
func parseMatchResults(text string) ([]domain.MatchResult, error) {
	body := []byte(stripCodeFence(text))
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: empty completion", domain.ErrResponseFormat)
	}

	result, err := matchSchema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrResponseFormat, err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrResponseFormat, strings.Join(errs, "; "))
	}

	var wire []wireMatchResult
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrResponseFormat, err)
	}

	matches := make([]domain.MatchResult, 0, len(wire))
	for _, w := range wire {
		matches = append(matches, domain.MatchResult{
			SKU:         strings.TrimSpace(w.SKU),
			Name:        w.Name,
			MatchScore:  int(math.Round(w.MatchScore)),
			MatchReason: w.MatchReason,
			GapAnalysis: w.GapAnalysis,
			Recommended: w.Recommended,
		})
	}

	return matches, nil
}
