package domain

import "encoding/json"

// SummarizeRequest represents an RFP summarization request
type SummarizeRequest struct {
	Content string `json:"content" binding:"required"`
	Title   string `json:"title" binding:"required"`
}

// SummarizeResponse carries the provider summary verbatim
type SummarizeResponse struct {
	Summary string `json:"summary"`
}

// MatchRequest represents a product matching request.
// Sensitivity is advisory context for the model: 0 = loose, 1 = strict.
type MatchRequest struct {
	Requirements string   `json:"requirements" binding:"required"`
	Sensitivity  *float64 `json:"sensitivity,omitempty" binding:"omitempty,gte=0,lte=1"`
}

// MatchResult is a single catalog match proposed by the model
type MatchResult struct {
	SKU         string `json:"sku"`
	Name        string `json:"name"`
	MatchScore  int    `json:"matchScore"` // 0-100
	MatchReason string `json:"matchReason"`
	GapAnalysis string `json:"gapAnalysis"`
	Recommended bool   `json:"recommended"`
}

// MatchResponse holds matches sorted by score plus the catalog they refer to
type MatchResponse struct {
	Matches []MatchResult  `json:"matches"`
	Catalog []CatalogEntry `json:"catalog"`
}

// ProposedProduct is a matched product line with quantity and price.
// Fields the browser attaches beyond these (matchScore, matchReason, ...)
// are kept in Extra and written back out so the proposal prompt sees them.
type ProposedProduct struct {
	Name      string  `json:"name"`
	SKU       string  `json:"sku"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	Total     float64 `json:"total"`

	Extra map[string]json.RawMessage `json:"-"`
}

var proposedProductFields = []string{"name", "sku", "quantity", "unitPrice", "total"}

// UnmarshalJSON decodes the known fields and keeps the rest in Extra
func (p *ProposedProduct) UnmarshalJSON(data []byte) error {
	type plain ProposedProduct
	var known plain
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}

	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for _, name := range proposedProductFields {
		delete(all, name)
	}

	*p = ProposedProduct(known)
	p.Extra = nil
	if len(all) > 0 {
		p.Extra = all
	}
	return nil
}

// MarshalJSON writes the known fields followed by any preserved extras
func (p ProposedProduct) MarshalJSON() ([]byte, error) {
	type plain ProposedProduct
	if len(p.Extra) == 0 {
		return json.Marshal(plain(p))
	}

	fields := make(map[string]interface{}, len(p.Extra)+len(proposedProductFields))
	for name, raw := range p.Extra {
		fields[name] = raw
	}
	fields["name"] = p.Name
	fields["sku"] = p.SKU
	fields["quantity"] = p.Quantity
	fields["unitPrice"] = p.UnitPrice
	fields["total"] = p.Total

	return json.Marshal(fields)
}

// PricingLine is a labelled cost line in the proposal pricing breakdown.
// Callers may name the line with either "item" or "label".
type PricingLine struct {
	Item string  `json:"item"`
	Cost float64 `json:"cost"`
}

// UnmarshalJSON accepts "label" when "item" is absent or blank
func (l *PricingLine) UnmarshalJSON(data []byte) error {
	var wire struct {
		Item  string  `json:"item"`
		Label string  `json:"label"`
		Cost  float64 `json:"cost"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	l.Item = wire.Item
	if l.Item == "" {
		l.Item = wire.Label
	}
	l.Cost = wire.Cost
	return nil
}

// ProposalRequest is assembled by the caller from the summary, match and pricing steps
type ProposalRequest struct {
	Summary         string            `json:"summary" binding:"required"`
	MatchedProducts []ProposedProduct `json:"matchedProducts" binding:"required,min=1"`
	Pricing         []PricingLine     `json:"pricing"`
	CompanyName     string            `json:"companyName,omitempty"`
}

// ProposalResponse carries the generated markdown proposal
type ProposalResponse struct {
	Proposal string `json:"proposal"`
}
