package domain

// QuoteItem is a product line submitted for pricing
type QuoteItem struct {
	Name      string  `json:"name" binding:"required"`
	SKU       string  `json:"sku"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

// ComplianceTest is a certification or testing cost added to every quote
type ComplianceTest struct {
	Name string  `json:"name"`
	Cost float64 `json:"cost"`
}

// QuoteRequest asks for a pricing breakdown. A nil Tests list means the
// standard compliance tests apply; an empty list means none.
type QuoteRequest struct {
	Items []QuoteItem      `json:"items" binding:"required,min=1,dive"`
	Tests []ComplianceTest `json:"tests"`
}

// Quote is the computed pricing breakdown. Pricing is shaped for ProposalRequest.
type Quote struct {
	Items           []ProposedProduct `json:"items"`
	Tests           []ComplianceTest  `json:"tests"`
	ProductSubtotal float64           `json:"productSubtotal"`
	TestSubtotal    float64           `json:"testSubtotal"`
	GrandTotal      float64           `json:"grandTotal"`
	Pricing         []PricingLine     `json:"pricing"`
}
