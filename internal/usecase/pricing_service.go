package usecase

import (
	"fmt"
	"strings"

	"github.com/rfpdesk/backend/internal/domain"
	"github.com/shopspring/decimal"
)

// DefaultUnitPrice applies to items submitted without a price whose SKU has
// no catalog list price
const DefaultUnitPrice = 500.0

// DefaultComplianceTests are added to a quote unless the caller overrides them
var DefaultComplianceTests = []domain.ComplianceTest{
	{Name: "BEE Energy Rating Certification", Cost: 1500},
	{Name: "ISI Mark Compliance", Cost: 1200},
	{Name: "Safety & Performance Testing", Cost: 2800},
}

// PricingService assembles the pricing breakdown used by proposals
type PricingService struct {
	catalog *domain.Catalog
}

// NewPricingService creates a pricing service that falls back to the
// catalog's list prices. A nil catalog leaves DefaultUnitPrice as the only
// fallback.
func NewPricingService(catalog *domain.Catalog) *PricingService {
	return &PricingService{catalog: catalog}
}

// Quote computes line totals, subtotals and the grand total in cents precision
func (s *PricingService) Quote(req *domain.QuoteRequest) (*domain.Quote, error) {
	if req == nil || len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: items must contain at least one product", domain.ErrInvalidRequest)
	}

	tests := req.Tests
	if tests == nil {
		tests = DefaultComplianceTests
	}

	quote := &domain.Quote{
		Items:   make([]domain.ProposedProduct, 0, len(req.Items)),
		Tests:   make([]domain.ComplianceTest, 0, len(tests)),
		Pricing: make([]domain.PricingLine, 0, len(req.Items)+len(tests)),
	}

	productSubtotal := decimal.Zero
	for i, item := range req.Items {
		if strings.TrimSpace(item.Name) == "" {
			return nil, fmt.Errorf("%w: items[%d].name is required", domain.ErrInvalidRequest, i)
		}
		if item.Quantity < 0 {
			return nil, fmt.Errorf("%w: items[%d].quantity must not be negative", domain.ErrInvalidRequest, i)
		}
		if item.UnitPrice < 0 {
			return nil, fmt.Errorf("%w: items[%d].unitPrice must not be negative", domain.ErrInvalidRequest, i)
		}

		quantity := item.Quantity
		if quantity == 0 {
			quantity = 1
		}
		unitPrice := decimal.NewFromFloat(item.UnitPrice)
		if unitPrice.IsZero() {
			unitPrice = s.listPrice(item.SKU)
		}
		unitPrice = unitPrice.Round(2)

		total := unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
		productSubtotal = productSubtotal.Add(total)

		quote.Items = append(quote.Items, domain.ProposedProduct{
			Name:      item.Name,
			SKU:       item.SKU,
			Quantity:  quantity,
			UnitPrice: unitPrice.InexactFloat64(),
			Total:     total.InexactFloat64(),
		})
		quote.Pricing = append(quote.Pricing, domain.PricingLine{
			Item: item.Name,
			Cost: total.InexactFloat64(),
		})
	}

	testSubtotal := decimal.Zero
	for i, test := range tests {
		if strings.TrimSpace(test.Name) == "" {
			return nil, fmt.Errorf("%w: tests[%d].name is required", domain.ErrInvalidRequest, i)
		}
		if test.Cost < 0 {
			return nil, fmt.Errorf("%w: tests[%d].cost must not be negative", domain.ErrInvalidRequest, i)
		}

		cost := decimal.NewFromFloat(test.Cost).Round(2)
		testSubtotal = testSubtotal.Add(cost)

		quote.Tests = append(quote.Tests, domain.ComplianceTest{Name: test.Name, Cost: cost.InexactFloat64()})
		quote.Pricing = append(quote.Pricing, domain.PricingLine{Item: test.Name, Cost: cost.InexactFloat64()})
	}

	quote.ProductSubtotal = productSubtotal.InexactFloat64()
	quote.TestSubtotal = testSubtotal.InexactFloat64()
	quote.GrandTotal = productSubtotal.Add(testSubtotal).InexactFloat64()

	return quote, nil
}

func (s *PricingService) listPrice(sku string) decimal.Decimal {
	if s.catalog != nil {
		if entry, ok := s.catalog.Lookup(sku); ok && entry.ListPrice > 0 {
			return decimal.NewFromFloat(entry.ListPrice)
		}
	}
	return decimal.NewFromFloat(DefaultUnitPrice)
}
