package usecase

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/rfpdesk/backend/internal/domain"
)

// Operation names, used for logging, metrics and the upstream request
const (
	OperationSummarize        = "summarize"
	OperationMatch            = "match"
	OperationGenerateProposal = "generate-proposal"
)

const summarizeSystemPrompt = `You are an expert RFP analyst specializing in FMEG (Fast-Moving Electrical Goods) products.
Analyze RFP documents and extract key information in a structured format.
Focus on: scope, specifications, quantities, deadlines, compliance requirements, and technical specifications.
Be concise but thorough.`

const summarizeUserPrompt = `Analyze this RFP and provide a comprehensive summary:

Title: %s

Content:
%s

Please provide:
1. Executive Summary (2-3 sentences)
2. Key Requirements (bullet points)
3. Product Specifications (energy ratings, certifications, technical specs)
4. Quantities Required
5. Submission Deadline
6. Compliance Requirements
7. Evaluation Criteria (if mentioned)
8. Recommended Products from our FMEG catalog`

const matchSystemPrompt = `You are an expert product matcher for FMEG (Fast-Moving Electrical Goods).
Match RFP requirements to products from the catalog.
Consider energy ratings, specifications, capacity, and compliance requirements.
Matching sensitivity: %s (0 = loose matching, 1 = strict matching).
Only reference SKUs that appear in the catalog.
Return ONLY valid JSON array, no markdown.`

const matchUserPrompt = `Match these RFP requirements to our product catalog:

Requirements:
%s

Product Catalog:
%s

Return a JSON array with this exact structure for each match:
[
  {
    "sku": "product SKU",
    "name": "product name",
    "matchScore": 0-100,
    "matchReason": "why this product matches",
    "gapAnalysis": "any gaps or concerns",
    "recommended": true/false
  }
]

Sort by matchScore descending. Include all potentially matching products.`

const proposalSystemPrompt = `You are an expert proposal writer for FMEG (Fast-Moving Electrical Goods) companies.
Generate professional, compelling RFP response proposals.
Use formal business language, highlight value propositions, and address all requirements.
Include sections: Executive Summary, Technical Compliance, Product Details, Pricing Summary, Warranty & Support, Implementation Timeline.`

const proposalUserPrompt = `Generate a comprehensive RFP response proposal with the following details:

Company: %s

RFP Summary:
%s

Matched Products:
%s

Pricing Details:
%s

Generate a complete, professional proposal response that:
1. Addresses all RFP requirements
2. Highlights product strengths and compliance
3. Provides clear pricing breakdown
4. Includes warranty and support commitments
5. Proposes implementation timeline
6. Adds value-added services

Format the response in clean, professional markdown.`

func buildSummarizePrompt(req *domain.SummarizeRequest) domain.ChatRequest {
	return domain.ChatRequest{
		Operation: OperationSummarize,
		Messages: []domain.ChatMessage{
			{Role: domain.RoleSystem, Content: summarizeSystemPrompt},
			{Role: domain.RoleUser, Content: fmt.Sprintf(summarizeUserPrompt, req.Title, req.Content)},
		},
	}
}

func buildMatchPrompt(requirements string, sensitivity float64, catalog *domain.Catalog) (domain.ChatRequest, error) {
	catalogJSON, err := json.MarshalIndent(catalog.Entries(), "", "  ")
	if err != nil {
		return domain.ChatRequest{}, fmt.Errorf("failed to encode catalog: %w", err)
	}

	return domain.ChatRequest{
		Operation: OperationMatch,
		Messages: []domain.ChatMessage{
			{Role: domain.RoleSystem, Content: fmt.Sprintf(matchSystemPrompt, strconv.FormatFloat(sensitivity, 'f', -1, 64))},
			{Role: domain.RoleUser, Content: fmt.Sprintf(matchUserPrompt, requirements, catalogJSON)},
		},
	}, nil
}

func buildProposalPrompt(req *domain.ProposalRequest, companyName string) (domain.ChatRequest, error) {
	products, err := json.MarshalIndent(req.MatchedProducts, "", "  ")
	if err != nil {
		return domain.ChatRequest{}, fmt.Errorf("failed to encode matched products: %w", err)
	}

	pricing := req.Pricing
	if pricing == nil {
		pricing = []domain.PricingLine{}
	}
	pricingJSON, err := json.MarshalIndent(pricing, "", "  ")
	if err != nil {
		return domain.ChatRequest{}, fmt.Errorf("failed to encode pricing: %w", err)
	}

	return domain.ChatRequest{
		Operation: OperationGenerateProposal,
		Messages: []domain.ChatMessage{
			{Role: domain.RoleSystem, Content: proposalSystemPrompt},
			{Role: domain.RoleUser, Content: fmt.Sprintf(proposalUserPrompt, companyName, req.Summary, products, pricingJSON)},
		},
	}, nil
}
