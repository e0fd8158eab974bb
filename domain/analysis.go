package domain

import "encoding/json"

// AnalysisResult is the canonical shape every coordinator reply is coerced
// into. Summary is always present; the rest is best-effort.
type AnalysisResult struct {
	Summary             string          `json:"summary"`
	Recommendation      string          `json:"recommendation,omitempty"`
	Confidence          string          `json:"confidence,omitempty"`
	KeyFindings         []string        `json:"keyFindings,omitempty"`
	DetailedAnalysis    string          `json:"detailedAnalysis,omitempty"`
	FinancialHighlights json.RawMessage `json:"financialHighlights,omitempty"`
	WorkflowSteps       json.RawMessage `json:"workflowSteps,omitempty"`
	RawData             json.RawMessage `json:"rawData,omitempty"`
}

// Part is one content part of an envelope message.
type Part struct {
	Text string `json:"text"`
}

// EnvelopeMessage is a role-tagged message in the coordinator protocol.
type EnvelopeMessage struct {
	Role  string `json:"role"`
	Parts []Part `json:"parts"`
}

// SubmitRequest is the request envelope sent to the coordinator.
type SubmitRequest struct {
	Message EnvelopeMessage `json:"message"`
}

// ReplyEnvelope is the multi-message reply from the coordinator. The reply
// is a conversation transcript; only the final message carries the result.
type ReplyEnvelope struct {
	Messages []EnvelopeMessage `json:"messages"`
}

// InvestmentRecommendation is the rating sub-object of a final report.
type InvestmentRecommendation struct {
	Rating      string `json:"rating"`
	Confidence  string `json:"confidence"`
	TimeHorizon string `json:"time_horizon"`
}

// FinalReport is the structured report some coordinator versions embed in
// the last message text.
type FinalReport struct {
	ExecutiveSummary         string                    `json:"executive_summary"`
	InvestmentRecommendation *InvestmentRecommendation `json:"investment_recommendation"`
	KeyFindings              []string                  `json:"key_findings"`
	DetailedAnalysis         json.RawMessage           `json:"detailed_analysis"`
	FinancialHighlights      json.RawMessage           `json:"financial_highlights"`
}

// ReportPayload is the top-level parsed last-message payload.
type ReportPayload struct {
	FinalReport   *FinalReport    `json:"final_report"`
	WorkflowSteps json.RawMessage `json:"workflow_steps"`
}
