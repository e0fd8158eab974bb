package gateway

import (
	"encoding/json"
	"fmt"

	"github.com/Ak-9647/financial-MAS-Project/domain"
)

// Branch identifies which arm of the normalization cascade produced a
// result. Backend versions disagree on reply encoding, so each arm is
// tagged and testable on its own.
type Branch string

const (
	// BranchPassthrough: the reply carries no multi-message envelope;
	// the raw body is returned as the result.
	BranchPassthrough Branch = "passthrough"
	// BranchFallback: the last message text is not JSON; it is wrapped
	// in a fixed canonical shell.
	BranchFallback Branch = "fallback"
	// BranchReport: the last message text holds a final_report, mapped
	// field by field into the canonical shape.
	BranchReport Branch = "report"
	// BranchVerbatim: the last message text is JSON without a
	// final_report and is assumed already canonical-ish.
	BranchVerbatim Branch = "verbatim"
)

// Normalize coerces a raw coordinator reply body into the canonical
// result. The precedence order of the cascade is load-bearing and must
// not be reordered.
func Normalize(body []byte) (*domain.AnalysisResult, Branch) {
	var envelope domain.ReplyEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Messages) <= 1 {
		return passthrough(body), BranchPassthrough
	}

	// The reply is a conversation transcript; only the final turn
	// carries the result.
	last := envelope.Messages[len(envelope.Messages)-1]
	if len(last.Parts) == 0 || last.Parts[0].Text == "" {
		return passthrough(body), BranchPassthrough
	}
	text := []byte(last.Parts[0].Text)

	var payload domain.ReportPayload
	if err := json.Unmarshal(text, &payload); err != nil {
		return fallbackWrap(string(text)), BranchFallback
	}

	if payload.FinalReport != nil {
		return mapReport(&payload, text), BranchReport
	}
	return verbatim(text), BranchVerbatim
}

func passthrough(body []byte) *domain.AnalysisResult {
	var result domain.AnalysisResult
	// Best effort: the body may already carry canonical fields.
	_ = json.Unmarshal(body, &result)
	result.RawData = cloneRaw(body)
	return &result
}

func fallbackWrap(text string) *domain.AnalysisResult {
	return &domain.AnalysisResult{
		Summary:        text,
		Recommendation: "Analysis completed successfully",
		Confidence:     "High",
		KeyFindings:    []string{"Analysis completed", "Data processed successfully"},
	}
}

func verbatim(text []byte) *domain.AnalysisResult {
	var result domain.AnalysisResult
	_ = json.Unmarshal(text, &result)
	result.RawData = cloneRaw(text)
	return &result
}

func mapReport(payload *domain.ReportPayload, raw []byte) *domain.AnalysisResult {
	report := payload.FinalReport

	result := &domain.AnalysisResult{
		Summary:             report.ExecutiveSummary,
		Recommendation:      "Please review the detailed analysis",
		Confidence:          "Medium",
		KeyFindings:         report.KeyFindings,
		FinancialHighlights: report.FinancialHighlights,
		WorkflowSteps:       payload.WorkflowSteps,
		RawData:             cloneRaw(raw),
	}

	if result.Summary == "" {
		result.Summary = "Analysis completed successfully"
	}
	if rec := report.InvestmentRecommendation; rec != nil {
		result.Recommendation = fmt.Sprintf("%s - %s confidence (%s)", rec.Rating, rec.Confidence, rec.TimeHorizon)
		if rec.Confidence != "" {
			result.Confidence = rec.Confidence
		}
	}
	if len(result.KeyFindings) == 0 {
		result.KeyFindings = []string{"Analysis completed"}
	}
	if isPresent(report.DetailedAnalysis) {
		if pretty, err := json.MarshalIndent(report.DetailedAnalysis, "", "  "); err == nil {
			result.DetailedAnalysis = string(pretty)
		}
	}
	return result
}

func isPresent(raw json.RawMessage) bool {
	return len(raw) > 0 && string(raw) != "null"
}

func cloneRaw(b []byte) json.RawMessage {
	raw := make(json.RawMessage, len(b))
	copy(raw, b)
	return raw
}
