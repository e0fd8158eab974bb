// Package policy gates analysis submissions through an OPA policy.
package policy

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/ast"
	"github.com/open-policy-agent/opa/rego"
)

// Engine is the OPA policy engine for query admission.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a new policy engine with the given policy content.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.query_policy.decision"),
		rego.Module("query_policy.rego", policyContent),
		rego.SetRegoVersion(ast.RegoV1),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// Evaluate checks a submission against the query policy. Input carries
// the query text and length. Returns the decision (allow or block).
func (e *Engine) Evaluate(ctx context.Context, input interface{}) (string, error) {
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return "", fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		// The policy defines a default; an empty result means it was
		// bypassed entirely.
		return "allow", nil
	}

	if s, ok := results[0].Expressions[0].Value.(string); ok {
		return s, nil
	}
	return "allow", nil
}

// QueryInput is the policy input for one submission.
type QueryInput struct {
	Query  string `json:"query"`
	Length int    `json:"length"`
}

// DefaultPolicy is the default query admission policy: allow everything
// except blank or oversized queries.
const DefaultPolicy = `
package query_policy

default decision = "allow"

decision = "block" if {
	trim_space(input.query) == ""
}

decision = "block" if {
	input.length > 2000
}
`
