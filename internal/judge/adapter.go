// Package judge adapts the eligibility engine to an external natural-language
// reasoning service. The service sees deterministic facts as ground truth and
// contributes only non-numeric condition checks and priority-tier matching;
// its numeric claims are never trusted downstream.
package judge

import (
	"context"
	"encoding/json"
	"log/slog"

	"houscan/internal/analysis"
	"houscan/pkg/platform/circuit"
)

// Adapter implements analysis.Judge over a ChatClient.
type Adapter struct {
	client  ChatClient
	breaker *circuit.Breaker
	logger  *slog.Logger
}

func NewAdapter(client ChatClient, logger *slog.Logger) *Adapter {
	return &Adapter{client: client, breaker: circuit.New("judge"), logger: logger}
}

// Judge makes exactly one outbound call per invocation. Transport errors
// (including rate limiting) propagate unchanged to the controller for
// classification, so every failed judgment still leaves an error-tagged
// verdict behind; a response that arrives but cannot be decoded degrades to
// an adapter-error judgment instead, because a malformed response must never
// crash a run. A circuit breaker tracks consecutive transport failures so a
// sustained outage is visible as one opened/closed log pair rather than a
// wall of identical errors.
func (a *Adapter) Judge(ctx context.Context, req analysis.JudgeRequest) (analysis.Judgment, error) {
	raw, err := a.client.Complete(ctx, systemPrompt, buildPrompt(req))
	if err != nil {
		if _, change := a.breaker.RecordFailure(); change.Opened {
			a.logger.WarnContext(ctx, "judge circuit opened",
				"breaker", a.breaker.Name(),
				"error", err.Error(),
			)
		}
		return analysis.Judgment{}, err
	}
	if _, change := a.breaker.RecordSuccess(); change.Closed {
		a.logger.InfoContext(ctx, "judge circuit closed", "breaker", a.breaker.Name())
	}

	judgment, ok := parseJudgment(raw)
	if !ok {
		a.logger.WarnContext(ctx, "judgment response unparsable",
			"announcement_id", req.Announce.ID,
			"response_prefix", truncate(raw, 120),
		)
		return analysis.Judgment{
			Eligible: false,
			Priority: "",
			Reasons:  []string{"AI 응답 해석 오류로 자격을 판단하지 못했습니다."},
		}, nil
	}
	return judgment, nil
}

// parseJudgment extracts the first balanced JSON object from the raw
// response, strips control characters, and decodes it.
func parseJudgment(raw string) (analysis.Judgment, bool) {
	block := firstJSONObject(raw)
	if block == "" {
		return analysis.Judgment{}, false
	}

	var judgment analysis.Judgment
	if err := json.Unmarshal([]byte(stripControlChars(block)), &judgment); err != nil {
		return analysis.Judgment{}, false
	}
	return judgment, true
}
