// Package extract turns free-form model output into a résumé record. It runs
// a fixed, ordered list of recovery strategies and stops at the first one
// that yields a document with the résumé shape.
package extract

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/nikogura/resume-builder/pkg/resume"
)

// Strategy names, in the order they run.
const (
	StrategyWhole = "whole"
	StrategyFence = "fence"
	StrategyBrace = "brace"
	StrategyScan  = "scan"
)

// Result is a successful extraction.
type Result struct {
	Record   resume.Record
	Strategy string
	// Repairs lists the repair patterns applied to the winning candidate.
	Repairs []string
}

type strategy struct {
	name       string
	candidates func(text string) []string
	repair     bool
}

// Extractor is safe for concurrent use.
type Extractor struct {
	logger     *zap.Logger
	strategies []strategy
	repairs    []RepairPattern
}

// NewExtractor creates an extractor. A nil logger discards output.
func NewExtractor(logger *zap.Logger) (x *Extractor) {
	if logger == nil {
		logger = zap.NewNop()
	}

	x = &Extractor{
		logger: logger,
		strategies: []strategy{
			{name: StrategyWhole, candidates: wholeText},
			{name: StrategyFence, candidates: fencedBodies},
			{name: StrategyBrace, candidates: outermostBraces, repair: true},
			{name: StrategyScan, candidates: balancedBlocks, repair: true},
		},
		repairs: buildRepairPatterns(),
	}

	return x
}

// Extract returns the first candidate, across all strategies in order, that
// parses as a JSON object with a "contact" object. On failure it returns an
// *UnparsableOutputError.
func (x *Extractor) Extract(raw string) (result Result, err error) {
	if strings.TrimSpace(raw) == "" {
		err = &UnparsableOutputError{Length: len(raw), Reasons: []string{"empty output"}}
		return result, err
	}

	reasons := []string{}

	for _, s := range x.strategies {
		candidates := s.candidates(raw)
		if len(candidates) == 0 {
			reasons = append(reasons, fmt.Sprintf("%s: no candidate", s.name))
			continue
		}

		var lastReason string
		for _, c := range candidates {
			rec, repairs, reason := x.accept(c, s.repair)
			if reason != "" {
				lastReason = reason
				continue
			}

			x.logger.Debug("extracted record",
				zap.String("strategy", s.name),
				zap.Strings("repairs", repairs),
			)

			result = Result{Record: rec, Strategy: s.name, Repairs: repairs}
			return result, err
		}

		x.logger.Debug("extraction strategy failed",
			zap.String("strategy", s.name),
			zap.Int("candidates", len(candidates)),
			zap.String("reason", lastReason),
		)
		reasons = append(reasons, fmt.Sprintf("%s: %s", s.name, lastReason))
	}

	err = &UnparsableOutputError{Length: len(raw), Reasons: reasons}

	return result, err
}

// accept decodes one candidate, repairing it once if allowed. A non-empty
// reason means the candidate was rejected.
func (x *Extractor) accept(candidate string, repair bool) (rec resume.Record, repairs []string, reason string) {
	repairs = []string{}
	text := candidate

	if !gjson.Valid(text) {
		if !repair {
			reason = "invalid JSON"
			return rec, repairs, reason
		}

		text, repairs = applyRepairs(text, x.repairs)
		if len(repairs) == 0 || !gjson.Valid(text) {
			reason = "invalid JSON after repair"
			return rec, repairs, reason
		}
	}

	var err error
	rec, err = resume.Decode([]byte(text))
	if err != nil {
		reason = err.Error()
		return rec, repairs, reason
	}

	return rec, repairs, reason
}
