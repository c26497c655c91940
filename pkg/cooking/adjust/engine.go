package adjust

import (
	"context"
	"time"

	"cooksession-be/internal/entity"
	"cooksession-be/internal/pkg/logger"
)

// GenerateRequest is the input handed to the generative capability.
type GenerateRequest struct {
	Kind        entity.AdjustmentKind
	RecipeTitle string
	Step        entity.RecipeStep
	Context     string // optional free text from the cook
}

// Generator is the pluggable content-generation capability. Failure is
// expected and must be survivable; callers always have a deterministic
// fallback.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (*Replacement, error)
}

// Proposal carries the chosen replacement plus its provenance.
type Proposal struct {
	Replacement Replacement
	Source      entity.AdjustmentSource
	Confidence  float64
}

type Engine struct {
	generator Generator
	timeout   time.Duration
	logger    logger.ILogger
}

func NewEngine(generator Generator, timeout time.Duration, log logger.ILogger) *Engine {
	if timeout <= 0 {
		timeout = 4 * time.Second
	}
	return &Engine{
		generator: generator,
		timeout:   timeout,
		logger:    log,
	}
}

// Propose picks the replacement for one step. Resolution order:
//  1. rule table, when the kind has a rule and no free-text context narrows it
//  2. generative capability, bounded by the engine timeout
//  3. the matching rule (if any), else the generic template
//
// Step 3 means an upstream failure degrades source/confidence but never
// propagates as an error.
func (e *Engine) Propose(ctx context.Context, req GenerateRequest) Proposal {
	r, hasRule := ruleTable[req.Kind]

	if hasRule && req.Context == "" {
		return Proposal{
			Replacement: fromRule(r, req.Step),
			Source:      entity.AdjustSourceRule,
			Confidence:  r.confidence,
		}
	}

	if e.generator != nil {
		genCtx, cancel := context.WithTimeout(ctx, e.timeout)
		defer cancel()

		rep, err := e.generator.Generate(genCtx, req)
		if err == nil && rep != nil && len(rep.Bullets) > 0 {
			return Proposal{
				Replacement: *rep,
				Source:      entity.AdjustSourceGenerated,
				Confidence:  0.7,
			}
		}
		if e.logger != nil {
			e.logger.Warn("AdjustEngine", "Generator failed, using deterministic fallback", map[string]interface{}{
				"kind":  string(req.Kind),
				"error": err,
			})
		}
	}

	if hasRule {
		return Proposal{
			Replacement: fromRule(r, req.Step),
			Source:      entity.AdjustSourceRule,
			Confidence:  r.confidence * 0.9,
		}
	}

	return Proposal{
		Replacement: genericReplacement(req.Kind, req.Step),
		Source:      entity.AdjustSourceGeneric,
		Confidence:  0.4,
	}
}
