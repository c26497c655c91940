package adjust

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"cooksession-be/pkg/llm"
)

// LLMGenerator implements Generator on top of the generic llm.LLMProvider.
type LLMGenerator struct {
	provider llm.LLMProvider
}

func NewLLMGenerator(provider llm.LLMProvider) *LLMGenerator {
	return &LLMGenerator{provider: provider}
}

const generatorSystemPrompt = `You are a practical cooking assistant. The cook flags a problem with the current recipe step. Rewrite the step to fix the problem.
Respond with ONLY a JSON object: {"title": string, "bullets": [string], "warnings": [string]}.
Keep the original intent of the step, keep bullets short and imperative, and include the original actions that are still needed.`

func (g *LLMGenerator) Generate(ctx context.Context, req GenerateRequest) (*Replacement, error) {
	prompt := fmt.Sprintf("Recipe: %s\nProblem: %s\nStep title: %s\nStep bullets:\n- %s",
		req.RecipeTitle, req.Kind, req.Step.Title, strings.Join(req.Step.Bullets, "\n- "))
	if req.Context != "" {
		prompt += "\nCook's note: " + req.Context
	}

	out, err := g.provider.Chat(ctx, []llm.Message{
		{Role: "system", Content: generatorSystemPrompt},
		{Role: "user", Content: prompt},
	}, llm.WithTemperature(0.3))
	if err != nil {
		return nil, fmt.Errorf("adjustment generation: %w", err)
	}

	// Models wrap JSON in code fences often enough that we strip them here.
	out = strings.TrimSpace(out)
	out = strings.TrimPrefix(out, "```json")
	out = strings.TrimPrefix(out, "```")
	out = strings.TrimSuffix(out, "```")

	var rep Replacement
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &rep); err != nil {
		return nil, fmt.Errorf("parse generated adjustment: %w", err)
	}
	if rep.Title == "" || len(rep.Bullets) == 0 {
		return nil, fmt.Errorf("generated adjustment incomplete")
	}
	return &rep, nil
}
