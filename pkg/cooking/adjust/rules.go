// Package adjust produces replacement step content for mid-cook fixes. A
// deterministic rule table keyed by problem kind is the primary source; a
// pluggable generative capability fills the gaps and a generic template is
// the last resort, so a stalled upstream can never fail a mutation.
package adjust

import (
	"fmt"

	"cooksession-be/internal/entity"
)

// Replacement is the proposed rewrite of one step.
type Replacement struct {
	Title    string   `json:"title"`
	Bullets  []string `json:"bullets"`
	Warnings []string `json:"warnings"`
}

type rule struct {
	titleSuffix string
	bullets     []string
	warnings    []string
	confidence  float64
}

// ruleTable holds the deterministic fixes. Bullet text is appended after the
// step's original bullets so the cook keeps the original instructions visible.
var ruleTable = map[entity.AdjustmentKind]rule{
	entity.AdjustTooSalty: {
		titleSuffix: "(fix: too salty)",
		bullets: []string{
			"Add a splash of water, unsalted stock, or cream to dilute",
			"Add an acid (lemon juice or vinegar) to balance the salt",
			"For soups and stews, add a peeled raw potato and simmer 10 min, then remove",
		},
		warnings:   []string{"Taste after each addition; it is easier to add than to take away"},
		confidence: 0.9,
	},
	entity.AdjustTooBland: {
		titleSuffix: "(fix: under-seasoned)",
		bullets: []string{
			"Add salt in small pinches, tasting between each",
			"Finish with an acid or fresh herbs to brighten the flavor",
		},
		confidence: 0.9,
	},
	entity.AdjustTooThick: {
		titleSuffix: "(fix: too thick)",
		bullets: []string{
			"Whisk in warm water or stock a few tablespoons at a time",
			"Keep the heat low while loosening to avoid scorching",
		},
		confidence: 0.9,
	},
	entity.AdjustTooThin: {
		titleSuffix: "(fix: too thin)",
		bullets: []string{
			"Simmer uncovered to reduce",
			"Or whisk in a slurry of 1 tsp cornstarch + 1 tbsp cold water, then boil 1 min",
		},
		warnings:   []string{"Slurry must reach a boil to thicken and lose raw starch taste"},
		confidence: 0.9,
	},
	entity.AdjustBurning: {
		titleSuffix: "(fix: burning)",
		bullets: []string{
			"Remove the pan from heat immediately",
			"Transfer unburnt contents to a clean pan; do not scrape the scorched layer",
			"Continue at a lower heat setting",
		},
		warnings:   []string{"Scorched flavor spreads if the burnt layer is stirred in"},
		confidence: 0.95,
	},
	entity.AdjustUndercooked: {
		titleSuffix: "(fix: undercooked)",
		bullets: []string{
			"Return to heat and extend cooking in small increments",
			"Cover the pan to trap heat if the outside is already browned",
		},
		confidence: 0.85,
	},
}

// genericReplacement is the deterministic last-resort template used when no
// rule matches and the generative capability is unavailable.
func genericReplacement(kind entity.AdjustmentKind, step entity.RecipeStep) Replacement {
	return Replacement{
		Title: fmt.Sprintf("%s (adjusted: %s)", step.Title, kind),
		Bullets: append(append([]string{}, step.Bullets...),
			fmt.Sprintf("Adjust for %s: proceed cautiously and taste as you go", kind)),
		Warnings: []string{"Automatic suggestion unavailable; generic guidance applied"},
	}
}

func fromRule(r rule, step entity.RecipeStep) Replacement {
	return Replacement{
		Title:    fmt.Sprintf("%s %s", step.Title, r.titleSuffix),
		Bullets:  append(append([]string{}, step.Bullets...), r.bullets...),
		Warnings: append([]string{}, r.warnings...),
	}
}

// BuildStepList returns a copy of steps with the step at index replaced.
func BuildStepList(steps []entity.RecipeStep, index int, rep Replacement) []entity.RecipeStep {
	out := make([]entity.RecipeStep, len(steps))
	copy(out, steps)
	out[index] = entity.RecipeStep{
		Title:      rep.Title,
		Bullets:    rep.Bullets,
		MinutesEst: steps[index].MinutesEst,
	}
	return out
}
