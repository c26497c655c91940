package adjust

import (
	"context"
	"errors"
	"testing"
	"time"

	"cooksession-be/internal/entity"
)

type stubGenerator struct {
	replacement *Replacement
	err         error
	calls       int
}

func (g *stubGenerator) Generate(ctx context.Context, req GenerateRequest) (*Replacement, error) {
	g.calls++
	return g.replacement, g.err
}

func stepFixture() entity.RecipeStep {
	m := 15
	return entity.RecipeStep{
		Title:      "Simmer the sauce",
		Bullets:    []string{"Bring to a boil", "Reduce heat"},
		MinutesEst: &m,
	}
}

func TestProposeUsesRuleWithoutContext(t *testing.T) {
	gen := &stubGenerator{}
	e := NewEngine(gen, time.Second, nil)

	p := e.Propose(context.Background(), GenerateRequest{
		Kind: entity.AdjustTooSalty,
		Step: stepFixture(),
	})

	if p.Source != entity.AdjustSourceRule {
		t.Fatalf("expected rule source, got %s", p.Source)
	}
	if gen.calls != 0 {
		t.Fatal("rule path must not call the generator")
	}
	// Rule fixes append after the original bullets.
	if len(p.Replacement.Bullets) <= len(stepFixture().Bullets) {
		t.Fatal("rule replacement must extend the original bullets")
	}
}

func TestProposeUsesGeneratorWhenContextGiven(t *testing.T) {
	gen := &stubGenerator{replacement: &Replacement{
		Title:   "Simmer the sauce (rescue)",
		Bullets: []string{"Thin with stock", "Taste and adjust"},
	}}
	e := NewEngine(gen, time.Second, nil)

	p := e.Propose(context.Background(), GenerateRequest{
		Kind:    entity.AdjustTooSalty,
		Step:    stepFixture(),
		Context: "I added soy sauce twice",
	})

	if p.Source != entity.AdjustSourceGenerated {
		t.Fatalf("expected generated source, got %s", p.Source)
	}
	if gen.calls != 1 {
		t.Fatalf("expected one generator call, got %d", gen.calls)
	}
}

func TestProposeFallsBackToRuleOnGeneratorError(t *testing.T) {
	gen := &stubGenerator{err: errors.New("upstream down")}
	e := NewEngine(gen, time.Second, nil)

	p := e.Propose(context.Background(), GenerateRequest{
		Kind:    entity.AdjustTooSalty,
		Step:    stepFixture(),
		Context: "context forces the generator",
	})

	if p.Source != entity.AdjustSourceRule {
		t.Fatalf("generator failure must degrade to the rule, got %s", p.Source)
	}
	if p.Confidence >= ruleTable[entity.AdjustTooSalty].confidence {
		t.Fatal("fallback confidence must be discounted below the rule's own")
	}
}

func TestProposeGenericForUnknownKind(t *testing.T) {
	gen := &stubGenerator{err: errors.New("upstream down")}
	e := NewEngine(gen, time.Second, nil)

	p := e.Propose(context.Background(), GenerateRequest{
		Kind: entity.AdjustmentKind("scorched_pan"),
		Step: stepFixture(),
	})

	if p.Source != entity.AdjustSourceGeneric {
		t.Fatalf("expected generic source for a kind with no rule, got %s", p.Source)
	}
	if len(p.Replacement.Bullets) == 0 {
		t.Fatal("generic replacement must still carry bullets")
	}
}

func TestProposeNilGeneratorNeverErrors(t *testing.T) {
	e := NewEngine(nil, time.Second, nil)

	p := e.Propose(context.Background(), GenerateRequest{
		Kind:    entity.AdjustBurning,
		Step:    stepFixture(),
		Context: "smoke everywhere",
	})

	if p.Source != entity.AdjustSourceRule {
		t.Fatalf("nil generator must degrade to the rule, got %s", p.Source)
	}
}

func TestBuildStepListReplacesOnlyTarget(t *testing.T) {
	steps := []entity.RecipeStep{
		{Title: "Prep", Bullets: []string{"Chop"}},
		stepFixture(),
		{Title: "Serve", Bullets: []string{"Plate"}},
	}

	rep := Replacement{Title: "Fixed simmer", Bullets: []string{"New instruction"}}
	out := BuildStepList(steps, 1, rep)

	if out[0].Title != "Prep" || out[2].Title != "Serve" {
		t.Fatal("neighbor steps must be untouched")
	}
	if out[1].Title != "Fixed simmer" {
		t.Fatalf("target step not replaced: %s", out[1].Title)
	}
	if out[1].MinutesEst == nil || *out[1].MinutesEst != 15 {
		t.Fatal("replacement must keep the original time estimate")
	}
	if steps[1].Title != "Simmer the sauce" {
		t.Fatal("input slice was mutated")
	}
}

func TestEveryRuleKindProducesWarningsAndBullets(t *testing.T) {
	for kind, r := range ruleTable {
		rep := fromRule(r, stepFixture())
		if len(rep.Bullets) == 0 {
			t.Fatalf("kind %s produced no bullets", kind)
		}
		if rep.Title == "" {
			t.Fatalf("kind %s produced no title", kind)
		}
	}
}
