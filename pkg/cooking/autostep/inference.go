// Package autostep infers which step the cook is actually on from the
// session's recent event stream. Scoring is a pure function over (events,
// session, now) with no I/O, so it runs synchronously after every mutation.
package autostep

import (
	"fmt"
	"math"
	"sort"
	"time"

	"cooksession-be/internal/entity"
)

// Tunable scoring parameters. The point values and decay constant were chosen
// empirically; they are validated by the scenario tests, not derived from a
// model. Keep them behind this config rather than inlining literals.
type Config struct {
	// Window bounds how far back events contribute signal.
	Window time.Duration
	// DecayTau controls the exponential recency weight exp(-age/tau).
	DecayTau time.Duration
	// JumpThreshold is the minimum confidence for an auto-jump.
	JumpThreshold float64
	// OverrideCap caps confidence while a manual-override window is active.
	OverrideCap float64
	// ManualOverrideWindow is how long auto-jump stays suppressed after an
	// explicit navigation.
	ManualOverrideWindow time.Duration
}

func DefaultConfig() Config {
	return Config{
		Window:               15 * time.Minute,
		DecayTau:             6 * time.Minute,
		JumpThreshold:        0.80,
		OverrideCap:          0.55,
		ManualOverrideWindow: 90 * time.Second,
	}
}

// Base points per event type. Timer starts are the strongest commitment
// signal; bare navigation is the weakest.
const (
	pointsTimerStart = 5.0
	pointsAdjust     = 4.0
	pointsServings   = 4.0
	pointsChecklist  = 3.0
	pointsTimerSetup = 3.0
	pointsNavigate   = 2.0

	confidenceFloor = 0.35
	confidenceCeil  = 0.95
)

func basePoints(t entity.EventType) float64 {
	switch t {
	case entity.EventTimerStart:
		return pointsTimerStart
	case entity.EventAdjustApply, entity.EventAdjustUndo:
		return pointsAdjust
	case entity.EventServingsChange:
		return pointsServings
	case entity.EventCheckStep, entity.EventUncheckStep:
		return pointsChecklist
	case entity.EventTimerCreate, entity.EventTimerPause, entity.EventTimerDone:
		return pointsTimerSetup
	case entity.EventStepNavigate:
		return pointsNavigate
	default:
		return 0
	}
}

// Signal is one event's contribution to the score, kept for the "why" view.
type Signal struct {
	EventType  entity.EventType `json:"event_type"`
	StepIndex  int              `json:"step_index"`
	AgeSeconds float64          `json:"age_seconds"`
	Weight     float64          `json:"weight"`
	Points     float64          `json:"points"`
}

// Suggestion is the inference result applied back onto the session.
type Suggestion struct {
	Index      *int     `json:"index"`
	Confidence float64  `json:"confidence"`
	Reason     string   `json:"reason"`
	Signals    []Signal `json:"signals"`
}

type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Infer scores the recent events and returns the suggested step. When no
// event inside the window carries a step index, the session's previous
// suggestion is returned untouched: absence of signal is not a signal.
func (e *Engine) Infer(sess *entity.Session, events []*entity.Event, now time.Time) Suggestion {
	scores := make(map[int]float64)
	var signals []Signal

	for _, ev := range events {
		if ev.StepIndex == nil {
			continue
		}
		age := now.Sub(ev.CreatedAt)
		if age < 0 || age > e.cfg.Window {
			continue
		}
		points := basePoints(ev.Type)
		if points == 0 {
			continue
		}
		weight := math.Exp(-age.Minutes() / e.cfg.DecayTau.Minutes())
		scores[*ev.StepIndex] += points * weight
		signals = append(signals, Signal{
			EventType:  ev.Type,
			StepIndex:  *ev.StepIndex,
			AgeSeconds: age.Seconds(),
			Weight:     weight,
			Points:     points,
		})
	}

	if len(scores) == 0 {
		return Suggestion{
			Index:      sess.AutoStepSuggestedIndex,
			Confidence: sess.AutoStepConfidence,
			Reason:     sess.AutoStepReason,
		}
	}

	type ranked struct {
		step  int
		score float64
	}
	order := make([]ranked, 0, len(scores))
	for step, score := range scores {
		order = append(order, ranked{step, score})
	}
	sort.Slice(order, func(i, j int) bool {
		if order[i].score != order[j].score {
			return order[i].score > order[j].score
		}
		return order[i].step < order[j].step
	})

	best := order[0]
	second := 0.0
	if len(order) > 1 {
		second = order[1].score
	}

	confidence := best.score / (best.score + second + 1.0)
	confidence = clamp(confidence, confidenceFloor, confidenceCeil)

	reason := fmt.Sprintf("recent activity concentrated on step %d (score %.2f vs %.2f)", best.step, best.score, second)
	if sess.ManualOverrideActive(now) {
		if confidence > e.cfg.OverrideCap {
			confidence = e.cfg.OverrideCap
		}
		reason += "; capped by manual navigation"
	}

	idx := best.step
	return Suggestion{
		Index:      &idx,
		Confidence: confidence,
		Reason:     reason,
		Signals:    signals,
	}
}

// ShouldAutoJump gates moving current_step_index to the suggestion.
func (e *Engine) ShouldAutoJump(sess *entity.Session, sug Suggestion, now time.Time) bool {
	return sess.AutoStepEnabled &&
		sess.AutoStepMode == entity.AutoStepModeAutoJump &&
		sug.Index != nil &&
		*sug.Index != sess.CurrentStepIndex &&
		sug.Confidence >= e.cfg.JumpThreshold &&
		!sess.ManualOverrideActive(now)
}

// ManualOverrideWindow exposes the configured suppression window so the
// session service can stamp manual_override_until on explicit navigation.
func (e *Engine) ManualOverrideWindow() time.Duration {
	return e.cfg.ManualOverrideWindow
}

// Window exposes the scoring window so callers fetch exactly the events
// that can contribute signal.
func (e *Engine) Window() time.Duration {
	return e.cfg.Window
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
