package engine

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Platopotato/TRIBES-sub000/internal/social"
	"github.com/Platopotato/TRIBES-sub000/internal/world"
)

var tracer = otel.Tracer("github.com/Platopotato/TRIBES-sub000/internal/engine")

// phase is one named step of the turn pipeline.
type phase struct {
	name string
	run  func(ctx context.Context) error
}

// ProcessTurn resolves one turn and returns the next snapshot. The input
// is never modified. An error is returned only for a nil state or a
// cancelled context; in both cases no snapshot is produced.
//
// Pipeline:
//
//	normalize → AI orders → reset logs → per-tribe actions and upkeep →
//	journeys → proposals → elimination → reset orders → history
func (p *Processor) ProcessTurn(ctx context.Context, prev *GameState) (*GameState, error) {
	if prev == nil {
		return nil, ErrNilState
	}
	proc := *p
	proc.defaults()

	state, err := prev.Clone()
	if err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "engine.ProcessTurn", trace.WithAttributes(
		attribute.Int("turn", state.Turn),
		attribute.Int("tribes", len(state.Tribes)),
		attribute.Int("journeys", len(state.Journeys)),
	))
	defer span.End()

	t := &turn{
		Processor: &proc,
		state:     state,
		number:    state.Turn,
		log:       proc.Logger.With("turn", state.Turn),
	}
	phases := []phase{
		{"normalize", t.normalize},
		{"ai", t.planAI},
		{"reset_logs", t.resetLogs},
		{"actions", t.resolveTribes},
		{"journeys", t.advanceJourneys},
		{"proposals", t.reconcileProposals},
		{"elimination", t.removeEliminated},
		{"reset_orders", t.resetOrders},
		{"history", t.recordHistory},
	}
	for _, ph := range phases {
		if err := ctx.Err(); err != nil {
			span.SetStatus(codes.Error, "cancelled")
			return nil, err
		}
		pctx, ps := tracer.Start(ctx, "phase."+ph.name)
		err := ph.run(pctx)
		ps.End()
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, ph.name)
			t.log.Warn("turn aborted", "phase", ph.name, "error", err)
			return nil, err
		}
	}

	state.Turn++
	st := state.Summarize()
	t.log.Info("turn processed",
		"next_turn", state.Turn,
		"tribes", st.Tribes,
		"journeys", st.Journeys,
		"troops", st.Troops,
	)
	return state, nil
}

// normalize repairs decoded snapshots so later phases can assume
// well-formed data. Coordinates are already canonical once decoded.
func (t *turn) normalize(context.Context) error {
	if t.state.Map == nil {
		t.state.Map = world.NewMap(0)
	}
	var tribes []*social.Tribe
	for _, tr := range t.state.Tribes {
		if tr == nil {
			continue
		}
		tr.EnsureMaps()
		tr.RationLevel = tr.RationLevel.Normalize()
		tr.ClampResources()
		tribes = append(tribes, tr)
	}
	t.state.Tribes = tribes

	var journeys []*Journey
	for _, j := range t.state.Journeys {
		if j == nil {
			continue
		}
		if len(j.Path) == 0 || j.Path[0] != j.CurrentLocation {
			j.Path = append([]world.HexCoord{j.CurrentLocation}, j.Path...)
		}
		if j.ID == "" {
			j.ID = t.NewID()
		}
		journeys = append(journeys, j)
	}
	t.state.Journeys = journeys
	return nil
}

// planAI fills the orders of computer tribes that have not submitted.
func (t *turn) planAI(context.Context) error {
	if t.AI == nil {
		return nil
	}
	for _, tr := range t.state.Tribes {
		if !tr.IsAI || tr.TurnSubmitted || tr.Eliminated {
			continue
		}
		t.guard(tr, "AI planning", func() string {
			tr.Actions = t.AI.GenerateActions(tr, t.state.Tribes, t.state.Map, t.number)
			return ""
		})
	}
	return nil
}

// resetLogs clears every tribe's results before any tribe resolves, so
// reports written into another tribe's log survive the pass.
func (t *turn) resetLogs(context.Context) error {
	for _, tr := range t.state.Tribes {
		tr.LastTurnResults = nil
	}
	return nil
}

// resolveTribes runs each tribe's queued orders then its upkeep. Every
// order yields exactly one result under a unique id.
func (t *turn) resolveTribes(ctx context.Context) error {
	for _, tr := range t.state.Tribes {
		if err := ctx.Err(); err != nil {
			return err
		}
		if tr.Eliminated {
			continue
		}
		seen := make(map[string]bool, len(tr.Actions))
		for _, a := range tr.Actions {
			if a.ID == "" || seen[a.ID] {
				a.ID = t.NewID()
			}
			seen[a.ID] = true
			result := t.guard(tr, string(a.ActionType), func() string {
				return t.runAction(tr, a)
			})
			tr.Log(social.ActionResult{
				ID:         a.ID,
				ActionType: a.ActionType,
				ActionData: a.ActionData,
				Result:     result,
			})
		}
		t.guard(tr, "Upkeep", func() string {
			t.upkeep(tr)
			return ""
		})
	}
	return nil
}

// resetOrders clears queued orders for the next planning round.
func (t *turn) resetOrders(context.Context) error {
	for _, tr := range t.state.Tribes {
		tr.Actions = nil
		tr.TurnSubmitted = false
		tr.PruneGarrisons()
		tr.ClampResources()
	}
	return nil
}

func (t *turn) recordHistory(context.Context) error {
	rec := social.TurnHistoryRecord{Turn: t.number}
	for _, tr := range t.state.Tribes {
		troops, _, _ := tr.Totals()
		rec.TribeRecords = append(rec.TribeRecords, social.TribeRecord{
			TribeID:   tr.ID,
			Score:     social.Score(tr),
			Troops:    troops,
			Garrisons: tr.ActiveGarrisons(),
		})
	}
	t.state.History = append(t.state.History, rec)
	return nil
}
