package engine

import (
	"errors"
	"math"
	"testing"

	"github.com/hailam/minichess/internal/board"
	"github.com/hailam/minichess/internal/game"
)

func mustState(t *testing.T, fen string) *game.State {
	t.Helper()
	st, err := game.FromFEN(fen)
	if err != nil {
		t.Fatalf("FromFEN(%q): %v", fen, err)
	}
	return st
}

func TestStartPositionIsBalanced(t *testing.T) {
	snap := game.New().Snapshot()

	for _, id := range HeuristicIDs() {
		h, err := LookupHeuristic(id)
		if err != nil {
			t.Fatal(err)
		}
		if got := h.Evaluate(snap, board.Light); got != 0 {
			t.Errorf("%s: start position = %v, want 0", id, got)
		}
	}
}

func TestMaterial(t *testing.T) {
	// Dark is missing its queen
	snap := mustState(t, "rnb1kbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w - - 0 1").Snapshot()

	if got := Material(snap, board.Light); got != 900 {
		t.Errorf("Material(Light) = %v, want 900", got)
	}
	if got := Material(snap, board.Dark); got != -900 {
		t.Errorf("Material(Dark) = %v, want -900", got)
	}
}

func TestKingSafetyPrefersShelter(t *testing.T) {
	sheltered := mustState(t, "r5k1/5ppp/8/8/8/8/5PPP/R2Q2K1 w - - 0 1").Snapshot()
	exposed := mustState(t, "r5k1/5ppp/8/8/8/8/8/R2Q2K1 w - - 0 1").Snapshot()

	s := KingSafety(sheltered, board.Light)
	e := KingSafety(exposed, board.Light)
	t.Logf("sheltered=%.1f exposed=%.1f", s, e)
	if s <= e {
		t.Errorf("sheltered king (%v) should score above exposed king (%v)", s, e)
	}
}

func TestKingSafetyCentralizesInEndgame(t *testing.T) {
	snap := mustState(t, "8/8/8/8/4K3/8/8/k7 w - - 0 1").Snapshot()

	if got := KingSafety(snap, board.Light); got <= 0 {
		t.Errorf("central king should score above cornered king, got %v", got)
	}
}

func TestHeuristicsAreAntisymmetric(t *testing.T) {
	fens := []string{
		"r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w - - 2 3",
		"r5k1/5ppp/8/8/8/8/5PPP/R2Q2K1 w - - 0 1",
		"8/8/8/8/4K3/8/8/k7 w - - 0 1",
	}
	for _, fen := range fens {
		snap := mustState(t, fen).Snapshot()
		for _, id := range HeuristicIDs() {
			h, _ := LookupHeuristic(id)
			light := h.Evaluate(snap, board.Light)
			dark := h.Evaluate(snap, board.Dark)
			if math.Abs(light+dark) > 1e-9 {
				t.Errorf("%s on %q: light=%v dark=%v", id, fen, light, dark)
			}
		}
	}
}

func TestBreakdown(t *testing.T) {
	snap := mustState(t, "r5k1/5ppp/8/8/8/8/5PPP/R2Q2K1 w - - 0 1").Snapshot()

	bd := Breakdown(snap, board.Light)
	if bd.Material != Material(snap, board.Light) {
		t.Errorf("Material = %v, want %v", bd.Material, Material(snap, board.Light))
	}
	if bd.KingSafety != KingSafety(snap, board.Light) {
		t.Errorf("KingSafety = %v, want %v", bd.KingSafety, KingSafety(snap, board.Light))
	}
	if bd.Composite != MaterialKing(snap, board.Light) {
		t.Errorf("Composite = %v, want %v", bd.Composite, MaterialKing(snap, board.Light))
	}
}

func TestLookupHeuristic(t *testing.T) {
	for _, id := range []string{MaterialID, KingSafetyID, MaterialKingID} {
		h, err := LookupHeuristic(id)
		if err != nil {
			t.Errorf("LookupHeuristic(%q): %v", id, err)
			continue
		}
		if h.ID() != id {
			t.Errorf("ID() = %q, want %q", h.ID(), id)
		}
	}

	_, err := LookupHeuristic("mobility")
	if !errors.Is(err, ErrUnknownHeuristic) {
		t.Errorf("expected ErrUnknownHeuristic, got %v", err)
	}
}

func TestEvaluateRecoversPanic(t *testing.T) {
	h := Heuristic{
		Kind: HeuristicMaterial,
		Eval: func(game.Snapshot, board.Side) float64 { panic("broken") },
	}

	if got := h.Evaluate(game.New().Snapshot(), board.Light); got != 0 {
		t.Errorf("panicking heuristic scored %v, want 0", got)
	}
}

func TestJitterStaysInRange(t *testing.T) {
	h, _ := LookupHeuristic(MaterialID)
	h = h.WithJitter(5)
	snap := game.New().Snapshot()

	for i := 0; i < 100; i++ {
		if got := h.Evaluate(snap, board.Light); got < -5 || got > 5 {
			t.Fatalf("jittered score %v outside [-5, 5]", got)
		}
	}
}

func TestOrderMovesCapturesFirst(t *testing.T) {
	st := mustState(t, "4k3/p7/8/3q4/4P3/8/8/Q3K3 w - - 0 1")
	moves := st.LegalMoves()
	orderMoves(st, moves)

	want := []string{"e4d5", "a1a7"}
	for i, w := range want {
		if moves[i].String() != w {
			t.Errorf("moves[%d] = %s, want %s", i, moves[i], w)
		}
	}
}
