package engine

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/hailam/minichess/internal/board"
	"github.com/hailam/minichess/internal/game"
)

const backRankMate = "6k1/5ppp/8/8/8/8/8/R6K w - - 0 1"

func TestMateInOne(t *testing.T) {
	st := mustState(t, backRankMate)

	res, err := GetBestMove(st, SearchOptions{Depth: 2, Heuristic: MaterialID})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Found || res.Move.String() != "a1a8" {
		t.Fatalf("best move = %v (found=%v), want a1a8", res.Move, res.Found)
	}
	if res.Stats.Score != MateScore {
		t.Errorf("score = %v, want %v", res.Stats.Score, MateScore)
	}
}

func TestTerminalScoring(t *testing.T) {
	st := mustState(t, backRankMate)
	mated := st.Branch()
	mated.Play(board.NewMove(board.Sq(7, 0), board.Sq(0, 0)))
	if mated.Status() != game.Checkmate {
		t.Fatalf("status = %v, want checkmate", mated.Status())
	}

	h, _ := LookupHeuristic(MaterialID)
	inf := math.Inf(1)

	if got := Minimax(mated, 3, -inf, inf, false, h, board.Light, time.Time{}); got != MateScore {
		t.Errorf("mating side scores %v, want %v", got, MateScore)
	}
	if got := Minimax(mated, 3, -inf, inf, true, h, board.Dark, time.Time{}); got != -MateScore {
		t.Errorf("mated side scores %v, want %v", got, -MateScore)
	}
}

func TestStalemateScoresZero(t *testing.T) {
	st := mustState(t, "k7/8/1Q6/8/8/8/8/7K b - - 0 1")
	if st.Status() != game.Stalemate {
		t.Fatalf("status = %v, want stalemate", st.Status())
	}

	h, _ := LookupHeuristic(MaterialID)
	if got := FullMinimax(st, 2, true, h, board.Dark, time.Time{}); got != 0 {
		t.Errorf("stalemate scored %v, want 0", got)
	}
}

func TestWinsHangingRook(t *testing.T) {
	st := mustState(t, "k7/8/8/3r4/8/8/3Q4/K7 w - - 0 1")

	res, err := GetBestMove(st, SearchOptions{Depth: 2, Heuristic: MaterialID})
	if err != nil {
		t.Fatal(err)
	}
	if res.Move.String() != "d2d5" {
		t.Errorf("best move = %v, want d2d5", res.Move)
	}
	if res.Stats.Score != 900 {
		t.Errorf("score = %v, want 900", res.Stats.Score)
	}
}

func TestAlphaBetaMatchesMinimax(t *testing.T) {
	fens := []string{
		board.StartFEN,
		"r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w - - 2 3",
		"k7/8/8/3r4/8/8/3Q4/K7 w - - 0 1",
		backRankMate,
	}

	for _, fen := range fens {
		for _, depth := range []int{2, 3} {
			st := mustState(t, fen)
			opts := SearchOptions{Depth: depth, Heuristic: MaterialKingID}

			pruned, err := GetBestMove(st, opts)
			if err != nil {
				t.Fatal(err)
			}
			opts.DisablePruning = true
			full, err := GetBestMove(st, opts)
			if err != nil {
				t.Fatal(err)
			}

			if pruned.Move != full.Move || pruned.Stats.Score != full.Stats.Score {
				t.Errorf("%q depth %d: alpha-beta %v (%v), minimax %v (%v)",
					fen, depth, pruned.Move, pruned.Stats.Score, full.Move, full.Stats.Score)
			}
			if pruned.Stats.Nodes > full.Stats.Nodes {
				t.Errorf("%q depth %d: pruning visited more nodes (%d > %d)",
					fen, depth, pruned.Stats.Nodes, full.Stats.Nodes)
			}
			t.Logf("%q depth %d: %d vs %d nodes", fen, depth, pruned.Stats.Nodes, full.Stats.Nodes)
		}
	}
}

func TestSearchDoesNotModifyState(t *testing.T) {
	st := mustState(t, "r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w - - 2 3")
	before := st.FEN()

	if _, err := GetBestMove(st, SearchOptions{Depth: 2, Heuristic: MaterialKingID}); err != nil {
		t.Fatal(err)
	}
	if after := st.FEN(); after != before {
		t.Errorf("state changed: %q -> %q", before, after)
	}
}

func TestNoLegalMoves(t *testing.T) {
	st := mustState(t, "R5k1/5ppp/8/8/8/8/8/7K b - - 0 1")

	res, err := GetBestMove(st, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if res.Found {
		t.Errorf("expected no move, got %v", res.Move)
	}
}

func TestSingleLegalMove(t *testing.T) {
	st := mustState(t, "k7/8/8/8/8/8/1r6/K1r5 w - - 0 1")

	res, err := GetBestMove(st, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if !res.Found || res.Move.String() != "a1b2" {
		t.Errorf("best move = %v, want a1b2", res.Move)
	}
	if res.Stats.Nodes != 0 {
		t.Errorf("forced move should not search, visited %d nodes", res.Stats.Nodes)
	}
}

func TestTimeout(t *testing.T) {
	st := game.New()

	start := time.Now()
	res, err := GetBestMove(st, SearchOptions{Depth: 6, Heuristic: MaterialKingID, TimeLimit: time.Nanosecond})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Found {
		t.Fatal("timed out search must still return a move")
	}
	if !res.Stats.TimedOut {
		t.Error("expected TimedOut")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("search overran its deadline by %v", elapsed)
	}
	if !board.ContainsMove(st.LegalMoves(), res.Move) {
		t.Errorf("returned move %v is not legal", res.Move)
	}
}

func TestUnknownHeuristic(t *testing.T) {
	_, err := GetBestMove(game.New(), SearchOptions{Depth: 2, Heuristic: "nope"})
	if !errors.Is(err, ErrUnknownHeuristic) {
		t.Errorf("expected ErrUnknownHeuristic, got %v", err)
	}
}

func TestRootScores(t *testing.T) {
	st := game.New()

	res, err := GetBestMove(st, SearchOptions{Depth: 1, Heuristic: MaterialID})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Stats.RootScores) != 20 {
		t.Fatalf("expected 20 root scores, got %d", len(res.Stats.RootScores))
	}
	// No captures at depth 1, so the first ordered move wins the tie
	if res.Move != res.Stats.RootScores[0].Move {
		t.Errorf("tie should keep the first move, got %v want %v", res.Move, res.Stats.RootScores[0].Move)
	}
}

func TestStartPositionDepth2(t *testing.T) {
	st := game.New()

	res, err := GetBestMove(st, SearchOptions{Depth: 2, Heuristic: MaterialID})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Found || !board.ContainsMove(st.LegalMoves(), res.Move) {
		t.Fatalf("best move %v is not a legal opening move", res.Move)
	}
	if res.Stats.Nodes == 0 {
		t.Error("expected a non-zero node count")
	}
	if math.IsInf(res.Stats.Score, 0) || math.Abs(res.Stats.Score) >= MateScore {
		t.Errorf("score %v should be finite and below mate", res.Stats.Score)
	}
	t.Logf("%v score=%v nodes=%d elapsed=%v", res.Move, res.Stats.Score, res.Stats.Nodes, res.Stats.Elapsed)
}
