package board

import (
	"sort"
	"testing"

	"github.com/notnil/chess"
	"lukechampine.com/frand"
)

// referenceMoves lists the legal moves notnil/chess finds for fen, keeping
// only queen promotions. FENs passed here carry no castling rights or en
// passant square, so the rule sets coincide.
func referenceMoves(t *testing.T, fen string) []string {
	t.Helper()
	opt, err := chess.FEN(fen)
	if err != nil {
		t.Fatalf("reference FEN %q: %v", fen, err)
	}
	g := chess.NewGame(opt)

	var out []string
	for _, m := range g.ValidMoves() {
		if m.Promo() != chess.NoPieceType && m.Promo() != chess.Queen {
			continue
		}
		out = append(out, m.String())
	}
	sort.Strings(out)
	return out
}

func moveStrings(moves []Move) []string {
	out := make([]string, 0, len(moves))
	for _, m := range moves {
		out = append(out, m.String())
	}
	sort.Strings(out)
	return out
}

func sameMoves(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// TestLegalMovesMatchReference plays random games and compares every
// position's legal move set against an independent generator.
func TestLegalMovesMatchReference(t *testing.T) {
	rng := frand.NewCustom(make([]byte, 32), 1024, 12)

	const games = 8
	const maxPlies = 80

	for g := 0; g < games; g++ {
		b := NewBoard()
		side := Light
		for ply := 0; ply < maxPlies; ply++ {
			fen := b.FEN(side, 0, 1)
			ours := LegalMoves(b, side)

			want := referenceMoves(t, fen)
			got := moveStrings(ours)
			if !sameMoves(got, want) {
				t.Fatalf("game %d ply %d: %s\ngot  %v\nwant %v", g, ply, fen, got, want)
			}

			if len(ours) == 0 {
				break
			}
			b.Apply(ours[rng.Intn(len(ours))])
			side = side.Other()
		}
	}
}

func TestLegalMovesMatchReferenceFixtures(t *testing.T) {
	fens := []string{
		"R6k/6pp/8/8/8/8/8/K7 b - - 0 1",
		"4r2k/8/8/8/8/8/4N3/4K3 w - - 0 1",
		"1r5k/P7/8/8/8/8/8/7K w - - 0 1",
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w - - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	}

	for _, fen := range fens {
		t.Run(fen, func(t *testing.T) {
			setup := mustParseFEN(t, fen)
			got := moveStrings(LegalMoves(setup.Board, setup.Side))
			want := referenceMoves(t, fen)
			if !sameMoves(got, want) {
				t.Errorf("got  %v\nwant %v", got, want)
			}
		})
	}
}
