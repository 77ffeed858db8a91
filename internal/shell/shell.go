// Package shell implements the line-oriented interactive driver: a human
// enters coordinate moves and the engine answers.
package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	petname "github.com/dustinkirkland/golang-petname"
	"github.com/rs/zerolog/log"

	"github.com/hailam/minichess/internal/board"
	"github.com/hailam/minichess/internal/engine"
	"github.com/hailam/minichess/internal/game"
	"github.com/hailam/minichess/internal/storage"
)

// Recorder stores finished games. *storage.Storage implements it.
type Recorder interface {
	SaveGame(rec storage.GameRecord) error
}

// Shell reads commands and drives one game.
type Shell struct {
	engine *engine.Engine
	state  *game.State
	store  Recorder
	out    io.Writer

	// Prompt prints "> " before each command.
	Prompt bool

	// The engine replies automatically when it is computer's turn.
	computer   board.Side
	autoReply  bool
	startFEN   string
	searchTime time.Duration
	nodes      uint64
	saved      bool
}

// New creates a shell writing to out. store may be nil.
func New(eng *engine.Engine, store Recorder, out io.Writer) *Shell {
	return &Shell{
		engine:    eng,
		state:     game.New(),
		store:     store,
		out:       out,
		computer:  board.Dark,
		autoReply: true,
		startFEN:  board.StartFEN,
	}
}

// State returns the game being played.
func (s *Shell) State() *game.State {
	return s.state
}

// Run executes commands from in until "quit" or end of input.
func (s *Shell) Run(in io.Reader) error {
	scanner := bufio.NewScanner(in)

	for {
		if s.Prompt {
			fmt.Fprint(s.out, "> ")
		}
		if !scanner.Scan() {
			break
		}
		if quit := s.Execute(scanner.Text()); quit {
			return nil
		}
	}
	return scanner.Err()
}

// Execute runs a single command line and reports whether the shell should exit.
func (s *Shell) Execute(line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false
	}
	cmd, args := strings.ToLower(parts[0]), parts[1:]

	var err error
	switch cmd {
	case "quit", "exit":
		return true
	case "help", "?":
		s.handleHelp()
	case "new":
		s.handleNew()
	case "move", "m":
		if len(args) == 0 {
			err = errors.New("usage: move e2e4")
			break
		}
		err = s.handleMove(args[0])
	case "undo":
		err = s.handleUndo()
	case "go":
		err = s.enginePlay()
	case "show", "d":
		s.show()
	case "fen":
		err = s.handleFEN(args)
	case "legal":
		s.handleLegal()
	case "history":
		s.handleHistory()
	case "eval":
		s.handleEval()
	case "heuristic":
		err = s.handleHeuristic(args)
	case "depth":
		err = s.handleDepth(args)
	case "time":
		err = s.handleTime(args)
	case "difficulty":
		err = s.handleDifficulty(args)
	case "computer":
		err = s.handleComputer(args)
	case "perft":
		err = s.handlePerft(args)
	default:
		// Bare coordinate moves
		if _, perr := board.ParseMove(cmd); perr == nil {
			err = s.handleMove(cmd)
		} else {
			err = fmt.Errorf("unknown command %q (try help)", cmd)
		}
	}

	if err != nil {
		errText.Fprintf(s.out, "error: %v\n", err)
	}
	return false
}

func (s *Shell) handleHelp() {
	fmt.Fprint(s.out, `commands:
  e2e4 | move e2e4     play a move
  go                   let the engine move
  undo                 take back the last move
  new                  start a new game
  show | d             print the board
  fen [FEN]            print or set the position
  legal                list legal moves
  history              list moves played
  eval                 static evaluation of the position
  heuristic [ID]       show or select the evaluation
  depth N              search depth in plies
  time MS              time limit per move (0 = none)
  difficulty LEVEL     easy, medium or hard
  computer SIDE        engine plays light, dark or off
  perft N              count leaf nodes to depth N
  quit
`)
}

func (s *Shell) reset(st *game.State, fen string) {
	s.state = st
	s.startFEN = fen
	s.searchTime = 0
	s.nodes = 0
	s.saved = false
}

func (s *Shell) handleNew() {
	s.reset(game.New(), board.StartFEN)
	infoText.Fprintln(s.out, "new game")
	s.afterMove()
}

func (s *Shell) handleMove(arg string) error {
	m, err := board.ParseMove(arg)
	if err != nil {
		return fmt.Errorf("%w: %v", game.ErrInvalidFormat, err)
	}
	rec, err := s.state.Apply(m)
	if err != nil {
		return err
	}
	s.printMove(rec)
	s.afterMove()
	return nil
}

// afterMove reports the new status, stores a finished game, and lets the
// engine answer when it is its turn.
func (s *Shell) afterMove() {
	RenderStatus(s.out, s.state)
	if s.state.Status().IsOver() {
		s.saveGame()
		return
	}
	if s.autoReply && s.state.Side() == s.computer {
		if err := s.enginePlay(); err != nil {
			errText.Fprintf(s.out, "error: %v\n", err)
		}
	}
}

func (s *Shell) enginePlay() error {
	if s.state.Status().IsOver() {
		return fmt.Errorf("%w: game is over (%v)", game.ErrIllegalMove, s.state.Status())
	}

	res, err := s.engine.Search(s.state)
	if err != nil {
		return err
	}
	if !res.Found {
		return errors.New("no legal moves")
	}
	rec, err := s.state.Apply(res.Move)
	if err != nil {
		return err
	}
	s.searchTime += res.Stats.Elapsed
	s.nodes += res.Stats.Nodes

	s.printMove(rec)
	fmt.Fprintf(s.out, "  score %s, %d nodes, %v",
		engine.ScoreToString(res.Stats.Score), res.Stats.Nodes, res.Stats.Elapsed.Round(time.Millisecond))
	if res.Stats.TimedOut {
		checkText.Fprint(s.out, " (time limit)")
	}
	fmt.Fprintln(s.out)

	RenderStatus(s.out, s.state)
	if s.state.Status().IsOver() {
		s.saveGame()
	}
	return nil
}

func (s *Shell) printMove(rec game.MoveRecord) {
	var b strings.Builder
	b.WriteString(rec.Move.String())
	if rec.IsCapture() {
		fmt.Fprintf(&b, " x%s", rec.Captured)
	}
	if rec.Promotion != board.NoKind {
		fmt.Fprintf(&b, " =%s", rec.Promotion)
	}
	if rec.Check {
		b.WriteString(" +")
	}
	fmt.Fprintf(s.out, "%v plays %s\n", rec.Piece.Side, b.String())
}

func (s *Shell) handleUndo() error {
	rec, err := s.state.UndoMove()
	if err != nil {
		return err
	}
	s.saved = false
	fmt.Fprintf(s.out, "took back %s\n", rec.Move)
	return nil
}

func (s *Shell) show() {
	last := board.NoMove
	if rec, ok := s.state.LastMove(); ok {
		last = rec.Move
	}
	RenderBoard(s.out, s.state.Board(), last)
	RenderStatus(s.out, s.state)
}

func (s *Shell) handleFEN(args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(s.out, s.state.FEN())
		return nil
	}
	fen := strings.Join(args, " ")
	st, err := game.FromFEN(fen)
	if err != nil {
		return err
	}
	s.reset(st, fen)
	s.show()
	return nil
}

func (s *Shell) handleLegal() {
	moves := s.state.LegalMoves()
	strs := make([]string, len(moves))
	for i, m := range moves {
		strs[i] = m.String()
	}
	fmt.Fprintf(s.out, "%d legal: %s\n", len(moves), strings.Join(strs, " "))
}

func (s *Shell) handleHistory() {
	for i, rec := range s.state.History() {
		if i%2 == 0 {
			fmt.Fprintf(s.out, "%d. ", i/2+1)
		}
		fmt.Fprintf(s.out, "%s ", rec.Move)
	}
	fmt.Fprintln(s.out)
}

func (s *Shell) handleEval() {
	bd := s.engine.Evaluate(s.state)
	fmt.Fprintf(s.out, "%v: material %.1f, king safety %.1f, composite %.1f\n",
		s.state.Side(), bd.Material, bd.KingSafety, bd.Composite)
}

func (s *Shell) handleHeuristic(args []string) error {
	if len(args) == 0 {
		fmt.Fprintf(s.out, "heuristic %s (available: %s)\n",
			s.engine.Options().Heuristic, strings.Join(engine.HeuristicIDs(), ", "))
		return nil
	}
	if err := s.engine.SetHeuristic(args[0]); err != nil {
		return err
	}
	infoText.Fprintf(s.out, "heuristic %s\n", args[0])
	return nil
}

func (s *Shell) handleDepth(args []string) error {
	n, err := intArg(args)
	if err != nil {
		return err
	}
	s.engine.SetDepth(n)
	infoText.Fprintf(s.out, "depth %d\n", s.engine.Options().Depth)
	return nil
}

func (s *Shell) handleTime(args []string) error {
	ms, err := intArg(args)
	if err != nil {
		return err
	}
	s.engine.SetTimeLimit(time.Duration(ms) * time.Millisecond)
	infoText.Fprintf(s.out, "time limit %v\n", s.engine.Options().TimeLimit)
	return nil
}

func (s *Shell) handleDifficulty(args []string) error {
	if len(args) == 0 {
		return errors.New("usage: difficulty easy|medium|hard")
	}
	d, err := engine.ParseDifficulty(strings.ToLower(args[0]))
	if err != nil {
		return err
	}
	s.engine.SetDifficulty(d)
	opts := s.engine.Options()
	infoText.Fprintf(s.out, "difficulty %v (depth %d, time limit %v)\n", d, opts.Depth, opts.TimeLimit)
	return nil
}

func (s *Shell) handleComputer(args []string) error {
	if len(args) == 0 {
		return errors.New("usage: computer light|dark|off")
	}
	switch strings.ToLower(args[0]) {
	case "light", "white":
		s.computer, s.autoReply = board.Light, true
	case "dark", "black":
		s.computer, s.autoReply = board.Dark, true
	case "off", "none":
		s.autoReply = false
		infoText.Fprintln(s.out, "computer off")
		return nil
	default:
		return fmt.Errorf("unknown side %q", args[0])
	}
	infoText.Fprintf(s.out, "computer plays %v\n", s.computer)
	if s.state.Side() == s.computer && !s.state.Status().IsOver() {
		return s.enginePlay()
	}
	return nil
}

// maxPerftDepth keeps perft within interactive run times.
const maxPerftDepth = 5

func (s *Shell) handlePerft(args []string) error {
	depth, err := intArg(args)
	if err != nil {
		return err
	}
	if depth < 1 || depth > maxPerftDepth {
		return fmt.Errorf("perft depth must be 1..%d, got %d", maxPerftDepth, depth)
	}
	start := time.Now()
	nodes := s.engine.Perft(s.state, depth)
	fmt.Fprintf(s.out, "perft %d: %d nodes (%v)\n", depth, nodes, time.Since(start).Round(time.Millisecond))
	return nil
}

func intArg(args []string) (int, error) {
	if len(args) == 0 {
		return 0, errors.New("missing number")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid number %q", args[0])
	}
	return n, nil
}

// saveGame stores the finished game once.
func (s *Shell) saveGame() {
	if s.store == nil || s.saved {
		return
	}

	rec := storage.GameRecord{
		ID:       petname.Generate(3, "-"),
		StartFEN: s.startFEN,
		FinalFEN: s.state.FEN(),
		Reason:   s.state.Status().String(),
		PlayedAt: time.Now(),
	}
	for _, h := range s.state.History() {
		rec.Moves = append(rec.Moves, h.Move.String())
	}

	human := storage.PlayerInfo{Name: "human"}
	computer := storage.PlayerInfo{
		Name:       "engine",
		Heuristic:  s.engine.Options().Heuristic,
		Depth:      s.engine.Options().Depth,
		Nodes:      s.nodes,
		SearchTime: s.searchTime,
	}
	rec.Light, rec.Dark = human, computer
	if s.computer == board.Light {
		rec.Light, rec.Dark = computer, human
	}

	rec.Result = storage.Drawn
	if winner, ok := s.state.Winner(); ok {
		rec.Result = storage.DarkWins
		if winner == board.Light {
			rec.Result = storage.LightWins
		}
	}

	if err := s.store.SaveGame(rec); err != nil {
		log.Error().Err(err).Msg("save-game-failed")
		return
	}
	s.saved = true
	log.Info().Str("id", rec.ID).Str("result", string(rec.Result)).Msg("game-saved")
	infoText.Fprintf(s.out, "saved game %s\n", rec.ID)
}
