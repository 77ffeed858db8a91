package storage

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"
)

func openTemp(t *testing.T) *Storage {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleGame(id string, result Result, playedAt time.Time) GameRecord {
	return GameRecord{
		ID:       id,
		Light:    PlayerInfo{Name: "light", Heuristic: "material", Depth: 2, Moves: 10, Nodes: 1000, SearchTime: time.Second},
		Dark:     PlayerInfo{Name: "dark", Heuristic: "king_safety", Depth: 2, Moves: 10, Nodes: 3000, SearchTime: 3 * time.Second},
		StartFEN: "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w - - 0 1",
		Moves:    []string{"e2e4", "e7e5"},
		Result:   result,
		Reason:   "checkmate",
		PlayedAt: playedAt,
	}
}

func TestStorage(t *testing.T) {
	s := openTemp(t)
	now := time.Now().Truncate(time.Second)

	t.Run("SaveAndLoad", func(t *testing.T) {
		want := sampleGame("brave-otter", LightWins, now)
		if err := s.SaveGame(want); err != nil {
			t.Fatal(err)
		}

		got, err := s.LoadGame("brave-otter")
		if err != nil {
			t.Fatal(err)
		}
		if got.ID != want.ID || got.Result != want.Result || len(got.Moves) != 2 {
			t.Errorf("loaded %+v, want %+v", got, want)
		}
		if !got.PlayedAt.Equal(want.PlayedAt) {
			t.Errorf("PlayedAt = %v, want %v", got.PlayedAt, want.PlayedAt)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := s.LoadGame("missing")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("MissingID", func(t *testing.T) {
		if err := s.SaveGame(GameRecord{}); err == nil {
			t.Error("expected error for record without id")
		}
	})

	t.Run("ListGames", func(t *testing.T) {
		if err := s.SaveGame(sampleGame("calm-heron", Drawn, now.Add(time.Minute))); err != nil {
			t.Fatal(err)
		}
		if err := s.SaveGame(sampleGame("able-ant", DarkWins, now.Add(-time.Minute))); err != nil {
			t.Fatal(err)
		}

		games, err := s.ListGames(0)
		if err != nil {
			t.Fatal(err)
		}
		want := []string{"calm-heron", "brave-otter", "able-ant"}
		if len(games) != len(want) {
			t.Fatalf("got %d games, want %d", len(games), len(want))
		}
		for i, id := range want {
			if games[i].ID != id {
				t.Errorf("games[%d] = %s, want %s", i, games[i].ID, id)
			}
		}

		limited, err := s.ListGames(1)
		if err != nil {
			t.Fatal(err)
		}
		if len(limited) != 1 || limited[0].ID != "calm-heron" {
			t.Errorf("ListGames(1) = %v", limited)
		}
	})
}

func TestRecordResult(t *testing.T) {
	s := openTemp(t)

	results := []Result{LightWins, LightWins, Drawn, DarkWins}
	for i, r := range results {
		if err := s.RecordResult(sampleGame(string(rune('a'+i)), r, time.Now())); err != nil {
			t.Fatal(err)
		}
	}

	material, err := s.LoadStats("material")
	if err != nil {
		t.Fatal(err)
	}
	if material.Games != 4 || material.Wins != 2 || material.Draws != 1 || material.Losses != 1 {
		t.Errorf("material stats = %+v", material)
	}
	if material.WinRate() != 50 {
		t.Errorf("win rate = %.2f, want 50", material.WinRate())
	}
	if material.AvgNodes() != 100 {
		t.Errorf("avg nodes = %v, want 100", material.AvgNodes())
	}
	if material.AvgMoveTime() != 100*time.Millisecond {
		t.Errorf("avg move time = %v, want 100ms", material.AvgMoveTime())
	}

	king, err := s.LoadStats("king_safety")
	if err != nil {
		t.Fatal(err)
	}
	if king.Wins != 1 || king.Losses != 2 || king.Draws != 1 {
		t.Errorf("king_safety stats = %+v", king)
	}

	all, err := s.AllStats()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 || all[0].Heuristic != "king_safety" || all[1].Heuristic != "material" {
		t.Errorf("AllStats = %+v", all)
	}
}

func TestConcurrentRecordResult(t *testing.T) {
	s, err := OpenInMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	const games = 64
	var wg sync.WaitGroup
	errs := make(chan error, games)
	for i := 0; i < games; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec := sampleGame(fmt.Sprintf("game-%d", i), LightWins, time.Now())
			if err := s.SaveGame(rec); err != nil {
				errs <- err
				return
			}
			if err := s.RecordResult(rec); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent record: %v", err)
	}

	stats, err := s.LoadStats("material")
	if err != nil {
		t.Fatal(err)
	}
	if stats.Games != games || stats.Wins != games {
		t.Errorf("material stats = %+v, want %d games won", stats, games)
	}
	stored, err := s.ListGames(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != games {
		t.Errorf("stored %d games, want %d", len(stored), games)
	}
}

func TestSelfPlayCountsBothSides(t *testing.T) {
	s, err := OpenInMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	rec := sampleGame("mirror", LightWins, time.Now())
	rec.Dark.Heuristic = rec.Light.Heuristic
	if err := s.RecordResult(rec); err != nil {
		t.Fatal(err)
	}

	stats, err := s.LoadStats(rec.Light.Heuristic)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Games != 2 || stats.Wins != 1 || stats.Losses != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestEmptyStats(t *testing.T) {
	s := openTemp(t)

	stats, err := s.LoadStats("material")
	if err != nil {
		t.Fatal(err)
	}
	if stats.Games != 0 || stats.WinRate() != 0 || stats.AvgNodes() != 0 {
		t.Errorf("expected empty stats, got %+v", stats)
	}
}

func TestDataPaths(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(DataDirEnv, dir)

	dataDir, err := GetDataDir()
	if err != nil {
		t.Fatalf("GetDataDir failed: %v", err)
	}
	if dataDir != dir {
		t.Errorf("GetDataDir = %s, want %s", dataDir, dir)
	}

	dbDir, err := GetDatabaseDir()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(dbDir); os.IsNotExist(err) {
		t.Errorf("Database directory was not created: %s", dbDir)
	}
	t.Logf("Database directory: %s", dbDir)
}
