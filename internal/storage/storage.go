package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog/log"
)

// Key prefixes
const (
	prefixGame  = "game/"
	prefixStats = "stats/"
)

// ErrNotFound is returned when a game id has no record.
var ErrNotFound = errors.New("not found")

// Result is the outcome of a game in PGN notation.
type Result string

const (
	LightWins Result = "1-0"
	DarkWins  Result = "0-1"
	Drawn     Result = "1/2-1/2"
)

// PlayerInfo describes one side of a recorded game and its search totals.
type PlayerInfo struct {
	Name       string        `json:"name"`
	Heuristic  string        `json:"heuristic"`
	Depth      int           `json:"depth"`
	Moves      int           `json:"moves"`
	Nodes      uint64        `json:"nodes"`
	SearchTime time.Duration `json:"search_time"`
}

// GameRecord is a finished game.
type GameRecord struct {
	ID       string     `json:"id"`
	Light    PlayerInfo `json:"light"`
	Dark     PlayerInfo `json:"dark"`
	StartFEN string     `json:"start_fen"`
	FinalFEN string     `json:"final_fen"`
	Moves    []string   `json:"moves"`
	Result   Result     `json:"result"`
	Reason   string     `json:"reason"`
	PlayedAt time.Time  `json:"played_at"`
}

// HeuristicStats aggregates every recorded game played by one heuristic.
type HeuristicStats struct {
	Heuristic  string        `json:"heuristic"`
	Games      int           `json:"games"`
	Wins       int           `json:"wins"`
	Losses     int           `json:"losses"`
	Draws      int           `json:"draws"`
	Moves      int           `json:"moves"`
	Nodes      uint64        `json:"nodes"`
	SearchTime time.Duration `json:"search_time"`
}

// WinRate returns the win rate as a percentage (0-100).
func (s *HeuristicStats) WinRate() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Games) * 100
}

// AvgNodes returns the mean number of nodes searched per move.
func (s *HeuristicStats) AvgNodes() float64 {
	if s.Moves == 0 {
		return 0
	}
	return float64(s.Nodes) / float64(s.Moves)
}

// AvgMoveTime returns the mean search time per move.
func (s *HeuristicStats) AvgMoveTime() time.Duration {
	if s.Moves == 0 {
		return 0
	}
	return s.SearchTime / time.Duration(s.Moves)
}

// maxConflictRetries bounds how often a stats update is retried after
// badger reports a transaction conflict.
const maxConflictRetries = 10

// Storage wraps BadgerDB for persistent storage.
type Storage struct {
	db *badger.DB

	statsMu sync.Mutex // serializes read-modify-write of stats keys
}

// NewStorage opens the database in the application data directory.
func NewStorage() (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	log.Debug().Str("dir", dbDir).Msg("opening-database")
	return Open(dbDir)
}

// Open opens (or creates) a database in dir.
func Open(dir string) (*Storage, error) {
	return open(badger.DefaultOptions(dir))
}

// OpenInMemory returns a database that lives only as long as the process.
func OpenInMemory() (*Storage, error) {
	return open(badger.DefaultOptions("").WithInMemory(true))
}

func open(opts badger.Options) (*Storage, error) {
	opts.Logger = nil // Disable badger's own logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return &Storage{db: db}, nil
}

// Close closes the database.
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveGame stores rec under its id, replacing any earlier record.
func (s *Storage) SaveGame(rec GameRecord) error {
	if rec.ID == "" {
		return errors.New("game record has no id")
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(prefixGame+rec.ID), data)
	})
}

// LoadGame returns the record stored under id.
func (s *Storage) LoadGame(id string) (GameRecord, error) {
	var rec GameRecord

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(prefixGame + id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("game %q: %w", id, ErrNotFound)
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})

	return rec, err
}

// ListGames returns stored games, most recent first. A positive limit caps
// the number returned.
func (s *Storage) ListGames(limit int) ([]GameRecord, error) {
	var games []GameRecord

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(prefixGame)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var rec GameRecord
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
			if err != nil {
				return err
			}
			games = append(games, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(games, func(i, j int) bool {
		return games[i].PlayedAt.After(games[j].PlayedAt)
	})
	if limit > 0 && len(games) > limit {
		games = games[:limit]
	}
	return games, nil
}

// RecordResult adds rec to the statistics of both players' heuristics in a
// single transaction. A heuristic playing itself is counted once per side.
// Safe for concurrent use: updates are serialized and a transaction that
// loses a commit race is retried.
func (s *Storage) RecordResult(rec GameRecord) error {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()

	var err error
	for attempt := 1; attempt <= maxConflictRetries; attempt++ {
		err = s.recordResult(rec)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
		log.Debug().Str("game", rec.ID).Int("attempt", attempt).Msg("stats-conflict")
	}
	return fmt.Errorf("record result of %s: %w", rec.ID, err)
}

func (s *Storage) recordResult(rec GameRecord) error {
	return s.db.Update(func(txn *badger.Txn) error {
		for _, side := range []struct {
			player PlayerInfo
			won    Result
		}{
			{rec.Light, LightWins},
			{rec.Dark, DarkWins},
		} {
			stats, err := loadStats(txn, side.player.Heuristic)
			if err != nil {
				return err
			}

			stats.Games++
			stats.Moves += side.player.Moves
			stats.Nodes += side.player.Nodes
			stats.SearchTime += side.player.SearchTime
			switch rec.Result {
			case Drawn:
				stats.Draws++
			case side.won:
				stats.Wins++
			default:
				stats.Losses++
			}

			data, err := json.Marshal(stats)
			if err != nil {
				return err
			}
			if err := txn.Set([]byte(prefixStats+stats.Heuristic), data); err != nil {
				return err
			}
		}
		return nil
	})
}

// LoadStats returns the statistics for heuristic; empty if none recorded.
func (s *Storage) LoadStats(heuristic string) (*HeuristicStats, error) {
	var stats *HeuristicStats
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		stats, err = loadStats(txn, heuristic)
		return err
	})
	return stats, err
}

// AllStats returns the statistics of every recorded heuristic, by name.
func (s *Storage) AllStats() ([]*HeuristicStats, error) {
	var all []*HeuristicStats

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(prefixStats)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			stats := &HeuristicStats{}
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, stats)
			})
			if err != nil {
				return err
			}
			all = append(all, stats)
		}
		return nil
	})

	return all, err
}

func loadStats(txn *badger.Txn, heuristic string) (*HeuristicStats, error) {
	stats := &HeuristicStats{Heuristic: heuristic}

	item, err := txn.Get([]byte(prefixStats + heuristic))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return stats, nil // Use empty stats
	}
	if err != nil {
		return nil, err
	}

	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, stats)
	})
	return stats, err
}
