package storage

import (
	"encoding/binary"
	"encoding/json"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Storage keys
const (
	keyPreferences = "preferences"
	keyStats       = "stats"
	keyGameSeq     = "game_seq"
	gamePrefix     = "game:"
)

// Preferences stores the user-facing settings the front end restores on
// the next launch.
type Preferences struct {
	SecondsPerMove  float64   `json:"seconds_per_move"`
	EngineWhite     bool      `json:"engine_white"`
	EngineBlack     bool      `json:"engine_black"`
	HashMB          int       `json:"hash_mb"`
	EndgameMaterial int       `json:"endgame_material"`
	LastPlayed      time.Time `json:"last_played"`
}

// DefaultPreferences returns the settings used on first launch.
func DefaultPreferences() *Preferences {
	return &Preferences{
		SecondsPerMove:  1.5,
		EngineWhite:     false,
		EngineBlack:     true,
		HashMB:          64,
		EndgameMaterial: 1300,
		LastPlayed:      time.Now(),
	}
}

// GameRecord is one finished game: the moves in long algebraic form plus
// the result and some bookkeeping.
type GameRecord struct {
	Moves    []string      `json:"moves"`
	Result   string        `json:"result"` // "1-0", "0-1", "1/2-1/2"
	Duration time.Duration `json:"duration"`
	PlayedAt time.Time     `json:"played_at"`
}

// Stats accumulates results across recorded games.
type Stats struct {
	GamesPlayed int `json:"games_played"`
	WhiteWins   int `json:"white_wins"`
	BlackWins   int `json:"black_wins"`
	Draws       int `json:"draws"`
}

// Store wraps BadgerDB for persistent front-end storage.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) the database in the given directory.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

// OpenDefault opens the database in the platform data directory.
func OpenDefault() (*Store, error) {
	dir, err := DatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dir)
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SavePreferences saves user preferences.
func (s *Store) SavePreferences(prefs *Preferences) error {
	prefs.LastPlayed = time.Now()

	data, err := json.Marshal(prefs)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPreferences), data)
	})
}

// LoadPreferences loads user preferences, returning defaults when none
// were saved yet.
func (s *Store) LoadPreferences() (*Preferences, error) {
	prefs := DefaultPreferences()

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPreferences))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, prefs)
		})
	})

	return prefs, err
}

// SaveGame appends a finished game and folds its result into the stats.
func (s *Store) SaveGame(rec *GameRecord) error {
	if rec.PlayedAt.IsZero() {
		rec.PlayedAt = time.Now()
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		seq, err := nextGameSeq(txn)
		if err != nil {
			return err
		}

		key := make([]byte, len(gamePrefix)+8)
		copy(key, gamePrefix)
		binary.BigEndian.PutUint64(key[len(gamePrefix):], seq)
		if err := txn.Set(key, data); err != nil {
			return err
		}

		stats, err := loadStats(txn)
		if err != nil {
			return err
		}
		stats.GamesPlayed++
		switch rec.Result {
		case "1-0":
			stats.WhiteWins++
		case "0-1":
			stats.BlackWins++
		default:
			stats.Draws++
		}
		statsData, err := json.Marshal(stats)
		if err != nil {
			return err
		}
		return txn.Set([]byte(keyStats), statsData)
	})
}

// ListGames returns all recorded games in the order they were saved.
func (s *Store) ListGames() ([]GameRecord, error) {
	var games []GameRecord

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(gamePrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek([]byte(gamePrefix)); it.ValidForPrefix([]byte(gamePrefix)); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var rec GameRecord
				if err := json.Unmarshal(val, &rec); err != nil {
					return err
				}
				games = append(games, rec)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})

	return games, err
}

// LoadStats returns the accumulated statistics.
func (s *Store) LoadStats() (*Stats, error) {
	var stats *Stats
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		stats, err = loadStats(txn)
		return err
	})
	return stats, err
}

func loadStats(txn *badger.Txn) (*Stats, error) {
	stats := &Stats{}

	item, err := txn.Get([]byte(keyStats))
	if err == badger.ErrKeyNotFound {
		return stats, nil
	}
	if err != nil {
		return nil, err
	}

	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, stats)
	})
	return stats, err
}

func nextGameSeq(txn *badger.Txn) (uint64, error) {
	var seq uint64

	item, err := txn.Get([]byte(keyGameSeq))
	if err == nil {
		err = item.Value(func(val []byte) error {
			seq = binary.BigEndian.Uint64(val)
			return nil
		})
		if err != nil {
			return 0, err
		}
	} else if err != badger.ErrKeyNotFound {
		return 0, err
	}

	seq++
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, seq)
	if err := txn.Set([]byte(keyGameSeq), buf); err != nil {
		return 0, err
	}
	return seq, nil
}

// WinRate returns white's win rate as a percentage of recorded games.
func (s *Stats) WinRate() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.WhiteWins) / float64(s.GamesPlayed) * 100
}
