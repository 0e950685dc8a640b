// Package session implements the daily puzzle session and statistics
// engine: it tracks the day's guesses per mode, detects day rollovers,
// folds finished days into durable per-mode statistics, and keeps both
// documents consistent across restarts and clock-driven day changes.
package session

import (
	"fmt"

	"github.com/volleydle/volleydle-data/internal/game"
)

// GuessEntry is one evaluated guess. Entries are append-only within a
// day; nothing edits or removes them.
type GuessEntry struct {
	Guess     game.Player   `json:"guess"`
	Feedback  game.Feedback `json:"feedback"`
	IsCorrect bool          `json:"is_correct"`
}

// GuessLog holds the current day's guesses for both modes. Day always
// names the day the contained entries were recorded under; a winning
// entry, if present, is the last one for its mode.
type GuessLog struct {
	Day   string       `json:"day"`
	Men   []GuessEntry `json:"men"`
	Women []GuessEntry `json:"women"`
}

// NewGuessLog returns an empty log stamped with the given day.
func NewGuessLog(day string) GuessLog {
	return GuessLog{Day: day, Men: []GuessEntry{}, Women: []GuessEntry{}}
}

// Entries returns the submission-ordered entries for a mode.
func (l *GuessLog) Entries(mode game.Mode) []GuessEntry {
	if mode == game.ModeWomen {
		return l.Women
	}
	return l.Men
}

func (l *GuessLog) append(mode game.Mode, e GuessEntry) {
	if mode == game.ModeWomen {
		l.Women = append(l.Women, e)
	} else {
		l.Men = append(l.Men, e)
	}
}

// won reports whether a mode's entries end in a correct guess. The win
// flag is always derived from the log, never stored, so it cannot
// disagree with the log after a reload.
func won(entries []GuessEntry) bool {
	return len(entries) > 0 && entries[len(entries)-1].IsCorrect
}

// winningPlayer returns the winning guess's player record, if any.
func winningPlayer(entries []GuessEntry) *game.Player {
	if !won(entries) {
		return nil
	}
	p := entries[len(entries)-1].Guess
	return &p
}

// StatsRecord is the cumulative ledger for one mode. Mutated only at
// day finalization.
type StatsRecord struct {
	GamesPlayed        int    `json:"gamesPlayed"`
	GamesWon           int    `json:"gamesWon"`
	TotalGuessesInWins int    `json:"totalGuessesInWins"`
	OneShots           int    `json:"oneShots"`
	CurrentStreak      int    `json:"currentStreak"`
	MaxStreak          int    `json:"maxStreak"`
	LastPlayedDate     string `json:"lastPlayedDate,omitempty"`
}

// WinPercentage returns wins over games played as a rounded percentage.
func (r StatsRecord) WinPercentage() int {
	if r.GamesPlayed == 0 {
		return 0
	}
	return int(float64(r.GamesWon)/float64(r.GamesPlayed)*100 + 0.5)
}

// AverageGuesses returns the mean guess count across wins with two
// decimals, or "-" before the first win.
func (r StatsRecord) AverageGuesses() string {
	if r.GamesWon == 0 {
		return "-"
	}
	return fmt.Sprintf("%.2f", float64(r.TotalGuessesInWins)/float64(r.GamesWon))
}

// Ledger holds one StatsRecord per mode.
type Ledger struct {
	Men   StatsRecord `json:"men"`
	Women StatsRecord `json:"women"`
}

// Record returns the mutable record for a mode.
func (l *Ledger) Record(mode game.Mode) *StatsRecord {
	if mode == game.ModeWomen {
		return &l.Women
	}
	return &l.Men
}
