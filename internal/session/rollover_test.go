package session

import (
	"testing"

	"github.com/volleydle/volleydle-data/internal/game"
)

func entry(id int, correct bool) GuessEntry {
	return GuessEntry{Guess: game.Player{ID: id, Name: "p"}, IsCorrect: correct}
}

func TestFinalizeModeWin(t *testing.T) {
	rec := StatsRecord{}
	finalizeMode(&rec, []GuessEntry{entry(1, false), entry(2, false), entry(3, true)}, "2024-08-01")

	want := StatsRecord{
		GamesPlayed: 1, GamesWon: 1, TotalGuessesInWins: 3,
		CurrentStreak: 1, MaxStreak: 1, LastPlayedDate: "2024-08-01",
	}
	if rec != want {
		t.Errorf("finalizeMode win = %+v, want %+v", rec, want)
	}
}

func TestFinalizeModeOneShot(t *testing.T) {
	rec := StatsRecord{}
	finalizeMode(&rec, []GuessEntry{entry(1, true)}, "2024-08-01")

	if rec.OneShots != 1 {
		t.Errorf("OneShots = %d, want 1", rec.OneShots)
	}
	if rec.TotalGuessesInWins != 1 {
		t.Errorf("TotalGuessesInWins = %d, want 1", rec.TotalGuessesInWins)
	}
}

func TestFinalizeModeLossResetsStreak(t *testing.T) {
	rec := StatsRecord{GamesPlayed: 5, GamesWon: 4, CurrentStreak: 4, MaxStreak: 4}
	finalizeMode(&rec, []GuessEntry{entry(1, false)}, "2024-08-02")

	if rec.CurrentStreak != 0 {
		t.Errorf("CurrentStreak = %d, want 0", rec.CurrentStreak)
	}
	if rec.MaxStreak != 4 {
		t.Errorf("MaxStreak = %d, want 4 (never decreases)", rec.MaxStreak)
	}
	if rec.GamesPlayed != 6 {
		t.Errorf("GamesPlayed = %d, want 6", rec.GamesPlayed)
	}
	if rec.GamesWon != 4 {
		t.Errorf("GamesWon = %d, want 4", rec.GamesWon)
	}
}

func TestFinalizeModeNoPlayResetsStreakOnly(t *testing.T) {
	rec := StatsRecord{GamesPlayed: 3, GamesWon: 3, CurrentStreak: 3, MaxStreak: 3}
	finalizeMode(&rec, nil, "2024-08-02")

	if rec.GamesPlayed != 3 {
		t.Errorf("GamesPlayed = %d, want 3 (zero-guess day does not count)", rec.GamesPlayed)
	}
	if rec.CurrentStreak != 0 {
		t.Errorf("CurrentStreak = %d, want 0", rec.CurrentStreak)
	}
	if rec.LastPlayedDate != "2024-08-02" {
		t.Errorf("LastPlayedDate = %q, want finalized day", rec.LastPlayedDate)
	}
}

func TestFinalizeModeIdempotentPerDay(t *testing.T) {
	rec := StatsRecord{}
	entries := []GuessEntry{entry(1, true)}

	finalizeMode(&rec, entries, "2024-08-01")
	credited := rec
	finalizeMode(&rec, entries, "2024-08-01")

	if rec != credited {
		t.Errorf("second finalization for the same day changed the record: %+v vs %+v", rec, credited)
	}
}

func TestRolloverBothModes(t *testing.T) {
	ledger := Ledger{}
	old := NewGuessLog("2024-08-01")
	old.Men = []GuessEntry{entry(1, true)}
	old.Women = []GuessEntry{entry(2, false), entry(3, false)}

	fresh := rollover(&ledger, old, "2024-08-02")

	if fresh.Day != "2024-08-02" || len(fresh.Men) != 0 || len(fresh.Women) != 0 {
		t.Errorf("rollover log = %+v, want empty log for 2024-08-02", fresh)
	}
	if ledger.Men.GamesWon != 1 || ledger.Men.CurrentStreak != 1 {
		t.Errorf("men record = %+v", ledger.Men)
	}
	if ledger.Women.GamesPlayed != 1 || ledger.Women.GamesWon != 0 || ledger.Women.CurrentStreak != 0 {
		t.Errorf("women record = %+v", ledger.Women)
	}
	if ledger.Men.LastPlayedDate != "2024-08-01" || ledger.Women.LastPlayedDate != "2024-08-01" {
		t.Errorf("LastPlayedDate should be the finalized day: %+v", ledger)
	}
}

func TestWonDerivation(t *testing.T) {
	tests := []struct {
		name    string
		entries []GuessEntry
		want    bool
	}{
		{"empty", nil, false},
		{"in progress", []GuessEntry{entry(1, false)}, false},
		{"won", []GuessEntry{entry(1, false), entry(2, true)}, true},
	}
	for _, tt := range tests {
		if got := won(tt.entries); got != tt.want {
			t.Errorf("%s: won = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestStatsRecordViews(t *testing.T) {
	rec := StatsRecord{GamesPlayed: 3, GamesWon: 2, TotalGuessesInWins: 7}
	if got := rec.WinPercentage(); got != 67 {
		t.Errorf("WinPercentage = %d, want 67", got)
	}
	if got := rec.AverageGuesses(); got != "3.50" {
		t.Errorf("AverageGuesses = %q, want 3.50", got)
	}

	zero := StatsRecord{}
	if zero.WinPercentage() != 0 || zero.AverageGuesses() != "-" {
		t.Errorf("zero record views = %d %q", zero.WinPercentage(), zero.AverageGuesses())
	}
}
