package session

// Rollover reconciliation: folding a finished day's guesses into the
// statistics ledger exactly once per day and mode. Every path funnels
// through finalizeMode, which stamps LastPlayedDate with the finalized
// day and refuses to credit the same day twice.

// finalizeMode folds one mode's entries for day into rec. Safe to call
// again for the same day: the LastPlayedDate stamp makes it a no-op.
// This is both the midnight rollover path and the immediate same-day
// win path.
func finalizeMode(rec *StatsRecord, entries []GuessEntry, day string) {
	if rec.LastPlayedDate == day {
		return
	}

	played := len(entries) > 0
	if played {
		rec.GamesPlayed++
	}

	if won(entries) {
		// Submission stops at the winning guess, so the entry count is
		// exactly the number of guesses the win took.
		guessCount := len(entries)
		rec.GamesWon++
		rec.TotalGuessesInWins += guessCount
		if guessCount == 1 {
			rec.OneShots++
		}
		rec.CurrentStreak++
	} else {
		rec.CurrentStreak = 0
	}

	if rec.CurrentStreak > rec.MaxStreak {
		rec.MaxStreak = rec.CurrentStreak
	}
	rec.LastPlayedDate = day
}

// rollover finalizes both modes of an old log into the ledger and
// returns a fresh empty log stamped with newDay. The caller must have
// already established that old.Day != newDay.
func rollover(ledger *Ledger, old GuessLog, newDay string) GuessLog {
	finalizeMode(&ledger.Men, old.Men, old.Day)
	finalizeMode(&ledger.Women, old.Women, old.Day)
	return NewGuessLog(newDay)
}
