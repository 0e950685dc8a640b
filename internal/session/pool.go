package session

import (
	"github.com/volleydle/volleydle-data/internal/game"
	"github.com/volleydle/volleydle-data/internal/textnorm"
)

// maxSearchResults caps autocomplete matches per query.
const maxSearchResults = 30

// filterCandidates derives the candidate pool: roster order preserved,
// players already guessed removed. A non-empty query keeps only entries
// whose name, nationality, or team contains the folded query, capped at
// maxSearchResults.
func filterCandidates(roster []game.Player, guessed []GuessEntry, query string) []game.Player {
	guessedIDs := make(map[int]bool, len(guessed))
	for _, g := range guessed {
		guessedIDs[g.Guess.ID] = true
	}

	search := textnorm.Fold(query)
	out := []game.Player{}
	for _, p := range roster {
		if guessedIDs[p.ID] {
			continue
		}
		if search != "" {
			if !matches(p, search) {
				continue
			}
		}
		out = append(out, p)
		if search != "" && len(out) >= maxSearchResults {
			break
		}
	}
	return out
}

func matches(p game.Player, foldedQuery string) bool {
	return textnorm.Contains(p.Name, foldedQuery) ||
		textnorm.Contains(p.Nationality, foldedQuery) ||
		textnorm.Contains(p.TeamName, foldedQuery)
}
