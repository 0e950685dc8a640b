// Package game implements the daily puzzle collaborator: the player
// roster, the deterministic player-of-the-day selection, and the
// attribute-by-attribute guess evaluation. The session engine consumes it
// through narrow interfaces and never computes feedback itself.
package game

import "errors"

// ErrPlayerNotFound is returned by Evaluate when no player matches the
// guessed name for the requested mode. It is the one user-recoverable
// evaluation error; everything else is treated as transient.
var ErrPlayerNotFound = errors.New("player not found")

// Mode identifies one of the two independent game tracks.
type Mode string

const (
	ModeMen   Mode = "men"
	ModeWomen Mode = "women"
)

// ParseMode maps a query value to a Mode, defaulting to men like the
// original API did for absent or unknown values.
func ParseMode(s string) Mode {
	if s == string(ModeWomen) {
		return ModeWomen
	}
	return ModeMen
}

// Valid reports whether m is one of the two known tracks.
func (m Mode) Valid() bool {
	return m == ModeMen || m == ModeWomen
}

// Sex returns the players-table sex marker for the mode.
func (m Mode) Sex() string {
	if m == ModeWomen {
		return "F"
	}
	return "M"
}

// Player is one roster entry. Numeric attributes that can be missing are
// pointers; comparison yields no directional feedback for missing values.
type Player struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Nationality  string `json:"nationality"`
	Position     string `json:"position"`
	Birthdate    string `json:"birthdate,omitempty"`
	Age          *int   `json:"age"`
	HeightCM     *int   `json:"height_cm"`
	PictureURL   string `json:"picture_url"`
	TeamName     string `json:"team_name"`
	JerseyNumber *int   `json:"jersey_number"`
	Sex          string `json:"sex"`
	Continent    string `json:"continent"`
	Flag         string `json:"flag"`
}

// Feedback is the per-attribute comparison of a guess against the day's
// secret player. Boolean attributes are exact-match flags; numeric ones
// carry a directional state.
type Feedback struct {
	Name         string          `json:"name"`
	Nationality  bool            `json:"nationality"`
	Position     bool            `json:"position"`
	Team         bool            `json:"team"`
	Sex          bool            `json:"sex"`
	Continent    bool            `json:"continent"`
	Age          NumericFeedback `json:"age"`
	Height       NumericFeedback `json:"height"`
	JerseyNumber NumericFeedback `json:"jersey_number"`
}

// Evaluation is the full result of evaluating one guess.
type Evaluation struct {
	Guess     Player   `json:"guess"`
	Feedback  Feedback `json:"feedback"`
	IsCorrect bool     `json:"is_correct"`
}
