package game

// NumericFeedback is the directional state for an ordered-numeric
// attribute. Empty means the comparison was impossible (missing value).
type NumericFeedback string

const (
	FeedbackMatch     NumericFeedback = "match"
	FeedbackHigher    NumericFeedback = "higher"
	FeedbackLower     NumericFeedback = "lower"
	FeedbackHigherFar NumericFeedback = "higher_far"
	FeedbackLowerFar  NumericFeedback = "lower_far"
)

// Close thresholds: within these the near variant is reported, beyond
// them the far variant.
const (
	ageCloseThreshold    = 2
	heightCloseThreshold = 5
	jerseyCloseThreshold = 3
)

// CompareNumeric compares a guessed value against the target. A nil on
// either side yields no feedback.
func CompareNumeric(guess, target *int, closeThreshold int) NumericFeedback {
	if guess == nil || target == nil {
		return ""
	}
	diff := *guess - *target
	switch {
	case diff == 0:
		return FeedbackMatch
	case diff > 0 && diff <= closeThreshold:
		return FeedbackHigher
	case diff < 0 && -diff <= closeThreshold:
		return FeedbackLower
	case diff > 0:
		return FeedbackHigherFar
	default:
		return FeedbackLowerFar
	}
}

// Compare builds the full feedback record for a guess against the target.
func Compare(guess, target Player) Feedback {
	return Feedback{
		Name:         guess.Name,
		Nationality:  guess.Nationality == target.Nationality,
		Position:     guess.Position == target.Position,
		Team:         guess.TeamName == target.TeamName,
		Sex:          guess.Sex == target.Sex,
		Continent:    guess.Continent == target.Continent,
		Age:          CompareNumeric(guess.Age, target.Age, ageCloseThreshold),
		Height:       CompareNumeric(guess.HeightCM, target.HeightCM, heightCloseThreshold),
		JerseyNumber: CompareNumeric(guess.JerseyNumber, target.JerseyNumber, jerseyCloseThreshold),
	}
}
