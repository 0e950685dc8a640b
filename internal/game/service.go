package game

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/volleydle/volleydle-data/internal/dayclock"
)

// Service is the pgx-backed implementation of the roster and evaluation
// collaborator. One instance serves both modes.
type Service struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewService creates a Service over an existing connection pool.
func NewService(pool *pgxpool.Pool, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{pool: pool, logger: logger}
}

// Roster returns the full candidate pool for a mode.
func (s *Service) Roster(ctx context.Context, mode Mode) ([]Player, error) {
	return PlayersBySex(ctx, s.pool, mode.Sex())
}

// PlayerOfTheDay returns today's secret player for the mode.
func (s *Service) PlayerOfTheDay(ctx context.Context, mode Mode) (Player, error) {
	return s.PlayerOfTheDayOn(ctx, dayclock.Today(), mode)
}

// PlayerOfTheDayOn returns the secret player for the given day and mode.
// The pick is deterministic: same day plus mode always yields the same
// player, with no state to store or rotate.
func (s *Service) PlayerOfTheDayOn(ctx context.Context, dayID string, mode Mode) (Player, error) {
	ids, err := PlayerIDsBySex(ctx, s.pool, mode.Sex())
	if err != nil {
		return Player{}, err
	}
	id, ok := PickDaily(dayID, mode, ids)
	if !ok {
		return Player{}, fmt.Errorf("no players loaded for mode %s", mode)
	}
	return PlayerByID(ctx, s.pool, id)
}

// Evaluate compares a guessed name against today's secret player for the
// mode. Returns ErrPlayerNotFound when the name matches no roster entry;
// any other error is transient.
func (s *Service) Evaluate(ctx context.Context, name string, mode Mode) (Evaluation, error) {
	return s.EvaluateOn(ctx, dayclock.Today(), name, mode)
}

// EvaluateOn is Evaluate pinned to an explicit day identifier.
func (s *Service) EvaluateOn(ctx context.Context, dayID, name string, mode Mode) (Evaluation, error) {
	guess, err := PlayerByName(ctx, s.pool, name, mode.Sex())
	if err != nil {
		return Evaluation{}, err
	}

	target, err := s.PlayerOfTheDayOn(ctx, dayID, mode)
	if err != nil {
		return Evaluation{}, fmt.Errorf("resolve daily player: %w", err)
	}

	return Evaluation{
		Guess:     guess,
		Feedback:  Compare(guess, target),
		IsCorrect: guess.ID == target.ID,
	}, nil
}
