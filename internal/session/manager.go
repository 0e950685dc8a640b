package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/volleydle/volleydle-data/internal/dayclock"
	"github.com/volleydle/volleydle-data/internal/game"
	"github.com/volleydle/volleydle-data/internal/store"
)

// Sentinel errors surfaced by SubmitGuess. game.ErrPlayerNotFound passes
// through unchanged so callers can show the specific "no such player"
// message; everything else about a failed evaluation collapses into
// ErrEvaluationUnavailable and leaves the log untouched for a retry.
var (
	ErrGuessIgnored          = errors.New("guess ignored")
	ErrEvaluationUnavailable = errors.New("evaluation unavailable")
)

// Evaluator asks the puzzle collaborator to score a guessed name.
type Evaluator interface {
	Evaluate(ctx context.Context, name string, mode game.Mode) (game.Evaluation, error)
}

// RosterProvider supplies the full candidate pool for a mode.
type RosterProvider interface {
	Roster(ctx context.Context, mode game.Mode) ([]game.Player, error)
}

// Config wires a Manager's collaborators and store keys.
type Config struct {
	Store     store.Store
	Evaluator Evaluator
	Roster    RosterProvider
	GuessKey  string
	StatsKey  string
	Logger    *slog.Logger
	Now       func() time.Time // defaults to time.Now
}

// Manager owns the in-memory mirrors of one session's GuessLog and
// statistics Ledger and is the sole writer of both persisted documents.
// All state transitions are serialized by the manager's mutex; the only
// work done outside it is the evaluation and roster I/O.
type Manager struct {
	mu sync.Mutex

	store  store.Store
	eval   Evaluator
	roster RosterProvider
	logger *slog.Logger
	now    func() time.Time

	guessKey string
	statsKey string

	mode   game.Mode
	log    GuessLog
	ledger Ledger

	submitting bool

	// Roster state for the active mode. rosterGen tags every fetch so a
	// completion superseded by a mode switch is discarded, never applied.
	rosterPool    []game.Player
	rosterLoading bool
	rosterFailed  bool
	rosterGen     int
	rosterCancel  context.CancelFunc

	lastAccess time.Time
}

// NewManager creates an uninitialized manager; call Initialize before use.
func NewManager(cfg Config) *Manager {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Manager{
		store:      cfg.Store,
		eval:       cfg.Evaluator,
		roster:     cfg.Roster,
		logger:     logger,
		now:        now,
		guessKey:   cfg.GuessKey,
		statsKey:   cfg.StatsKey,
		mode:       game.ModeMen,
		lastAccess: now(),
	}
}

// Initialize loads both documents from the store, falling back to fresh
// ones on absence or corruption. A stale GuessLog (stamped with an older
// day) is reconciled before being discarded so yesterday's outcome is
// still credited.
func (m *Manager) Initialize(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	today := dayclock.DayID(m.now())

	m.log = NewGuessLog(today)
	if payload, err := m.store.Load(ctx, m.guessKey); err != nil {
		m.logger.Warn("Failed to load guess log, starting fresh", "key", m.guessKey, "error", err)
	} else if payload != nil {
		var loaded GuessLog
		if err := json.Unmarshal(payload, &loaded); err != nil || loaded.Day == "" {
			m.logger.Warn("Guess log unreadable, starting fresh", "key", m.guessKey, "error", err)
		} else {
			m.log = loaded
		}
	}

	m.ledger = Ledger{}
	if payload, err := m.store.Load(ctx, m.statsKey); err != nil {
		m.logger.Warn("Failed to load stats ledger, starting fresh", "key", m.statsKey, "error", err)
	} else if payload != nil {
		var loaded Ledger
		if err := json.Unmarshal(payload, &loaded); err != nil {
			m.logger.Warn("Stats ledger unreadable, starting fresh", "key", m.statsKey, "error", err)
		} else {
			m.ledger = loaded
		}
	}

	m.reconcileLocked(ctx)
	m.persistLogLocked(ctx)
	m.persistLedgerLocked(ctx)
	m.refreshRosterLocked()
	return nil
}

// SetMode switches the active track. Any in-flight roster fetch for the
// previous mode is cancelled and a fresh pool is requested for the new
// one, excluding players already guessed in that mode today.
func (m *Manager) SetMode(ctx context.Context, mode game.Mode) {
	if !mode.Valid() {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.reconcileLocked(ctx)
	if m.mode == mode {
		return
	}
	m.mode = mode
	m.refreshRosterLocked()
}

// SubmitGuess evaluates a guessed name against the active mode's secret
// player and appends the result to the log. Returns ErrGuessIgnored when
// the name is empty, the mode is already won, or another submission is
// outstanding; in those cases no request is issued and nothing mutates.
func (m *Manager) SubmitGuess(ctx context.Context, name string) (GuessEntry, error) {
	m.mu.Lock()
	m.reconcileLocked(ctx)

	if name == "" || won(m.log.Entries(m.mode)) || m.submitting {
		m.mu.Unlock()
		return GuessEntry{}, ErrGuessIgnored
	}

	m.submitting = true
	mode := m.mode
	day := m.log.Day
	m.mu.Unlock()

	eval, err := m.eval.Evaluate(ctx, name, mode)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.submitting = false

	if err != nil {
		if errors.Is(err, game.ErrPlayerNotFound) {
			return GuessEntry{}, game.ErrPlayerNotFound
		}
		if errors.Is(err, context.Canceled) {
			return GuessEntry{}, err
		}
		m.logger.Warn("Guess evaluation failed", "mode", mode, "error", err)
		return GuessEntry{}, ErrEvaluationUnavailable
	}

	// The day may have rolled over while the evaluation was in flight;
	// the result belongs to yesterday's puzzle and must not enter the
	// new day's log.
	if m.log.Day != day || m.mode != mode {
		return GuessEntry{}, ErrGuessIgnored
	}

	entry := GuessEntry{Guess: eval.Guess, Feedback: eval.Feedback, IsCorrect: eval.IsCorrect}
	m.log.append(mode, entry)

	if entry.IsCorrect {
		finalizeMode(m.ledger.Record(mode), m.log.Entries(mode), day)
		m.persistLedgerLocked(ctx)
	}
	m.persistLogLocked(ctx)

	return entry, nil
}

// Tick runs the day-boundary check. Idempotent: when the day has not
// changed it does nothing.
func (m *Manager) Tick(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reconcileLocked(ctx)
}

// Candidates returns the active mode's candidate pool, minus players
// already guessed today, optionally narrowed by a case- and
// diacritic-insensitive substring query capped at 30 matches.
func (m *Manager) Candidates(query string) []game.Player {
	m.mu.Lock()
	defer m.mu.Unlock()
	return filterCandidates(m.rosterPool, m.log.Entries(m.mode), query)
}

// Snapshot returns the presentation-facing view of the session.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries := m.log.Entries(m.mode)
	rec := *m.ledger.Record(m.mode)

	return Snapshot{
		Mode:           m.mode,
		Day:            m.log.Day,
		Entries:        append([]GuessEntry{}, entries...),
		Won:            won(entries),
		WinningPlayer:  winningPlayer(entries),
		Stats:          rec,
		WinPercentage:  rec.WinPercentage(),
		AverageGuesses: rec.AverageGuesses(),
		Countdown:      dayclock.Countdown(m.now()),
		RosterLoading:  m.rosterLoading,
		RosterFailed:   m.rosterFailed,
	}
}

// Close cancels any in-flight roster fetch.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rosterCancel != nil {
		m.rosterCancel()
		m.rosterCancel = nil
	}
}

// Snapshot is the read model exposed to presentation layers. Everything
// here is derived from the two documents; nothing is stored separately.
type Snapshot struct {
	Mode           game.Mode    `json:"mode"`
	Day            string       `json:"day"`
	Entries        []GuessEntry `json:"entries"`
	Won            bool         `json:"won"`
	WinningPlayer  *game.Player `json:"winning_player,omitempty"`
	Stats          StatsRecord  `json:"stats"`
	WinPercentage  int          `json:"win_percentage"`
	AverageGuesses string       `json:"average_guesses"`
	Countdown      string       `json:"countdown"`
	RosterLoading  bool         `json:"roster_loading"`
	RosterFailed   bool         `json:"roster_failed"`
}

// reconcileLocked runs the rollover reconciler if the stamped day is no
// longer today. The day check and the stamp advance happen under the
// mutex, which is what makes finalization exactly-once under racing
// ticks and mode switches.
func (m *Manager) reconcileLocked(ctx context.Context) {
	today := dayclock.DayID(m.now())
	if m.log.Day == today {
		return
	}

	m.logger.Info("Day rollover", "from", m.log.Day, "to", today)
	m.log = rollover(&m.ledger, m.log, today)
	m.persistLogLocked(ctx)
	m.persistLedgerLocked(ctx)
	m.refreshRosterLocked()
}

// persistLogLocked writes the guess log through to the store. Write
// failures are logged and swallowed; the in-memory document stays
// authoritative for this process.
func (m *Manager) persistLogLocked(ctx context.Context) {
	payload, err := json.Marshal(m.log)
	if err != nil {
		m.logger.Warn("Failed to encode guess log", "error", err)
		return
	}
	if err := m.store.Save(ctx, m.guessKey, payload); err != nil {
		m.logger.Warn("Failed to persist guess log", "key", m.guessKey, "error", err)
	}
}

func (m *Manager) persistLedgerLocked(ctx context.Context) {
	payload, err := json.Marshal(m.ledger)
	if err != nil {
		m.logger.Warn("Failed to encode stats ledger", "error", err)
		return
	}
	if err := m.store.Save(ctx, m.statsKey, payload); err != nil {
		m.logger.Warn("Failed to persist stats ledger", "key", m.statsKey, "error", err)
	}
}

// refreshRosterLocked cancels any outstanding roster fetch and starts a
// new one for the active mode. The generation counter is re-checked
// before the result is applied, so a completion that lost the race
// changes nothing.
func (m *Manager) refreshRosterLocked() {
	if m.roster == nil {
		return
	}
	if m.rosterCancel != nil {
		m.rosterCancel()
	}

	m.rosterGen++
	gen := m.rosterGen
	mode := m.mode
	m.rosterPool = nil
	m.rosterLoading = true
	m.rosterFailed = false

	fetchCtx, cancel := context.WithCancel(context.Background())
	m.rosterCancel = cancel

	go func() {
		players, err := m.roster.Roster(fetchCtx, mode)

		m.mu.Lock()
		defer m.mu.Unlock()
		if gen != m.rosterGen {
			// Superseded by a later mode switch or rollover.
			return
		}
		m.rosterLoading = false
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				m.logger.Warn("Roster fetch failed", "mode", mode, "error", err)
				m.rosterFailed = true
			}
			return
		}
		m.rosterPool = players
	}()
}
