package battleship

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	cerr "github.com/Machurui/longship/internal/error"
)

const instrumentationName = "github.com/Machurui/longship/models/battleship"

type GameManager interface {
	CreateGame(mode GameMode, difficulty uint8) (*Game, error)
	FetchGame(gameUuid string) (*Game, error)
	TerminateGame(gameUuid string)

	isDifficultyValid(uint8) bool
}

type gameMetrics struct {
	gamesCreated     metric.Int64Counter
	attacksSubmitted metric.Int64Counter
	answersResolved  metric.Int64Counter
	matchesFinished  metric.Int64Counter
	matchesAborted   metric.Int64Counter
}

type BattleshipGameManager struct {
	games   map[string]*Game
	mu      sync.RWMutex
	log     *zap.Logger
	rules   *Rules
	seed    func() int64
	metrics gameMetrics
}

var _ GameManager = (*BattleshipGameManager)(nil)

type Option func(*BattleshipGameManager) error

// WithRules plays every game with the given rules regardless of difficulty.
func WithRules(rules Rules) Option {
	return func(bgm *BattleshipGameManager) error {
		if err := rules.Validate(); err != nil {
			return err
		}
		bgm.rules = &rules
		return nil
	}
}

// WithSeed makes bot fleets and shots reproducible.
func WithSeed(seed int64) Option {
	return func(bgm *BattleshipGameManager) error {
		bgm.seed = func() int64 { return seed }
		return nil
	}
}

func NewBattleshipGameManager(log *zap.Logger, opts ...Option) (*BattleshipGameManager, error) {
	bgm := &BattleshipGameManager{
		games: make(map[string]*Game, 10),
		log:   log,
		seed:  func() int64 { return time.Now().UnixNano() },
	}
	for _, opt := range opts {
		if err := opt(bgm); err != nil {
			return nil, err
		}
	}

	if err := bgm.initMetrics(otel.Meter(instrumentationName)); err != nil {
		return nil, err
	}
	return bgm, nil
}

func (bgm *BattleshipGameManager) initMetrics(m metric.Meter) error {
	var err error

	if bgm.metrics.gamesCreated, err = m.Int64Counter("battleship.games.created",
		metric.WithDescription("Total games created")); err != nil {
		return err
	}
	if bgm.metrics.attacksSubmitted, err = m.Int64Counter("battleship.attacks.submitted",
		metric.WithDescription("Total attacks accepted by the protocol")); err != nil {
		return err
	}
	if bgm.metrics.answersResolved, err = m.Int64Counter("battleship.answers.resolved",
		metric.WithDescription("Total answers resolved")); err != nil {
		return err
	}
	if bgm.metrics.matchesFinished, err = m.Int64Counter("battleship.matches.finished",
		metric.WithDescription("Total matches won or surrendered")); err != nil {
		return err
	}
	if bgm.metrics.matchesAborted, err = m.Int64Counter("battleship.matches.aborted",
		metric.WithDescription("Total matches aborted by a protocol violation")); err != nil {
		return err
	}
	return nil
}

func (bgm *BattleshipGameManager) CreateGame(mode GameMode, difficulty uint8) (*Game, error) {
	if !bgm.isDifficultyValid(difficulty) {
		return nil, cerr.ErrInvalidGameDifficulty()
	}
	if mode != GameModeDuel && mode != GameModeBot {
		return nil, cerr.ErrInvalidGameMode()
	}

	rules, err := RulesForDifficulty(difficulty)
	if err != nil {
		return nil, err
	}
	if bgm.rules != nil {
		rules = *bgm.rules
	}

	game, err := newGame(uuid.NewString()[:6], mode, rules, rand.New(rand.NewSource(bgm.seed())))
	if err != nil {
		return nil, err
	}
	game.Subscribe(bgm.observe(game.Uuid()))

	bgm.mu.Lock()
	bgm.games[game.Uuid()] = game
	bgm.mu.Unlock()

	attrs := metric.WithAttributes(attribute.String("mode", mode.String()))
	bgm.metrics.gamesCreated.Add(context.Background(), 1, attrs)
	bgm.log.Info("game created",
		zap.String("game", game.Uuid()),
		zap.Stringer("mode", mode),
		zap.Int("grid_size", rules.GridSize),
		zap.Stringer("turn_policy", rules.TurnPolicy),
	)
	return game, nil
}

func (bgm *BattleshipGameManager) observe(gameUuid string) Observer {
	return func(ev Event) {
		ctx := context.Background()

		switch ev.Type {
		case EventAttackSubmitted:
			bgm.metrics.attacksSubmitted.Add(ctx, 1)

		case EventAnswerResolved:
			bgm.metrics.answersResolved.Add(ctx, 1)

		case EventMatchOver:
			result := ev.Notification.Result
			if result.Status == ResultAborted {
				bgm.metrics.matchesAborted.Add(ctx, 1)
				bgm.log.Warn("match aborted", zap.String("game", gameUuid))
				return
			}

			bgm.metrics.matchesFinished.Add(ctx, 1,
				metric.WithAttributes(attribute.Bool("surrendered", result.Surrendered)))
			bgm.log.Info("match over",
				zap.String("game", gameUuid),
				zap.Stringer("winner", result.Winner),
				zap.Bool("surrendered", result.Surrendered),
			)
		}
	}
}

func (bgm *BattleshipGameManager) FetchGame(gameUuid string) (*Game, error) {
	bgm.mu.RLock()
	game, prs := bgm.games[gameUuid]
	bgm.mu.RUnlock()
	if !prs {
		return nil, cerr.ErrGameNotExists(gameUuid)
	}

	return game, nil
}

// TerminateGame drops the game. A match still in progress is aborted.
func (bgm *BattleshipGameManager) TerminateGame(gameUuid string) {
	bgm.mu.Lock()
	game, prs := bgm.games[gameUuid]
	delete(bgm.games, gameUuid)
	bgm.mu.Unlock()

	if !prs {
		return
	}
	if match := game.Match(); match != nil {
		match.Abort()
	}
	bgm.log.Info("game terminated", zap.String("game", gameUuid))
}

func (bgm *BattleshipGameManager) isDifficultyValid(difficulty uint8) bool {
	return !(difficulty != GameDifficultyEasy && difficulty != GameDifficultyNormal && difficulty != GameDifficultyHard)
}
