package battleship

import (
	"math/rand"
	"sync"

	cerr "github.com/Machurui/longship/internal/error"

	"github.com/google/uuid"
)

type GameMode uint8

const (
	GameModeDuel GameMode = iota
	GameModeBot
)

func (m GameMode) String() string {
	if m == GameModeBot {
		return "bot"
	}
	return "duel"
}

// Game binds a match to its two players and their opponent policies.
// Observers of the game must not call back into the game.
type Game struct {
	mu sync.Mutex

	uuid          string
	mode          GameMode
	rules         Rules
	match         *Match
	players       [2]*Player
	rematchCalled bool
	rng           *rand.Rand
	observers     []Observer
}

func newGame(gameUuid string, mode GameMode, rules Rules, rng *rand.Rand) (*Game, error) {
	g := &Game{
		uuid:  gameUuid,
		mode:  mode,
		rules: rules,
		rng:   rng,
	}

	if mode == GameModeBot {
		if err := g.readyBot(); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func NewGame(mode GameMode, rules Rules, rng *rand.Rand) (*Game, error) {
	return newGame(uuid.NewString()[:6], mode, rules, rng)
}

// must hold mu
func (g *Game) readyBot() error {
	bot, err := NewBotOpponent(g.rules, g.rng)
	if err != nil {
		return err
	}
	if g.players[SideJoin] == nil {
		g.players[SideJoin] = NewPlayer(SideJoin, "")
	}
	g.players[SideJoin].setReady(bot)
	return nil
}

func (g *Game) Uuid() string {
	return g.uuid
}

func (g *Game) Mode() GameMode {
	return g.mode
}

func (g *Game) Rules() Rules {
	return g.rules
}

func (g *Game) CreateHostPlayer(sessionID string) *Player {
	g.mu.Lock()
	defer g.mu.Unlock()

	host := NewPlayer(SideHost, sessionID)
	g.players[SideHost] = host
	return host
}

func (g *Game) CreateJoinPlayer(sessionID string) (*Player, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.mode == GameModeBot || g.players[SideJoin] != nil {
		return nil, cerr.ErrGameIsFull(g.uuid)
	}

	join := NewPlayer(SideJoin, sessionID)
	g.players[SideJoin] = join
	return join, nil
}

func (g *Game) FetchPlayer(isHost bool) *Player {
	g.mu.Lock()
	defer g.mu.Unlock()

	if isHost {
		return g.players[SideHost]
	}
	return g.players[SideJoin]
}

func (g *Game) OtherPlayer(p *Player) *Player {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.players[p.side.Other()]
}

// SetPlayerReady validates the player's fleet. With autoAnswer the server
// keeps the board and answers for the player, otherwise the player answers
// every attack and is trusted to tell the truth.
func (g *Game) SetPlayerReady(p *Player, placements []Placement, autoAnswer bool) error {
	board, err := NewBoard(g.rules.Catalogue, g.rules.GridSize, placements)
	if err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.match != nil {
		if !g.match.Result().IsOver() {
			return cerr.ErrUnexpectedAnswer("fleet cannot change during a match")
		}
		// the previous boards still carry their hits until Reset
		return cerr.ErrRematchNotCalled(g.uuid)
	}

	if autoAnswer {
		p.setReady(NewAutoAnswerHumanOpponent(board))
	} else {
		p.setReady(NewHumanOpponent())
	}
	return nil
}

func (g *Game) IsReadyToStart() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.isReadyToStart()
}

// must hold mu
func (g *Game) isReadyToStart() bool {
	for _, p := range g.players {
		if p == nil || !p.IsReady() {
			return false
		}
	}
	return true
}

// Subscribe registers an observer on the current and every later match.
func (g *Game) Subscribe(o Observer) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.observers = append(g.observers, o)
	if g.match != nil {
		g.match.Subscribe(o)
	}
}

// Start creates the match once both fleets are confirmed. The host
// attacks first. A finished match is only replaced after Reset.
func (g *Game) Start() (*Match, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.match != nil {
		if g.match.Result().IsOver() {
			return nil, cerr.ErrRematchNotCalled(g.uuid)
		}
		return g.match, nil
	}
	if !g.isReadyToStart() {
		return nil, cerr.ErrMatchNotStarted
	}

	g.match = NewMatch(g.rules, SideHost)
	for _, o := range g.observers {
		g.match.Subscribe(o)
	}
	g.rematchCalled = false
	return g.match, nil
}

func (g *Game) Match() *Match {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.match
}

// must hold mu
func (g *Game) startedMatch() (*Match, error) {
	if g.match == nil {
		return nil, cerr.ErrMatchNotStarted
	}
	return g.match, nil
}

// Attack submits the player's attack. When the defender's answer does not
// depend on an operator it is resolved right away and returned.
func (g *Game) Attack(p *Player, c Coordinates) (*Notification, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	match, err := g.startedMatch()
	if err != nil {
		return nil, err
	}
	if err := match.SubmitAttack(p.side, c); err != nil {
		return nil, err
	}
	return g.answerIfAutomatic(match, g.players[p.side.Other()], c)
}

// must hold mu
func (g *Game) answerIfAutomatic(match *Match, defender *Player, c Coordinates) (*Notification, error) {
	if !defender.answersAutomatically() {
		return nil, nil
	}

	answer, err := defender.Opponent().AnswerAttack(c)
	if err != nil {
		match.Abort()
		return nil, err
	}

	n, err := match.ResolveAnswer(defender.side, answer)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// Answer resolves the pending attack on the player's fleet with the
// operator's answer.
func (g *Game) Answer(p *Player, a Answer) (Notification, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	match, err := g.startedMatch()
	if err != nil {
		return Notification{}, err
	}

	pending, awaiting := match.Pending()
	opponent := p.Opponent()
	if !awaiting || p.side != match.Turn().Other() || opponent == nil {
		// the match rejects it as a protocol violation
		return match.ResolveAnswer(p.side, a)
	}

	if human, ok := opponent.(*HumanOpponent); ok {
		human.StageAnswer(a)
	}

	answer, err := opponent.AnswerAttack(pending)
	if err != nil {
		return Notification{}, err
	}
	return match.ResolveAnswer(p.side, answer)
}

// PlayBotTurn lets the bot attack while it holds the turn. It returns the
// bot's attack coordinates and, when the human's answer is automatic,
// the resolved notification.
func (g *Game) PlayBotTurn() (Coordinates, *Notification, bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	match, err := g.startedMatch()
	if err != nil {
		return Coordinates{}, nil, false, err
	}

	bot := g.players[SideJoin]
	if g.mode != GameModeBot || match.Phase() != PhaseAwaitingAttack || match.Turn() != bot.side {
		return Coordinates{}, nil, false, nil
	}

	c, err := bot.Opponent().ChooseNextAttack(match.Snapshot().HistoryOf(bot.side))
	if err != nil {
		return Coordinates{}, nil, false, err
	}
	if err := match.SubmitAttack(bot.side, c); err != nil {
		return Coordinates{}, nil, false, err
	}

	n, err := g.answerIfAutomatic(match, g.players[SideHost], c)
	return c, n, true, err
}

// SunkShipCoordinates returns the cells of the defender's ship sunk at c.
// It is empty when the server does not hold the defender's board.
func (g *Game) SunkShipCoordinates(defender *Player, c Coordinates) []Coordinates {
	g.mu.Lock()
	defer g.mu.Unlock()

	var board *Board
	switch o := defender.Opponent().(type) {
	case *BotOpponent:
		board = o.Board()
	case *HumanOpponent:
		board = o.Board()
	}
	if board == nil {
		return nil
	}

	ship, ok := board.Fleet().ShipAt(c)
	if !ok || !ship.IsSunk() {
		return nil
	}
	return ship.Coordinates()
}

func (g *Game) Surrender(p *Player) (Notification, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	match, err := g.startedMatch()
	if err != nil {
		return Notification{}, err
	}
	return match.Surrender(p.side)
}

// PlayerMatchStatus tells a player whether they won or lost the match.
func (g *Game) PlayerMatchStatus(p *Player) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.match == nil {
		return PlayerMatchStatusUndefined
	}

	result := g.match.Result()
	switch {
	case result.Status != ResultWon:
		return PlayerMatchStatusUndefined
	case result.Winner == p.side:
		return PlayerMatchStatusWon
	default:
		return PlayerMatchStatusLost
	}
}

func (g *Game) IsRematchAlreadyCalled() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rematchCalled
}

func (g *Game) CallRematch() {
	g.mu.Lock()
	g.rematchCalled = true
	g.mu.Unlock()
}

// Reset prepares a rematch: every human player selects a fleet again.
func (g *Game) Reset() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.match != nil && !g.match.Result().IsOver() {
		return cerr.ErrUnexpectedAnswer("cannot reset a match in progress")
	}

	for _, p := range g.players {
		if p != nil {
			p.reset()
		}
	}
	g.match = nil
	g.rematchCalled = false

	if g.mode == GameModeBot {
		return g.readyBot()
	}
	return nil
}
