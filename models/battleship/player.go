package battleship

import (
	"sync"

	"github.com/google/uuid"
)

const (
	PlayerMatchStatusLost      = -1
	PlayerMatchStatusUndefined = 0
	PlayerMatchStatusWon       = 1
)

type Player struct {
	uuid      string
	side      Side
	sessionID string

	// the game re-readies players while other sessions read them
	mu       sync.RWMutex
	isReady  bool
	opponent Opponent
}

func NewPlayer(side Side, sessionID string) *Player {
	return &Player{
		uuid:      uuid.NewString()[:10],
		side:      side,
		sessionID: sessionID,
		isReady:   false,
	}
}

func (p *Player) Uuid() string {
	return p.uuid
}

func (p *Player) Side() Side {
	return p.side
}

func (p *Player) IsHost() bool {
	return p.side == SideHost
}

func (p *Player) SessionId() string {
	return p.sessionID
}

func (p *Player) IsReady() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.isReady
}

func (p *Player) Opponent() Opponent {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.opponent
}

func (p *Player) IsBot() bool {
	o := p.Opponent()
	return o != nil && o.Kind() == OpponentBot
}

// answersAutomatically reports whether the server can answer attacks
// on this player's fleet without waiting for the operator.
func (p *Player) answersAutomatically() bool {
	switch o := p.Opponent().(type) {
	case *BotOpponent:
		return true
	case *HumanOpponent:
		return o.AnswersAutomatically()
	}
	return false
}

func (p *Player) setReady(opponent Opponent) {
	p.mu.Lock()
	p.opponent = opponent
	p.isReady = true
	p.mu.Unlock()
}

func (p *Player) reset() {
	p.mu.Lock()
	p.opponent = nil
	p.isReady = false
	p.mu.Unlock()
}
