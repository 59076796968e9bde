package battleship

import (
	"sync"

	cerr "github.com/Machurui/longship/internal/error"
)

// Match is the attack/answer state machine shared by both sides.
// All mutations happen under mu and are validated before anything is
// written, so a rejected call leaves the match untouched.
type Match struct {
	mu sync.RWMutex

	rules    Rules
	turn     Side
	phase    Phase
	pending  Coordinates
	attacked [2]map[Coordinates]struct{}
	known    [2]Grid
	sunk     [2]int
	history  []AttackRecord
	result   MatchResult

	observers []Observer
	queue     []Event
	flushing  bool
}

func NewMatch(rules Rules, firstTurn Side) *Match {
	m := &Match{
		rules:   rules,
		turn:    firstTurn,
		phase:   PhaseAwaitingAttack,
		history: make([]AttackRecord, 0, rules.GridSize*rules.GridSize*2),
	}
	for i := range m.known {
		m.attacked[i] = make(map[Coordinates]struct{}, rules.GridSize*rules.GridSize)
		m.known[i] = NewGrid(rules.GridSize, PresenceUnknown)
	}
	return m
}

func (m *Match) Rules() Rules {
	return m.rules
}

// Subscribe registers an observer. Observers run outside the match lock
// and may read or mutate the match.
func (m *Match) Subscribe(o Observer) {
	m.mu.Lock()
	m.observers = append(m.observers, o)
	m.mu.Unlock()
}

func (m *Match) SubmitAttack(attacker Side, c Coordinates) error {
	m.mu.Lock()

	if m.phase == PhaseMatchOver {
		m.mu.Unlock()
		return cerr.ErrMatchOver
	}
	if m.phase != PhaseAwaitingAttack || m.turn != attacker {
		m.mu.Unlock()
		return cerr.ErrNotTurnForAttacker(attacker.String())
	}
	if !m.known[attacker].InBounds(c) {
		m.mu.Unlock()
		return cerr.ErrXorYOutOfGridBound(c.Row, c.Column)
	}
	if _, prs := m.attacked[attacker][c]; prs {
		m.mu.Unlock()
		return cerr.ErrAttackPositionAlreadyFilled(c.Row, c.Column)
	}

	m.attacked[attacker][c] = struct{}{}
	m.phase = PhaseAwaitingAnswer
	m.pending = c

	m.enqueue(EventAttackSubmitted, Notification{
		Attacker: attacker,
		Defender: attacker.Other(),
		Coord:    c,
		TurnNow:  m.turn,
		Result:   m.result,
	})
	m.mu.Unlock()

	m.flush()
	return nil
}

// ResolveAnswer applies the defender's answer to the pending attack.
// An answer that does not match the pending attack aborts the match.
func (m *Match) ResolveAnswer(defender Side, a Answer) (Notification, error) {
	m.mu.Lock()

	if m.phase == PhaseMatchOver {
		m.mu.Unlock()
		return Notification{}, cerr.ErrUnexpectedAnswer("answer received after the match is over")
	}

	var violation error
	switch {
	case m.phase != PhaseAwaitingAnswer:
		violation = cerr.ErrUnexpectedAnswer("answer received while awaiting an attack")
	case defender != m.turn.Other():
		violation = cerr.ErrUnexpectedAnswer("answer received from the attacking side " + defender.String())
	case a.Coord != m.pending:
		violation = cerr.ErrAnswerCoordinatesMismatch(m.pending.Row, m.pending.Column, a.Coord.Row, a.Coord.Column)
	default:
		violation = a.Validate()
	}
	if violation != nil {
		m.abort()
		m.mu.Unlock()
		m.flush()
		return Notification{}, violation
	}

	attacker := m.turn
	m.known[attacker].reveal(a)
	m.history = append(m.history, AttackRecord{Attacker: attacker, Coord: a.Coord, Answer: a})
	if a.Sunk {
		m.sunk[defender]++
	}

	if m.rules.TurnPolicy == TurnPolicyAlwaysToggle || !a.IsHit() {
		m.turn = attacker.Other()
	}

	m.phase = PhaseAwaitingAttack
	if m.sunk[defender] >= m.rules.FleetSize() {
		m.phase = PhaseMatchOver
		m.result = MatchResult{Status: ResultWon, Winner: attacker}
	}

	answer := a
	n := Notification{
		Attacker: attacker,
		Defender: defender,
		Coord:    a.Coord,
		Answer:   &answer,
		TurnNow:  m.turn,
		Result:   m.result,
		Snapshot: m.snapshot(),
	}
	m.enqueue(EventAnswerResolved, n)
	if m.phase == PhaseMatchOver {
		m.enqueue(EventMatchOver, n)
	}
	m.mu.Unlock()

	m.flush()
	return n, nil
}

// Surrender ends the match at once in favour of the other side.
// A pending attack is dropped.
func (m *Match) Surrender(side Side) (Notification, error) {
	m.mu.Lock()

	if m.phase == PhaseMatchOver {
		m.mu.Unlock()
		return Notification{}, cerr.ErrMatchOver
	}

	m.phase = PhaseMatchOver
	m.pending = Coordinates{}
	m.result = MatchResult{Status: ResultWon, Winner: side.Other(), Surrendered: true}

	n := Notification{
		Attacker: m.turn,
		Defender: m.turn.Other(),
		TurnNow:  m.turn,
		Result:   m.result,
		Snapshot: m.snapshot(),
	}
	m.enqueue(EventMatchOver, n)
	m.mu.Unlock()

	m.flush()
	return n, nil
}

// Abort marks the match as aborted, e.g. when a side disconnects for good.
func (m *Match) Abort() {
	m.mu.Lock()
	if m.phase == PhaseMatchOver {
		m.mu.Unlock()
		return
	}
	m.abort()
	m.mu.Unlock()

	m.flush()
}

func (m *Match) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot()
}

func (m *Match) Turn() Side {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.turn
}

func (m *Match) Phase() Phase {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.phase
}

func (m *Match) Result() MatchResult {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.result
}

// Pending returns the coordinates awaiting an answer.
func (m *Match) Pending() (Coordinates, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pending, m.phase == PhaseAwaitingAnswer
}

// must hold mu
func (m *Match) abort() {
	m.phase = PhaseMatchOver
	m.pending = Coordinates{}
	m.result = MatchResult{Status: ResultAborted}
	m.enqueue(EventMatchOver, Notification{
		Attacker: m.turn,
		Defender: m.turn.Other(),
		TurnNow:  m.turn,
		Result:   m.result,
		Snapshot: m.snapshot(),
	})
}

// must hold mu
func (m *Match) snapshot() Snapshot {
	s := Snapshot{
		Turn:      m.turn,
		Phase:     m.phase,
		SunkCount: m.sunk,
		FleetSize: m.rules.FleetSize(),
		History:   make([]AttackRecord, len(m.history)),
		Result:    m.result,
	}
	copy(s.History, m.history)
	for i := range m.known {
		s.Known[i] = m.known[i].Clone()
	}
	if m.phase == PhaseAwaitingAnswer {
		pending := m.pending
		s.Pending = &pending
	}
	return s
}

// must hold mu
func (m *Match) enqueue(t EventType, n Notification) {
	if len(m.observers) == 0 {
		return
	}
	m.queue = append(m.queue, Event{Type: t, Notification: n})
}

// flush hands queued events to the observers without holding mu.
// Only one goroutine drains at a time so events keep their order.
func (m *Match) flush() {
	m.mu.Lock()
	if m.flushing {
		m.mu.Unlock()
		return
	}
	m.flushing = true

	for len(m.queue) > 0 {
		ev := m.queue[0]
		m.queue = m.queue[1:]
		observers := m.observers
		m.mu.Unlock()

		for _, o := range observers {
			o(ev)
		}

		m.mu.Lock()
	}
	m.flushing = false
	m.mu.Unlock()
}
