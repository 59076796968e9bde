package battleship

type Side uint8

const (
	SideHost Side = iota
	SideJoin
)

func (s Side) Other() Side {
	return 1 - s
}

func (s Side) String() string {
	if s == SideHost {
		return "host"
	}
	return "join"
}

type Phase uint8

const (
	PhaseAwaitingAttack Phase = iota
	PhaseAwaitingAnswer
	PhaseMatchOver
)

func (p Phase) String() string {
	switch p {
	case PhaseAwaitingAttack:
		return "awaiting_attack"
	case PhaseAwaitingAnswer:
		return "awaiting_answer"
	default:
		return "match_over"
	}
}

type ResultStatus uint8

const (
	ResultOngoing ResultStatus = iota
	ResultWon
	ResultAborted
)

type MatchResult struct {
	Status      ResultStatus `json:"status"`
	Winner      Side         `json:"winner"`
	Surrendered bool         `json:"surrendered"`
}

func (r MatchResult) IsOver() bool {
	return r.Status != ResultOngoing
}

// HasWon reports whether side won the match.
func (r MatchResult) HasWon(side Side) bool {
	return r.Status == ResultWon && r.Winner == side
}

type AttackRecord struct {
	Attacker Side        `json:"attacker"`
	Coord    Coordinates `json:"coord"`
	Answer   Answer      `json:"answer"`
}

// Snapshot is a deep copy of the match state safe to hand to readers.
type Snapshot struct {
	Turn      Side           `json:"turn"`
	Phase     Phase          `json:"phase"`
	Pending   *Coordinates   `json:"pending,omitempty"`
	Known     [2]Grid        `json:"known"`
	SunkCount [2]int         `json:"sunk_count"`
	FleetSize int            `json:"fleet_size"`
	History   []AttackRecord `json:"history"`
	Result    MatchResult    `json:"result"`
}

// HistoryOf returns the attacks made by side, oldest first.
func (s Snapshot) HistoryOf(side Side) []AttackRecord {
	records := make([]AttackRecord, 0, len(s.History))
	for _, r := range s.History {
		if r.Attacker == side {
			records = append(records, r)
		}
	}
	return records
}

type EventType uint8

const (
	EventAttackSubmitted EventType = iota
	EventAnswerResolved
	EventMatchOver
)

type Notification struct {
	Attacker Side        `json:"attacker"`
	Defender Side        `json:"defender"`
	Coord    Coordinates `json:"coord"`
	Answer   *Answer     `json:"answer,omitempty"`
	TurnNow  Side        `json:"turn_now"`
	Result   MatchResult `json:"result"`
	Snapshot Snapshot    `json:"snapshot"`
}

type Event struct {
	Type         EventType
	Notification Notification
}

// Observer receives match events in the order the match produced them.
type Observer func(Event)
