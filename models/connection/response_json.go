package connection

import (
	mb "github.com/Machurui/longship/models/battleship"
)

type RespJoinGame struct {
	GameUuid   string `json:"game_uuid"`
	PlayerUuid string `json:"player_uuid"`
}

type RespCreateGame struct {
	GameUuid string `json:"game_uuid"`
	HostUuid string `json:"host_uuid"`
	GridSize int    `json:"grid_size"`
}

type RespSessionId struct {
	SessionID string `json:"session_id"`
}

// RespIncomingAttack asks the defender to answer an attack.
type RespIncomingAttack struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

type RespAnswerResolved struct {
	Row                       int              `json:"row"`
	Column                    int              `json:"column"`
	Status                    uint8            `json:"status"`
	IsTurn                    bool             `json:"is_turn"`
	SunkenShipsHost           int              `json:"sunken_ships_host"`
	SunkenShipsJoin           int              `json:"sunken_ships_join"`
	DefenderSunkenShipsCoords []mb.Coordinates `json:"defender_sunken_ships_coords,omitempty"`
}

// NewRespAnswerResolved renders the notification for the receiving side.
func NewRespAnswerResolved(n mb.Notification, receiver mb.Side, sunkCoords []mb.Coordinates) RespAnswerResolved {
	resp := RespAnswerResolved{
		Row:                       n.Coord.Row,
		Column:                    n.Coord.Column,
		IsTurn:                    !n.Result.IsOver() && n.TurnNow == receiver,
		SunkenShipsHost:           n.Snapshot.SunkCount[mb.SideHost],
		SunkenShipsJoin:           n.Snapshot.SunkCount[mb.SideJoin],
		DefenderSunkenShipsCoords: sunkCoords,
	}
	if n.Answer != nil {
		resp.Status = n.Answer.Status()
	}
	return resp
}

type RespEndGame struct {
	PlayerMatchStatus int  `json:"player_match_status"`
	Surrendered       bool `json:"surrendered"`
	Aborted           bool `json:"aborted"`
}

type RespErr struct {
	ErrorDetails string `json:"error_details,omitempty"`
	Message      string `json:"message,omitempty"`
}

func NewRespErr(errorDetails, message string) *RespErr {
	return &RespErr{
		ErrorDetails: errorDetails,
		Message:      message,
	}
}
