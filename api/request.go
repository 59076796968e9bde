package api

import (
	cerr "github.com/Machurui/longship/internal/error"
	mb "github.com/Machurui/longship/models/battleship"
	mc "github.com/Machurui/longship/models/connection"
)

type RequestHandler interface {
	HandleCreateGame(gm mb.GameManager, sessionId string) (*mb.Game, *mb.Player, mc.Message[mc.RespCreateGame])
	HandleJoinPlayer(gm mb.GameManager, sessionId string) (*mb.Game, *mb.Player, mc.Message[mc.RespJoinGame])
	HandleReadyPlayer(game *mb.Game, player *mb.Player) mc.Message[mc.NoPayload]
	HandleAttack(game *mb.Game, player *mb.Player) (*mb.Notification, mc.Message[mc.RespIncomingAttack])
	HandleAnswer(game *mb.Game, player *mb.Player) (*mb.Notification, mc.Message[mc.NoPayload])
	HandleSurrender(game *mb.Game, player *mb.Player) (*mb.Notification, mc.Message[mc.NoPayload])
	HandleCallRematch(game *mb.Game) (mc.Message[mc.NoPayload], error)
	HandleAcceptRematchCall(game *mb.Game) (mc.Message[mc.NoPayload], error)
}

// Every incoming valid request will have this structure
// The request then is handled in line with RequestHandler interface
type Request struct {
	payload []byte
}

var _ RequestHandler = (*Request)(nil)

func NewRequest(payload ...[]byte) Request {
	if len(payload) == 0 {
		return Request{}
	}
	return Request{payload: payload[0]}
}

// In this handler we initialize the game and hence create a host player
func (r Request) HandleCreateGame(gm mb.GameManager, sessionId string) (*mb.Game, *mb.Player, mc.Message[mc.RespCreateGame]) {
	resp := mc.NewMessage[mc.RespCreateGame](mc.CodeCreateGame)

	req, err := mc.DecodePayload[mc.ReqCreateGame](r.payload)
	if err != nil {
		resp.AddError(err.Error(), "invalid create game payload")
		return nil, nil, resp
	}

	game, err := gm.CreateGame(mb.GameMode(req.GameMode), req.GameDifficulty)
	if err != nil {
		resp.AddError(err.Error(), "failed to create game")
		return nil, nil, resp
	}

	hostPlayer := game.CreateHostPlayer(sessionId)
	resp.AddPayload(mc.RespCreateGame{
		GameUuid: game.Uuid(),
		HostUuid: hostPlayer.Uuid(),
		GridSize: game.Rules().GridSize,
	})
	return game, hostPlayer, resp
}

// Join user sends the game uuid and if this game exists,
// a new join player is created for the session
func (r Request) HandleJoinPlayer(gm mb.GameManager, sessionId string) (*mb.Game, *mb.Player, mc.Message[mc.RespJoinGame]) {
	resp := mc.NewMessage[mc.RespJoinGame](mc.CodeJoinGame)

	req, err := mc.DecodePayload[mc.ReqJoinGame](r.payload)
	if err != nil {
		resp.AddError(err.Error(), "invalid join game payload")
		return nil, nil, resp
	}

	game, err := gm.FetchGame(req.GameUuid)
	if err != nil {
		resp.AddError(err.Error(), "")
		return nil, nil, resp
	}

	joinPlayer, err := game.CreateJoinPlayer(sessionId)
	if err != nil {
		resp.AddError(err.Error(), "")
		return nil, nil, resp
	}

	resp.AddPayload(mc.RespJoinGame{GameUuid: game.Uuid(), PlayerUuid: joinPlayer.Uuid()})
	return game, joinPlayer, resp
}

// User chooses the configuration of ships on the defence grid.
// The fleet is validated against the game rules.
func (r Request) HandleReadyPlayer(game *mb.Game, player *mb.Player) mc.Message[mc.NoPayload] {
	resp := mc.NewMessage[mc.NoPayload](mc.CodeReady)

	req, err := mc.DecodePayload[mc.ReqReadyPlayer](r.payload)
	if err != nil {
		resp.AddError(err.Error(), "invalid ready payload")
		return resp
	}

	placements, err := req.ToPlacements()
	if err != nil {
		resp.AddError(err.Error(), "invalid fleet")
		return resp
	}

	if err := game.SetPlayerReady(player, placements, req.AutoAnswer); err != nil {
		resp.AddError(err.Error(), "invalid fleet")
	}
	return resp
}

// The attack is accepted by the match and, when the defender's answer
// is computed by the server, resolved right away.
func (r Request) HandleAttack(game *mb.Game, player *mb.Player) (*mb.Notification, mc.Message[mc.RespIncomingAttack]) {
	resp := mc.NewMessage[mc.RespIncomingAttack](mc.CodeAttack)

	req, err := mc.DecodePayload[mc.ReqAttack](r.payload)
	if err != nil {
		resp.AddError(err.Error(), "invalid attack payload")
		return nil, resp
	}

	n, err := game.Attack(player, req.Coordinates())
	if err != nil {
		resp.AddError(err.Error(), cerr.ConstErrAttackFailed)
		return nil, resp
	}

	resp.AddPayload(mc.RespIncomingAttack{Row: req.Row, Column: req.Column})
	return n, resp
}

// The defender answers the pending attack. A malformed or mismatching
// answer aborts the match.
func (r Request) HandleAnswer(game *mb.Game, player *mb.Player) (*mb.Notification, mc.Message[mc.NoPayload]) {
	resp := mc.NewMessage[mc.NoPayload](mc.CodeAnswer)

	req, err := mc.DecodePayload[mc.ReqAnswer](r.payload)
	if err != nil {
		resp.AddError(err.Error(), "invalid answer payload")
		return nil, resp
	}

	answer, err := req.ToAnswer()
	if err != nil {
		resp.AddError(err.Error(), cerr.ConstErrAnswerFailed)
		return nil, resp
	}

	n, err := game.Answer(player, answer)
	if err != nil {
		resp.AddError(err.Error(), cerr.ConstErrAnswerFailed)
		return nil, resp
	}
	return &n, resp
}

func (r Request) HandleSurrender(game *mb.Game, player *mb.Player) (*mb.Notification, mc.Message[mc.NoPayload]) {
	resp := mc.NewMessage[mc.NoPayload](mc.CodeSurrender)

	n, err := game.Surrender(player)
	if err != nil {
		resp.AddError(err.Error(), "")
		return nil, resp
	}
	return &n, resp
}

// Ask the other player whether they want a rematch too
func (r Request) HandleCallRematch(game *mb.Game) (mc.Message[mc.NoPayload], error) {
	if game.IsRematchAlreadyCalled() {
		return mc.Message[mc.NoPayload]{}, cerr.ErrRematchAlreadyCalled(game.Uuid())
	}

	game.CallRematch()
	return mc.NewMessage[mc.NoPayload](mc.CodeRematchCall), nil
}

// Both players want a rematch; they select their grids again
func (r Request) HandleAcceptRematchCall(game *mb.Game) (mc.Message[mc.NoPayload], error) {
	if !game.IsRematchAlreadyCalled() {
		return mc.Message[mc.NoPayload]{}, cerr.ErrRematchNotCalled(game.Uuid())
	}

	if err := game.Reset(); err != nil {
		return mc.Message[mc.NoPayload]{}, err
	}
	return mc.NewMessage[mc.NoPayload](mc.CodeRematch), nil
}
