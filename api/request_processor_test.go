package api

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	mb "github.com/Machurui/longship/models/battleship"
	mc "github.com/Machurui/longship/models/connection"
)

var dialer = websocket.Dialer{
	HandshakeTimeout: 5 * time.Second,
}

// destroyer on A1-A2, submarine on C3
var testPlacements = []mc.ReqPlacement{
	{Ship: "destroyer", Row: 0, Column: 0},
	{Ship: "submarine", Row: 2, Column: 2},
}

type rawMessage struct {
	Code    uint8           `json:"code"`
	Payload json.RawMessage `json:"payload"`
	Error   *mc.RespErr     `json:"error"`
}

func newTestServer(t *testing.T) string {
	t.Helper()

	server, err := NewServer(zap.NewNop(), WithRules(mb.Rules{
		GridSize:   4,
		Catalogue:  mb.Catalogue{mb.ShipDestroyer: 2, mb.ShipSubmarine: 1},
		TurnPolicy: mb.TurnPolicyAlwaysToggle,
	}))
	require.NoError(t, err)

	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)

	return strings.Replace(ts.URL, "http", "ws", 1) + "/battleship"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()

	conn, _, err := dialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	sessionId := expect[mc.RespSessionId](t, conn, mc.CodeSessionID)
	require.NotEmpty(t, sessionId.SessionID)
	return conn
}

func send(t *testing.T, conn *websocket.Conn, code uint8, payload interface{}) {
	t.Helper()

	msg := mc.NewMessage[interface{}](code)
	msg.AddPayload(payload)
	require.NoError(t, conn.WriteJSON(msg))
}

func read(t *testing.T, conn *websocket.Conn) rawMessage {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg rawMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

// expect reads the next message, checks its code and decodes its payload.
func expect[T any](t *testing.T, conn *websocket.Conn, code uint8) T {
	t.Helper()

	msg := read(t, conn)
	require.Equal(t, code, msg.Code)
	require.Nil(t, msg.Error)

	var payload T
	if len(msg.Payload) > 0 {
		require.NoError(t, json.Unmarshal(msg.Payload, &payload))
	}
	return payload
}

func expectErr(t *testing.T, conn *websocket.Conn, code uint8) *mc.RespErr {
	t.Helper()

	msg := read(t, conn)
	require.Equal(t, code, msg.Code)
	require.NotNil(t, msg.Error)
	return msg.Error
}

// startDuel creates a duel where the host answers by hand and the join
// player's answers are computed by the server.
func startDuel(t *testing.T, url string) (*websocket.Conn, *websocket.Conn) {
	t.Helper()

	host := dial(t, url)
	send(t, host, mc.CodeCreateGame, mc.ReqCreateGame{GameDifficulty: mb.GameDifficultyNormal})
	created := expect[mc.RespCreateGame](t, host, mc.CodeCreateGame)
	require.Len(t, created.GameUuid, 6)
	require.Equal(t, 4, created.GridSize)

	join := dial(t, url)
	send(t, join, mc.CodeJoinGame, mc.ReqJoinGame{GameUuid: created.GameUuid})
	joined := expect[mc.RespJoinGame](t, join, mc.CodeJoinGame)
	require.Equal(t, created.GameUuid, joined.GameUuid)

	expect[mc.NoPayload](t, join, mc.CodeSelectGrid)
	expect[mc.NoPayload](t, host, mc.CodeSelectGrid)

	send(t, host, mc.CodeReady, mc.ReqReadyPlayer{Placements: testPlacements})
	expect[mc.NoPayload](t, host, mc.CodeReady)

	send(t, join, mc.CodeReady, mc.ReqReadyPlayer{Placements: testPlacements, AutoAnswer: true})
	expect[mc.NoPayload](t, join, mc.CodeReady)

	expect[mc.NoPayload](t, join, mc.CodeStartGame)
	expect[mc.NoPayload](t, host, mc.CodeStartGame)
	return host, join
}

func TestDuelToVictory(t *testing.T) {
	url := newTestServer(t)
	host, join := startDuel(t, url)

	hostAttack := func(row, column int, status uint8) mc.RespAnswerResolved {
		send(t, host, mc.CodeAttack, mc.ReqAttack{Row: row, Column: column})
		ack := expect[mc.RespIncomingAttack](t, host, mc.CodeAttack)
		assert.Equal(t, mc.RespIncomingAttack{Row: row, Column: column}, ack)

		resolved := expect[mc.RespAnswerResolved](t, host, mc.CodeAnswerResolved)
		assert.Equal(t, status, resolved.Status)
		assert.False(t, resolved.IsTurn)

		forJoin := expect[mc.RespAnswerResolved](t, join, mc.CodeAnswerResolved)
		assert.Equal(t, status, forJoin.Status)
		return resolved
	}

	joinAttackMissed := func(row, column int) {
		send(t, join, mc.CodeAttack, mc.ReqAttack{Row: row, Column: column})
		expect[mc.RespIncomingAttack](t, join, mc.CodeAttack)

		incoming := expect[mc.RespIncomingAttack](t, host, mc.CodeIncomingAttack)
		require.Equal(t, mc.RespIncomingAttack{Row: row, Column: column}, incoming)

		send(t, host, mc.CodeAnswer, mc.ReqAnswer{Row: row, Column: column, Status: mb.AnswerStatusMiss})
		resolved := expect[mc.RespAnswerResolved](t, host, mc.CodeAnswerResolved)
		assert.True(t, resolved.IsTurn)
		assert.False(t, expect[mc.RespAnswerResolved](t, join, mc.CodeAnswerResolved).IsTurn)
	}

	hostAttack(0, 0, mb.AnswerStatusHit)
	joinAttackMissed(3, 3)

	sunk := hostAttack(0, 1, mb.AnswerStatusSunk)
	assert.Equal(t, 1, sunk.SunkenShipsJoin)
	assert.Equal(t, 0, sunk.SunkenShipsHost)
	assert.Equal(t, []mb.Coordinates{{Row: 0, Column: 0}, {Row: 0, Column: 1}}, sunk.DefenderSunkenShipsCoords)

	joinAttackMissed(3, 2)

	last := hostAttack(2, 2, mb.AnswerStatusSunk)
	assert.Equal(t, 2, last.SunkenShipsJoin)

	hostEnd := expect[mc.RespEndGame](t, host, mc.CodeEndGame)
	assert.Equal(t, mc.RespEndGame{PlayerMatchStatus: mb.PlayerMatchStatusWon}, hostEnd)

	joinEnd := expect[mc.RespEndGame](t, join, mc.CodeEndGame)
	assert.Equal(t, mc.RespEndGame{PlayerMatchStatus: mb.PlayerMatchStatusLost}, joinEnd)

	// the match is over
	send(t, join, mc.CodeAttack, mc.ReqAttack{Row: 1, Column: 1})
	expectErr(t, join, mc.CodeAttack)
}

func TestDuelAnswerMismatchAbortsMatch(t *testing.T) {
	url := newTestServer(t)
	host, join := startDuel(t, url)

	send(t, host, mc.CodeAttack, mc.ReqAttack{Row: 3, Column: 3})
	expect[mc.RespIncomingAttack](t, host, mc.CodeAttack)
	expect[mc.RespAnswerResolved](t, host, mc.CodeAnswerResolved)
	expect[mc.RespAnswerResolved](t, join, mc.CodeAnswerResolved)

	send(t, join, mc.CodeAttack, mc.ReqAttack{Row: 1, Column: 1})
	expect[mc.RespIncomingAttack](t, join, mc.CodeAttack)
	expect[mc.RespIncomingAttack](t, host, mc.CodeIncomingAttack)

	send(t, host, mc.CodeAnswer, mc.ReqAnswer{Row: 2, Column: 2, Status: mb.AnswerStatusMiss})
	expectErr(t, host, mc.CodeAnswer)

	hostEnd := expect[mc.RespEndGame](t, host, mc.CodeEndGame)
	assert.True(t, hostEnd.Aborted)
	assert.Equal(t, mb.PlayerMatchStatusUndefined, hostEnd.PlayerMatchStatus)
	assert.True(t, expect[mc.RespEndGame](t, join, mc.CodeEndGame).Aborted)
}

func TestDuelSurrender(t *testing.T) {
	url := newTestServer(t)
	host, join := startDuel(t, url)

	send(t, join, mc.CodeSurrender, nil)

	hostEnd := expect[mc.RespEndGame](t, host, mc.CodeEndGame)
	assert.Equal(t, mc.RespEndGame{PlayerMatchStatus: mb.PlayerMatchStatusWon, Surrendered: true}, hostEnd)

	joinEnd := expect[mc.RespEndGame](t, join, mc.CodeEndGame)
	assert.Equal(t, mc.RespEndGame{PlayerMatchStatus: mb.PlayerMatchStatusLost, Surrendered: true}, joinEnd)

	// a new match needs the rematch handshake first
	send(t, host, mc.CodeReady, mc.ReqReadyPlayer{Placements: testPlacements, AutoAnswer: true})
	expectErr(t, host, mc.CodeReady)
}

func TestDuelRematch(t *testing.T) {
	url := newTestServer(t)
	host, join := startDuel(t, url)

	send(t, host, mc.CodeSurrender, nil)
	expect[mc.RespEndGame](t, join, mc.CodeEndGame)
	expect[mc.RespEndGame](t, host, mc.CodeEndGame)

	send(t, host, mc.CodeRematchCall, nil)
	expect[mc.NoPayload](t, join, mc.CodeRematchCall)

	send(t, host, mc.CodeRematchCall, nil)
	expectErr(t, host, mc.CodeRematchCall)

	send(t, join, mc.CodeRematchCallAccepted, nil)
	expect[mc.NoPayload](t, join, mc.CodeRematch)
	expect[mc.NoPayload](t, host, mc.CodeRematch)

	// fleets are selected again
	send(t, host, mc.CodeAttack, mc.ReqAttack{Row: 0, Column: 0})
	expectErr(t, host, mc.CodeAttack)
}

func TestBotGame(t *testing.T) {
	url := newTestServer(t)
	host := dial(t, url)

	send(t, host, mc.CodeCreateGame, mc.ReqCreateGame{GameMode: uint8(mb.GameModeBot)})
	expect[mc.RespCreateGame](t, host, mc.CodeCreateGame)
	expect[mc.NoPayload](t, host, mc.CodeSelectGrid)

	send(t, host, mc.CodeReady, mc.ReqReadyPlayer{Placements: testPlacements, AutoAnswer: true})
	expect[mc.NoPayload](t, host, mc.CodeReady)
	expect[mc.NoPayload](t, host, mc.CodeStartGame)

	send(t, host, mc.CodeAttack, mc.ReqAttack{Row: 3, Column: 0})
	expect[mc.RespIncomingAttack](t, host, mc.CodeAttack)
	assert.False(t, expect[mc.RespAnswerResolved](t, host, mc.CodeAnswerResolved).IsTurn)

	// the bot attacks right away and the server answers for the host
	botAttack := expect[mc.RespAnswerResolved](t, host, mc.CodeAnswerResolved)
	assert.True(t, botAttack.IsTurn)
	assert.Less(t, botAttack.Row, 4)
	assert.Less(t, botAttack.Column, 4)

	send(t, host, mc.CodeSurrender, nil)
	end := expect[mc.RespEndGame](t, host, mc.CodeEndGame)
	assert.Equal(t, mc.RespEndGame{PlayerMatchStatus: mb.PlayerMatchStatusLost, Surrendered: true}, end)

	send(t, host, mc.CodeRematchCall, nil)
	expect[mc.NoPayload](t, host, mc.CodeRematch)
}

func TestInvalidRequests(t *testing.T) {
	url := newTestServer(t)
	conn := dial(t, url)

	tests := []struct {
		name    string
		payload string
		code    uint8
	}{
		{name: "signal absent", payload: `{"payload": {}}`, code: mc.CodeSignalAbsent},
		{name: "unknown code", payload: `{"code": 200}`, code: mc.CodeInvalidSignal},
		{name: "attack without game", payload: `{"code": 7, "payload": {"row": 0, "column": 0}}`, code: mc.CodeAttack},
		{name: "invalid difficulty", payload: `{"code": 2, "payload": {"game_difficulty": 9, "game_mode": 0}}`, code: mc.CodeCreateGame},
		{name: "unknown game", payload: `{"code": 3, "payload": {"game_uuid": "nope00"}}`, code: mc.CodeJoinGame},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(test.payload)))
			expectErr(t, conn, test.code)
		})
	}
}

func TestReadyWithInvalidFleet(t *testing.T) {
	url := newTestServer(t)
	host := dial(t, url)

	send(t, host, mc.CodeCreateGame, mc.ReqCreateGame{GameMode: uint8(mb.GameModeBot)})
	expect[mc.RespCreateGame](t, host, mc.CodeCreateGame)
	expect[mc.NoPayload](t, host, mc.CodeSelectGrid)

	overlapping := []mc.ReqPlacement{
		{Ship: "destroyer", Row: 0, Column: 0},
		{Ship: "submarine", Row: 0, Column: 1},
	}
	send(t, host, mc.CodeReady, mc.ReqReadyPlayer{Placements: overlapping})
	expectErr(t, host, mc.CodeReady)

	send(t, host, mc.CodeReady, mc.ReqReadyPlayer{Placements: []mc.ReqPlacement{{Ship: "destroyer", Row: 0, Column: 3}}})
	expectErr(t, host, mc.CodeReady)
}
