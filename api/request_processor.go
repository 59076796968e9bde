package api

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Machurui/longship/db/sqlc"
	cerr "github.com/Machurui/longship/internal/error"
	mb "github.com/Machurui/longship/models/battleship"
	mc "github.com/Machurui/longship/models/connection"
)

const (
	URLQuerySessionIDKeyword string = "sessionID"
)

var (
	upgrader = websocket.Upgrader{

		// good average time since this is not a high-latency operation such as video streaming
		HandshakeTimeout: time.Second * 5,

		// probably more that enough but this is a good average size
		ReadBufferSize:  2048,
		WriteBufferSize: 2048,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}
)

type RequestProcessor struct {
	sessionManager mc.SessionManager
	gameManager    mb.GameManager
	analytics      *sqlc.AnalyticsManager
	log            *zap.Logger
}

// NewRequestProcessor accepts a nil querier when no database is configured.
func NewRequestProcessor(
	sessionManager mc.SessionManager,
	gameManager mb.GameManager,
	q sqlc.Querier,
	log *zap.Logger,
) RequestProcessor {
	return RequestProcessor{
		sessionManager: sessionManager,
		gameManager:    gameManager,
		analytics:      sqlc.NewDbManager(q, serverIpNet()).Analytics,
		log:            log,
	}
}

// serverIpNet finds the first IPv4 address of an interface that is up,
// falling back to loopback.
func serverIpNet() net.IPNet {
	loopback := net.IPNet{IP: net.IPv4(127, 0, 0, 1), Mask: net.CIDRMask(32, 32)}

	ifaces, err := net.Interfaces()
	if err != nil {
		return loopback
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			if ipnet, ok := addr.(*net.IPNet); ok && ipnet.IP.To4() != nil && !ipnet.IP.IsLoopback() {
				return *ipnet
			}
		}
	}
	return loopback
}

// Expose this method to use it in testing
func (rp RequestProcessor) Analytics() *sqlc.AnalyticsManager {
	return rp.analytics
}

func (rp RequestProcessor) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// use Upgrade method to make a websocket connection
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		rp.log.Warn("could not open websocket connection", zap.Error(err))
		return
	}

	sessionIdQuery := r.URL.Query().Get(URLQuerySessionIDKeyword)
	switch sessionIdQuery {
	case "":
		rp.processSessionRequests(rp.sessionManager.GenerateNewSession(conn))

	default:
		if err := rp.sessionManager.ReconnectSession(sessionIdQuery, conn); err != nil {
			// This either means an expired session or invalid session ID
			_ = conn.WriteJSON(mc.NewMessage[mc.NoPayload](mc.CodeReceivedInvalidSessionID))
			conn.Close()
		}
	}
}

func (rp RequestProcessor) processSessionRequests(session *mc.Session) {
	sessionId := session.Id()

	defer func() {
		if game := session.Game(); game != nil {
			rp.notifyOther(game, session.Player(), mc.NewMessage[mc.NoPayload](mc.CodeOtherPlayerDisconnected))
			rp.gameManager.TerminateGame(game.Uuid())
		}
		if conn := session.Conn(); conn != nil {
			conn.Close()
		}
		rp.sessionManager.TerminateSession(sessionId)
	}()

	resp := mc.NewMessage[mc.RespSessionId](mc.CodeSessionID)
	resp.AddPayload(mc.RespSessionId{SessionID: sessionId})
	if err := rp.send(session, resp); err != nil {
		return
	}

sessionLoop:
	for {
		_, payload, err := rp.sessionManager.ReadFromSessionConn(session)
		if err != nil {
			// The session connection was broken and could not be resolved
			break sessionLoop
		}

		code, err := mc.FetchCodeFromMsg(payload)
		if err != nil {
			msg := mc.NewMessage[mc.NoPayload](mc.CodeSignalAbsent)
			msg.AddError("incoming req payload must contain 'code' field", "")
			if err = rp.send(session, msg); err != nil {
				break sessionLoop
			}
			continue sessionLoop
		}

		sessionGame, sessionPlayer := session.Game(), session.Player()
		if sessionGame == nil && requiresGame(code) {
			msg := mc.NewErrMessage(code, cerr.ErrSessionWithoutGame(sessionId), "")
			if err := rp.send(session, msg); err != nil {
				break sessionLoop
			}
			continue sessionLoop
		}

		switch code {
		case mc.CodeCreateGame:
			game, hostPlayer, respMsg := NewRequest(payload).HandleCreateGame(rp.gameManager, sessionId)
			if err := rp.send(session, respMsg); err != nil {
				break sessionLoop
			}
			if respMsg.Error != nil {
				continue sessionLoop
			}

			session.Bind(game, hostPlayer)
			rp.record(rp.analytics.IncrementGamesCreatedCount)

			// The bot has its fleet ready already
			if game.Mode() == mb.GameModeBot {
				if err := rp.send(session, mc.NewMessage[mc.NoPayload](mc.CodeSelectGrid)); err != nil {
					break sessionLoop
				}
			}

		case mc.CodeJoinGame:
			game, joinPlayer, respMsg := NewRequest(payload).HandleJoinPlayer(rp.gameManager, sessionId)
			if err := rp.send(session, respMsg); err != nil {
				break sessionLoop
			}
			if respMsg.Error != nil {
				continue sessionLoop
			}

			session.Bind(game, joinPlayer)

			selectGrid := mc.NewMessage[mc.NoPayload](mc.CodeSelectGrid)
			if err := rp.send(session, selectGrid); err != nil {
				break sessionLoop
			}
			rp.notifyOther(game, joinPlayer, selectGrid)

		// The player has selected their grid and is ready to start the game
		case mc.CodeReady:
			respMsg := NewRequest(payload).HandleReadyPlayer(sessionGame, sessionPlayer)
			if err := rp.send(session, respMsg); err != nil {
				break sessionLoop
			}
			if respMsg.Error != nil {
				continue sessionLoop
			}

			if !sessionGame.IsReadyToStart() {
				continue sessionLoop
			}
			if _, err := sessionGame.Start(); err != nil {
				rp.log.Error("failed to start match", zap.String("game", sessionGame.Uuid()), zap.Error(err))
				continue sessionLoop
			}

			startGame := mc.NewMessage[mc.NoPayload](mc.CodeStartGame)
			if err := rp.send(session, startGame); err != nil {
				break sessionLoop
			}
			rp.notifyOther(sessionGame, sessionPlayer, startGame)

		// The attacker gets an acknowledgement. The defender either answers
		// the incoming attack or the answer is resolved by the server.
		case mc.CodeAttack:
			n, respMsg := NewRequest(payload).HandleAttack(sessionGame, sessionPlayer)
			if err := rp.send(session, respMsg); err != nil {
				break sessionLoop
			}
			if respMsg.Error != nil {
				continue sessionLoop
			}

			if n == nil {
				incoming := mc.NewMessage[mc.RespIncomingAttack](mc.CodeIncomingAttack)
				incoming.AddPayload(respMsg.Payload)
				rp.notifyOther(sessionGame, sessionPlayer, incoming)
				continue sessionLoop
			}

			if err := rp.afterResolution(session, sessionGame, *n); err != nil {
				break sessionLoop
			}

		case mc.CodeAnswer:
			n, respMsg := NewRequest(payload).HandleAnswer(sessionGame, sessionPlayer)
			if respMsg.Error != nil {
				if err := rp.send(session, respMsg); err != nil {
					break sessionLoop
				}

				// a protocol violation ends the match for both players
				if match := sessionGame.Match(); match != nil && match.Result().Status == mb.ResultAborted {
					if err := rp.broadcastEndGame(session, sessionGame, match.Result()); err != nil {
						break sessionLoop
					}
				}
				continue sessionLoop
			}

			if err := rp.afterResolution(session, sessionGame, *n); err != nil {
				break sessionLoop
			}

		case mc.CodeSurrender:
			n, respMsg := NewRequest().HandleSurrender(sessionGame, sessionPlayer)
			if respMsg.Error != nil {
				if err := rp.send(session, respMsg); err != nil {
					break sessionLoop
				}
				continue sessionLoop
			}

			rp.record(rp.analytics.IncrementSurrenderCount)
			if err := rp.broadcastEndGame(session, sessionGame, n.Result); err != nil {
				break sessionLoop
			}

		case mc.CodeRematchCall:
			rp.record(rp.analytics.IncrementRematchCalledCount)

			respMsg, err := NewRequest().HandleCallRematch(sessionGame)
			if err != nil {
				if err := rp.send(session, mc.NewErrMessage(mc.CodeRematchCall, err, "")); err != nil {
					break sessionLoop
				}
				continue sessionLoop
			}

			if sessionGame.Mode() != mb.GameModeBot {
				rp.notifyOther(sessionGame, sessionPlayer, respMsg)
				continue sessionLoop
			}

			// The bot always accepts
			if err := rp.acceptRematch(session, sessionGame, sessionPlayer); err != nil {
				break sessionLoop
			}

		case mc.CodeRematchCallAccepted:
			if err := rp.acceptRematch(session, sessionGame, sessionPlayer); err != nil {
				break sessionLoop
			}

		// Notify the other player that no rematch is wanted now
		case mc.CodeRematchCallRejected:
			rp.notifyOther(sessionGame, sessionPlayer, mc.NewMessage[mc.NoPayload](mc.CodeRematchCallRejected))
			break sessionLoop

		case mc.CodePlayerInteraction:
			other := sessionGame.OtherPlayer(sessionPlayer)
			if other == nil || other.IsBot() {
				continue sessionLoop
			}
			msg := mc.NewSessionMessageBytes(other.SessionId(), sessionGame.Uuid(), payload)
			if err := rp.sessionManager.Communicate(msg); err != nil {
				rp.log.Warn("failed to forward interaction", zap.String("session", sessionId), zap.Error(err))
			}

		default:
			respInvalidSignal := mc.NewMessage[mc.NoPayload](mc.CodeInvalidSignal)
			respInvalidSignal.AddError("", "invalid code in the incoming payload")
			if err := rp.send(session, respInvalidSignal); err != nil {
				break sessionLoop
			}
		}
	}
}

func requiresGame(code uint8) bool {
	switch code {
	case mc.CodeReady, mc.CodeAttack, mc.CodeAnswer, mc.CodeSurrender,
		mc.CodeRematchCall, mc.CodeRematchCallAccepted, mc.CodeRematchCallRejected, mc.CodePlayerInteraction:
		return true
	}
	return false
}

func (rp RequestProcessor) acceptRematch(session *mc.Session, game *mb.Game, player *mb.Player) error {
	respMsg, err := NewRequest().HandleAcceptRematchCall(game)
	if err != nil {
		return rp.send(session, mc.NewErrMessage(mc.CodeRematchCallAccepted, err, ""))
	}

	if err := rp.send(session, respMsg); err != nil {
		return err
	}
	rp.notifyOther(game, player, respMsg)
	return nil
}

// afterResolution tells both players about the resolved answer, ends the
// match when it is over and lets the bot play its turns.
func (rp RequestProcessor) afterResolution(session *mc.Session, game *mb.Game, n mb.Notification) error {
	for {
		if err := rp.broadcastResolved(session, game, n); err != nil {
			return err
		}
		if n.Result.IsOver() {
			return rp.broadcastEndGame(session, game, n.Result)
		}
		if game.Mode() != mb.GameModeBot {
			return nil
		}

		c, botN, played, err := game.PlayBotTurn()
		if err != nil {
			rp.log.Error("bot failed to play", zap.String("game", game.Uuid()), zap.Error(err))
			return nil
		}
		if !played {
			return nil
		}

		// The host answers the bot's attack by hand
		if botN == nil {
			incoming := mc.NewMessage[mc.RespIncomingAttack](mc.CodeIncomingAttack)
			incoming.AddPayload(mc.RespIncomingAttack{Row: c.Row, Column: c.Column})
			return rp.send(session, incoming)
		}
		n = *botN
	}
}

func (rp RequestProcessor) broadcastResolved(session *mc.Session, game *mb.Game, n mb.Notification) error {
	var sunkCoords []mb.Coordinates
	if n.Answer != nil && n.Answer.Sunk {
		sunkCoords = game.SunkShipCoordinates(game.FetchPlayer(n.Defender == mb.SideHost), n.Coord)
	}

	sessionPlayer := session.Player()
	for _, side := range []mb.Side{mb.SideHost, mb.SideJoin} {
		p := game.FetchPlayer(side == mb.SideHost)
		if p == nil || p.IsBot() {
			continue
		}

		msg := mc.NewMessage[mc.RespAnswerResolved](mc.CodeAnswerResolved)
		msg.AddPayload(mc.NewRespAnswerResolved(n, side, sunkCoords))

		if p == sessionPlayer {
			if err := rp.send(session, msg); err != nil {
				return err
			}
			continue
		}
		rp.communicate(game, p, msg)
	}
	return nil
}

func (rp RequestProcessor) broadcastEndGame(session *mc.Session, game *mb.Game, result mb.MatchResult) error {
	if result.Status == mb.ResultWon {
		rp.record(rp.analytics.IncrementMatchesFinishedCount)
	}

	sessionPlayer := session.Player()
	for _, side := range []mb.Side{mb.SideHost, mb.SideJoin} {
		p := game.FetchPlayer(side == mb.SideHost)
		if p == nil || p.IsBot() {
			continue
		}

		msg := mc.NewMessage[mc.RespEndGame](mc.CodeEndGame)
		msg.AddPayload(mc.RespEndGame{
			PlayerMatchStatus: game.PlayerMatchStatus(p),
			Surrendered:       result.Surrendered,
			Aborted:           result.Status == mb.ResultAborted,
		})

		if p == sessionPlayer {
			if err := rp.send(session, msg); err != nil {
				return err
			}
			continue
		}
		rp.communicate(game, p, msg)
	}
	return nil
}

func (rp RequestProcessor) send(session *mc.Session, msg interface{}) error {
	return rp.sessionManager.WriteToSessionConn(session, msg, mc.MessageTypeJSON)
}

// notifyOther writes to the other human player of the game, if any.
func (rp RequestProcessor) notifyOther(game *mb.Game, player *mb.Player, msg interface{}) {
	if player == nil {
		return
	}
	other := game.OtherPlayer(player)
	if other == nil || other.IsBot() {
		return
	}
	rp.communicate(game, other, msg)
}

// Failing to reach the other player does not end this session.
func (rp RequestProcessor) communicate(game *mb.Game, receiver *mb.Player, msg interface{}) {
	err := rp.sessionManager.Communicate(mc.NewSessionMessageJSON(receiver.SessionId(), game.Uuid(), msg))
	if err != nil {
		rp.log.Warn("failed to reach other player",
			zap.String("game", game.Uuid()),
			zap.String("player", receiver.Uuid()),
			zap.Error(err),
		)
	}
}

func (rp RequestProcessor) record(increment func(context.Context) error) {
	if err := increment(context.Background()); err != nil {
		// for now not killing the game for it
		rp.log.Warn("failed to record analytics", zap.Error(err))
	}
}
