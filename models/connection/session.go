package connection

import (
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	mb "github.com/Machurui/longship/models/battleship"
)

const (
	maxWriteWsRetries uint8 = 2
	backOffFactor     uint8 = 2
)

const (
	MessageTypeBytes uint8 = iota
	MessageTypeJSON
)

type ConnectionHandler interface {
	reconnectionAfterAbnormalClosure(conn *websocket.Conn)
	handleReadFromConnErr(err error, retries uint8) uint8
	writeToConnWithRetry(msg interface{}, msgType uint8) error
	onConnErr(err error) uint8
}

// Session is one websocket client. gorilla/websocket supports a single
// concurrent writer, so writes go through writeMu.
type Session struct {
	id  string
	log *zap.Logger

	mu                     sync.Mutex
	conn                   *websocket.Conn
	reconnectionSignalChan chan bool
	game                   *mb.Game
	player                 *mb.Player

	writeMu   sync.Mutex
	createdAt time.Time
}

var _ ConnectionHandler = (*Session)(nil)

func NewSession(id string, conn *websocket.Conn, log *zap.Logger) *Session {
	return &Session{
		id:                     id,
		log:                    log.With(zap.String("session", id)),
		conn:                   conn,
		reconnectionSignalChan: make(chan bool),
		createdAt:              time.Now(),
	}
}

func (s *Session) Id() string {
	return s.id
}

func (s *Session) Conn() *websocket.Conn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn
}

func (s *Session) Game() *mb.Game {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game
}

func (s *Session) Player() *mb.Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.player
}

// Bind attaches the session to the game it plays in.
func (s *Session) Bind(game *mb.Game, player *mb.Player) {
	s.mu.Lock()
	s.game = game
	s.player = player
	s.mu.Unlock()
}

func (s *Session) remoteAddr() string {
	return s.Conn().RemoteAddr().String()
}

func (s *Session) onConnErr(err error) uint8 {
	if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
		s.log.Warn("timeout error", zap.Error(err))
		return ConnLoopRetry
	}

	if websocket.IsCloseError(err, websocket.CloseTryAgainLater) {
		s.log.Warn("high server load/traffic error", zap.Error(err))
		return ConnLoopRetry
	}

	// Happens if the IOS client goes to background
	if websocket.IsCloseError(err, websocket.CloseAbnormalClosure) {
		s.log.Warn("abnormal closure error", zap.Error(err))
		return ConnLoopAbnormalClosureRetry
	}

	if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
		s.log.Info("close error", zap.Error(err))
		return ConnLoopBreak
	}

	if websocket.IsCloseError(err, websocket.CloseProtocolError, websocket.CloseInternalServerErr, websocket.CloseTLSHandshake, websocket.CloseMandatoryExtension) {
		s.log.Error("critical error", zap.Error(err))
		return ConnLoopBreak
	}

	// The client is probably not the application. Binary frames, invalid
	// UTF-8 and oversized messages end the session.
	if websocket.IsCloseError(err, websocket.CloseInvalidFramePayloadData, websocket.CloseUnsupportedData, websocket.CloseMessageTooBig, websocket.ClosePolicyViolation, websocket.CloseServiceRestart, websocket.CloseNoStatusReceived) {
		s.log.Warn("non-critical error", zap.Error(err))
		return ConnLoopBreak
	}

	s.log.Error("unexpected error", zap.Error(err))
	return ConnLoopBreak
}

func (s *Session) write(msg interface{}, msgType uint8) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	conn := s.Conn()
	switch msgType {
	case MessageTypeJSON:
		return conn.WriteJSON(msg)

	case MessageTypeBytes:
		respBytes, ok := msg.([]byte)
		if !ok {
			return NewConnErr(ConnInvalidMsgType).AddDesc("msg type expected: []byte got invalid")
		}
		return conn.WriteMessage(websocket.TextMessage, respBytes)

	default:
		return NewConnErr(ConnInvalidMsgType).AddDesc("invalid message type to write with retry")
	}
}

// Writes to the connection of that session. It also
// handles the abnormal or other types of errors of
// writing to a websocket connection.
func (s *Session) writeToConnWithRetry(msg interface{}, msgType uint8) error {
	var retries uint8

	for {
		err := s.write(msg, msgType)
		if err == nil {
			return nil
		}
		if connErr, ok := err.(ConnErr); ok {
			return connErr
		}

		switch s.onConnErr(err) {
		case ConnLoopRetry:
			if retries >= maxWriteWsRetries {
				s.log.Error("max retries reached for writing to ws", zap.String("remote", s.remoteAddr()), zap.Error(err))
				return NewConnErr(ConnLoopBreak)
			}
			retries++
			s.log.Warn("writing to ws failed; retrying", zap.String("remote", s.remoteAddr()), zap.Uint8("retry", retries))
			time.Sleep(time.Duration(retries*backOffFactor) * time.Second)

		case ConnLoopAbnormalClosureRetry:
			return NewConnErr(ConnLoopAbnormalClosureRetry)

		default:
			return NewConnErr(ConnLoopBreak).AddDesc("breaking write loop due to: " + err.Error())
		}
	}
}

// Handles the errors that occurs when reading from
// ws connection. `ConnLoopContinue` asks the caller to read again.
func (s *Session) handleReadFromConnErr(err error, retries uint8) uint8 {
	switch s.onConnErr(err) {
	case ConnLoopAbnormalClosureRetry:
		return ConnLoopAbnormalClosureRetry

	case ConnLoopRetry:
		if retries >= maxWriteWsRetries {
			return ConnLoopBreak
		}
		s.log.Warn("failed to read from ws conn; retrying", zap.String("remote", s.remoteAddr()), zap.Uint8("retry", retries))
		time.Sleep(time.Duration(retries*backOffFactor) * time.Second)
		return ConnLoopContinue

	default:
		s.log.Info("break ws conn loop", zap.String("remote", s.remoteAddr()), zap.Error(err))
		return ConnLoopBreak
	}
}

func (s *Session) reconnectionAfterAbnormalClosure(conn *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Signal for reconnection
	close(s.reconnectionSignalChan)

	s.conn = conn
	s.reconnectionSignalChan = make(chan bool)
}

func (s *Session) reconnectionSignal() <-chan bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reconnectionSignalChan
}
