package connection

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	cerr "github.com/Machurui/longship/internal/error"
)

const (
	defaultGracePeriod     = time.Minute * 2
	defaultCleanupInterval = time.Minute * 20
)

type SessionManager interface {
	GenerateNewSession(conn *websocket.Conn) *Session
	CleanupPeriodically(ctx context.Context)

	FindSession(sessionId string) (*Session, error)
	TerminateSession(sessionId string)
	ReconnectSession(sessionId string, conn *websocket.Conn) error
	Communicate(msg SessionMessage) error
	WriteToSessionConn(session *Session, msg interface{}, msgType uint8) error
	ReadFromSessionConn(session *Session) (int, []byte, error)
	HandleAbnormalClosureSession(session *Session) error
}

type BattleshipSessionManager struct {
	cleanupInterval time.Duration
	gracePeriod     time.Duration
	sessions        map[string]*Session
	mu              sync.RWMutex
	log             *zap.Logger
}

var _ SessionManager = (*BattleshipSessionManager)(nil)

type SessionManagerOption func(*BattleshipSessionManager)

// WithGracePeriod sets how long a dropped player may take to reconnect.
func WithGracePeriod(d time.Duration) SessionManagerOption {
	return func(bsm *BattleshipSessionManager) {
		bsm.gracePeriod = d
	}
}

func WithCleanupInterval(d time.Duration) SessionManagerOption {
	return func(bsm *BattleshipSessionManager) {
		bsm.cleanupInterval = d
	}
}

func NewBattleshipSessionManager(log *zap.Logger, opts ...SessionManagerOption) *BattleshipSessionManager {
	bsm := &BattleshipSessionManager{
		sessions:        make(map[string]*Session, 10),
		cleanupInterval: defaultCleanupInterval,
		gracePeriod:     defaultGracePeriod,
		log:             log,
	}
	for _, opt := range opts {
		opt(bsm)
	}
	return bsm
}

func (bsm *BattleshipSessionManager) GenerateNewSession(conn *websocket.Conn) *Session {
	sessionId := base64.RawURLEncoding.EncodeToString([]byte(uuid.New().String()))
	session := NewSession(sessionId, conn, bsm.log)

	bsm.mu.Lock()
	bsm.sessions[sessionId] = session
	bsm.mu.Unlock()

	bsm.log.Info("new session", zap.String("session", sessionId), zap.String("remote", conn.RemoteAddr().String()))
	return session
}

func (bsm *BattleshipSessionManager) FindSession(sessionId string) (*Session, error) {
	bsm.mu.RLock()
	defer bsm.mu.RUnlock()

	session, prs := bsm.sessions[sessionId]
	if !prs {
		return nil, cerr.ErrSessionNotFound(sessionId)
	}

	if session == nil {
		return nil, cerr.ErrSessionIsNil(sessionId)
	}

	return session, nil
}

func (bsm *BattleshipSessionManager) TerminateSession(sessionId string) {
	bsm.mu.Lock()
	delete(bsm.sessions, sessionId)
	bsm.mu.Unlock()
}

func (bsm *BattleshipSessionManager) ReconnectSession(sessionId string, conn *websocket.Conn) error {
	session, err := bsm.FindSession(sessionId)
	if err != nil {
		return err
	}

	session.reconnectionAfterAbnormalClosure(conn)
	return nil
}

// This method sends the msg from one session to another
func (bsm *BattleshipSessionManager) Communicate(msg SessionMessage) error {
	receiverSession, err := bsm.FindSession(msg.ReceiverID)
	if err != nil {
		return err
	}
	return bsm.WriteToSessionConn(receiverSession, msg.Payload, msg.PayloadType)
}

// To ensure that there is no dangling connections,
// server session manager marks the connections with a
// lifetime of more than the cleanup interval as stale and deletes them.
func (bsm *BattleshipSessionManager) CleanupPeriodically(ctx context.Context) {
	ticker := time.NewTicker(bsm.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		bsm.mu.Lock()
		var removed int
		for id, session := range bsm.sessions {
			if time.Since(session.createdAt) > bsm.cleanupInterval {
				delete(bsm.sessions, id)
				removed++
			}
		}
		bsm.mu.Unlock()

		bsm.log.Info("clean up sessions", zap.Int("removed", removed))
	}
}

// This function takes care of abnormal closures happening
// to either of the clients. This happens due to backgrounding
// in IOS clients or any other unexpected reasons for web apps.
func (bsm *BattleshipSessionManager) HandleAbnormalClosureSession(s *Session) error {
	// No game means the session is invalid and should end
	game, player := s.Game(), s.Player()
	if game == nil || player == nil {
		return NewConnErr(ConnLoopBreak).AddDesc("game or player is nil")
	}

	otherPlayer := game.OtherPlayer(player)
	if otherPlayer == nil || otherPlayer.IsBot() {
		return NewConnErr(ConnLoopBreak).AddDesc("no other session in the game")
	}

	// Absence of otherPlayer session means this game is invalid
	otherSession, err := bsm.FindSession(otherPlayer.SessionId())
	if err != nil {
		return NewConnErr(ConnLoopBreak).AddDesc("other session is nil; invalid session")
	}

	// If the other session connection is faulty too, there is no need to continue
	if err := otherSession.writeToConnWithRetry(NewMessage[NoPayload](CodeOtherPlayerGracePeriod), MessageTypeJSON); err != nil {
		return err
	}

	timer := time.NewTimer(bsm.gracePeriod)
	defer timer.Stop()

	select {
	case <-timer.C:
		if err := otherSession.writeToConnWithRetry(NewMessage[NoPayload](CodeOtherPlayerDisconnected), MessageTypeJSON); err != nil {
			return err
		}

		bsm.log.Info("grace period is over", zap.String("session", s.id))
		return NewConnErr(ConnLoopBreak).AddDesc("grace period is over for session: " + s.id)

	case <-s.reconnectionSignal():
		if err := otherSession.writeToConnWithRetry(NewMessage[NoPayload](CodeOtherPlayerReconnected), MessageTypeJSON); err != nil {
			return err
		}
		bsm.log.Info("player reconnected", zap.String("session", s.id))
		return nil
	}
}

func (bsm *BattleshipSessionManager) WriteToSessionConn(session *Session, msg interface{}, msgType uint8) error {
	err := session.writeToConnWithRetry(msg, msgType)
	if err == nil {
		return nil
	}

	var connErr ConnErr
	if !errors.As(err, &connErr) || connErr.Fatal() {
		return err
	}

	if connErr.Code() == ConnLoopAbnormalClosureRetry {
		if err := bsm.HandleAbnormalClosureSession(session); err != nil {
			return connErr
		}
		// the client is back on a new connection
		return session.writeToConnWithRetry(msg, msgType)
	}
	return nil
}

// A WebSocket frame can be one of 6 types: text=1, binary=2, ping=9, pong=10, close=8 and continuation=0
// https://www.rfc-editor.org/rfc/rfc6455.html#section-11.8
func (bsm *BattleshipSessionManager) ReadFromSessionConn(session *Session) (int, []byte, error) {
	var retries uint8

	for {
		messageType, payload, err := session.Conn().ReadMessage()
		if err == nil {
			return messageType, payload, nil
		}

		switch session.handleReadFromConnErr(err, retries) {
		case ConnLoopContinue:
			retries++
			continue

		case ConnLoopAbnormalClosureRetry:
			if err := bsm.HandleAbnormalClosureSession(session); err != nil {
				return -1, []byte{}, err
			}

		default:
			return -1, []byte{}, err
		}
	}
}

// FetchCodeFromMsg reads the signal code of an incoming message.
func FetchCodeFromMsg(payload []byte) (uint8, error) {
	var signal struct {
		Code *uint8 `json:"code"`
	}

	if err := json.Unmarshal(payload, &signal); err != nil {
		return 0, err
	}
	if signal.Code == nil {
		return 0, errors.New("incoming payload has no code field")
	}
	return *signal.Code, nil
}
