package api

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Machurui/longship/db/sqlc"
	mb "github.com/Machurui/longship/models/battleship"
	mc "github.com/Machurui/longship/models/connection"
)

const (
	StageProd = "prod"
	StageDev  = "dev"
)

const (
	defaultPort     = 8000
	shutdownTimeout = time.Second * 10
)

type Server struct {
	port  int
	stage string
	db    *sql.DB
	rules *mb.Rules
	log   *zap.Logger

	GameManager    *mb.BattleshipGameManager
	SessionManager *mc.BattleshipSessionManager
	Processor      RequestProcessor
}

type Option func(*Server) error

func NewServer(log *zap.Logger, optFuncs ...Option) (*Server, error) {
	server := Server{
		port:  defaultPort,
		stage: StageDev,
		log:   log,
	}
	for _, opt := range optFuncs {
		if err := opt(&server); err != nil {
			return nil, err
		}
	}

	var gameOpts []mb.Option
	if server.rules != nil {
		gameOpts = append(gameOpts, mb.WithRules(*server.rules))
	}
	gameManager, err := mb.NewBattleshipGameManager(log, gameOpts...)
	if err != nil {
		return nil, err
	}
	server.GameManager = gameManager
	server.SessionManager = mc.NewBattleshipSessionManager(log)

	var querier sqlc.Querier
	if server.db != nil {
		querier = sqlc.New(server.db)
	}
	server.Processor = NewRequestProcessor(server.SessionManager, server.GameManager, querier, log)

	return &server, nil
}

func WithPort(port int) Option {
	return func(s *Server) error {
		if port <= 0 || port > 65535 {
			return fmt.Errorf("invalid port: %d", port)
		}
		s.port = port
		return nil
	}
}

func WithStage(stage string) Option {
	return func(s *Server) error {
		if stage != StageProd && stage != StageDev {
			return fmt.Errorf("invalid type of development stage: %s", stage)
		}
		s.stage = stage
		return nil
	}
}

func WithDb(db *sql.DB) Option {
	return func(s *Server) error {
		s.db = db
		return nil
	}
}

// WithRules overrides the difficulty rules for every game.
func WithRules(rules mb.Rules) Option {
	return func(s *Server) error {
		if err := rules.Validate(); err != nil {
			return err
		}
		s.rules = &rules
		return nil
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /battleship", s.Processor)
	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    fmt.Sprintf("0.0.0.0:%d", s.port),
		Handler: s.Handler(),
	}

	go s.SessionManager.CleanupPeriodically(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.Int("port", s.port), zap.String("stage", s.stage))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err

	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
