package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
)

// SessionService holds the administrative session operations.
type SessionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewSessionService(db *sql.DB, m repomanager.RepositoryManager, log logging.Logger) *SessionService {
	return &SessionService{db: db, repomanager: m, log: log.With("module", "sessions")}
}

// ForceLogout drops every session of userID except the oldest and returns
// the number retained: 0 when the user had none, 1 otherwise.
func (s *SessionService) ForceLogout(ctx context.Context, userID string) (int64, error) {
	if userID == "" {
		return 0, common.ErrMissingRequiredField
	}

	var retained int64
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		retained, err = s.repomanager.Sessions(tx).DeleteByUserExceptOldest(ctx, userID)
		return err
	})
	if err != nil {
		s.log.Error(ctx, "force logout", "user_id", userID, "error", err)
		return 0, common.ErrorInternal
	}

	s.log.Info(ctx, "force logout", "user_id", userID, "retained", retained)
	return retained, nil
}

// ListSessionsForUser returns userID's tokens, oldest first.
func (s *SessionService) ListSessionsForUser(ctx context.Context, userID string) ([]string, error) {
	sessions, err := s.repomanager.Sessions(s.db).ListByUser(ctx, userID)
	if err != nil {
		s.log.Error(ctx, "list sessions", "user_id", userID, "error", err)
		return nil, common.ErrorInternal
	}

	tokens := make([]string, 0, len(sessions))
	for _, session := range sessions {
		tokens = append(tokens, session.Token)
	}
	return tokens, nil
}

func (s *SessionService) ListAllSessions(ctx context.Context) ([]models.Session, error) {
	sessions, err := s.repomanager.Sessions(s.db).ListAll(ctx)
	if err != nil {
		s.log.Error(ctx, "list all sessions", "error", err)
		return nil, common.ErrorInternal
	}
	return sessions, nil
}

// ClearUserSessions deletes every session of userID and returns how many went.
func (s *SessionService) ClearUserSessions(ctx context.Context, userID string) (int64, error) {
	if userID == "" {
		return 0, common.ErrMissingRequiredField
	}

	n, err := s.repomanager.Sessions(s.db).DeleteByUser(ctx, userID)
	if err != nil {
		s.log.Error(ctx, "clear user sessions", "user_id", userID, "error", err)
		return 0, common.ErrorInternal
	}
	s.log.Info(ctx, "cleared user sessions", "user_id", userID, "count", n)
	return n, nil
}

// ClearAllSessions deletes every session and returns how many went.
func (s *SessionService) ClearAllSessions(ctx context.Context) (int64, error) {
	n, err := s.repomanager.Sessions(s.db).DeleteAll(ctx)
	if err != nil {
		s.log.Error(ctx, "clear all sessions", "error", err)
		return 0, common.ErrorInternal
	}
	s.log.Info(ctx, "cleared all sessions", "count", n)
	return n, nil
}
