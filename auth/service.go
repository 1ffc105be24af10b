// Package auth keeps the visitor's API token and profile in the session and
// makes the token-bearing user calls on their behalf.
package auth

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/octabyte/zip-client/models"
	otellogger "github.com/octabyte/zip-client/otel/logger"
	"github.com/octabyte/zip-client/otel/metrics"
	"github.com/octabyte/zip-client/session"
	"github.com/octabyte/zip-client/utils"
	"github.com/octabyte/zip-client/utils/logger"
	"github.com/octabyte/zip-client/utils/reqctx"
)

// API is the part of the remote API client the service needs.
type API interface {
	Login(ctx context.Context, creds models.Credentials) (*models.AuthTicket, error)
	Users(ctx context.Context) ([]models.UserProfile, error)
	User(ctx context.Context, id int64) (models.UserProfile, error)
	BaseURL() string
}

type Service struct {
	api   API
	store session.Store
}

func NewService(api API, store session.Store) *Service {
	return &Service{api: api, store: store}
}

// Login authenticates against the remote API and stores the resulting token
// and user in one write. It returns nil on any failure, leaving the session
// untouched.
func (s *Service) Login(ctx context.Context, sid string, creds models.Credentials) *models.AuthTicket {
	endpoint := logger.Endpoint("POST", s.api.BaseURL()+"/users/login")

	ticket, err := s.api.Login(ctx, creds)
	if err != nil {
		otellogger.ErrorCtx(ctx, "login request failed", err, endpoint, logger.Session(sid))
		metrics.RecordLogin(ctx, false)
		return nil
	}

	user, err := utils.StructToString(ticket.User)
	if err != nil {
		otellogger.ErrorCtx(ctx, "encoding user profile", err, endpoint, logger.Session(sid))
		metrics.RecordLogin(ctx, false)
		return nil
	}

	if err := s.store.Set(ctx, sid, map[string]string{
		session.TokenKey: ticket.Token,
		session.UserKey:  user,
	}); err != nil {
		otellogger.ErrorCtx(ctx, "storing auth ticket", err, endpoint, logger.Session(sid))
		metrics.RecordLogin(ctx, false)
		return nil
	}

	metrics.RecordLogin(ctx, true)
	otellogger.InfoCtx(ctx, "user logged in", logger.Session(sid), zap.Int64("user_id", ticket.User.ID()))
	return ticket
}

// Touch extends the session's idle lifetime. Failures are logged only.
func (s *Service) Touch(ctx context.Context, sid string) {
	if sid == "" {
		return
	}
	if err := s.store.Touch(ctx, sid); err != nil {
		otellogger.WarnCtx(ctx, "refreshing session expiry", logger.Session(sid), zap.Error(err))
	}
}

// Logout drops the whole session, not only the auth keys.
func (s *Service) Logout(ctx context.Context, sid string) {
	if err := s.store.Clear(ctx, sid); err != nil {
		otellogger.ErrorCtx(ctx, "clearing session", err, logger.Session(sid))
	}
}

func (s *Service) CurrentUser(ctx context.Context, sid string) models.UserProfile {
	raw := s.read(ctx, sid, session.UserKey)
	if raw == "" {
		return nil
	}

	var user models.UserProfile
	if err := utils.BytesToStruct([]byte(raw), &user); err != nil {
		otellogger.WarnCtx(ctx, "undecodable user in session", logger.Session(sid), zap.Error(err))
		return nil
	}
	return user
}

func (s *Service) Token(ctx context.Context, sid string) string {
	return s.read(ctx, sid, session.TokenKey)
}

// IsAuthenticated requires both halves of the ticket.
func (s *Service) IsAuthenticated(ctx context.Context, sid string) bool {
	return s.Token(ctx, sid) != "" && s.CurrentUser(ctx, sid) != nil
}

// AllUsers returns nil without calling the API when the session has no token.
func (s *Service) AllUsers(ctx context.Context, sid string) []models.UserProfile {
	token := s.Token(ctx, sid)
	if token == "" {
		return nil
	}

	users, err := s.api.Users(reqctx.WithToken(ctx, token))
	if err != nil {
		otellogger.ErrorCtx(ctx, "listing users", err, logger.Endpoint("GET", s.api.BaseURL()+"/users"))
		return nil
	}
	return users
}

func (s *Service) User(ctx context.Context, sid string, id int64) models.UserProfile {
	token := s.Token(ctx, sid)
	if token == "" {
		return nil
	}

	user, err := s.api.User(reqctx.WithToken(ctx, token), id)
	if err != nil {
		otellogger.ErrorCtx(ctx, "fetching user", err, logger.Endpoint("GET", s.api.BaseURL()+"/users"), zap.Int64("user_id", id))
		return nil
	}
	return user
}

func (s *Service) read(ctx context.Context, sid, key string) string {
	if sid == "" {
		return ""
	}
	value, err := s.store.Get(ctx, sid, key)
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			otellogger.ErrorCtx(ctx, "reading session", err, logger.Session(sid), zap.String("key", key))
		}
		return ""
	}
	return value
}
