package grpc

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/shared"
	"google.golang.org/protobuf/types/known/structpb"
)

type fields = map[string]*structpb.Value

func userValue(u *models.User) *structpb.Value {
	return shared.User{ID: u.ID, Email: u.Email, Name: u.Name}.Value()
}

func loginResponse(token string, u *models.User) *structpb.Struct {
	return shared.Fields(fields{
		"token": structpb.NewStringValue(token),
		"user":  userValue(u),
	})
}

func countResponse(key string, n int64) *structpb.Struct {
	return shared.Fields(fields{
		"ok": structpb.NewBoolValue(true),
		key:  structpb.NewNumberValue(float64(n)),
	})
}

func (s *GRPCServer) Ping(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return shared.Fields(fields{"status": structpb.NewStringValue("OK")}), nil
}

func (s *GRPCServer) Signup(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	user, err := s.users.Signup(ctx, shared.String(req, "email"), shared.String(req, "password"), shared.String(req, "name"))
	if err != nil {
		return nil, toStatus(err)
	}

	s.logger.Info(ctx, "Registered", "user_id", user.ID)
	return userValue(user).GetStructValue(), nil
}

func (s *GRPCServer) Login(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	token, user, err := s.users.Login(ctx, shared.String(req, "email"), shared.String(req, "password"))
	if err != nil {
		return nil, toStatus(err)
	}

	return loginResponse(token, user), nil
}

func (s *GRPCServer) LoginWithExternalToken(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	token, user, err := s.users.LoginWithExternalToken(ctx, shared.String(req, "token"))
	if err != nil {
		return nil, toStatus(err)
	}

	return loginResponse(token, user), nil
}

func (s *GRPCServer) Logout(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	if err := s.users.Logout(ctx, shared.String(req, "token")); err != nil {
		return nil, toStatus(err)
	}

	return shared.Fields(fields{"ok": structpb.NewBoolValue(true)}), nil
}

// Me reads the session token from metadata, falling back to the request body.
func (s *GRPCServer) Me(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	token := metadataValue(ctx, common.SessionTokenHeaderName)
	if token == "" {
		token = shared.String(req, "token")
	}

	user, err := s.users.Me(ctx, token)
	if err != nil {
		return nil, toStatus(err)
	}

	return userValue(user).GetStructValue(), nil
}

func (s *GRPCServer) ListUsers(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, toStatus(err)
	}

	values := make([]*structpb.Value, 0, len(users))
	for i := range users {
		values = append(values, userValue(&users[i]))
	}
	return shared.Fields(fields{"users": shared.List(values)}), nil
}

func (s *GRPCServer) ListSessions(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	tokens, err := s.sessions.ListSessionsForUser(ctx, shared.String(req, "user_id"))
	if err != nil {
		return nil, toStatus(err)
	}

	return shared.Fields(fields{
		"count":  structpb.NewNumberValue(float64(len(tokens))),
		"tokens": shared.StringList(tokens),
	}), nil
}

func (s *GRPCServer) ForceLogout(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	retained, err := s.sessions.ForceLogout(ctx, shared.String(req, "user_id"))
	if err != nil {
		return nil, toStatus(err)
	}

	return shared.Fields(fields{"count": structpb.NewNumberValue(float64(retained))}), nil
}

func (s *GRPCServer) ListAllSessions(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	sessions, err := s.sessions.ListAllSessions(ctx)
	if err != nil {
		return nil, toStatus(err)
	}

	values := make([]*structpb.Value, 0, len(sessions))
	for _, session := range sessions {
		values = append(values, shared.Session{ID: session.ID, UserID: session.UserID, Token: session.Token}.Value())
	}
	return shared.Fields(fields{"sessions": shared.List(values)}), nil
}

func (s *GRPCServer) ClearUserSessions(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	n, err := s.sessions.ClearUserSessions(ctx, shared.String(req, "user_id"))
	if err != nil {
		return nil, toStatus(err)
	}

	return countResponse("cleared", n), nil
}

func (s *GRPCServer) ClearAllSessions(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	n, err := s.sessions.ClearAllSessions(ctx)
	if err != nil {
		return nil, toStatus(err)
	}

	return countResponse("cleared", n), nil
}
