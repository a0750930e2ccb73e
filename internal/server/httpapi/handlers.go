package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/password"
	"github.com/go-chi/chi/v5"
)

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type sessionResponse struct {
	ID     int64  `json:"id"`
	UserID string `json:"user_id"`
	Token  string `json:"token"`
}

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenRequest struct {
	Token string `json:"token"`
}

type userIDRequest struct {
	UserID string `json:"user_id"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, Name: u.Name}
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	if err := s.health.PingContext(r.Context()); err != nil {
		s.logger.Error(r.Context(), "health check", "error", err)
		writeDetail(w, http.StatusServiceUnavailable, "Database unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := s.users.Signup(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, common.ErrMissingRequiredField) {
			writeDetail(w, http.StatusBadRequest, "Missing email or password")
			return
		}
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	token, user, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: token, User: toUserResponse(user)})
}

func (s *Server) loginWithExternalToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	token, user, err := s.users.LoginWithExternalToken(r.Context(), req.Token)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: token, User: toUserResponse(user)})
}

// logout treats an unreadable body like a missing token.
func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	if err := s.users.Logout(r.Context(), req.Token); err != nil {
		if errors.Is(err, common.ErrMissingRequiredField) {
			writeDetail(w, http.StatusBadRequest, "Missing token")
			return
		}
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	token, _ := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")

	user, err := s.users.Me(r.Context(), strings.TrimSpace(token))
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.ListUsers(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := make([]userResponse, 0, len(users))
	for i := range users {
		resp = append(resp, toUserResponse(&users[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	tokens, err := s.sessions.ListSessionsForUser(r.Context(), chi.URLParam(r, "user_id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Count  int      `json:"count"`
		Tokens []string `json:"tokens"`
	}{Count: len(tokens), Tokens: tokens})
}

func (s *Server) forceLogout(w http.ResponseWriter, r *http.Request) {
	var req userIDRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	retained, err := s.sessions.ForceLogout(r.Context(), req.UserID)
	if err != nil {
		if errors.Is(err, common.ErrMissingRequiredField) {
			writeDetail(w, http.StatusBadRequest, "Missing user_id")
			return
		}
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"count": retained})
}

func (s *Server) debugSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.sessions.ListAllSessions(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := make([]sessionResponse, 0, len(sessions))
	for _, session := range sessions {
		resp = append(resp, sessionResponse{ID: session.ID, UserID: session.UserID, Token: session.Token})
	}
	writeJSON(w, http.StatusOK, resp)
}

type clearedResponse struct {
	OK      bool  `json:"ok"`
	Cleared int64 `json:"cleared"`
}

func (s *Server) clearUserSessions(w http.ResponseWriter, r *http.Request) {
	var req userIDRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	n, err := s.sessions.ClearUserSessions(r.Context(), req.UserID)
	if err != nil {
		if errors.Is(err, common.ErrMissingRequiredField) {
			writeDetail(w, http.StatusBadRequest, "Missing user_id")
			return
		}
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, clearedResponse{OK: true, Cleared: n})
}

func (s *Server) clearAllSessions(w http.ResponseWriter, r *http.Request) {
	n, err := s.sessions.ClearAllSessions(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, clearedResponse{OK: true, Cleared: n})
}

// writeError maps service sentinels onto status codes with fixed messages.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrDuplicateEmail):
		writeDetail(w, http.StatusBadRequest, "Email already exists")
	case errors.Is(err, password.ErrTooLong):
		writeDetail(w, http.StatusBadRequest, "Password too long")
	case errors.Is(err, common.ErrMissingRequiredField):
		writeDetail(w, http.StatusBadRequest, "Missing required field")
	case errors.Is(err, common.ErrInvalidCredentials):
		writeDetail(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, common.ErrInvalidExternalToken):
		writeDetail(w, http.StatusUnauthorized, "Invalid Auth0 token")
	case errors.Is(err, common.ErrorUnauthorized):
		writeDetail(w, http.StatusUnauthorized, "Unauthorized")
	default:
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
