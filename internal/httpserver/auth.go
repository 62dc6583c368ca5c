package httpserver

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/santiago-ondris/wheels-house-sub002/internal/store"
)

// Request payloads for signup/login.
type credentialsReq struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,max=128"`
}

// authUser is placed into request context by the auth middlewares.
type authUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// ctxUserKey is the context key type for storing authUser.
type ctxUserKey struct{}

func currentUser(r *http.Request) *authUser {
	u, _ := r.Context().Value(ctxUserKey{}).(*authUser)
	return u
}

// currentUserID is "" for guests.
func currentUserID(r *http.Request) string {
	if u := currentUser(r); u != nil {
		return u.ID
	}
	return ""
}

// mountAuthRoutes registers /auth/*.
func (s *Server) mountAuthRoutes() {
	s.r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", s.handleSignup)
		r.Post("/login", s.handleLogin)
		r.Post("/logout", s.handleLogout)
		r.With(s.requireAuth).Get("/me", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, currentUser(r))
		})
	})
}

// handleSignup creates a user, signs a token and sets the auth cookie.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var body credentialsReq
	if err := s.decode(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	u, err := s.auth.Signup(r.Context(), body.Username, body.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	log.Info().Str("user", u.ID).Msg("signup")
	s.issueToken(w, r, http.StatusCreated, u)
}

// handleLogin authenticates and sets the auth cookie.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body credentialsReq
	if err := s.decode(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	u, err := s.auth.Login(r.Context(), body.Username, body.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.issueToken(w, r, http.StatusOK, u)
}

// handleLogout clears the auth cookie.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.clearAuthCookie(w)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// issueToken answers with the user and a token, also set as cookie for
// browser clients.
func (s *Server) issueToken(w http.ResponseWriter, r *http.Request, status int, u *store.User) {
	tok, exp, err := s.auth.SignToken(u)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.setAuthCookie(w, tok, exp)
	writeJSON(w, status, map[string]any{
		"id":        u.ID,
		"username":  u.Username,
		"createdAt": u.CreatedAt,
		"token":     tok,
		"expiresAt": exp,
	})
}

// --------------------------- auth middleware -------------------------------

// withOptionalAuth decorates requests with user context if a valid token is
// present. It never 401s; used for routes where guests are allowed.
func (s *Server) withOptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tok := s.bearerOrCookie(r); tok != "" {
			if u, err := s.auth.Resolve(r.Context(), tok); err == nil {
				r = r.WithContext(context.WithValue(r.Context(), ctxUserKey{}, &authUser{ID: u.ID, Username: u.Username}))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// requireAuth enforces a valid token for a user that still exists.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := s.bearerOrCookie(r)
		if tok == "" {
			writeError(w, r, errUnauthorized)
			return
		}
		u, err := s.auth.Resolve(r.Context(), tok)
		if err != nil {
			writeError(w, r, err)
			return
		}
		ctx := context.WithValue(r.Context(), ctxUserKey{}, &authUser{ID: u.ID, Username: u.Username})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ------------------------------ cookies ------------------------------------

// bearerOrCookie extracts a bearer token from Authorization header or auth cookie.
func (s *Server) bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(s.opts.CookieName); err == nil {
		return c.Value
	}
	return ""
}

func (s *Server) sameSite() http.SameSite {
	if s.opts.Production {
		return http.SameSiteNoneMode // cross-site client needs None, which requires Secure
	}
	return http.SameSiteLaxMode
}

// setAuthCookie writes the auth token cookie with appropriate security attributes.
func (s *Server) setAuthCookie(w http.ResponseWriter, token string, exp time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.opts.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.opts.Production,
		SameSite: s.sameSite(),
		Expires:  exp,
	})
}

// clearAuthCookie deletes the auth token cookie.
func (s *Server) clearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.opts.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.opts.Production,
		SameSite: s.sameSite(),
		MaxAge:   -1,
	})
}
