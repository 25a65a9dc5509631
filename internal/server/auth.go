package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/julianstephens/shiftledger/internal/constants"
	"github.com/julianstephens/shiftledger/internal/ledger"
	"github.com/julianstephens/shiftledger/internal/logger"
)

const (
	sessionCookie     = "shiftledger_session"
	sessionSubject    = "owner"
	minPasswordLength = 8
)

var errInvalidCredentials = errors.New("invalid credentials")

// isPublic reports whether path is reachable without a session.
func isPublic(path string) bool {
	switch {
	case path == "/setup", path == "/health":
		return true
	case strings.HasPrefix(path, "/auth/"), strings.HasPrefix(path, "/static/"):
		return true
	}
	return false
}

func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isPublic(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}
		token := bearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, errors.New("authentication required"))
			return
		}
		if err := s.verifyToken(token); err != nil {
			logger.Debug("Rejected session token", "error", err)
			writeError(w, http.StatusUnauthorized, errors.New("invalid or expired session"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if c, err := r.Cookie(sessionCookie); err == nil {
		return c.Value
	}
	return ""
}

func (s *Server) issueToken() (string, time.Time, error) {
	now := s.now()
	expires := now.Add(s.cfg.SessionTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    constants.AppName,
		Subject:   sessionSubject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	})
	signed, err := token.SignedString(s.secret)
	return signed, expires, err
}

func (s *Server) verifyToken(raw string) error {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(constants.AppName),
		jwt.WithSubject(sessionSubject),
		jwt.WithTimeFunc(s.now),
	)
	return err
}

type credentials struct {
	Password string `json:"password"`
}

// handleSetup sets the owner password once.
func (s *Server) handleSetup(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if !decode(w, r, &body) {
		return
	}
	if s.ledger.Settings().PasswordHash != "" {
		writeError(w, http.StatusConflict, ledger.ErrSetupDone)
		return
	}
	if len(body.Password) < minPasswordLength {
		writeError(w, http.StatusUnprocessableEntity, errors.New("password must be at least 8 characters"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if out := s.ledger.SetOwnerPassword(string(hash)); !out.OK() {
		writeOutcome(w, out, 0, nil)
		return
	}
	logger.Info("Owner password set")
	s.startSession(w)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if !decode(w, r, &body) {
		return
	}
	hash := s.ledger.Settings().PasswordHash
	if hash == "" {
		writeError(w, http.StatusConflict, errors.New("setup has not been completed"))
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(body.Password)); err != nil {
		logger.Warn("Failed login attempt", "remote", r.RemoteAddr)
		writeError(w, http.StatusUnauthorized, errInvalidCredentials)
		return
	}
	s.startSession(w)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) startSession(w http.ResponseWriter) {
	token, expires, err := s.issueToken()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	writeJSON(w, http.StatusOK, map[string]any{"token": token, "expires_at": expires})
}
