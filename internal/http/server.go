package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vijay-1577/campus-registry/internal/auth"
	"github.com/vijay-1577/campus-registry/internal/config"
	"github.com/vijay-1577/campus-registry/internal/crypto"
	"github.com/vijay-1577/campus-registry/internal/model"
	"github.com/vijay-1577/campus-registry/internal/obs"
	"github.com/vijay-1577/campus-registry/internal/store"
)

// createAttempts bounds the resample loop when a freshly drawn public id
// collides with an existing record.
const createAttempts = 5

type Server struct {
	cfg   config.Config
	store store.Store
}

func NewServer(cfg config.Config, st store.Store) *Server {
	return &Server{cfg: cfg, store: st}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(obs.RequestLogger)
	r.Use(obs.Instrument)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", obs.Handler())

	r.Post("/auth/register", s.handleRegister)
	r.Post("/auth/login", s.handleLogin)
	r.With(s.authMiddleware).Post("/auth/password", s.handleChangePassword)

	r.Route("/learners", func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Get("/", s.handleListLearners)
		r.Post("/", s.handleCreateLearner)
		r.Get("/{learnerId}", s.handleGetLearner)
		r.Patch("/{learnerId}", s.handlePatchLearner)
		r.Delete("/{learnerId}", s.handleDeleteLearner)
	})

	r.Route("/staff", func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Get("/", s.handleListStaff)
		r.Post("/", s.handleCreateStaff)
		r.Get("/{staffId}", s.handleGetStaff)
		r.Patch("/{staffId}", s.handlePatchStaff)
		r.Delete("/{staffId}", s.handleDeleteStaff)
	})

	r.Route("/programs", func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Get("/", s.handleListPrograms)
		r.Post("/", s.handleCreateProgram)
		r.Get("/{programId}", s.handleGetProgram)
		r.Patch("/{programId}", s.handlePatchProgram)
		r.Delete("/{programId}", s.handleDeleteProgram)
	})

	return r
}

// Auth endpoints

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type accountResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	CreatedAt string `json:"created_at"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing_credentials")
		return
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "password_hash_failed")
		return
	}

	now := time.Now().UTC()
	acct := model.Account{
		ID:           uuid.NewString(),
		Username:     req.Username,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.CreateAccount(r.Context(), acct); err != nil {
		if errors.Is(err, store.ErrDuplicateIdentity) {
			writeError(w, http.StatusConflict, "duplicate_identity")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	writeJSON(w, http.StatusCreated, accountResponse{
		ID:        acct.ID,
		Username:  acct.Username,
		CreatedAt: acct.CreatedAt.Format(time.RFC3339),
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing_credentials")
		return
	}

	// Unknown username and wrong password produce the same response.
	account, err := s.store.GetAccountByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			err = store.ErrInvalidCredentials
		}
		writeDomainError(w, err)
		return
	}
	if err := crypto.CheckPassword(account.PasswordHash, req.Password); err != nil {
		writeDomainError(w, store.ErrInvalidCredentials)
		return
	}

	token, err := auth.NewAccessToken(s.cfg.JWTSecret, s.cfg.JWTIssuer, s.cfg.AccessTokenTTL, account.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "token_error")
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{
		Token:     token,
		ExpiresAt: time.Now().UTC().Add(s.cfg.AccessTokenTTL).Format(time.RFC3339),
	})
}

type changePasswordRequest struct {
	Password string `json:"password"`
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	accountID := accountFromContext(r.Context())
	if accountID == "" {
		writeError(w, http.StatusUnauthorized, "missing_token")
		return
	}

	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing_password")
		return
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "password_hash_failed")
		return
	}
	if err := s.store.UpdateAccountPassword(r.Context(), accountID, hash); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Middleware

type accountKey struct{}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r.Header.Get("Authorization"))
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing_token")
			return
		}

		accountID, err := auth.ParseToken(s.cfg.JWTSecret, s.cfg.JWTIssuer, token, s.cfg.TokenLeeway)
		if err != nil {
			// Both outcomes require re-authentication; the code tells
			// the client whether a fresh login will help immediately.
			if errors.Is(err, auth.ErrTokenExpired) {
				writeError(w, http.StatusUnauthorized, "token_expired")
				return
			}
			writeError(w, http.StatusUnauthorized, "invalid_token")
			return
		}

		ctx := context.WithValue(r.Context(), accountKey{}, accountID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func accountFromContext(ctx context.Context) string {
	accountID, _ := ctx.Value(accountKey{}).(string)
	return accountID
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// Helpers

func decodeJSON(r *http.Request, out interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// writeDomainError maps store sentinels to responses. Internal store
// errors are never echoed to the caller.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found")
	case errors.Is(err, store.ErrInvalidReference):
		writeError(w, http.StatusBadRequest, "invalid_reference")
	case errors.Is(err, store.ErrImmutableField):
		writeError(w, http.StatusBadRequest, "immutable_field")
	case errors.Is(err, store.ErrDuplicateIdentity):
		writeError(w, http.StatusConflict, "duplicate_identity")
	case errors.Is(err, store.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid_credentials")
	case errors.Is(err, store.ErrValidation):
		writeError(w, http.StatusBadRequest, "invalid_input")
	default:
		writeError(w, http.StatusInternalServerError, "server_error")
	}
}

// parseIDList splits a comma-delimited identifier list, trimming
// whitespace. An empty value parses to the empty list, not to a
// singleton containing an empty identifier.
func parseIDList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		out = append(out, strings.TrimSpace(part))
	}
	return out
}
