package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/erazemk/sladica/internal/auth"
	"github.com/erazemk/sladica/internal/model"
	"github.com/erazemk/sladica/internal/store"
	"github.com/erazemk/sladica/internal/validate"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	DB        *sql.DB
	JWTSecret string
	TokenTTL  time.Duration
	Validator *validate.Validator
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	Admin     *model.Admin `json:"admin"`
}

// Login handles POST /admin/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	p, err := readPayload(r)
	if err != nil {
		requestError(w, r, err)
		return
	}

	in := validate.NewReader(p)
	var req loginRequest
	if s := in.String("email"); s != nil {
		req.Email = *s
	}
	// Passwords are compared exactly as sent.
	if s := in.RawString("password"); s != nil {
		req.Password = *s
	}
	if err := h.Validator.Struct(req, in.Errs); err != nil {
		serverError(w, r, "failed to validate login", err)
		return
	}
	if in.Errs.Err() != nil {
		validationError(w, in.Errs)
		return
	}

	admin, err := store.GetAdminByEmail(r.Context(), h.DB, req.Email)
	if err != nil {
		serverError(w, r, "internal error", err)
		return
	}

	var hash string
	if admin != nil {
		hash = admin.PasswordHash
	}
	if !auth.CheckPassword(hash, req.Password) {
		slog.Warn("login failed", "email", req.Email, "remote", r.RemoteAddr)
		jsonError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := auth.GenerateToken(h.JWTSecret, admin.ID, admin.Email, h.TokenTTL)
	if err != nil {
		serverError(w, r, "failed to generate token", err)
		return
	}
	if err := store.SetAdminToken(r.Context(), h.DB, admin.ID, &token.ID); err != nil {
		serverError(w, r, "failed to start session", err)
		return
	}

	slog.Info("admin logged in", "admin", admin.Email)
	jsonResponse(w, http.StatusOK, loginResponse{
		Token:     token.Value,
		ExpiresAt: token.ExpiresAt.UTC(),
		Admin:     admin,
	})
}

// Logout handles POST /admin/logout. It succeeds whether or not the request
// carries a current session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if admin := GetAdmin(r.Context()); admin != nil {
		if err := store.SetAdminToken(r.Context(), h.DB, admin.ID, nil); err != nil {
			serverError(w, r, "failed to end session", err)
			return
		}
		slog.Info("admin logged out", "admin", admin.Email)
	}
	jsonMessage(w, http.StatusOK, "Logged out")
}

type meResponse struct {
	Admin     *model.Admin `json:"admin"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// Me handles GET /admin/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	admin, claims := GetAdmin(r.Context()), GetClaims(r.Context())
	if admin == nil || claims == nil {
		jsonError(w, http.StatusUnauthorized, "Unauthenticated")
		return
	}
	jsonResponse(w, http.StatusOK, meResponse{
		Admin:     admin,
		ExpiresAt: claims.ExpiresAt.UTC(),
	})
}
