package api

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/erazemk/sladica/internal/auth"
	"github.com/erazemk/sladica/internal/model"
	"github.com/erazemk/sladica/internal/store"
)

type contextKey string

const (
	adminKey  contextKey = "admin"
	claimsKey contextKey = "claims"
)

// Gate authenticates admins by bearer token.
type Gate struct {
	DB     *sql.DB
	Secret string
}

// authenticate resolves the request's bearer token to the admin whose
// current session it belongs to.
func (g *Gate) authenticate(r *http.Request) (*model.Admin, *auth.Claims) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return nil, nil
	}

	claims, err := auth.ValidateToken(g.Secret, strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		return nil, nil
	}

	admin, err := store.GetAdmin(r.Context(), g.DB, claims.AdminID)
	if err != nil {
		slog.Error("loading admin for token", "admin_id", claims.AdminID, "error", err)
		return nil, nil
	}
	if admin == nil || admin.TokenID == nil {
		return nil, nil
	}
	if subtle.ConstantTimeCompare([]byte(*admin.TokenID), []byte(claims.ID)) != 1 {
		return nil, nil
	}
	return admin, claims
}

// Require rejects requests without a current admin session.
func (g *Gate) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		admin, claims := g.authenticate(r)
		if admin == nil {
			jsonError(w, http.StatusUnauthorized, "Unauthenticated")
			return
		}
		ctx := context.WithValue(r.Context(), adminKey, admin)
		ctx = context.WithValue(ctx, claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Optional attaches the admin to the context when the request carries a
// current session, and lets the request through either way.
func (g *Gate) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if admin, claims := g.authenticate(r); admin != nil {
			ctx := context.WithValue(r.Context(), adminKey, admin)
			ctx = context.WithValue(ctx, claimsKey, claims)
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	})
}

// GetAdmin retrieves the authenticated admin from the context.
func GetAdmin(ctx context.Context) *model.Admin {
	admin, _ := ctx.Value(adminKey).(*model.Admin)
	return admin
}

// GetClaims retrieves the JWT claims from the context.
func GetClaims(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey).(*auth.Claims)
	return claims
}

// adminEmail names the acting admin in log lines.
func adminEmail(ctx context.Context) string {
	if admin := GetAdmin(ctx); admin != nil {
		return admin.Email
	}
	return ""
}

// statusRecorder wraps http.ResponseWriter to capture the status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware logs HTTP requests with method, path, status, and duration.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		slog.Info("request",
			"method", r.Method,
			"uri", r.URL.RequestURI(),
			"status", rec.status,
			"duration", time.Since(start).Round(time.Millisecond),
		)
	})
}

// RecoverMiddleware turns a handler panic into a 500 response.
func RecoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				if v == http.ErrAbortHandler {
					panic(v)
				}
				slog.Error("panic serving request", "method", r.Method, "path", r.URL.Path, "panic", v, "stack", string(debug.Stack()))
				jsonError(w, http.StatusInternalServerError, "internal error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// overridable lists the methods a form may request through _method.
var overridable = map[string]bool{
	http.MethodPut:    true,
	http.MethodPatch:  true,
	http.MethodDelete: true,
}

// MethodOverride routes a POST carrying _method (form field) or
// X-HTTP-Method-Override (header) as the named method. Bodies are limited
// to maxBytes.
func MethodOverride(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if maxBytes > 0 {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			if r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}

			method := r.Header.Get("X-HTTP-Method-Override")
			if method == "" && formBody(r) {
				if err := parseForm(r); err != nil {
					requestError(w, r, err)
					return
				}
				method = formValue(r, "_method")
			}
			if method = strings.ToUpper(method); overridable[method] {
				r.Method = method
			}
			next.ServeHTTP(w, r)
		})
	}
}

// formValue returns the first value of a parsed form field.
func formValue(r *http.Request, key string) string {
	if r.MultipartForm != nil {
		if vals := r.MultipartForm.Value[key]; len(vals) > 0 {
			return vals[0]
		}
		return ""
	}
	return r.PostForm.Get(key)
}

// CORS allows the admin frontend, served from origin, to call the API.
func CORS(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			if origin != "*" {
				h.Add("Vary", "Origin")
			}
			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
				h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-HTTP-Method-Override")
				h.Set("Access-Control-Max-Age", "86400")
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
