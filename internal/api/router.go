package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/erazemk/sladica/internal/cache"
	"github.com/erazemk/sladica/internal/imaging"
	"github.com/erazemk/sladica/internal/store"
	"github.com/erazemk/sladica/internal/validate"
)

// Options configures the API router.
type Options struct {
	DB         *sql.DB
	JWTSecret  string
	TokenTTL   time.Duration
	StorageDir string
	// UploadMaxBytes limits a single image upload.
	UploadMaxBytes int64
	// Cache, when non-nil, caches public GET responses.
	Cache      *cache.Cache
	CORSOrigin string
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(opts Options) http.Handler {
	mux := http.NewServeMux()

	v := validate.New(store.Lookup{DB: opts.DB})
	uploads := uploader{
		storage:  imaging.Storage{Root: opts.StorageDir},
		maxBytes: opts.UploadMaxBytes,
	}

	authHandler := &AuthHandler{DB: opts.DB, JWTSecret: opts.JWTSecret, TokenTTL: opts.TokenTTL, Validator: v}
	categoriesHandler := &CategoriesHandler{DB: opts.DB, Validator: v, Uploads: uploads, Cache: opts.Cache}
	itemsHandler := &ItemsHandler{DB: opts.DB, Validator: v, Uploads: uploads, Cache: opts.Cache}
	notificationsHandler := &NotificationsHandler{DB: opts.DB, Validator: v, Cache: opts.Cache}
	constantsHandler := &ConstantsHandler{DB: opts.DB, Validator: v, Cache: opts.Cache}

	gate := &Gate{DB: opts.DB, Secret: opts.JWTSecret}
	admin := func(h http.HandlerFunc) http.Handler { return gate.Require(h) }
	public := func(h http.HandlerFunc) http.Handler { return opts.Cache.Middleware(h) }

	// Public reads.
	mux.Handle("GET /categories", public(categoriesHandler.List))
	mux.Handle("GET /categories/{id}", public(categoriesHandler.Get))
	mux.Handle("GET /items", public(itemsHandler.List))
	mux.Handle("GET /items/{id}", public(itemsHandler.Get))
	mux.Handle("GET /notifications", public(notificationsHandler.List))
	mux.Handle("GET /notifications/{id}", public(notificationsHandler.Get))
	mux.Handle("GET /menu-constants", public(constantsHandler.List))
	mux.Handle("GET /menu-constants/{key}", public(constantsHandler.Get))

	// Authentication.
	mux.HandleFunc("POST /admin/login", authHandler.Login)
	mux.Handle("POST /admin/logout", gate.Optional(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("GET /admin/me", admin(authHandler.Me))

	// Categories (admin).
	mux.Handle("POST /categories", admin(categoriesHandler.Create))
	mux.Handle("PUT /categories/{id}", admin(categoriesHandler.Update))
	mux.Handle("PATCH /categories/{id}", admin(categoriesHandler.Update))
	mux.Handle("DELETE /categories/{id}", admin(categoriesHandler.Delete))

	// Items (admin).
	mux.Handle("POST /items", admin(itemsHandler.Create))
	mux.Handle("PUT /items/{id}", admin(itemsHandler.Update))
	mux.Handle("PATCH /items/{id}", admin(itemsHandler.Update))
	mux.Handle("DELETE /items/{id}", admin(itemsHandler.Delete))

	// Notifications (admin).
	mux.Handle("POST /notifications", admin(notificationsHandler.Create))
	mux.Handle("PUT /notifications/{id}", admin(notificationsHandler.Update))
	mux.Handle("PATCH /notifications/{id}", admin(notificationsHandler.Update))
	mux.Handle("DELETE /notifications/{id}", admin(notificationsHandler.Delete))

	// Menu constants (admin).
	mux.Handle("POST /menu-constants", admin(constantsHandler.Create))
	mux.Handle("PUT /menu-constants/{key}", admin(constantsHandler.Update))
	mux.Handle("PATCH /menu-constants/{key}", admin(constantsHandler.Update))
	mux.Handle("DELETE /menu-constants/{key}", admin(constantsHandler.Delete))
	mux.Handle("POST /menu-constants-bulk", admin(constantsHandler.Bulk))

	// Uploaded images.
	mux.Handle("GET /storage/", http.StripPrefix("/storage/", storageFiles(opts.StorageDir)))

	// Slack for multipart framing and form fields around the image.
	bodyLimit := opts.UploadMaxBytes + 1<<20

	var h http.Handler = mux
	h = MethodOverride(bodyLimit)(h)
	h = CORS(opts.CORSOrigin)(h)
	h = RecoverMiddleware(h)
	return h
}

// storageFiles serves stored images without directory listings.
func storageFiles(root string) http.Handler {
	fs := http.FileServer(http.Dir(root))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || r.URL.Path[len(r.URL.Path)-1] == '/' {
			jsonMessage(w, http.StatusNotFound, "Not found")
			return
		}
		w.Header().Set("Cache-Control", "public, max-age=3600")
		fs.ServeHTTP(w, r)
	})
}
