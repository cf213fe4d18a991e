package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

// CORSConfig holds CORS configuration options.
type CORSConfig struct {
	// AllowedOrigins lists origins permitted to make cross-origin
	// requests. Explicit origins only; "*" is never combined with
	// credentials.
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	ExposedHeaders []string
	// MaxAge is how long, in seconds, browsers may cache a preflight.
	MaxAge int
}

// DefaultCORSConfig returns defaults suited to the browser client.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-Request-ID", "Accept"},
		ExposedHeaders: []string{"X-Request-ID", "Retry-After"},
		MaxAge:         86400,
	}
}

// corsHeaders is the precomputed header set shared by all requests.
type corsHeaders struct {
	origins map[string]bool
	methods string
	headers string
	exposed string
	maxAge  string
}

// CORS answers preflight OPTIONS requests and stamps allow headers on
// whitelisted cross-origin requests. Requests without an Origin header
// pass through untouched.
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	h := corsHeaders{
		origins: make(map[string]bool, len(cfg.AllowedOrigins)),
		methods: strings.Join(cfg.AllowedMethods, ", "),
		headers: strings.Join(cfg.AllowedHeaders, ", "),
		exposed: strings.Join(cfg.ExposedHeaders, ", "),
	}
	for _, origin := range cfg.AllowedOrigins {
		h.origins[strings.ToLower(origin)] = true
	}
	if cfg.MaxAge > 0 {
		h.maxAge = strconv.Itoa(cfg.MaxAge)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			if !h.origins[strings.ToLower(origin)] {
				// Unknown origin never gets allow headers; reject its
				// preflight outright, let the browser block the rest.
				if r.Method == http.MethodOptions {
					w.WriteHeader(http.StatusForbidden)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			hdr := w.Header()
			hdr.Set("Access-Control-Allow-Origin", origin)
			hdr.Add("Vary", "Origin")
			if h.exposed != "" {
				hdr.Set("Access-Control-Expose-Headers", h.exposed)
			}

			if r.Method == http.MethodOptions {
				hdr.Set("Access-Control-Allow-Methods", h.methods)
				hdr.Set("Access-Control-Allow-Headers", h.headers)
				if h.maxAge != "" {
					hdr.Set("Access-Control-Max-Age", h.maxAge)
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
