package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

var (
	// DefaultCORSHeaders are the request headers the booking form sends.
	DefaultCORSHeaders = []string{"Content-Type", "X-Request-Id"}
	// DefaultCORSMethods are the methods the booking routes answer.
	DefaultCORSMethods = []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions}
	// DefaultCORSExposedHeaders lets the form read the rate limiter's back-off.
	DefaultCORSExposedHeaders = []string{"Retry-After"}
)

// CORSConfig controls which browser origins may call the API and what they may send.
// Empty header and method lists fall back to the defaults above.
type CORSConfig struct {
	AllowedOrigins []string
	AllowedHeaders []string
	AllowedMethods []string
	ExposedHeaders []string
	MaxAge         time.Duration
}

type corsPolicy struct {
	allowAny bool
	origins  map[string]struct{}
	headers  string
	methods  string
	exposed  string
	maxAge   string
}

func newCORSPolicy(cfg CORSConfig) corsPolicy {
	p := corsPolicy{
		origins: map[string]struct{}{},
		headers: joinOr(cfg.AllowedHeaders, DefaultCORSHeaders),
		methods: strings.ToUpper(joinOr(cfg.AllowedMethods, DefaultCORSMethods)),
		exposed: joinOr(cfg.ExposedHeaders, DefaultCORSExposedHeaders),
		maxAge:  "600",
	}
	if cfg.MaxAge > 0 {
		p.maxAge = strconv.Itoa(int(cfg.MaxAge / time.Second))
	}
	for _, origin := range cfg.AllowedOrigins {
		origin = strings.TrimSpace(origin)
		switch origin {
		case "":
		case "*":
			p.allowAny = true
		default:
			p.origins[origin] = struct{}{}
		}
	}
	return p
}

func (p corsPolicy) allows(origin string) bool {
	if origin == "" {
		return false
	}
	if p.allowAny {
		return true
	}
	_, ok := p.origins[origin]
	return ok
}

// CORS echoes allowed origins back and answers preflight requests.
// An AllowedOrigins entry of "*" admits any origin.
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	policy := newCORSPolicy(cfg)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			allowed := policy.allows(origin)
			if origin != "" {
				w.Header().Add("Vary", "Origin")
			}
			if allowed {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Headers", policy.headers)
				w.Header().Set("Access-Control-Allow-Methods", policy.methods)
				w.Header().Set("Access-Control-Max-Age", policy.maxAge)
				if policy.exposed != "" {
					w.Header().Set("Access-Control-Expose-Headers", policy.exposed)
				}
			}

			if r.Method == http.MethodOptions && origin != "" && r.Header.Get("Access-Control-Request-Method") != "" {
				if !allowed {
					w.WriteHeader(http.StatusForbidden)
					return
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func joinOr(values, fallback []string) string {
	cleaned := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			cleaned = append(cleaned, v)
		}
	}
	if len(cleaned) == 0 {
		cleaned = fallback
	}
	return strings.Join(cleaned, ", ")
}
