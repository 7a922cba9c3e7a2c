package rest

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// CORSConfig configures CORS middleware
type CORSConfig struct {
	// AllowedOrigins may contain "*" or a single-wildcard pattern such as
	// "https://*.example.com".
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	ExposedHeaders []string
	MaxAge         time.Duration
}

// DefaultCORSConfig returns the methods and headers the API uses. No origin
// is allowed until one is configured.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "Authorization", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "X-Trace-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
		MaxAge:         12 * time.Hour,
	}
}

// CORSMiddleware answers preflight requests and decorates responses for
// allowed origins.
type CORSMiddleware struct {
	allowAll       bool
	exact          map[string]bool
	patterns       [][2]string
	allowedMethods string
	allowedHeaders string
	exposedHeaders string
	maxAge         string
}

// NewCORSMiddleware creates a new CORS middleware
func NewCORSMiddleware(config CORSConfig) *CORSMiddleware {
	c := &CORSMiddleware{
		exact:          make(map[string]bool),
		allowedMethods: strings.Join(config.AllowedMethods, ", "),
		allowedHeaders: strings.Join(config.AllowedHeaders, ", "),
		exposedHeaders: strings.Join(config.ExposedHeaders, ", "),
		maxAge:         strconv.Itoa(int(config.MaxAge.Seconds())),
	}
	for _, origin := range config.AllowedOrigins {
		origin = strings.ToLower(strings.TrimSpace(origin))
		switch {
		case origin == "*":
			c.allowAll = true
		case strings.Count(origin, "*") == 1:
			prefix, suffix, _ := strings.Cut(origin, "*")
			c.patterns = append(c.patterns, [2]string{prefix, suffix})
		case origin != "":
			c.exact[origin] = true
		}
	}
	return c
}

// Middleware returns the CORS middleware function
func (c *CORSMiddleware) Middleware() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			allowed := c.isOriginAllowed(origin)
			h := w.Header()
			h.Add("Vary", "Origin")

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				if allowed {
					h.Set("Access-Control-Allow-Origin", origin)
					h.Set("Access-Control-Allow-Methods", c.allowedMethods)
					h.Set("Access-Control-Allow-Headers", c.allowedHeaders)
					h.Set("Access-Control-Max-Age", c.maxAge)
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			if allowed {
				h.Set("Access-Control-Allow-Origin", origin)
				if c.exposedHeaders != "" {
					h.Set("Access-Control-Expose-Headers", c.exposedHeaders)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (c *CORSMiddleware) isOriginAllowed(origin string) bool {
	if origin == "" {
		return false
	}
	if c.allowAll {
		return true
	}
	origin = strings.ToLower(origin)
	if c.exact[origin] {
		return true
	}
	for _, p := range c.patterns {
		if len(origin) > len(p[0])+len(p[1]) && strings.HasPrefix(origin, p[0]) && strings.HasSuffix(origin, p[1]) {
			return true
		}
	}
	return false
}
