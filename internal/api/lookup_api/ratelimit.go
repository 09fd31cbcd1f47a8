package lookup_api

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"
)

// rateLimit ограничивает публичную ручку по паре магазин+IP в рамках
// текущей минуты. Лимитер best-effort: если редис недоступен, запрос
// пропускается, страница трекинга важнее лимита.
func (a *LookupAPI) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.limiter == nil || a.limit <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		shop := r.URL.Query().Get("shop")
		key := fmt.Sprintf("rl:lookup:%s:%s:%s", shop, clientIP(r), time.Now().UTC().Format("200601021504"))

		allowed, _, err := a.limiter.Allow(r.Context(), key, a.limit, time.Minute)
		if err != nil {
			slog.Warn("rate limiter unavailable", "error", err.Error())
			next.ServeHTTP(w, r)
			return
		}
		if !allowed {
			writeJSON(w, http.StatusTooManyRequests, trackResponse{
				Success: false,
				Error:   "Too many requests. Please try again in a minute.",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
