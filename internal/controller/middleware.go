package controller

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// accessLog пишет структурированный лог на каждый запрос.
func accessLog(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			logger.Info("HTTP request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}

// RateLimiter — fixed-window лимитер на Redis для публичной формы.
// При недоступном Redis запросы пропускаются (fail-open): лимитер защищает
// от спама, а не обеспечивает корректность.
type RateLimiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
	logger *zap.Logger
}

var fixedWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

func NewRateLimiter(rdb *redis.Client, perMinute int, logger *zap.Logger) *RateLimiter {
	if perMinute <= 0 {
		perMinute = 30
	}
	return &RateLimiter{
		rdb:    rdb,
		limit:  perMinute,
		window: time.Minute,
		logger: logger,
	}
}

// Middleware ограничивает количество запросов с одного IP в окне.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := "rl:bookings:" + clientIP(r)

		res, err := fixedWindowScript.Run(r.Context(), rl.rdb, []string{key}, rl.window.Milliseconds()).Result()
		if err != nil {
			rl.logger.Warn("Rate limiter unavailable, letting request through", zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}

		count, _ := res.(int64)
		if count > int64(rl.limit) {
			writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "Too many requests."})
			return
		}

		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
