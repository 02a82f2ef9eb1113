package middleware

import (
	"net/http"

	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RateLimit returns an in-memory per-IP rate limiter middleware.
// rate uses limiter's formatted syntax, e.g. "20-M" for 20 per minute.
func RateLimit(rate string) func(http.Handler) http.Handler {
	r, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		panic("invalid rate limit format: " + rate)
	}

	instance := limiter.New(memory.NewStore(), r)
	mw := stdlib.NewMiddleware(instance)

	return func(next http.Handler) http.Handler {
		return mw.Handler(next)
	}
}
