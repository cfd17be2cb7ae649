package middleware

import (
	"HomeFinder/pkg/response"
	"github.com/gofiber/fiber/v2"
	"net/http"
	"time"
)

var (
	ErrTooManyRequests = response.NewError(http.StatusTooManyRequests, "too many requests")
)

func (m *middleware) NewRateLimiter(ctx *fiber.Ctx) error {
	clientIP := ctx.IP()
	limiter := m.rateLimitter.GetLimiterFrom(clientIP)

	if !limiter.Allow() {
		m.log.Warnf("too many requests for IP %s", clientIP)
		return ctx.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error": "Too many requests",
		})
	}

	return ctx.Next()
}

// SweepRateLimits forgets client IPs that have gone quiet.
func (m *middleware) SweepRateLimits(now time.Time) int {
	return m.rateLimitter.Sweep(now)
}
