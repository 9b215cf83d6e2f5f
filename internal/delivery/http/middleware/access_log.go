package middleware

import (
	"log"
	"time"

	"skill-swap/internal/infrastructure/metrics"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const HeaderRequestID = "X-Request-ID"

type AccessLogMiddleware struct {
	logger  *log.Logger
	metrics *metrics.Metrics
}

func NewAccessLogMiddleware(logger *log.Logger, m *metrics.Metrics) *AccessLogMiddleware {
	if logger == nil {
		logger = log.Default()
	}
	return &AccessLogMiddleware{logger: logger, metrics: m}
}

// Middleware assigns a request id, then logs and counts the request once the
// rest of the chain, including error rendering, has run.
func (m *AccessLogMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()

		rid := c.Get(HeaderRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(HeaderRequestID, rid)
		c.Locals(HeaderRequestID, rid)

		err := c.Next()

		dur := time.Since(start)
		status := c.Response().StatusCode()
		route := c.Route().Path

		m.metrics.ObserveHTTP(c.Method(), route, status, dur)
		m.logger.Printf(
			"HTTP access | rid=%s ip=%s method=%s path=%s route=%s status=%d latency=%s resp_bytes=%d ua=%q",
			rid, c.IP(), c.Method(), c.OriginalURL(), route, status, dur, len(c.Response().Body()), c.Get("User-Agent"),
		)

		return err
	}
}

func requestID(c fiber.Ctx) string {
	if rid, ok := c.Locals(HeaderRequestID).(string); ok {
		return rid
	}
	return c.Get(HeaderRequestID)
}
