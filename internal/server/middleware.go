package server

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Houeta/employee-gateway/internal/metrics"
)

// requestLogger logs every served request and observes its duration per route.
func requestLogger(log *slog.Logger, metrics *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				// lets the error handler write the response so the status is known
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()
			elapsed := time.Since(start)
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}

			if metrics != nil {
				metrics.HTTPDuration.WithLabelValues(req.Method, route, strconv.Itoa(res.Status)).Observe(elapsed.Seconds())
			}

			level := slog.LevelInfo
			if res.Status >= 500 {
				level = slog.LevelError
			}
			log.Log(req.Context(), level, "Request served",
				slog.String("request_id", res.Header().Get(echo.HeaderXRequestID)),
				slog.String("method", req.Method),
				slog.String("uri", req.RequestURI),
				slog.String("route", route),
				slog.Int("status", res.Status),
				slog.Duration("latency", elapsed),
				slog.String("remote_ip", c.RealIP()),
			)

			return nil
		}
	}
}
