package middleware

import (
	"context"
	"time"

	"github.com/dmrramaral/sushi-app/metrics"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const metricsTimeout = 5 * time.Second

// Metrics records request count, latency and error counts per route.
func Metrics(client *metrics.Client, service string, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !client.IsEnabled() {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		duration := time.Since(start)
		status := c.Writer.Status()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		dims := map[string]string{
			"Service": service,
			"Method":  c.Request.Method,
			"Path":    path,
			"Status":  statusCodeToRange(status),
		}

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), metricsTimeout)
			defer cancel()

			errs := []error{
				client.Count(ctx, metrics.HTTPRequests, dims),
				client.Latency(ctx, metrics.HTTPLatency, duration, dims),
			}
			if status >= 400 {
				errs = append(errs, client.Count(ctx, metrics.HTTPErrors, dims))
				if status >= 500 {
					errs = append(errs, client.Count(ctx, metrics.HTTP5xx, dims))
				} else {
					errs = append(errs, client.Count(ctx, metrics.HTTP4xx, dims))
				}
			}
			for _, err := range errs {
				if err != nil {
					log.Debug("metric publish failed", zap.Error(err))
				}
			}
		}()
	}
}

// statusCodeToRange converts status code to a range string (2xx, 3xx, 4xx, 5xx)
func statusCodeToRange(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return "2xx"
	case statusCode >= 300 && statusCode < 400:
		return "3xx"
	case statusCode >= 400 && statusCode < 500:
		return "4xx"
	case statusCode >= 500:
		return "5xx"
	default:
		return "unknown"
	}
}
