package middleware

import (
	"context"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/halfsies/internal/metrics"
)

// MetricsInterceptor returns a Connect interceptor that counts calls and
// their latency. Successful calls are recorded with code "ok".
func MetricsInterceptor(m *metrics.Metrics) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			code := "ok"
			if err != nil {
				code = connect.CodeOf(err).String()
			}
			m.ObserveRequest(req.Spec().Procedure, code, time.Since(start).Seconds())
			return resp, err
		}
	}
}
