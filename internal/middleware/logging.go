package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var rpcDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "mathnote_rpc_duration_seconds",
	Help:    "Latency of NotebookService calls by procedure and result code",
	Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
}, []string{"procedure", "code"})

// LoggingInterceptor returns a Connect interceptor that logs every RPC call
// and records its latency. Connect errors log at warn, anything else at error.
// Successful calls to the procedures listed in quiet log at debug.
func LoggingInterceptor(quiet ...string) connect.UnaryInterceptorFunc {
	debugOnly := make(map[string]bool, len(quiet))
	for _, p := range quiet {
		debugOnly[p] = true
	}

	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			procedure := req.Spec().Procedure

			resp, err := next(ctx, req)

			elapsed := time.Since(start)
			duration := elapsed.Milliseconds()
			code := "ok"
			if err != nil {
				code = connect.CodeOf(err).String()
			}
			rpcDuration.WithLabelValues(procedure, code).Observe(elapsed.Seconds())

			if err != nil {
				var connectErr *connect.Error
				if errors.As(err, &connectErr) {
					slog.Warn("RPC error",
						"procedure", procedure,
						"code", connectErr.Code(),
						"error", connectErr.Message(),
						"peer", req.Peer().Addr,
						"duration_ms", duration,
					)
				} else {
					slog.Error("RPC error",
						"procedure", procedure,
						"error", err,
						"peer", req.Peer().Addr,
						"duration_ms", duration,
					)
				}
				return resp, err
			}

			level := slog.LevelInfo
			if debugOnly[procedure] {
				level = slog.LevelDebug
			}
			slog.Log(ctx, level, "RPC ok",
				"procedure", procedure,
				"duration_ms", duration,
			)

			return resp, err
		}
	}
}
