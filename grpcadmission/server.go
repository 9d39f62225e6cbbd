// Package grpcadmission wires a ratelimiter.RateLimiter into gRPC's server admission path, so
// over-budget unary calls are rejected instead of queued indefinitely behind the handler.
package grpcadmission

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/tap"

	"github.com/sergii-sakharov/ratelimiter/internal/logging"
	"github.com/sergii-sakharov/ratelimiter/ratelimiter"
)

// UnaryServerInterceptor returns a gRPC unary server interceptor that gates every call behind
// limiter, waiting up to timeout for a permit before rejecting with codes.ResourceExhausted. A
// zero timeout rejects immediately instead of queuing. log may be nil, in which case rejections
// are not logged.
func UnaryServerInterceptor(limiter ratelimiter.RateLimiter, timeout time.Duration, log *logging.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		ok, err := limiter.TryAcquireWithTimeout(timeout)
		if err != nil {
			return nil, status.Errorf(codes.Internal, "ratelimiter: %v", err)
		}
		if !ok {
			if log != nil {
				log.Warn().Str("method", info.FullMethod).Msg("rate limit exceeded, rejecting call")
			}
			return nil, status.Errorf(codes.ResourceExhausted, "rate limit exceeded for %s", info.FullMethod)
		}
		return handler(ctx, req)
	}
}

// TapHandle returns a tap.ServerInHandle that rejects a connection before its message is even
// read off the wire, wrapping an optional existing serverInHandle (called only once a permit has
// been acquired). This is the cheaper rejection point: a tap handle runs ahead of message
// decoding, so a rejected call never pays the cost of unmarshaling a request it won't serve.
func TapHandle(limiter ratelimiter.RateLimiter, timeout time.Duration, log *logging.Logger, serverInHandle tap.ServerInHandle) tap.ServerInHandle {
	return func(ctx context.Context, info *tap.Info) (context.Context, error) {
		ok, err := limiter.TryAcquireWithTimeout(timeout)
		if err != nil {
			return ctx, status.Errorf(codes.Internal, "ratelimiter: %v", err)
		}
		if !ok {
			if log != nil {
				log.Warn().Str("method", info.FullMethodName).Msg("rate limit exceeded, refusing connection")
			}
			return ctx, status.Errorf(codes.ResourceExhausted, "rate limit exceeded for %s", info.FullMethodName)
		}
		if serverInHandle != nil {
			return serverInHandle(ctx, info)
		}
		return ctx, nil
	}
}
