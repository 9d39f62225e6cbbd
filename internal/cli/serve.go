package cli

import (
	"net"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"

	"github.com/sergii-sakharov/ratelimiter/grpcadmission"
	"github.com/sergii-sakharov/ratelimiter/ratelimiter"
)

func newServeCmd() *cobra.Command {
	var (
		addr       string
		variant    string
		rate       float64
		maxBurst   float64
		warmup     time.Duration
		coldFactor float64
		timeout    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start a gRPC server admission-gated by a rate limiter",
		Long: `serve starts a bare gRPC server with no services registered, wired with the
grpcadmission admission interceptor and tap handle so the rate limiter rejects
connections and unary calls once its budget is exhausted. It exists to exercise the
admission path end to end; point a grpcurl reflection or health check at it to see
codes.ResourceExhausted once the configured rate is exceeded.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var builder ratelimiter.Builder
			switch variant {
			case "bursty":
				builder = ratelimiter.NewBurstyBuilderWithMaxBurst(rate, maxBurst)
			case "warmup":
				builder = ratelimiter.NewWarmingUpBuilderWithColdFactor(rate, warmup, coldFactor)
			default:
				return &invalidVariantError{variant}
			}

			limiter, err := builder.Build()
			if err != nil {
				return err
			}

			log := GetLogger()
			server := grpc.NewServer(
				grpc.UnaryInterceptor(grpcadmission.UnaryServerInterceptor(limiter, timeout, log)),
				grpc.InTapHandle(grpcadmission.TapHandle(limiter, timeout, log, nil)),
			)

			listener, err := net.Listen("tcp", addr)
			if err != nil {
				return err
			}

			log.Info().Str("addr", addr).Float64("rate", rate).Str("variant", variant).
				Msg("admission-gated gRPC server listening")
			return server.Serve(listener)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":50051", "listen address")
	cmd.Flags().StringVar(&variant, "variant", "bursty", "limiter variant: bursty or warmup")
	cmd.Flags().Float64Var(&rate, "rate", 100.0, "permits per second")
	cmd.Flags().Float64Var(&maxBurst, "max-burst", 1.0, "bursty: max burst capacity, in seconds of rate")
	cmd.Flags().DurationVar(&warmup, "warmup", 10*time.Second, "warmup: warmup period")
	cmd.Flags().Float64Var(&coldFactor, "cold-factor", 3.0, "warmup: cold factor (must be >= 1)")
	cmd.Flags().DurationVar(&timeout, "admission-timeout", 0, "max wait for a permit before rejecting a call")

	return cmd
}

type invalidVariantError struct{ variant string }

func (e *invalidVariantError) Error() string {
	return "unknown variant " + e.variant + " (want bursty or warmup)"
}
