package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sergii-sakharov/ratelimiter/internal/testutil"
	"github.com/sergii-sakharov/ratelimiter/ratelimiter"
)

func newSimulateCmd() *cobra.Command {
	var (
		variant    string
		rate       float64
		maxBurst   float64
		warmup     time.Duration
		coldFactor float64
		calls      int
		idle       time.Duration
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Replay an acquire sequence against a fake clock and print its wait trace",
		Long: `simulate builds a rate limiter against a manually-advanced clock and issues a
sequence of single-permit Acquire calls, printing one line per event:

  U<seconds>  an idle gap advanced before the acquire sequence started
  R<seconds>  the wait time reported by an Acquire call

This reproduces the trace format used to describe the engine's behavior, without
waiting out any real time.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			stopwatch := &testutil.FakeStopwatch{}

			var builder ratelimiter.Builder
			switch variant {
			case "bursty":
				builder = ratelimiter.NewBurstyBuilderWithMaxBurst(rate, maxBurst)
			case "warmup":
				builder = ratelimiter.NewWarmingUpBuilderWithColdFactor(rate, warmup, coldFactor)
			default:
				return fmt.Errorf("unknown variant %q (want bursty or warmup)", variant)
			}

			limiter, err := builder.WithStopwatch(stopwatch).Build()
			if err != nil {
				return err
			}

			if idle > 0 {
				stopwatch.Advance(idle)
				fmt.Fprintf(cmd.OutOrStdout(), "U%.2f\n", idle.Seconds())
			}

			for i := 0; i < calls; i++ {
				d, err := limiter.Acquire()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "R%.2f\n", d.Seconds())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&variant, "variant", "bursty", "limiter variant: bursty or warmup")
	cmd.Flags().Float64Var(&rate, "rate", 5.0, "permits per second")
	cmd.Flags().Float64Var(&maxBurst, "max-burst", 1.0, "bursty: max burst capacity, in seconds of rate")
	cmd.Flags().DurationVar(&warmup, "warmup", 10*time.Second, "warmup: warmup period")
	cmd.Flags().Float64Var(&coldFactor, "cold-factor", 3.0, "warmup: cold factor (must be >= 1)")
	cmd.Flags().IntVar(&calls, "calls", 3, "number of single-permit Acquire calls to issue")
	cmd.Flags().DurationVar(&idle, "idle", 0, "idle gap to advance the clock by before acquiring")

	return cmd
}
