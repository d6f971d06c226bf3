package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"socialscribe/internal/cache"
	"socialscribe/internal/config"
)

var errNoSharedLimits = errors.New("VALKEY_HOST is not set; rate limits are kept in server memory")

// newResetLimitsCmd clears the shared rate-limit counters, for example
// after lowering RATE_LIMIT or unblocking a client.
func newResetLimitsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset-limits",
		Short: "Clear shared rate-limit counters in Valkey",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			setupLogger(cfg)

			if !cfg.SharedRateLimit() {
				return errNoSharedLimits
			}

			client, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
			if err != nil {
				return fmt.Errorf("connect to valkey: %w", err)
			}
			defer client.Close()

			counter := cache.NewRateCounter(client, cfg.RateLimit, cfg.RateWindow)
			if err := counter.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "rate limits cleared")
			return nil
		},
	}
}
