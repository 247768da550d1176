// Package main runs the flash-sale attack harness against a running simulator.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/fairyhunter13/flash-sale-simulator/internal/attack"
	"github.com/fairyhunter13/flash-sale-simulator/internal/obs"
)

func newRootCommand() *cobra.Command {
	var (
		target string
		users  int
		stock  int64
	)
	cmd := &cobra.Command{
		Use:   "flash-sale-attack",
		Short: "Launch concurrent purchase traffic against both decrement methods",
		Long: "Resets stock, fires a burst of concurrent purchases against the unsafe " +
			"and then the safe endpoint, and reports the correctness difference.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if users <= 0 {
				return fmt.Errorf("--users must be positive")
			}
			if stock < 0 {
				return fmt.Errorf("--stock must not be negative")
			}
			ctx := cmd.Context()
			runner := attack.NewRunner(target, users, stock)

			obs.Logger.Info("attack_begin", "target", target, "users", users, "initial_stock", stock)

			obs.Logger.Info("attack_run", "variant", string(attack.VariantUnsafe))
			unsafeRes, err := runner.Run(ctx, attack.VariantUnsafe)
			if err != nil {
				return err
			}

			// Let in-flight unsafe writes land before the next reset.
			time.Sleep(time.Second)

			obs.Logger.Info("attack_run", "variant", string(attack.VariantSafe))
			safeRes, err := runner.Run(ctx, attack.VariantSafe)
			if err != nil {
				return err
			}

			attack.WriteReport(cmd.OutOrStdout(), unsafeRes, safeRes, stock)
			return nil
		},
	}
	cmd.Flags().StringVar(&target, "target", "http://localhost:8080", "base URL of the simulator")
	cmd.Flags().IntVar(&users, "users", attack.DefaultUsers, "number of concurrent purchase attempts")
	cmd.Flags().Int64Var(&stock, "stock", attack.DefaultInitialStock, "initial stock per run")
	return cmd
}

func main() {
	obs.InitConsoleLogger()
	if err := newRootCommand().Execute(); err != nil {
		obs.Logger.Error("attack_failed", "error", err)
		os.Exit(1)
	}
}
