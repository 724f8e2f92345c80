package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/d60-Lab/chirp/internal/service"
	"github.com/d60-Lab/chirp/pkg/logger"
)

func reconcileCmd() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Compare stored counters with edge counts and repair drift",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(false)
			if err != nil {
				return err
			}
			defer a.close()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			rec := service.NewCounterReconciler(a.repos.Counters, nil)
			var report service.Report
			if dryRun {
				report, err = rec.Check(ctx)
			} else {
				report, err = rec.Reconcile(ctx)
			}
			if err != nil {
				return err
			}

			for _, d := range report.Drift {
				fmt.Fprintf(cmd.OutOrStdout(), "%-16s %-36s stored=%d actual=%d\n", d.Counter, d.ID, d.Stored, d.Actual)
			}
			logger.Info("reconcile finished",
				zap.Bool("dry_run", dryRun),
				zap.Int("drift", len(report.Drift)),
				zap.Int("repaired", report.Repaired),
			)
			if dryRun && !report.Clean() {
				return fmt.Errorf("%d counters drifted", len(report.Drift))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report drift without repairing")
	return cmd
}
