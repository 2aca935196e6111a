package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/njchilds90/intbound"
	"github.com/njchilds90/intbound/internal/batch"
)

func newBatchCmd(opts *options, stdout io.Writer) *cobra.Command {
	var workers int
	cmd := &cobra.Command{
		Use:   "batch [--workers n] <jobs.yaml>",
		Short: "Run the searches listed in a YAML job file",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return &usageError{fmt.Errorf("expected one job file, got %d arguments", len(args))}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := batch.Load(args[0])
			if err != nil {
				return fmt.Errorf("%w: %w", intbound.ErrInvalidInput, err)
			}
			if !cmd.Flags().Changed("workers") {
				workers = opts.cfg.Workers
			}
			if f.Limit == 0 {
				f.Limit = opts.cfg.Limit
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runBatch(ctx, stdout, f, &batch.Runner{Workers: workers, Logger: opts.logger})
		},
	}
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "concurrent searches (default from config)")
	return cmd
}

// runBatch prints one line per job in file order and fails with the exit
// code of the worst job.
func runBatch(ctx context.Context, w io.Writer, f batch.File, r *batch.Runner) error {
	results, err := r.Run(ctx, f)
	if err != nil {
		return err
	}
	worst, failed := exitOK, 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			worst = max(worst, exitCode(res.Err))
			fmt.Fprintf(w, "%s: %s: %v\n", res.Job.Label(), intbound.Classify(res.Err), res.Err)
			continue
		}
		fmt.Fprintf(w, "%s: shift %d: %s\n", res.Job.Label(), res.Rendered.Shift, res.Rendered.Function)
	}
	if failed > 0 {
		return &exitError{code: worst, err: fmt.Errorf("%d of %d jobs failed", failed, len(results))}
	}
	return nil
}
