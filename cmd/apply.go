package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"campusctl/core/declaration"
	"campusctl/core/history"
	"campusctl/core/reconcile"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	applyFile    string
	applyCheck   bool
	applyWorkers int
	applyYes     bool
)

// applyCmd reconciles a declaration file against the controller.
var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply a declaration to the campus controller",
	Long: `Apply reconciles every unit in a declaration file against the controller.

For each unit the current object is resolved via its selector, diffed
field by field against the declared properties, and converged with at
most one mutation. Units that are already converged are left untouched.

Examples:
  # Preview the changes without mutating anything
  campusctl apply -f campus.yaml --check

  # Apply with interactive confirmation
  campusctl apply -f campus.yaml

  # Apply non-interactively with 4 parallel workers
  campusctl apply -f campus.yaml --yes --workers 4`,
	RunE: runApply,
}

func init() {
	applyCmd.Flags().StringVarP(&applyFile, "file", "f", "", "Declaration file to apply (required)")
	applyCmd.Flags().BoolVar(&applyCheck, "check", false, "Dry-run: report decisions without mutating")
	applyCmd.Flags().IntVar(&applyWorkers, "workers", 1, "Number of units reconciled in parallel")
	applyCmd.Flags().BoolVar(&applyYes, "yes", false, "Auto-confirm mutations (non-interactive)")
	_ = applyCmd.MarkFlagRequired("file")

	RootCmd.AddCommand(applyCmd)
}

func runApply(cmd *cobra.Command, args []string) error {
	// An interrupt aborts in-flight calls and skips units not yet started;
	// already finished mutations stand.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := newSession()
	if err != nil {
		return err
	}
	l := s.logger

	file, err := declaration.Load(applyFile)
	if err != nil {
		return fmt.Errorf("failed to load declaration: %w", err)
	}
	l.Info("Loaded declaration",
		zap.String("file", applyFile),
		zap.Int("units", len(file.Units)))

	if !applyCheck && !applyYes {
		if !confirmApply(len(file.Units)) {
			l.Warn("Operation cancelled by user. No changes were made.")
			return nil
		}
	}

	client, cleanup, err := s.connect(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	opts := reconcile.Options{
		DryRun:  applyCheck,
		Workers: applyWorkers,
	}

	started := time.Now()
	batch := reconcile.ApplyBatch(ctx, client, file.Units, opts)
	finished := time.Now()

	printBatchReport(l, batch, applyCheck)
	// Record even after an interrupt: the partial outcome is exactly what
	// the history is for.
	recordRun(context.WithoutCancel(ctx), s, batch, applyCheck, started, finished)

	if !batch.OK {
		return fmt.Errorf("reconciliation finished with failures")
	}
	return nil
}

// printBatchReport logs one line per unit plus a summary.
func printBatchReport(l *zap.Logger, batch reconcile.BatchResult, dryRun bool) {
	var applied, failed, skipped, converged int

	for i, res := range batch.Results {
		fields := []zap.Field{
			zap.Int("unit", i),
			zap.String("kind", string(res.Unit.Kind)),
			zap.String("name", res.Unit.Name()),
			zap.String("decision", string(res.Decision.Type)),
		}
		for _, fd := range res.Decision.Diff {
			fields = append(fields, zap.Any("field."+fd.Field, fd.New))
		}

		switch {
		case res.Skipped:
			skipped++
			l.Warn("Unit skipped", fields...)
		case res.Err != nil:
			failed++
			l.Error("Unit failed", append(fields, zap.Error(res.Err))...)
		case res.Decision.Type == reconcile.ChangeNone:
			converged++
			l.Info("Unit converged", fields...)
		case res.Applied:
			applied++
			l.Info("Unit applied", fields...)
		default:
			l.Info("Unit planned", fields...)
		}
	}

	l.Info("Reconciliation report",
		zap.Bool("dry_run", dryRun),
		zap.Int("units", len(batch.Results)),
		zap.Int("converged", converged),
		zap.Int("applied", applied),
		zap.Int("failed", failed),
		zap.Int("skipped", skipped),
	)
}

// recordRun persists the batch outcome. History failures are logged,
// never fatal: the mutations already happened.
func recordRun(ctx context.Context, s *session, batch reconcile.BatchResult, dryRun bool, started, finished time.Time) {
	if !s.cfg.History.Enabled {
		return
	}

	store, err := history.Open(s.cfg.History)
	if err != nil {
		s.logger.Warn("Failed to open history store", zap.Error(err))
		return
	}

	run := history.FromBatch(uuid.NewString(), batch, dryRun, started, finished)
	if err := store.Record(ctx, run); err != nil {
		s.logger.Warn("Failed to record run", zap.Error(err))
		return
	}
	s.logger.Debug("Recorded run", zap.String("run_id", run.ID))
}

// confirmApply prompts the user before mutating the controller.
func confirmApply(units int) bool {
	fmt.Printf("\nAbout to reconcile %d unit(s) against the controller. Type 'yes' to confirm: ", units)
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.TrimSpace(response) == "yes"
}
