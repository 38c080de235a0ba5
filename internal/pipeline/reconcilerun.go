package pipeline

import (
	"context"
	"path/filepath"

	"github.com/carmedia/carconv/internal/config"
	"github.com/carmedia/carconv/internal/deleter"
	"github.com/carmedia/carconv/internal/display"
	"github.com/carmedia/carconv/internal/logging"
	"github.com/carmedia/carconv/internal/reconcile"
)

// RunReconcile is the reconcile-phase entry point: snapshot both
// directories, build the deletion plan, and execute it. It must never run
// concurrently with a convert phase over the same directories — a delete
// racing a half-finished copy would discard an original that has no valid
// counterpart yet — so the CLI only ever invokes one phase per process.
func RunReconcile(ctx context.Context, cfg *config.Config, log *logging.Logger) (Summary, error) {
	var summary Summary

	originals, err := DiscoverSources(cfg.SourceDir)
	if err != nil {
		return summary, err
	}
	converted, err := DiscoverConverted(cfg.TargetDir)
	if err != nil {
		return summary, err
	}

	log.Info("Reconciling %d originals against %d converted files", len(originals), len(converted))
	if len(converted) == 0 {
		log.Warn("No converted files found in %s; nothing to reconcile", cfg.TargetDir)
		return summary, nil
	}

	plan := reconcile.Reconcile(originals, converted, cfg.MatchThreshold)
	logPlan(log, plan)

	if cfg.DryRun {
		log.Warn("DRY RUN — would delete %d originals", len(plan.Matches))
		summary.Pending = len(plan.UnmatchedOriginals)
		return summary, nil
	}

	backoff := deleter.Backoff{
		MaxAttempts: cfg.DeleteAttempts,
		Delay:       cfg.DeleteDelay,
	}
	results := deleter.Apply(ctx, plan.Matches, backoff)
	for _, res := range results {
		if res.Deleted {
			summary.Deleted++
			log.Debug("Deleted original: %s", filepath.Base(res.Path))
			continue
		}
		summary.Failed++
		log.Error("%v", res.Err)
	}

	summary.Pending = len(plan.UnmatchedOriginals)

	log.Info("==============================")
	log.Info("Reconciliation done: %d deleted, %d failed, %d originals unmatched",
		summary.Deleted, summary.Failed, len(plan.UnmatchedOriginals))
	return summary, nil
}

// logPlan reports every accepted pairing and everything left unmatched.
// The plan is the last audit point before originals are destroyed, so it is
// always logged in full.
func logPlan(log *logging.Logger, plan reconcile.Plan) {
	for _, m := range plan.Matches {
		if m.Kind == reconcile.Exact {
			log.Info("Match (exact): %s -> %s",
				filepath.Base(m.OriginalPath), filepath.Base(m.ConvertedPath))
		} else {
			log.Info("Match (partial, %s): %s -> %s",
				display.FormatScore(m.Score),
				filepath.Base(m.OriginalPath), filepath.Base(m.ConvertedPath))
		}
	}
	for _, p := range plan.UnmatchedOriginals {
		log.Warn("No converted counterpart for: %s", filepath.Base(p))
	}
	for _, p := range plan.UnmatchedConverted {
		log.Warn("Converted file matches no original: %s", filepath.Base(p))
	}
}
