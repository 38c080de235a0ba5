package pipeline

import (
	"path/filepath"

	"github.com/carmedia/carconv/internal/config"
	"github.com/carmedia/carconv/internal/display"
	"github.com/carmedia/carconv/internal/logging"
	"github.com/carmedia/carconv/internal/naming"
)

// pendingDisplayLimit caps how many pending filenames the status report
// prints before collapsing to a count.
const pendingDisplayLimit = 10

// Audit compares the two directories by normalized key and returns the
// progress summary plus the list of originals with no converted
// counterpart. Read-only; safe to run at any time, including while a
// convert phase is in flight elsewhere.
func Audit(cfg *config.Config) (Summary, []string, error) {
	var summary Summary

	originals, err := DiscoverSources(cfg.SourceDir)
	if err != nil {
		return summary, nil, err
	}
	converted, err := DiscoverConverted(cfg.TargetDir)
	if err != nil {
		return summary, nil, err
	}

	convertedKeys := make(map[string]bool, len(converted))
	for _, p := range converted {
		convertedKeys[naming.Normalize(filepath.Base(p))] = true
	}

	var pending []string
	for _, p := range originals {
		if !convertedKeys[naming.Normalize(filepath.Base(p))] {
			pending = append(pending, p)
		}
	}

	summary.Processed = len(originals)
	summary.Converted = len(converted)
	summary.Pending = len(pending)
	return summary, pending, nil
}

// RunStatus renders the audit the way the legacy progress script did:
// counts, percentage, and the first few pending names.
func RunStatus(cfg *config.Config, log *logging.Logger) (Summary, error) {
	summary, pending, err := Audit(cfg)
	if err != nil {
		return summary, err
	}

	log.Info("Conversion status:")
	log.Info("  Originals: %d", summary.Processed)
	log.Info("  Converted: %d", summary.Converted)
	log.Info("  Pending:   %d", summary.Pending)
	log.Info("  Progress:  %s", display.FormatPercent(summary.Processed-summary.Pending, summary.Processed))

	if len(pending) == 0 {
		log.Success("All originals have a converted counterpart")
		return summary, nil
	}

	log.Info("Pending conversion:")
	for i, p := range pending {
		if i == pendingDisplayLimit {
			log.Info("  … and %d more", len(pending)-pendingDisplayLimit)
			break
		}
		log.Info("  - %s", filepath.Base(p))
	}
	return summary, nil
}
