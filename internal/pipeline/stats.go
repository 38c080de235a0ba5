package pipeline

// Summary aggregates per-file outcomes into the run-level counters the CLI
// reports. Built incrementally during a run; recomputable at any time from
// directory state, so nothing here is persisted.
type Summary struct {
	Processed       int
	Converted       int
	Copied          int
	SkippedExisting int
	Failed          int
	Deleted         int
	Pending         int

	// Byte totals for the space report (convert phase only).
	TotalSourceBytes int64
	TotalTargetBytes int64
}

// Add folds one outcome into the counters.
func (s *Summary) Add(o Outcome) {
	s.Processed++
	switch o.Status {
	case Converted:
		s.Converted++
	case Copied:
		s.Copied++
	case SkippedExisting:
		s.SkippedExisting++
	case Failed:
		s.Failed++
	}
}

// SpaceSaved returns the byte difference between sources and outputs.
// Positive means the converted set is smaller.
func (s *Summary) SpaceSaved() int64 {
	return s.TotalSourceBytes - s.TotalTargetBytes
}
