package pipeline

import "fmt"

// Status classifies what happened to one source file during the convert
// phase.
type Status int

const (
	// Converted: the transcoder produced a new output file.
	Converted Status = iota
	// Copied: the source already met the profile and was reused verbatim.
	Copied
	// SkippedExisting: a compatible output already existed; nothing done.
	SkippedExisting
	// Failed: probe, copy, or transcode failed; the source is untouched.
	Failed
)

func (s Status) String() string {
	switch s {
	case Converted:
		return "converted"
	case Copied:
		return "copied"
	case SkippedExisting:
		return "skipped-existing"
	default:
		return "failed"
	}
}

// Outcome records the result of processing one source file. One is
// produced per file per run; the run summary is aggregated from these.
type Outcome struct {
	SourcePath string
	TargetPath string
	Status     Status
	Err        error // Set only when Status == Failed.
}

func (o Outcome) String() string {
	if o.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", o.SourcePath, o.Status, o.Err)
	}
	return fmt.Sprintf("%s: %s", o.SourcePath, o.Status)
}
