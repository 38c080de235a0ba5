// Package deleter executes a deletion plan with bounded retry. Deletions
// are the only irreversible step in the pipeline, so the rules are strict:
// each accepted original is removed exactly once, an already-absent path is
// a success (idempotence), and a locked file is retried with fixed backoff
// before being reported — never silently dropped, never fatal to the run.
package deleter

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/carmedia/carconv/internal/reconcile"
)

// Backoff is the retry policy for contended deletions.
type Backoff struct {
	MaxAttempts int           // Total attempts per path.
	Delay       time.Duration // Fixed spacing between attempts.
}

// DefaultBackoff matches the legacy scripts: 5 attempts, 1 second apart.
var DefaultBackoff = Backoff{MaxAttempts: 5, Delay: time.Second}

// Result records the outcome of one planned deletion.
type Result struct {
	Path    string
	Deleted bool
	Err     error // nil on success; *Error after exhausted retries.
}

// Error is the deletion failure type, reported after the backoff policy is
// exhausted.
type Error struct {
	Path     string
	Attempts int
	Cause    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("delete %s: giving up after %d attempts: %v", e.Path, e.Attempts, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// Apply deletes each accepted original in plan order and returns one Result
// per candidate. Cancellation is honored between attempts; remaining
// entries after cancellation are reported as not deleted with the context
// error.
func Apply(ctx context.Context, matches []reconcile.Candidate, b Backoff) []Result {
	if b.MaxAttempts < 1 {
		b.MaxAttempts = 1
	}

	results := make([]Result, 0, len(matches))
	for _, m := range matches {
		if err := ctx.Err(); err != nil {
			results = append(results, Result{Path: m.OriginalPath, Err: err})
			continue
		}
		results = append(results, remove(ctx, m.OriginalPath, b))
	}
	return results
}

// remove attempts one path under the backoff policy.
func remove(ctx context.Context, path string, b Backoff) Result {
	var lastErr error
	for attempt := 1; attempt <= b.MaxAttempts; attempt++ {
		err := os.Remove(path)
		if err == nil || errors.Is(err, fs.ErrNotExist) {
			// Already-gone counts as deleted: re-running a plan whose
			// targets were removed by an earlier run is a no-op success.
			return Result{Path: path, Deleted: true}
		}
		lastErr = err

		if attempt == b.MaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return Result{Path: path, Err: ctx.Err()}
		case <-time.After(b.Delay):
		}
	}
	return Result{
		Path: path,
		Err:  &Error{Path: path, Attempts: b.MaxAttempts, Cause: lastErr},
	}
}
