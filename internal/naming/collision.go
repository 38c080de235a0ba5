package naming

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
)

// CollisionResolver tracks derived target names claimed by source files
// within one run and resolves duplicates by appending " - dupN" suffixes.
// Two sources like "beach.mp4" and "beach.avi" derive the same target name;
// without resolution the second would silently overwrite the first's
// output. All methods are goroutine-safe.
type CollisionResolver struct {
	mu     sync.Mutex
	owners map[string]string // target path → source path that owns it
}

// NewCollisionResolver creates a ready-to-use resolver.
func NewCollisionResolver() *CollisionResolver {
	return &CollisionResolver{owners: make(map[string]string)}
}

// Resolve returns the final target path for source, handling collisions.
// If requestedTarget is unclaimed (or already owned by source), it is
// returned as-is. Otherwise the first free " - dupN" variant is claimed.
// Resolve is idempotent per source, so restarted loops get stable answers.
func (cr *CollisionResolver) Resolve(source, requestedTarget string) string {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	owner, exists := cr.owners[requestedTarget]
	if !exists || owner == source {
		cr.owners[requestedTarget] = source
		return requestedTarget
	}

	dir := filepath.Dir(requestedTarget)
	base := filepath.Base(requestedTarget)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	// Scan from dup1 each time so a source that already claimed a variant
	// gets the same one back.
	for counter := 1; ; counter++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s - dup%d%s", stem, counter, ext))
		cOwner, cExists := cr.owners[candidate]
		if !cExists || cOwner == source {
			cr.owners[candidate] = source
			return candidate
		}
	}
}
