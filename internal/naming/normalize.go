// Package naming owns filename policy: the derived target name for
// converted files, the lossy normalized key used to match converted
// outputs back to their originals, and collision resolution for derived
// names.
package naming

import (
	"path/filepath"
	"regexp"
	"strings"
)

const (
	// Suffix marks files produced for the car-player profile.
	Suffix = "_car_compatible"
	// OutputExt is the fixed output container; sources keep it regardless
	// of their own container.
	OutputExt = ".mp4"
)

// TargetName derives the output filename for a source file:
// "<stem>_car_compatible.mp4".
func TargetName(sourceName string) string {
	stem := strings.TrimSuffix(sourceName, filepath.Ext(sourceName))
	return stem + Suffix + OutputExt
}

// IsConverted reports whether name carries the derived-output shape.
func IsConverted(name string) bool {
	return strings.HasSuffix(name, Suffix+OutputExt)
}

var (
	// Parenthesized technical annotations, e.g. "(1080p_25fps_h264)".
	reParenAnnotation = regexp.MustCompile(`\([^)]*\)`)
	// Bare technical runs earlier pipeline versions injected without
	// parentheses, e.g. "720p_30fps_vp9".
	reTechRun = regexp.MustCompile(`\d+p_\d+fps_[^-_\s]*`)
	// Everything outside [a-z0-9] after case folding.
	reNonAlnum = regexp.MustCompile(`[^a-z0-9]`)
	// Alphanumeric token runs, for tie-break comparison.
	reToken = regexp.MustCompile(`[A-Za-z0-9]+`)
)

// Normalize canonicalizes a filename into a comparison key. The steps, in
// order: strip the extension, strip the derived-output suffix, strip
// parenthesized annotations, strip bare technical runs, lower-case, drop
// everything outside [a-z0-9].
//
// The result is lossy on purpose: two names a human would call the same
// asset should collapse to one key, even at the cost of occasionally
// collapsing distinct assets. Keys are never shown to users or persisted.
func Normalize(filename string) string {
	name := strings.TrimSuffix(filename, filepath.Ext(filename))
	name = strings.ReplaceAll(name, Suffix, "")
	name = reParenAnnotation.ReplaceAllString(name, "")
	name = reTechRun.ReplaceAllString(name, "")
	name = strings.ToLower(name)
	return reNonAlnum.ReplaceAllString(name, "")
}

// Tokens splits a filename into its significant alphanumeric runs (length
// >= 4 after lower-casing), applied to the same pre-cleaned form Normalize
// uses. Used as a secondary matching signal.
func Tokens(filename string) []string {
	name := strings.TrimSuffix(filename, filepath.Ext(filename))
	name = strings.ReplaceAll(name, Suffix, "")
	name = reParenAnnotation.ReplaceAllString(name, "")
	name = reTechRun.ReplaceAllString(name, "")

	var out []string
	for _, tok := range reToken.FindAllString(name, -1) {
		if len(tok) >= 4 {
			out = append(out, strings.ToLower(tok))
		}
	}
	return out
}
