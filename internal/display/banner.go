package display

import (
	"fmt"
	"os"

	"github.com/carmedia/carconv/internal/term"
)

// PrintBanner prints the ASCII art banner; cyan when colors are enabled.
func PrintBanner() {
	if term.Enabled() {
		fmt.Fprint(os.Stdout, term.Cyan)
	}
	fmt.Fprint(os.Stdout, `  ___ __ _ _ __ ___ ___  _ ____   __
 / __/ _`+"`"+` | '__/ __/ _ \| '_ \ \ / /
| (_| (_| | | | (_| (_) | | | \ V /
 \___\__,_|_|  \___\___/|_| |_|\_/
`)
	if term.Enabled() {
		fmt.Fprintln(os.Stdout, term.NC)
	}
}
